package registry

// Context resolution: deciding whether a custom field is searchable for
// a given (project, issue type) scope, and which context binding
// governs it. System fields are in scope everywhere.

// ContextsFor returns the context bindings configured for a field.
func (s *Snapshot) ContextsFor(fieldID string) []Context {
	return append([]Context(nil), s.contextsByField[fieldID]...)
}

// covers reports whether the context applies to the (project, type)
// pair. A zero id acts as a wildcard on that axis, as does an empty
// (global) id set on the context.
func (c *Context) covers(projectID, typeID int64) bool {
	if len(c.ProjectIDs) > 0 && projectID != 0 && !containsID(c.ProjectIDs, projectID) {
		return false
	}
	if len(c.IssueTypeIDs) > 0 && typeID != 0 && !containsID(c.IssueTypeIDs, typeID) {
		return false
	}
	return true
}

// specificity scores a context for most-specific-wins selection:
// project+type > project-only > type-only > global.
func (c *Context) specificity() int {
	score := 0
	if len(c.ProjectIDs) > 0 {
		score += 2
	}
	if len(c.IssueTypeIDs) > 0 {
		score++
	}
	return score
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ContextFor picks the governing context for a concrete (project, type)
// pair. The most specific covering context wins; two covering contexts
// at the same specificity are an ambiguous configuration and resolve to
// nothing.
func (s *Snapshot) ContextFor(fieldID string, projectID, typeID int64) *Context {
	var best *Context
	bestScore, tied := -1, false
	for i := range s.contextsByField[fieldID] {
		ctx := &s.contextsByField[fieldID][i]
		if !ctx.covers(projectID, typeID) {
			continue
		}
		switch score := ctx.specificity(); {
		case score > bestScore:
			best, bestScore, tied = ctx, score, false
		case score == bestScore:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return best
}

// InScope reports whether the field is searchable for the given scope.
// The scope's project set is first narrowed to projects the user may
// browse; an explicitly constrained scope requires every remaining
// (project, type) combination to resolve to a context, while an
// unconstrained scope needs any visible coverage at all. A zero-length
// type set means all types.
func (s *Snapshot) InScope(f *Field, user string, projectIDs, issueTypeIDs []int64) bool {
	if f.CustomID == 0 {
		return true
	}
	if len(s.contextsByField[f.ID]) == 0 {
		return false
	}

	explicit := len(projectIDs) > 0
	var projects []int64
	if explicit {
		for _, p := range projectIDs {
			if s.CanBrowse(user, p) {
				projects = append(projects, p)
			}
		}
		// A requested project the user cannot see fails the whole scope.
		if len(projects) != len(projectIDs) {
			return false
		}
	} else {
		projects = s.VisibleProjectIDs(user)
	}
	if len(projects) == 0 {
		return false
	}

	types := issueTypeIDs
	if len(types) == 0 {
		types = []int64{0} // wildcard
	}

	for _, p := range projects {
		for _, t := range types {
			covered := s.ContextFor(f.ID, p, t) != nil
			if explicit && !covered {
				return false
			}
			if !explicit && covered {
				return true
			}
		}
	}
	return explicit
}
