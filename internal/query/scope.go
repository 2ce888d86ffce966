// Package query validates clause trees against a configuration
// snapshot and evaluates them to matching issue sets. Evaluation is a
// pure function of the snapshot, the issue universe, and the clause
// tree; the first error in left-to-right depth-first order aborts the
// whole query.
package query

import (
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// Scope is the dynamic (project-set, issue-type-set) narrowing derived
// from sibling AND clauses. A nil set means unconstrained.
type Scope struct {
	Projects   []int64
	IssueTypes []int64
}

// narrow intersects this scope with additional constraints from an AND
// branch. Empty constraint sets leave the axis unchanged.
func (s Scope) narrow(projects, types []int64) Scope {
	out := s
	if len(projects) > 0 {
		out.Projects = intersectIDs(s.Projects, projects)
	}
	if len(types) > 0 {
		out.IssueTypes = intersectIDs(s.IssueTypes, types)
	}
	return out
}

func intersectIDs(a, b []int64) []int64 {
	if a == nil {
		return append([]int64(nil), b...)
	}
	have := make(map[int64]bool, len(a))
	for _, id := range a {
		have[id] = true
	}
	var out []int64
	for _, id := range b {
		if have[id] {
			out = append(out, id)
		}
	}
	if out == nil {
		out = []int64{} // empty, not unconstrained
	}
	return out
}

// deriveScope extracts the project and issue-type constraints literal
// `project = X` / `type in (...)` comparisons place on an AND branch.
// Only positive membership operators narrow; resolution failures are
// ignored here because the offending clause reports its own error when
// it is validated.
func (e *Engine) deriveScope(children []model.Clause, parent Scope) Scope {
	out := parent
	for _, child := range children {
		comp, ok := child.(*model.Comparison)
		if !ok {
			continue
		}
		if comp.Op != model.OpEquals && comp.Op != model.OpIn {
			continue
		}
		f := e.snap.FieldByName(comp.Field)
		if f == nil {
			continue
		}
		switch f.Type {
		case model.TypeProject:
			if ids := e.resolveScopeIDs(f, comp.Operands); len(ids) > 0 {
				out = out.narrow(ids, nil)
			}
		case model.TypeIssueType:
			if ids := e.resolveScopeIDs(f, comp.Operands); len(ids) > 0 {
				out = out.narrow(nil, ids)
			}
		}
	}
	return out
}

func (e *Engine) resolveScopeIDs(f *registry.Field, operands []model.Operand) []int64 {
	var ids []int64
	for _, op := range operands {
		values, err := e.resolver.Resolve(f, op)
		if err != nil {
			continue
		}
		for _, v := range values {
			if v.Kind == model.KindID {
				ids = append(ids, v.ID)
			}
		}
	}
	return ids
}
