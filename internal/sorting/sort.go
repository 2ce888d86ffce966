// Package sorting orders evaluated issue sets by ORDER BY terms.
// Each field carries a documented default direction used when the term
// omits one; successive terms act as tie-breakers. Issues without a
// value for a term sort as one contiguous group after every valued
// issue, and direction reversal moves the whole group.
package sorting

import (
	"sort"
	"strconv"
	"strings"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// term is one fully resolved ORDER BY key.
type term struct {
	field *registry.Field
	desc  bool
}

// Sort returns the issues ordered by the given terms. The input slice
// is not modified. Ties beyond the last term keep their incoming order.
func Sort(snap *registry.Snapshot, issues []*model.Issue, orderBy []model.SortField) ([]*model.Issue, *model.QueryError) {
	terms, qerr := resolveTerms(snap, orderBy)
	if qerr != nil {
		return nil, qerr
	}

	out := append([]*model.Issue(nil), issues...)
	sort.SliceStable(out, func(i, j int) bool {
		for _, t := range terms {
			c := compareIssues(snap, out[i], out[j], t.field)
			if t.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

func resolveTerms(snap *registry.Snapshot, orderBy []model.SortField) ([]term, *model.QueryError) {
	var terms []term
	for _, sf := range orderBy {
		group := snap.SortFieldsByName(sf.Field)
		if len(group) == 0 {
			return nil, model.NewFieldNotFound(sf.Field)
		}
		for _, f := range group {
			if !f.Orderable {
				return nil, model.NewFieldNotOrderable(sf.Field)
			}
		}
		if len(group) > 1 {
			// Several custom fields share this display name. Each applies
			// as a successive ascending tie-break in field-id order and the
			// requested direction is ignored. Address a field as cf[id] to
			// control its direction.
			for _, f := range group {
				terms = append(terms, term{field: f})
			}
			continue
		}

		f := group[0]
		desc := f.DefaultDesc
		switch sf.Direction {
		case model.DirectionAsc:
			desc = false
		case model.DirectionDesc:
			desc = true
		}
		terms = append(terms, term{field: f, desc: desc})
	}
	return terms, nil
}

// compareIssues orders two issues on one field, ascending. Missing
// values compare greater than any present value so the empty group
// trails in ascending order.
func compareIssues(snap *registry.Snapshot, a, b *model.Issue, f *registry.Field) int {
	av, aok := sortValue(snap, a, f)
	bv, bok := sortValue(snap, b, f)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return compareValues(snap, f, av, bv)
}

// sortValue picks the issue's representative value for the field: the
// least stored value under the field's ordering.
func sortValue(snap *registry.Snapshot, iss *model.Issue, f *registry.Field) (model.Value, bool) {
	values := iss.FieldValues(f.ID)
	if len(values) == 0 {
		return model.Value{}, false
	}
	best := values[0]
	for _, v := range values[1:] {
		if compareValues(snap, f, v, best) < 0 {
			best = v
		}
	}
	return best, true
}

func compareValues(snap *registry.Snapshot, f *registry.Field, a, b model.Value) int {
	switch f.Type {
	case model.TypeProject, model.TypeCustomProject:
		return compareFold(projectName(snap, a), projectName(snap, b))
	case model.TypeIssueKey:
		return compareKeys(a.Str, b.Str)
	case model.TypePriority:
		// Ascending priority runs from least to most severe; severity is
		// the inverse of the sequence number.
		return -compareSequenced(a, b, snap.PriorityByID)
	case model.TypeIssueType:
		return compareSequenced(a, b, snap.IssueTypeByID)
	case model.TypeStatus:
		return compareSequenced(a, b, snap.StatusByID)
	case model.TypeResolution:
		return compareSequenced(a, b, snap.ResolutionByID)
	case model.TypeLevel:
		return compareSequenced(a, b, snap.LevelByID)
	case model.TypeVersion, model.TypeCustomVersion:
		return compareInt(versionSequence(snap, a), versionSequence(snap, b))
	case model.TypeComponent:
		return compareFold(componentName(snap, a), componentName(snap, b))
	case model.TypeCustomSelect, model.TypeCustomMulti, model.TypeCustomCascading:
		return compareFold(optionLabel(snap, a), optionLabel(snap, b))
	case model.TypeDate, model.TypeDateTime, model.TypeCustomDate, model.TypeCustomDateTime:
		switch {
		case a.Time.Before(b.Time):
			return -1
		case a.Time.After(b.Time):
			return 1
		}
		return 0
	case model.TypeDuration:
		return compareInt(int(a.Dur), int(b.Dur))
	case model.TypeVotes, model.TypeWorkRatio, model.TypeCustomNumber, model.TypeCustomImportID:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	return compareFold(a.Str, b.Str)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareSequenced orders two id values by the referenced item's
// sequence, then name. Unresolvable ids sort last.
func compareSequenced(a, b model.Value, byID func(int64) *registry.NamedItem) int {
	ai, bi := byID(a.ID), byID(b.ID)
	switch {
	case ai == nil && bi == nil:
		return 0
	case ai == nil:
		return 1
	case bi == nil:
		return -1
	}
	if c := compareInt(ai.Sequence, bi.Sequence); c != 0 {
		return c
	}
	return compareFold(ai.Name, bi.Name)
}

func projectName(snap *registry.Snapshot, v model.Value) string {
	if p := snap.ProjectByID(v.ID); p != nil {
		return p.Name
	}
	return ""
}

func componentName(snap *registry.Snapshot, v model.Value) string {
	if c := snap.ComponentByID(v.ID); c != nil {
		return c.Name
	}
	return ""
}

func optionLabel(snap *registry.Snapshot, v model.Value) string {
	if o := snap.OptionByID(v.ID); o != nil {
		return o.Value
	}
	return ""
}

func versionSequence(snap *registry.Snapshot, v model.Value) int {
	if ver := snap.VersionByID(v.ID); ver != nil {
		return ver.Sequence
	}
	return int(^uint(0) >> 1) // unknown versions sort last
}

// compareKeys orders issue keys by project key, then issue number.
func compareKeys(a, b string) int {
	ap, an := splitKey(a)
	bp, bn := splitKey(b)
	if c := strings.Compare(strings.ToUpper(ap), strings.ToUpper(bp)); c != 0 {
		return c
	}
	return compareInt(int(an), int(bn))
}

func splitKey(key string) (string, int64) {
	dash := strings.LastIndex(key, "-")
	if dash < 0 {
		return key, 0
	}
	n, err := strconv.ParseInt(key[dash+1:], 10, 64)
	if err != nil {
		return key, 0
	}
	return key[:dash], n
}
