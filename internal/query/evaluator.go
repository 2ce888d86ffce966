package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/operand"
	"github.com/groblegark/kjql/internal/registry"
)

// Engine evaluates clause trees against one configuration snapshot on
// behalf of one user. Engines are cheap; build one per request.
type Engine struct {
	snap     *registry.Snapshot
	resolver *operand.Resolver
	user     string
}

// New creates an engine bound to a snapshot, a requesting user, and a
// reference time for relative date operands.
func New(snap *registry.Snapshot, user string, now time.Time) *Engine {
	return &Engine{
		snap:     snap,
		resolver: operand.NewResolver(snap, now, user),
		user:     user,
	}
}

// Snapshot returns the configuration snapshot the engine reads.
func (e *Engine) Snapshot() *registry.Snapshot { return e.snap }

// Evaluate returns the issues from the given universe that match the
// clause, in universe order. Issues in projects the user cannot browse
// are dropped before evaluation; NOT and negated operators complement
// against the visible universe only. A nil clause matches everything
// visible. Any invalid comparison aborts the whole query.
func (e *Engine) Evaluate(issues []*model.Issue, clause model.Clause) ([]*model.Issue, *model.QueryError) {
	r := newRun(e, issues)
	if clause == nil {
		return append([]*model.Issue(nil), r.universe...), nil
	}
	set, qerr := r.eval(clause, Scope{})
	if qerr != nil {
		return nil, qerr
	}
	out := make([]*model.Issue, 0, len(set))
	for _, iss := range r.universe {
		if set[iss.ID] {
			out = append(out, iss)
		}
	}
	return out, nil
}

// run carries per-evaluation state: the visible universe, a key index
// for parent resolution, and the saved-filter expansion guard.
type run struct {
	e        *Engine
	universe []*model.Issue
	byKey    map[string]*model.Issue
	filters  map[int64]bool
}

func newRun(e *Engine, issues []*model.Issue) *run {
	r := &run{e: e, byKey: make(map[string]*model.Issue), filters: make(map[int64]bool)}
	for _, iss := range issues {
		if !e.snap.CanBrowse(e.user, iss.ProjectID) {
			continue
		}
		r.universe = append(r.universe, iss)
		r.byKey[strings.ToUpper(iss.Key)] = iss
	}
	return r
}

type issueSet map[int64]bool

func (r *run) eval(clause model.Clause, sc Scope) (issueSet, *model.QueryError) {
	switch n := clause.(type) {
	case *model.AndClause:
		child := r.e.deriveScope(n.Children, sc)
		var acc issueSet
		for _, c := range n.Children {
			set, qerr := r.eval(c, child)
			if qerr != nil {
				return nil, qerr
			}
			acc = intersect(acc, set)
		}
		if acc == nil {
			acc = issueSet{}
		}
		return acc, nil
	case *model.OrClause:
		acc := issueSet{}
		for _, c := range n.Children {
			set, qerr := r.eval(c, sc)
			if qerr != nil {
				return nil, qerr
			}
			for id := range set {
				acc[id] = true
			}
		}
		return acc, nil
	case *model.NotClause:
		set, qerr := r.eval(n.Child, sc)
		if qerr != nil {
			return nil, qerr
		}
		return r.complement(set), nil
	case *model.Comparison:
		return r.evalComparison(n, sc)
	}
	return issueSet{}, nil
}

func intersect(a, b issueSet) issueSet {
	if a == nil {
		return b
	}
	out := issueSet{}
	for id := range a {
		if b[id] {
			out[id] = true
		}
	}
	return out
}

func (r *run) complement(set issueSet) issueSet {
	out := issueSet{}
	for _, iss := range r.universe {
		if !set[iss.ID] {
			out[iss.ID] = true
		}
	}
	return out
}

func (r *run) evalComparison(comp *model.Comparison, sc Scope) (issueSet, *model.QueryError) {
	f, values, qerr := r.e.validate(comp, sc)
	if qerr != nil {
		return nil, qerr
	}

	switch f.Type {
	case model.TypeParent:
		return r.evalParent(comp, values)
	case model.TypeFilter:
		return r.evalFilter(comp, values, sc)
	}

	var set issueSet
	switch comp.Op {
	case model.OpIs:
		set = r.matchEmpty(f)
	case model.OpIsNot:
		set = r.complement(r.matchEmpty(f))
	case model.OpEquals, model.OpIn:
		set = r.matchEquals(f, values)
	case model.OpNotEquals, model.OpNotIn:
		// Negation is the complement of the positive match, so issues
		// with no value for the field are included.
		set = r.complement(r.matchEquals(f, values))
	case model.OpContains:
		set = r.matchText(f, values)
	case model.OpNotContains:
		set = r.complement(r.matchText(f, values))
	default:
		set = r.matchRelational(f, comp.Op, values)
	}
	return set, nil
}

func (r *run) matchEmpty(f *registry.Field) issueSet {
	set := issueSet{}
	for _, iss := range r.universe {
		if len(iss.FieldValues(f.ID)) == 0 {
			set[iss.ID] = true
		}
	}
	return set
}

func (r *run) matchEquals(f *registry.Field, values []model.Value) issueSet {
	wantEmpty := model.ContainsEmpty(values)
	set := issueSet{}
	for _, iss := range r.universe {
		stored := iss.FieldValues(f.ID)
		if wantEmpty && len(stored) == 0 {
			set[iss.ID] = true
			continue
		}
		if anyEqual(stored, values) {
			set[iss.ID] = true
		}
	}
	return set
}

func anyEqual(stored, values []model.Value) bool {
	for _, sv := range stored {
		for _, rv := range values {
			if valuesEqual(sv, rv) {
				return true
			}
		}
	}
	return false
}

func valuesEqual(a, b model.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case model.KindID:
		return a.ID == b.ID
	case model.KindString:
		return strings.EqualFold(a.Str, b.Str)
	case model.KindTime:
		return a.Time.Equal(b.Time)
	case model.KindNumber:
		return a.Num == b.Num
	case model.KindDuration:
		return a.Dur == b.Dur
	}
	return false
}

func (r *run) matchText(f *registry.Field, values []model.Value) issueSet {
	set := issueSet{}
	for _, iss := range r.universe {
		for _, sv := range iss.FieldValues(f.ID) {
			if sv.Kind != model.KindString {
				continue
			}
			for _, rv := range values {
				if textMatches(sv.Str, rv.Str) {
					set[iss.ID] = true
				}
			}
		}
	}
	return set
}

// textMatches implements the word-level contains semantics of the text
// index: every query term must match some word of the stored text,
// exactly by default, or as a prefix when the term carries a trailing
// wildcard.
func textMatches(stored, query string) bool {
	words := splitWords(stored)
	for _, term := range strings.Fields(query) {
		prefix := false
		if t := strings.TrimRight(term, "*?"); t != term {
			term, prefix = t, true
		}
		if term == "" {
			continue
		}
		if !anyWordMatches(words, term, prefix) {
			return false
		}
	}
	return true
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9')
	})
}

func anyWordMatches(words []string, term string, prefix bool) bool {
	term = strings.ToLower(term)
	for _, w := range words {
		w = strings.ToLower(w)
		if prefix && strings.HasPrefix(w, term) {
			return true
		}
		if !prefix && w == term {
			return true
		}
	}
	return false
}

func (r *run) matchRelational(f *registry.Field, op model.Operator, values []model.Value) issueSet {
	set := issueSet{}
	for _, iss := range r.universe {
		for _, sv := range iss.FieldValues(f.ID) {
			for _, rv := range values {
				if r.relSatisfied(f, sv, rv, op) {
					set[iss.ID] = true
				}
			}
		}
	}
	return set
}

// relSatisfied orders one stored value against one resolved operand.
// Date literals without a time component compare at day granularity, so
// `<= '2009/05/13'` takes in the whole day and `> '2009/05/13'` starts
// at the next one.
func (r *run) relSatisfied(f *registry.Field, sv, rv model.Value, op model.Operator) bool {
	if sv.Kind == model.KindTime && rv.Kind == model.KindTime {
		if rv.DateOnly {
			dayStart := rv.Time
			dayEnd := dayStart.AddDate(0, 0, 1)
			switch op {
			case model.OpLess:
				return sv.Time.Before(dayStart)
			case model.OpLessEq:
				return sv.Time.Before(dayEnd)
			case model.OpGreater:
				return !sv.Time.Before(dayEnd)
			case model.OpGreaterEq:
				return !sv.Time.Before(dayStart)
			}
			return false
		}
		return ordered(compareTimes(sv.Time, rv.Time), op)
	}

	if f.Type == model.TypeIssueKey {
		if sv.Kind != model.KindString || rv.Kind != model.KindString {
			return false
		}
		return ordered(compareKeys(sv.Str, rv.Str), op)
	}

	a, ok := r.rank(f, sv)
	if !ok {
		return false
	}
	b, ok := r.rank(f, rv)
	if !ok {
		return false
	}
	switch {
	case a < b:
		return ordered(-1, op)
	case a > b:
		return ordered(1, op)
	}
	return ordered(0, op)
}

// rank projects a value onto the ordering axis for the field type.
// Priorities invert their sequence so that greater means more severe;
// versions order by release sequence.
func (r *run) rank(f *registry.Field, v model.Value) (float64, bool) {
	switch f.Type {
	case model.TypePriority:
		p := r.e.snap.PriorityByID(v.ID)
		if p == nil {
			return 0, false
		}
		return -float64(p.Sequence), true
	case model.TypeVersion, model.TypeCustomVersion:
		ver := r.e.snap.VersionByID(v.ID)
		if ver == nil {
			return 0, false
		}
		return float64(ver.Sequence), true
	case model.TypeDuration:
		if v.Kind != model.KindDuration {
			return 0, false
		}
		return float64(v.Dur), true
	}
	if v.Kind != model.KindNumber {
		return 0, false
	}
	return v.Num, true
}

func ordered(cmp int, op model.Operator) bool {
	switch op {
	case model.OpLess:
		return cmp < 0
	case model.OpLessEq:
		return cmp <= 0
	case model.OpGreater:
		return cmp > 0
	case model.OpGreaterEq:
		return cmp >= 0
	}
	return false
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// compareKeys orders issue keys by project key, then issue number.
func compareKeys(a, b string) int {
	ap, an := splitKey(a)
	bp, bn := splitKey(b)
	if c := strings.Compare(strings.ToUpper(ap), strings.ToUpper(bp)); c != 0 {
		return c
	}
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return 0
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

// evalParent matches direct sub-tasks of the referenced issues.
// Positive operators require every key to name an existing issue;
// negated operators match structurally over issues that have a parent,
// whatever keys were given.
func (r *run) evalParent(comp *model.Comparison, values []model.Value) (issueSet, *model.QueryError) {
	parents := make(map[int64]bool, len(values))
	for i, v := range values {
		parent := r.byKey[strings.ToUpper(v.Str)]
		if parent == nil {
			if comp.Op.IsNegation() {
				continue
			}
			return nil, model.NewIssueKeyInvalid(operandText(comp, i, v.Str), comp.Field)
		}
		parents[parent.ID] = true
	}

	set := issueSet{}
	for _, iss := range r.universe {
		if iss.ParentID == 0 {
			continue
		}
		if parents[iss.ParentID] != comp.Op.IsNegation() {
			set[iss.ID] = true
		}
	}
	return set, nil
}

// evalFilter expands saved-filter references and evaluates the stored
// clause trees. A filter reaching itself through any chain of
// references is a configuration error.
func (r *run) evalFilter(comp *model.Comparison, values []model.Value, sc Scope) (issueSet, *model.QueryError) {
	acc := issueSet{}
	for i, v := range values {
		flt := r.e.snap.FilterByID(v.ID)
		if flt == nil {
			return nil, model.NewNameNotFound(operandText(comp, i, comp.Field), comp.Field)
		}
		if r.filters[flt.ID] {
			return nil, model.NewCyclicalFilterReference(flt.Name)
		}
		clause, err := model.ParseClause([]byte(flt.ClauseJSON))
		if err != nil {
			return nil, model.NewCantParseQuery("'"+flt.Name+"'", comp.Field)
		}

		// Stored filters are standalone queries; they do not inherit the
		// referencing query's scope.
		r.filters[flt.ID] = true
		set, qerr := r.eval(clause, Scope{})
		delete(r.filters, flt.ID)
		if qerr != nil {
			return nil, qerr
		}
		for id := range set {
			acc[id] = true
		}
	}
	if comp.Op.IsNegation() {
		return r.complement(acc), nil
	}
	return acc, nil
}

// operandText renders the i-th operand for an error message, falling
// back to quoting the resolved text when operands and values do not
// align one to one.
func operandText(comp *model.Comparison, i int, fallback string) string {
	if i < len(comp.Operands) {
		return comp.Operands[i].SourceText()
	}
	return "'" + fallback + "'"
}
