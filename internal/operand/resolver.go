// Package operand resolves raw query literals (names, ids, dates,
// durations, functions, EMPTY) into concrete typed values per field
// semantics. Resolution is pure: it reads a registry snapshot and a
// fixed reference time, and never mutates anything.
package operand

import (
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// Resolver resolves operands against one configuration snapshot.
type Resolver struct {
	snap *registry.Snapshot
	now  time.Time
	user string // requesting user, for currentUser()
}

// NewResolver creates a resolver bound to a snapshot, a reference time,
// and the requesting user.
func NewResolver(snap *registry.Snapshot, now time.Time, user string) *Resolver {
	return &Resolver{snap: snap, now: now, user: user}
}

// Resolve converts a raw operand into one or more concrete values for
// the given field. EMPTY always resolves to the empty marker; whether
// the field supports it is the validator's concern, not resolution's.
func (r *Resolver) Resolve(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if op.IsEmpty() {
		return []model.Value{model.EmptyValue()}, nil
	}
	if op.Kind == model.OperandFunc {
		return r.resolveFunc(f, op)
	}

	switch f.Type {
	case model.TypeProject, model.TypeCustomProject:
		return r.resolveProject(f, op)
	case model.TypeIssueType:
		return r.resolveNamed(f, op, r.snap.IssueTypeByName, r.snap.IssueTypeByID)
	case model.TypePriority:
		return r.resolveNamed(f, op, r.snap.PriorityByName, r.snap.PriorityByID)
	case model.TypeStatus:
		return r.resolveNamed(f, op, r.snap.StatusByName, r.snap.StatusByID)
	case model.TypeResolution:
		return r.resolveNamed(f, op, r.snap.ResolutionByName, r.snap.ResolutionByID)
	case model.TypeLevel:
		return r.resolveNamed(f, op, r.snap.LevelByName, r.snap.LevelByID)
	case model.TypeVersion, model.TypeCustomVersion:
		return r.resolveVersion(f, op)
	case model.TypeComponent:
		return r.resolveComponent(f, op)
	case model.TypeUser, model.TypeCustomUser, model.TypeCustomMultiUser:
		return r.resolveUser(f, op)
	case model.TypeCustomGroup:
		return r.resolveGroup(f, op)
	case model.TypeIssueKey, model.TypeParent:
		return r.resolveIssueKey(f, op)
	case model.TypeText, model.TypeCustomText, model.TypeCustomURL, model.TypeCustomReadOnly:
		return r.resolveText(f, op)
	case model.TypeDateTime, model.TypeCustomDateTime:
		return r.resolveDate(f, op, true)
	case model.TypeDate, model.TypeCustomDate:
		return r.resolveDate(f, op, false)
	case model.TypeDuration:
		return r.resolveDuration(f, op)
	case model.TypeVotes:
		return r.resolveVotes(f, op)
	case model.TypeWorkRatio, model.TypeCustomNumber, model.TypeCustomImportID:
		return r.resolveNumber(f, op)
	case model.TypeCustomSelect, model.TypeCustomMulti, model.TypeCustomCascading:
		return r.resolveOption(f, op)
	case model.TypeLabels:
		return []model.Value{model.StringValue(op.Str)}, nil
	case model.TypeFilter:
		return r.resolveFilter(f, op)
	}
	return nil, model.NewNameNotFound(op.SourceText(), f.Name)
}

// numericID reports whether the operand should be tried as a numeric
// domain id: an unquoted number literal, or a bare word that parses as
// an integer.
func numericID(op model.Operand) (int64, bool) {
	if op.Quoted {
		return 0, false
	}
	id, err := strconv.ParseInt(op.Str, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// quotedText renders the operand for error messages that always quote
// numeric ids, mirroring source quoting otherwise.
func quotedText(op model.Operand) string {
	if _, ok := numericID(op); ok {
		return "'" + op.Str + "'"
	}
	return op.SourceText()
}

func (r *Resolver) resolveProject(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if p := r.snap.ProjectByID(id); p != nil {
			return []model.Value{model.IDValue(p.ID)}, nil
		}
		return nil, model.NewIDNotFound(op.Str, f.Name)
	}
	if p := r.snap.ProjectByName(op.Str); p != nil {
		return []model.Value{model.IDValue(p.ID)}, nil
	}
	return nil, model.NewNameNotFound(op.SourceText(), f.Name)
}

func (r *Resolver) resolveNamed(f *registry.Field, op model.Operand,
	byName func(string) *registry.NamedItem, byID func(int64) *registry.NamedItem) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if item := byID(id); item != nil {
			return []model.Value{model.IDValue(item.ID)}, nil
		}
		return nil, model.NewIDNotFound(op.Str, f.Name)
	}
	if item := byName(op.Str); item != nil {
		return []model.Value{model.IDValue(item.ID)}, nil
	}
	return nil, model.NewNameNotFound(op.SourceText(), f.Name)
}

func (r *Resolver) resolveVersion(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if v := r.snap.VersionByID(id); v != nil {
			return []model.Value{model.IDValue(v.ID)}, nil
		}
		return nil, model.NewIDNotFound(op.Str, f.Name)
	}
	versions := r.snap.VersionsByName(op.Str)
	if len(versions) == 0 {
		return nil, model.NewNameNotFound(op.SourceText(), f.Name)
	}
	values := make([]model.Value, 0, len(versions))
	for _, v := range versions {
		values = append(values, model.IDValue(v.ID))
	}
	return values, nil
}

func (r *Resolver) resolveComponent(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if c := r.snap.ComponentByID(id); c != nil {
			return []model.Value{model.IDValue(c.ID)}, nil
		}
		return nil, model.NewIDNotFound(op.Str, f.Name)
	}
	components := r.snap.ComponentsByName(op.Str)
	if len(components) == 0 {
		return nil, model.NewNameNotFound(op.SourceText(), f.Name)
	}
	values := make([]model.Value, 0, len(components))
	for _, c := range components {
		values = append(values, model.IDValue(c.ID))
	}
	return values, nil
}

func (r *Resolver) resolveUser(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if u := r.snap.UserByName(op.Str); u != nil {
		return []model.Value{model.StringValue(u.Name)}, nil
	}
	return nil, model.NewNameNotFound(op.SourceText(), f.Name)
}

func (r *Resolver) resolveGroup(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if r.snap.GroupExists(op.Str) {
		return []model.Value{model.StringValue(strings.ToLower(op.Str))}, nil
	}
	return nil, model.NewGroupNotFound(quotedText(op), f.Name)
}

func (r *Resolver) resolveIssueKey(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	key := strings.ToUpper(strings.TrimSpace(op.Str))
	dash := strings.LastIndex(key, "-")
	if dash <= 0 || dash == len(key)-1 {
		return nil, model.NewIssueKeyInvalid(op.SourceText(), f.Name)
	}
	if _, err := strconv.Atoi(key[dash+1:]); err != nil {
		return nil, model.NewIssueKeyInvalid(op.SourceText(), f.Name)
	}
	return []model.Value{model.StringValue(key)}, nil
}

func (r *Resolver) resolveVotes(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	n, err := strconv.ParseInt(op.Str, 10, 64)
	if err != nil || n < 0 {
		return nil, model.NewInvalidVotesFormat(op.SourceText(), f.Name)
	}
	return []model.Value{model.NumberValue(float64(n))}, nil
}

func (r *Resolver) resolveNumber(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	n, err := strconv.ParseFloat(op.Str, 64)
	if err != nil {
		return nil, model.NewInvalidIntegerFormat(op.SourceText(), f.Name)
	}
	return []model.Value{model.NumberValue(n)}, nil
}

func (r *Resolver) resolveOption(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if o := r.snap.OptionByID(id); o != nil && o.FieldID == f.ID {
			return []model.Value{model.IDValue(o.ID)}, nil
		}
		return nil, model.NewOptionNotFound(quotedText(op), f.Name)
	}
	options := r.snap.OptionsByLabel(f.ID, op.Str)
	if len(options) == 0 {
		return nil, model.NewOptionNotFound(op.SourceText(), f.Name)
	}
	values := make([]model.Value, 0, len(options))
	for _, o := range options {
		values = append(values, model.IDValue(o.ID))
	}
	return values, nil
}

func (r *Resolver) resolveFilter(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if id, ok := numericID(op); ok {
		if flt := r.snap.FilterByID(id); flt != nil {
			return []model.Value{model.IDValue(flt.ID)}, nil
		}
		return nil, model.NewIDNotFound(op.Str, f.Name)
	}
	if flt := r.snap.FilterByName(op.Str); flt != nil {
		return []model.Value{model.IDValue(flt.ID)}, nil
	}
	return nil, model.NewNameNotFound(op.SourceText(), f.Name)
}
