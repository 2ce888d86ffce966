// Package fitter reduces validated clause trees to the flat parameter
// set of the basic search form. It is a structural pattern matcher: a
// pure AND-conjunction of form-representable comparisons fits, anything
// else is classified too-complex, and a tree that is structurally fine
// but carries a value the current configuration cannot validate is
// classified invalid. The fitter never returns an error.
package fitter

import (
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/query"
	"github.com/groblegark/kjql/internal/registry"
)

// Basic-form parameter names for the system fields.
const (
	paramProject        = "pid"
	paramType           = "type"
	paramPriority       = "priority"
	paramStatus         = "status"
	paramResolution     = "resolution"
	paramVersion        = "version"
	paramFixVersion     = "fixfor"
	paramComponent      = "component"
	paramAssignee       = "assignee"
	paramAssigneeSelect = "assigneeSelect"
	paramReporter       = "reporter"
	paramReporterSelect = "reporterSelect"
	paramLabels         = "labels"

	selectSpecificUser     = "specificuser"
	selectUnassigned       = "unassigned"
	selectSpecificReporter = "specificreporter"
	selectNoReporter       = "issue_no_reporter"

	emptySentinel = "-1" // "none" choice of multi-select controls
)

// placement outcomes while walking the conjunction.
type outcome int

const (
	placed outcome = iota
	tooComplex
	invalid
)

// Fitter classifies clause trees against one snapshot for one user.
type Fitter struct {
	snap   *registry.Snapshot
	engine *query.Engine
}

// New creates a fitter bound to a snapshot, the requesting user, and a
// reference time for relative date operands.
func New(snap *registry.Snapshot, user string, now time.Time) *Fitter {
	return &Fitter{snap: snap, engine: query.New(snap, user, now)}
}

// Fit reduces the clause tree to form parameters. A nil clause is the
// empty form.
func (f *Fitter) Fit(clause model.Clause) model.FitResult {
	if clause == nil {
		return model.Fits()
	}
	comps, ok := flatten(clause)
	if !ok {
		return model.TooComplex()
	}

	children := make([]model.Clause, len(comps))
	for i, c := range comps {
		children[i] = c
	}
	sc := f.engine.DeriveScope(children, query.Scope{})

	fm := newForm()
	ranges := newRanges()
	for _, comp := range comps {
		fld, values, qerr := f.engine.ResolveComparison(comp, sc)
		if qerr != nil {
			return model.InvalidFit()
		}
		switch f.place(fm, ranges, comp, fld, values) {
		case tooComplex:
			return model.TooComplex()
		case invalid:
			return model.InvalidFit()
		}
	}
	if ranges.emit(fm) == tooComplex {
		return model.TooComplex()
	}
	return model.Fits(fm.fields()...)
}

// flatten unwraps nested AND nodes into one conjunction of comparisons.
// Any OR or NOT anywhere makes the tree unreducible.
func flatten(c model.Clause) ([]*model.Comparison, bool) {
	switch n := c.(type) {
	case *model.Comparison:
		return []*model.Comparison{n}, true
	case *model.AndClause:
		var out []*model.Comparison
		for _, child := range n.Children {
			comps, ok := flatten(child)
			if !ok {
				return nil, false
			}
			out = append(out, comps...)
		}
		return out, true
	}
	return nil, false
}

func (f *Fitter) place(fm *form, ranges *rangeSet, comp *model.Comparison, fld *registry.Field, values []model.Value) outcome {
	switch comp.Op {
	case model.OpEquals, model.OpIn:
		return f.placeEquality(fm, comp, fld, values)
	case model.OpIs:
		return f.placeEmpty(fm, fld)
	case model.OpContains:
		return f.placeText(fm, comp, fld)
	case model.OpGreaterEq, model.OpLessEq:
		return ranges.placeBound(comp, fld)
	}
	// Negations and strict bounds have no form control.
	return tooComplex
}

func (f *Fitter) placeEquality(fm *form, comp *model.Comparison, fld *registry.Field, values []model.Value) outcome {
	switch fld.Type {
	case model.TypeProject:
		return addIDs(fm, paramProject, values)
	case model.TypeIssueType:
		return addIDs(fm, paramType, values)
	case model.TypePriority:
		return addIDs(fm, paramPriority, values)
	case model.TypeStatus:
		return addIDs(fm, paramStatus, values)
	case model.TypeResolution:
		return f.addNamesOrSentinel(fm, paramResolution, comp, idAsValue(f.snap))
	case model.TypeVersion:
		param := paramVersion
		if strings.EqualFold(fld.ID, "fixVersion") {
			param = paramFixVersion
		}
		if out := f.checkVersions(values); out != placed {
			return out
		}
		return f.addNamesOrSentinel(fm, param, comp, nil)
	case model.TypeComponent:
		return f.addNamesOrSentinel(fm, paramComponent, comp, nil)
	case model.TypeUser:
		return f.placeUser(fm, comp, fld, values)
	case model.TypeLabels:
		return f.addNamesOrSentinel(fm, paramLabels, comp, nil)
	case model.TypeCustomSelect, model.TypeCustomMulti, model.TypeCustomCascading:
		// One operand resolving to several options means the label is
		// ambiguous within the fit-time scope.
		if len(values) > len(comp.Operands) {
			return invalid
		}
		return f.addNamesOrSentinel(fm, customParam(fld), comp, nil)
	case model.TypeCustomUser:
		return f.addNamesOrSentinel(fm, customParam(fld), comp, nil)
	}
	return tooComplex
}

// addNamesOrSentinel adds one form value per operand: the raw source
// text for names, the none-sentinel for EMPTY. Numeric id operands on
// name-driven controls do not fit: the form posts names.
func (f *Fitter) addNamesOrSentinel(fm *form, param string, comp *model.Comparison, render func(model.Operand) (string, bool)) outcome {
	for _, op := range comp.Operands {
		switch {
		case op.IsEmpty():
			if !fm.add(param, emptySentinel, true) {
				return tooComplex
			}
		case op.Kind == model.OperandNumber && render == nil:
			return tooComplex
		default:
			value := op.Str
			if render != nil {
				v, ok := render(op)
				if !ok {
					return invalid
				}
				value = v
			}
			if !fm.add(param, value, true) {
				return tooComplex
			}
		}
	}
	return placed
}

// idAsValue renders resolution operands as ids the way the form posts
// them, resolving names through the snapshot.
func idAsValue(snap *registry.Snapshot) func(model.Operand) (string, bool) {
	return func(op model.Operand) (string, bool) {
		if op.Kind == model.OperandNumber {
			return op.Str, true
		}
		if item := snap.ResolutionByName(op.Str); item != nil {
			return strconv.FormatInt(item.ID, 10), true
		}
		return "", false
	}
}

func (f *Fitter) checkVersions(values []model.Value) outcome {
	for _, v := range values {
		if v.Kind != model.KindID {
			continue
		}
		if ver := f.snap.VersionByID(v.ID); ver != nil && ver.Archived {
			// The form's version pickers hide archived versions.
			return invalid
		}
	}
	return placed
}

func (f *Fitter) placeUser(fm *form, comp *model.Comparison, fld *registry.Field, values []model.Value) outcome {
	if len(comp.Operands) != 1 {
		return tooComplex
	}
	op := comp.Operands[0]
	param, selParam, selSpecific, selEmpty := paramAssignee, paramAssigneeSelect, selectSpecificUser, selectUnassigned
	if strings.EqualFold(fld.ID, "reporter") {
		param, selParam, selSpecific, selEmpty = paramReporter, paramReporterSelect, selectSpecificReporter, selectNoReporter
	}
	if op.IsEmpty() {
		if !fm.add(selParam, selEmpty, false) {
			return tooComplex
		}
		return placed
	}
	if op.Kind == model.OperandFunc {
		return tooComplex
	}
	if !fm.add(selParam, selSpecific, false) || !fm.add(param, values[0].Str, false) {
		return tooComplex
	}
	return placed
}

func (f *Fitter) placeText(fm *form, comp *model.Comparison, fld *registry.Field) outcome {
	var param string
	switch {
	case fld.CustomID != 0:
		if fld.Type != model.TypeCustomText && fld.Type != model.TypeCustomURL && fld.Type != model.TypeCustomReadOnly {
			return tooComplex
		}
		param = customParam(fld)
	case fld.ID == "summary" || fld.ID == "description" || fld.ID == "environment":
		param = fld.ID
	case fld.ID == "comment":
		param = "body"
	default:
		return tooComplex
	}
	if len(comp.Operands) != 1 || !fm.add(param, comp.Operands[0].Str, false) {
		return tooComplex
	}
	return placed
}

func (f *Fitter) placeEmpty(fm *form, fld *registry.Field) outcome {
	switch fld.Type {
	case model.TypeVersion:
		param := paramVersion
		if strings.EqualFold(fld.ID, "fixVersion") {
			param = paramFixVersion
		}
		if fm.add(param, emptySentinel, true) {
			return placed
		}
	case model.TypeComponent:
		if fm.add(paramComponent, emptySentinel, true) {
			return placed
		}
	case model.TypeResolution:
		if fm.add(paramResolution, emptySentinel, true) {
			return placed
		}
	case model.TypeUser:
		sel, value := paramAssigneeSelect, selectUnassigned
		if strings.EqualFold(fld.ID, "reporter") {
			sel, value = paramReporterSelect, selectNoReporter
		}
		if fm.add(sel, value, false) {
			return placed
		}
	}
	return tooComplex
}

func addIDs(fm *form, param string, values []model.Value) outcome {
	for _, v := range values {
		value := emptySentinel
		if v.Kind == model.KindID {
			value = strconv.FormatInt(v.ID, 10)
		}
		if !fm.add(param, value, true) {
			return tooComplex
		}
	}
	return placed
}

func customParam(fld *registry.Field) string {
	return "customfield_" + strconv.FormatInt(fld.CustomID, 10)
}
