package fitter

import (
	"strings"
	"unicode"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// rangeSet collects the paired >=/<= bounds of range-capable fields.
// The form only has controls for complete ranges: a lone bound never
// fits, and mixing an absolute date with a relative period in one range
// has no control either.
type rangeSet struct {
	order   []string
	byField map[string]*fieldRange
}

type fieldRange struct {
	fld   *registry.Field
	lower bound
	upper bound
}

type bound struct {
	raw    string
	period bool
	set    bool
}

func newRanges() *rangeSet {
	return &rangeSet{byField: make(map[string]*fieldRange)}
}

func (r *rangeSet) placeBound(comp *model.Comparison, fld *registry.Field) outcome {
	switch fld.Type {
	case model.TypeDate, model.TypeDateTime, model.TypeCustomDate, model.TypeCustomDateTime,
		model.TypeDuration, model.TypeCustomNumber:
	default:
		return tooComplex
	}
	if len(comp.Operands) != 1 {
		return tooComplex
	}
	op := comp.Operands[0]
	if op.IsEmpty() || op.Kind == model.OperandFunc {
		return tooComplex
	}

	fr := r.byField[fld.ID]
	if fr == nil {
		fr = &fieldRange{fld: fld}
		r.byField[fld.ID] = fr
		r.order = append(r.order, fld.ID)
	}
	b := &fr.lower
	if comp.Op == model.OpLessEq {
		b = &fr.upper
	}
	if b.set {
		return tooComplex
	}
	b.raw = op.Str
	b.period = isPeriod(op.Str)
	b.set = true
	return placed
}

func (r *rangeSet) emit(fm *form) outcome {
	for _, id := range r.order {
		fr := r.byField[id]
		if !fr.lower.set || !fr.upper.set {
			return tooComplex
		}
		base := rangeParam(fr.fld)
		switch fr.fld.Type {
		case model.TypeDate, model.TypeDateTime, model.TypeCustomDate, model.TypeCustomDateTime:
			if fr.lower.period != fr.upper.period {
				return tooComplex
			}
			if fr.lower.period {
				fm.add(base+":previous", fr.lower.raw, false)
				fm.add(base+":next", fr.upper.raw, false)
			} else {
				fm.add(base+":after", fr.lower.raw, false)
				fm.add(base+":before", fr.upper.raw, false)
			}
		default:
			fm.add(base+":min", fr.lower.raw, false)
			fm.add(base+":max", fr.upper.raw, false)
		}
	}
	return placed
}

func rangeParam(fld *registry.Field) string {
	if fld.CustomID != 0 {
		return customParam(fld)
	}
	if fld.ID == "due" {
		return "duedate"
	}
	return fld.ID
}

// isPeriod reports whether the literal is in the relative period format
// ("-5d", "4w 2d") rather than an absolute date.
func isPeriod(text string) bool {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, term := range fields {
		if len(term) < 2 {
			return false
		}
		switch unicode.ToLower(rune(term[len(term)-1])) {
		case 'w', 'd', 'h', 'm':
		default:
			return false
		}
		for _, r := range term[:len(term)-1] {
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}
