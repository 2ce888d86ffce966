package fitter

import (
	"github.com/groblegark/kjql/internal/model"
)

// form accumulates parameters in first-seen order. A parameter backed
// by a multi-select control can carry several values; everything else
// holds exactly one slot, and a second different value is a conflict.
type form struct {
	order  []string
	params map[string]*param
}

type param struct {
	multi  bool
	values []string
}

func newForm() *form {
	return &form{params: make(map[string]*param)}
}

// add records a value for a parameter. It reports false when the value
// conflicts with an already-filled single-value control. Duplicate
// values collapse silently.
func (fm *form) add(name, value string, multi bool) bool {
	p := fm.params[name]
	if p == nil {
		fm.params[name] = &param{multi: multi, values: []string{value}}
		fm.order = append(fm.order, name)
		return true
	}
	for _, v := range p.values {
		if v == value {
			return true
		}
	}
	if !p.multi || !multi {
		return false
	}
	p.values = append(p.values, value)
	return true
}

func (fm *form) fields() []model.FormField {
	var out []model.FormField
	for _, name := range fm.order {
		for _, v := range fm.params[name].values {
			out = append(out, model.FormField{Name: name, Value: v})
		}
	}
	return out
}
