package model

import (
	"encoding/json"
	"fmt"
)

// OperandKind discriminates the raw literal forms an operand can take.
type OperandKind int

const (
	OperandString OperandKind = iota
	OperandNumber
	OperandFunc
	OperandEmpty
)

// FuncCall is a function operand such as membersOf("jira-users").
type FuncCall struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// Operand is a raw query literal before resolution: a quoted or bare
// string, a number, a function call, or the EMPTY/NULL marker.
type Operand struct {
	Kind   OperandKind
	Str    string // literal text for string and number operands
	Quoted bool   // the source literal was quoted
	Func   *FuncCall
}

// StringOperand builds a bare-word operand.
func StringOperand(s string) Operand { return Operand{Kind: OperandString, Str: s} }

// QuotedOperand builds a quoted-string operand.
func QuotedOperand(s string) Operand { return Operand{Kind: OperandString, Str: s, Quoted: true} }

// NumberOperand builds a numeric operand from its literal text.
func NumberOperand(s string) Operand { return Operand{Kind: OperandNumber, Str: s} }

// FuncOperand builds a function-call operand.
func FuncOperand(name string, args ...string) Operand {
	return Operand{Kind: OperandFunc, Func: &FuncCall{Name: name, Args: args}}
}

// EmptyOperand builds the EMPTY/NULL marker operand.
func EmptyOperand() Operand { return Operand{Kind: OperandEmpty} }

// IsEmpty reports whether the operand is the EMPTY/NULL marker.
func (o Operand) IsEmpty() bool { return o.Kind == OperandEmpty }

// SourceText renders the operand the way it appeared in the query, for
// inclusion in error messages. Quoted literals keep their quotes.
func (o Operand) SourceText() string {
	switch o.Kind {
	case OperandEmpty:
		return "EMPTY"
	case OperandFunc:
		args := ""
		for i, a := range o.Func.Args {
			if i > 0 {
				args += ", "
			}
			args += a
		}
		return o.Func.Name + "(" + args + ")"
	default:
		if o.Quoted {
			return "'" + o.Str + "'"
		}
		return o.Str
	}
}

// operandEnvelope is the JSON wire form of an operand.
type operandEnvelope struct {
	Str    *string      `json:"str,omitempty"`
	Num    *json.Number `json:"num,omitempty"`
	Quoted bool         `json:"quoted,omitempty"`
	Func   *FuncCall    `json:"func,omitempty"`
	Empty  bool         `json:"empty,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o Operand) MarshalJSON() ([]byte, error) {
	env := operandEnvelope{}
	switch o.Kind {
	case OperandString:
		s := o.Str
		env.Str = &s
		env.Quoted = o.Quoted
	case OperandNumber:
		n := json.Number(o.Str)
		env.Num = &n
	case OperandFunc:
		env.Func = o.Func
	case OperandEmpty:
		env.Empty = true
	}
	return json.Marshal(env)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Operand) UnmarshalJSON(data []byte) error {
	var env operandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch {
	case env.Empty:
		*o = EmptyOperand()
	case env.Func != nil:
		*o = Operand{Kind: OperandFunc, Func: env.Func}
	case env.Num != nil:
		*o = NumberOperand(env.Num.String())
	case env.Str != nil:
		*o = Operand{Kind: OperandString, Str: *env.Str, Quoted: env.Quoted}
	default:
		return fmt.Errorf("operand must have one of str/num/func/empty")
	}
	return nil
}
