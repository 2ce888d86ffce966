package model

import (
	"encoding/json"
	"fmt"
)

// Clause is a node in a query's boolean clause tree. The tree is finite
// and strictly a tree; evaluation walks it depth-first, left to right.
type Clause interface {
	clause()
}

// AndClause matches issues satisfying every child clause.
type AndClause struct {
	Children []Clause
}

// OrClause matches issues satisfying at least one child clause.
type OrClause struct {
	Children []Clause
}

// NotClause matches the complement of its child within the visible
// issue universe.
type NotClause struct {
	Child Clause
}

// Comparison tests a single field against one or more operands.
type Comparison struct {
	Field    string
	Op       Operator
	Operands []Operand
}

func (*AndClause) clause()  {}
func (*OrClause) clause()   {}
func (*NotClause) clause()  {}
func (*Comparison) clause() {}

// And builds an AndClause from the given children.
func And(children ...Clause) *AndClause { return &AndClause{Children: children} }

// Or builds an OrClause from the given children.
func Or(children ...Clause) *OrClause { return &OrClause{Children: children} }

// Not wraps a clause in a negation.
func Not(child Clause) *NotClause { return &NotClause{Child: child} }

// Compare builds a Comparison for a single field.
func Compare(field string, op Operator, operands ...Operand) *Comparison {
	return &Comparison{Field: field, Op: op, Operands: operands}
}

// clauseEnvelope is the JSON wire form of a clause node. Exactly one of
// And/Or/Not/Field is set.
type clauseEnvelope struct {
	And    []json.RawMessage `json:"and,omitempty"`
	Or     []json.RawMessage `json:"or,omitempty"`
	Not    json.RawMessage   `json:"not,omitempty"`
	Field  string            `json:"field,omitempty"`
	Op     string            `json:"op,omitempty"`
	Values []Operand         `json:"values,omitempty"`
}

// MarshalClause encodes a clause tree as JSON.
func MarshalClause(c Clause) ([]byte, error) {
	env, err := toEnvelope(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func toEnvelope(c Clause) (*clauseEnvelope, error) {
	switch n := c.(type) {
	case *AndClause:
		children, err := marshalChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return &clauseEnvelope{And: children}, nil
	case *OrClause:
		children, err := marshalChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return &clauseEnvelope{Or: children}, nil
	case *NotClause:
		child, err := MarshalClause(n.Child)
		if err != nil {
			return nil, err
		}
		return &clauseEnvelope{Not: child}, nil
	case *Comparison:
		return &clauseEnvelope{Field: n.Field, Op: string(n.Op), Values: n.Operands}, nil
	default:
		return nil, fmt.Errorf("unexpected clause type: %T", c)
	}
}

func marshalChildren(children []Clause) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(children))
	for _, child := range children {
		data, err := MarshalClause(child)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// ParseClause decodes a JSON-encoded clause tree.
func ParseClause(data []byte) (Clause, error) {
	var env clauseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode clause: %w", err)
	}
	return fromEnvelope(&env)
}

func fromEnvelope(env *clauseEnvelope) (Clause, error) {
	set := 0
	if len(env.And) > 0 {
		set++
	}
	if len(env.Or) > 0 {
		set++
	}
	if len(env.Not) > 0 {
		set++
	}
	if env.Field != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("clause node must have exactly one of and/or/not/field")
	}

	switch {
	case len(env.And) > 0:
		children, err := parseChildren(env.And)
		if err != nil {
			return nil, err
		}
		return &AndClause{Children: children}, nil
	case len(env.Or) > 0:
		children, err := parseChildren(env.Or)
		if err != nil {
			return nil, err
		}
		return &OrClause{Children: children}, nil
	case len(env.Not) > 0:
		child, err := ParseClause(env.Not)
		if err != nil {
			return nil, err
		}
		return &NotClause{Child: child}, nil
	default:
		op := Operator(env.Op)
		if !op.IsValid() {
			return nil, fmt.Errorf("unknown operator %q", env.Op)
		}
		if len(env.Values) == 0 {
			return nil, fmt.Errorf("comparison on %q has no operands", env.Field)
		}
		return &Comparison{Field: env.Field, Op: op, Operands: env.Values}, nil
	}
}

func parseChildren(raw []json.RawMessage) ([]Clause, error) {
	children := make([]Clause, 0, len(raw))
	for _, r := range raw {
		child, err := ParseClause(r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// WalkComparisons visits every Comparison in the tree depth-first, left
// to right, stopping at the first error.
func WalkComparisons(c Clause, fn func(*Comparison) error) error {
	switch n := c.(type) {
	case *Comparison:
		return fn(n)
	case *AndClause:
		for _, child := range n.Children {
			if err := WalkComparisons(child, fn); err != nil {
				return err
			}
		}
	case *OrClause:
		for _, child := range n.Children {
			if err := WalkComparisons(child, fn); err != nil {
				return err
			}
		}
	case *NotClause:
		return WalkComparisons(n.Child, fn)
	}
	return nil
}
