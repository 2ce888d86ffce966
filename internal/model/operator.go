package model

// Operator is a JQL comparison operator.
type Operator string

const (
	OpEquals      Operator = "="
	OpNotEquals   Operator = "!="
	OpIn          Operator = "in"
	OpNotIn       Operator = "not in"
	OpLess        Operator = "<"
	OpLessEq      Operator = "<="
	OpGreater     Operator = ">"
	OpGreaterEq   Operator = ">="
	OpContains    Operator = "~"
	OpNotContains Operator = "!~"
	OpIs          Operator = "is"
	OpIsNot       Operator = "is not"
)

// String returns the string representation of the operator.
func (o Operator) String() string {
	return string(o)
}

// IsValid checks whether the operator is a known value.
func (o Operator) IsValid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpIn, OpNotIn,
		OpLess, OpLessEq, OpGreater, OpGreaterEq,
		OpContains, OpNotContains, OpIs, OpIsNot:
		return true
	}
	return false
}

// IsNegation reports whether the operator is the negated form of another.
// Negated operators evaluate as the set complement of their positive form.
func (o Operator) IsNegation() bool {
	switch o {
	case OpNotEquals, OpNotIn, OpNotContains, OpIsNot:
		return true
	}
	return false
}

// Positive returns the positive counterpart of a negated operator.
// Positive operators are returned unchanged.
func (o Operator) Positive() Operator {
	switch o {
	case OpNotEquals:
		return OpEquals
	case OpNotIn:
		return OpIn
	case OpNotContains:
		return OpContains
	case OpIsNot:
		return OpIs
	}
	return o
}

// IsRelational reports whether the operator orders values rather than
// testing membership.
func (o Operator) IsRelational() bool {
	switch o {
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return true
	}
	return false
}

// AcceptsList reports whether the operator takes a list of operands.
func (o Operator) AcceptsList() bool {
	return o == OpIn || o == OpNotIn
}

// Direction is a sort direction for an ORDER BY term.
type Direction string

const (
	DirectionDefault Direction = ""
	DirectionAsc     Direction = "ASC"
	DirectionDesc    Direction = "DESC"
)

// IsValid checks whether the direction is a known value.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionDefault, DirectionAsc, DirectionDesc:
		return true
	}
	return false
}

// SortField is one term of an ORDER BY clause. An empty Direction means
// the field's documented default direction applies.
type SortField struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction,omitempty"`
}
