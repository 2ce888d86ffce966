package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind discriminates the payload of a Value.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindID
	KindString
	KindTime
	KindNumber
	KindDuration
)

// Value is a concrete domain value: either a stored field value on an
// issue, or the result of resolving a query operand. EMPTY and NULL
// literals resolve to the empty marker.
type Value struct {
	Kind ValueKind
	ID   int64
	Str  string
	Time time.Time
	Num  float64
	Dur  int64 // minutes

	// DateOnly marks a resolved date literal that carried no time
	// component. Relational comparisons against datetime fields widen
	// such values to day boundaries.
	DateOnly bool
}

// EmptyValue returns the empty marker.
func EmptyValue() Value { return Value{Kind: KindEmpty} }

// IDValue returns a value identified by a numeric domain id.
func IDValue(id int64) Value { return Value{Kind: KindID, ID: id} }

// StringValue returns a plain string value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// TimeValue returns a timestamp value.
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// DateValue returns a day-precision timestamp value.
func DateValue(t time.Time) Value { return Value{Kind: KindTime, Time: t, DateOnly: true} }

// NumberValue returns a numeric value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// DurationValue returns a duration value in minutes.
func DurationValue(minutes int64) Value { return Value{Kind: KindDuration, Dur: minutes} }

// IsEmpty reports whether the value is the empty marker.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// ContainsEmpty reports whether any value in the set is the empty marker.
func ContainsEmpty(values []Value) bool {
	for _, v := range values {
		if v.IsEmpty() {
			return true
		}
	}
	return false
}

// valueEnvelope is the JSON wire form of a value. Exactly one payload
// field is set, discriminating the kind.
type valueEnvelope struct {
	Empty    bool       `json:"empty,omitempty"`
	ID       *int64     `json:"id,omitempty"`
	Str      *string    `json:"str,omitempty"`
	Time     *time.Time `json:"time,omitempty"`
	Num      *float64   `json:"num,omitempty"`
	Dur      *int64     `json:"dur,omitempty"`
	DateOnly bool       `json:"date_only,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	env := valueEnvelope{}
	switch v.Kind {
	case KindEmpty:
		env.Empty = true
	case KindID:
		id := v.ID
		env.ID = &id
	case KindString:
		s := v.Str
		env.Str = &s
	case KindTime:
		t := v.Time
		env.Time = &t
		env.DateOnly = v.DateOnly
	case KindNumber:
		n := v.Num
		env.Num = &n
	case KindDuration:
		d := v.Dur
		env.Dur = &d
	}
	return json.Marshal(env)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var env valueEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch {
	case env.Empty:
		*v = EmptyValue()
	case env.ID != nil:
		*v = IDValue(*env.ID)
	case env.Str != nil:
		*v = StringValue(*env.Str)
	case env.Time != nil:
		*v = Value{Kind: KindTime, Time: *env.Time, DateOnly: env.DateOnly}
	case env.Num != nil:
		*v = NumberValue(*env.Num)
	case env.Dur != nil:
		*v = DurationValue(*env.Dur)
	default:
		return fmt.Errorf("value must have one of empty/id/str/time/num/dur")
	}
	return nil
}
