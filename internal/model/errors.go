package model

import "fmt"

// ErrorKind classifies a query error. The user-facing message is fixed
// per kind; downstream surfaces assert on the literal text.
type ErrorKind int

const (
	ErrFieldNotFound ErrorKind = iota
	ErrFieldNotSearchable
	ErrOperatorNotSupported
	ErrEmptyNotSupported
	ErrEmptyStringNotSupported
	ErrNameNotFound
	ErrIDNotFound
	ErrOptionNotFound
	ErrGroupNotFound
	ErrIssueKeyInvalid
	ErrInvalidDateFormat
	ErrInvalidRelativeDateFormat
	ErrInvalidDurationFormat
	ErrInvalidIntegerFormat
	ErrInvalidVotesFormat
	ErrWildcardStart
	ErrInvalidStartChar
	ErrCantParseQuery
	ErrFunctionNotSupported
	ErrCyclicalFilter
	ErrFieldNotOrderable
)

// QueryError is a user-facing query validation or resolution error.
// Any QueryError aborts evaluation of the whole query.
type QueryError struct {
	Kind    ErrorKind
	Message string
}

func (e *QueryError) Error() string { return e.Message }

func queryErrorf(kind ErrorKind, format string, args ...any) *QueryError {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewFieldNotFound covers missing fields, out-of-scope fields, and
// permission denials alike; the three causes are intentionally
// indistinguishable to the end user.
func NewFieldNotFound(field string) *QueryError {
	return queryErrorf(ErrFieldNotFound,
		"Field '%s' does not exist or you do not have permission to view it.", field)
}

func NewFieldNotSearchable(field string) *QueryError {
	return queryErrorf(ErrFieldNotSearchable,
		"Field '%s' is not searchable, it is only sortable.", field)
}

func NewOperatorNotSupported(op Operator, field string) *QueryError {
	return queryErrorf(ErrOperatorNotSupported,
		"The operator '%s' is not supported by the '%s' field.", op, field)
}

func NewEmptyNotSupported(field string) *QueryError {
	return queryErrorf(ErrEmptyNotSupported,
		"The field '%s' does not support searching for EMPTY values.", field)
}

func NewEmptyStringNotSupported(field string) *QueryError {
	return queryErrorf(ErrEmptyStringNotSupported,
		"The field '%s' does not support searching for an empty string.", field)
}

// NewNameNotFound reports an unresolvable name literal. The operand is
// rendered with its source quoting.
func NewNameNotFound(operand, field string) *QueryError {
	return queryErrorf(ErrNameNotFound,
		"The value %s does not exist for the field '%s'.", operand, field)
}

func NewIDNotFound(id, field string) *QueryError {
	return queryErrorf(ErrIDNotFound,
		"A value with ID '%s' does not exist for the field '%s'.", id, field)
}

func NewOptionNotFound(operand, field string) *QueryError {
	return queryErrorf(ErrOptionNotFound,
		"The option %s for field '%s' does not exist.", operand, field)
}

func NewGroupNotFound(operand, field string) *QueryError {
	return queryErrorf(ErrGroupNotFound,
		"The group %s for field '%s' does not exist.", operand, field)
}

func NewIssueKeyInvalid(operand, field string) *QueryError {
	return queryErrorf(ErrIssueKeyInvalid,
		"The issue key %s for field '%s' is invalid.", operand, field)
}

func NewInvalidDateFormat(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidDateFormat,
		"Date value %s for field '%s' is invalid. Valid formats include: 'yyyy/MM/dd HH:mm', 'yyyy-MM-dd HH:mm', 'yyyy/MM/dd', 'yyyy-MM-dd', or a period format e.g. '-5d', '4w 2d'.",
		operand, field)
}

func NewInvalidRelativeDateFormat(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidRelativeDateFormat,
		"Date value %s for field '%s' is invalid. Valid formats include: 'YYYY/MM/DD', 'YYYY-MM-DD', or a period format e.g. '-5d', '4w 2d'.",
		operand, field)
}

func NewInvalidDurationFormat(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidDurationFormat,
		"The value %s for field '%s' is invalid. Please specify a positive duration format; for example: '1h 30m', '2d'.",
		operand, field)
}

func NewInvalidIntegerFormat(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidIntegerFormat,
		"The value %s for field '%s' is invalid - please specify an integer.", operand, field)
}

func NewInvalidVotesFormat(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidVotesFormat,
		"Value %s is invalid for the '%s' field. Votes must be a positive whole number.", operand, field)
}

func NewWildcardStart(operand, field string) *QueryError {
	return queryErrorf(ErrWildcardStart,
		"The text query %s for field '%s' is not valid: the '*' and '?' are not allowed as first character in wildcard query.",
		operand, field)
}

func NewInvalidStartChar(operand, field string) *QueryError {
	return queryErrorf(ErrInvalidStartChar,
		"The text query %s for field '%s' is not allowed to start with %s.", operand, field, operand)
}

func NewCantParseQuery(operand, field string) *QueryError {
	return queryErrorf(ErrCantParseQuery,
		"Unable to parse the text %s for field '%s'.", operand, field)
}

func NewFunctionNotSupported(fn, field string) *QueryError {
	return queryErrorf(ErrFunctionNotSupported,
		"The value %s does not exist for the field '%s'.", fn, field)
}

func NewFieldNotOrderable(field string) *QueryError {
	return queryErrorf(ErrFieldNotOrderable,
		"Field '%s' does not support sorting.", field)
}

// NewCyclicalFilterReference reports a saved filter that, directly or
// through other filters, references itself.
func NewCyclicalFilterReference(filter string) *QueryError {
	return queryErrorf(ErrCyclicalFilter,
		"Field 'filter' with value '%s' matches filter '%s' and causes a cyclical reference, this query can not be executed and should be edited.",
		filter, filter)
}
