package query

import (
	"testing"

	"github.com/groblegark/kjql/internal/model"
)

// validateError validates a single comparison as fred and returns the
// first error.
func validateError(t *testing.T, clause model.Clause) *model.QueryError {
	t.Helper()
	qerr := testEngine("fred").Validate(clause)
	if qerr == nil {
		t.Fatal("expected validation error, got nil")
	}
	return qerr
}

func assertMessage(t *testing.T, qerr *model.QueryError, want string) {
	t.Helper()
	if qerr.Message != want {
		t.Errorf("message = %q, want %q", qerr.Message, want)
	}
}

func TestValidate_ValidTree(t *testing.T) {
	clause := model.And(
		model.Compare("project", model.OpEquals, model.StringOperand("HSP")),
		model.Compare("priority", model.OpIn, model.StringOperand("Blocker"), model.StringOperand("Critical")),
	)
	if qerr := testEngine("fred").Validate(clause); qerr != nil {
		t.Errorf("valid tree rejected: %v", qerr)
	}
}

func TestValidate_UnknownField(t *testing.T) {
	qerr := validateError(t, model.Compare("bogus", model.OpEquals, model.StringOperand("x")))
	assertMessage(t, qerr, "Field 'bogus' does not exist or you do not have permission to view it.")
}

func TestValidate_SortOnlyField(t *testing.T) {
	qerr := validateError(t, model.Compare("progress", model.OpEquals, model.NumberOperand("1")))
	assertMessage(t, qerr, "Field 'progress' is not searchable, it is only sortable.")
}

func TestValidate_OperatorNotSupported(t *testing.T) {
	qerr := validateError(t, model.Compare("priority", model.OpContains, model.StringOperand("Blocker")))
	assertMessage(t, qerr, "The operator '~' is not supported by the 'priority' field.")
}

func TestValidate_OperatorMessageKeepsAlias(t *testing.T) {
	// The clause wrote "type", not the registered "issuetype".
	qerr := validateError(t, model.Compare("type", model.OpContains, model.StringOperand("Bug")))
	assertMessage(t, qerr, "The operator '~' is not supported by the 'type' field.")
}

func TestValidate_IsRequiresEmptyOperand(t *testing.T) {
	qerr := validateError(t, model.Compare("assignee", model.OpIs, model.StringOperand("fred")))
	assertMessage(t, qerr, "The operator 'is' is not supported by the 'assignee' field.")
}

func TestValidate_EmptyNotSupported(t *testing.T) {
	qerr := validateError(t, model.Compare("project", model.OpEquals, model.EmptyOperand()))
	assertMessage(t, qerr, "The field 'project' does not support searching for EMPTY values.")
}

func TestValidate_EmptyWithRelationalOperator(t *testing.T) {
	qerr := validateError(t, model.Compare("due", model.OpLess, model.EmptyOperand()))
	assertMessage(t, qerr, "The field 'due' does not support searching for EMPTY values.")
}

func TestValidate_NameNotFound(t *testing.T) {
	qerr := validateError(t, model.Compare("priority", model.OpEquals, model.StringOperand("Nonexistent")))
	assertMessage(t, qerr, "The value Nonexistent does not exist for the field 'priority'.")
}

func TestValidate_QuotedNameKeepsQuotes(t *testing.T) {
	qerr := validateError(t, model.Compare("priority", model.OpEquals, model.QuotedOperand("Nonexistent")))
	assertMessage(t, qerr, "The value 'Nonexistent' does not exist for the field 'priority'.")
}

func TestValidate_IDNotFound(t *testing.T) {
	qerr := validateError(t, model.Compare("priority", model.OpEquals, model.NumberOperand("987")))
	assertMessage(t, qerr, "A value with ID '987' does not exist for the field 'priority'.")
}

func TestValidate_RelationalWantsSingleOperand(t *testing.T) {
	qerr := validateError(t, model.Compare("priority", model.OpGreater,
		model.StringOperand("Blocker"), model.StringOperand("Critical")))
	assertMessage(t, qerr, "The operator '>' is not supported by the 'priority' field.")
}

func TestValidate_TextWildcardStart(t *testing.T) {
	qerr := validateError(t, model.Compare("summary", model.OpContains, model.QuotedOperand("*login")))
	assertMessage(t, qerr,
		"The text query '*login' for field 'summary' is not valid: the '*' and '?' are not allowed as first character in wildcard query.")
}

func TestValidate_TextEmptyString(t *testing.T) {
	qerr := validateError(t, model.Compare("summary", model.OpContains, model.QuotedOperand("")))
	assertMessage(t, qerr, "The field 'summary' does not support searching for an empty string.")
}

func TestValidate_DateFormat(t *testing.T) {
	qerr := validateError(t, model.Compare("created", model.OpLess, model.QuotedOperand("13/05/2009x")))
	assertMessage(t, qerr,
		"Date value '13/05/2009x' for field 'created' is invalid. Valid formats include: 'yyyy/MM/dd HH:mm', 'yyyy-MM-dd HH:mm', 'yyyy/MM/dd', 'yyyy-MM-dd', or a period format e.g. '-5d', '4w 2d'.")
}

func TestValidate_DateOnlyFieldRejectsTimeComponent(t *testing.T) {
	qerr := validateError(t, model.Compare("due", model.OpLess, model.QuotedOperand("2009/05/13 18:50")))
	assertMessage(t, qerr,
		"Date value '2009/05/13 18:50' for field 'due' is invalid. Valid formats include: 'YYYY/MM/DD', 'YYYY-MM-DD', or a period format e.g. '-5d', '4w 2d'.")
}

func TestValidate_VotesFormat(t *testing.T) {
	qerr := validateError(t, model.Compare("votes", model.OpEquals, model.QuotedOperand("many")))
	assertMessage(t, qerr, "Value 'many' is invalid for the 'votes' field. Votes must be a positive whole number.")
}

func TestValidate_MembersOfUnknownGroup(t *testing.T) {
	clause := model.And(
		model.Compare("project", model.OpEquals, model.StringOperand("HSP")),
		model.Compare("assignee", model.OpIn, model.FuncOperand("membersOf", "nosuchgroup")),
	)
	qerr := validateError(t, clause)
	assertMessage(t, qerr, "The group 'nosuchgroup' for field 'assignee' does not exist.")
}

func TestValidate_UnknownFunction(t *testing.T) {
	qerr := validateError(t, model.Compare("assignee", model.OpEquals, model.FuncOperand("lastLogin")))
	assertMessage(t, qerr, "The value lastLogin() does not exist for the field 'assignee'.")
}

func TestValidate_ScopeConflationReadsAsNotFound(t *testing.T) {
	clause := model.And(
		model.Compare("project", model.OpEquals, model.StringOperand("monkey")),
		model.Compare("Colour", model.OpEquals, model.StringOperand("red")),
	)
	qerr := validateError(t, clause)
	assertMessage(t, qerr, "Field 'Colour' does not exist or you do not have permission to view it.")
}
