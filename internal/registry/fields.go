package registry

import "github.com/groblegark/kjql/internal/model"

// equalityOps is the membership operator set shared by categorical fields.
var equalityOps = []model.Operator{
	model.OpEquals, model.OpNotEquals, model.OpIn, model.OpNotIn,
	model.OpIs, model.OpIsNot,
}

// orderedOps adds the relational operators to the equality set.
var orderedOps = append([]model.Operator{
	model.OpLess, model.OpLessEq, model.OpGreater, model.OpGreaterEq,
}, equalityOps...)

// textOps is the operator set for free-text searched fields.
var textOps = []model.Operator{
	model.OpContains, model.OpNotContains, model.OpIs, model.OpIsNot,
}

// typeCapability describes what a FieldType supports.
type typeCapability struct {
	operators     []model.Operator
	supportsEmpty bool
	ordered       bool // relational operators compare meaningfully
}

var capabilities = map[model.FieldType]typeCapability{
	model.TypeProject:    {operators: equalityOps},
	model.TypeIssueType:  {operators: equalityOps},
	model.TypeIssueKey:   {operators: withoutIs(orderedOps)},
	model.TypeParent:     {operators: []model.Operator{model.OpEquals, model.OpNotEquals, model.OpIn, model.OpNotIn}},
	model.TypeText:       {operators: textOps, supportsEmpty: true},
	model.TypeDate:       {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeDateTime:   {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeUser:       {operators: equalityOps, supportsEmpty: true},
	model.TypePriority:   {operators: orderedOps, ordered: true},
	model.TypeStatus:     {operators: equalityOps},
	model.TypeResolution: {operators: equalityOps, supportsEmpty: true},
	model.TypeVersion:    {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeComponent:  {operators: equalityOps, supportsEmpty: true},
	model.TypeDuration:   {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeVotes:      {operators: withoutIs(orderedOps), ordered: true},
	model.TypeWorkRatio:  {operators: orderedOps, ordered: true},
	model.TypeLabels:     {operators: equalityOps, supportsEmpty: true},
	model.TypeLevel:      {operators: equalityOps, supportsEmpty: true},
	model.TypeFilter:     {operators: []model.Operator{model.OpEquals, model.OpNotEquals, model.OpIn, model.OpNotIn}},

	model.TypeCustomText:      {operators: textOps, supportsEmpty: true},
	model.TypeCustomDate:      {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeCustomDateTime:  {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeCustomSelect:    {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomMulti:     {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomCascading: {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomUser:      {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomMultiUser: {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomGroup:     {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomNumber:    {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeCustomVersion:   {operators: orderedOps, supportsEmpty: true, ordered: true},
	model.TypeCustomProject:   {operators: equalityOps, supportsEmpty: true},
	model.TypeCustomURL:       {operators: textOps, supportsEmpty: true},
	model.TypeCustomImportID:  {operators: withoutIs(orderedOps), ordered: true},
	model.TypeCustomReadOnly:  {operators: textOps, supportsEmpty: true},

	model.TypeSortOnly: {},
}

// withoutIs strips the is/is not operators from a set.
func withoutIs(ops []model.Operator) []model.Operator {
	out := make([]model.Operator, 0, len(ops))
	for _, op := range ops {
		if op != model.OpIs && op != model.OpIsNot {
			out = append(out, op)
		}
	}
	return out
}

// SupportedOperators returns the operator set for a field type.
func SupportedOperators(t model.FieldType) []model.Operator {
	return capabilities[t].operators
}

// SupportsOperator reports whether the field type supports the operator.
func SupportsOperator(t model.FieldType, op model.Operator) bool {
	for _, o := range capabilities[t].operators {
		if o == op {
			return true
		}
	}
	return false
}

// SupportsEmpty reports whether the field type can be searched for
// EMPTY values.
func SupportsEmpty(t model.FieldType) bool {
	return capabilities[t].supportsEmpty
}

// IsOrdered reports whether relational operators order the field type.
func IsOrdered(t model.FieldType) bool {
	return capabilities[t].ordered
}

// SystemFields returns the built-in field registrations. Default sort
// directions follow the documented per-field table: dates, priority,
// status, type, votes, and the three work-log durations default
// descending; everything else ascends.
func SystemFields() []Field {
	return []Field{
		{ID: "project", Name: "project", Type: model.TypeProject, Searchable: true, Orderable: true},
		{ID: "issuetype", Name: "type", Aliases: []string{"type"}, Type: model.TypeIssueType, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "issuekey", Name: "key", Aliases: []string{"key", "issue", "id"}, Type: model.TypeIssueKey, Searchable: true, Orderable: true},
		{ID: "parent", Name: "parent", Type: model.TypeParent, Searchable: true},
		{ID: "summary", Name: "summary", Type: model.TypeText, Searchable: true, Orderable: true},
		{ID: "description", Name: "description", Type: model.TypeText, Searchable: true, Orderable: true},
		{ID: "environment", Name: "environment", Type: model.TypeText, Searchable: true, Orderable: true},
		{ID: "comment", Name: "comment", Type: model.TypeText, Searchable: true},
		{ID: "assignee", Name: "assignee", Type: model.TypeUser, Searchable: true, Orderable: true},
		{ID: "reporter", Name: "reporter", Type: model.TypeUser, Searchable: true, Orderable: true},
		{ID: "priority", Name: "priority", Type: model.TypePriority, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "status", Name: "status", Type: model.TypeStatus, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "resolution", Name: "resolution", Type: model.TypeResolution, Searchable: true, Orderable: true},
		{ID: "affectedVersion", Name: "affectedVersion", Type: model.TypeVersion, Searchable: true, Orderable: true},
		{ID: "fixVersion", Name: "fixVersion", Type: model.TypeVersion, Searchable: true, Orderable: true},
		{ID: "component", Name: "component", Type: model.TypeComponent, Searchable: true, Orderable: true},
		{ID: "created", Name: "created", Aliases: []string{"createdDate"}, Type: model.TypeDateTime, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "updated", Name: "updated", Aliases: []string{"updatedDate"}, Type: model.TypeDateTime, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "resolved", Name: "resolved", Aliases: []string{"resolutionDate"}, Type: model.TypeDateTime, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "due", Name: "due", Aliases: []string{"dueDate"}, Type: model.TypeDate, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "originalEstimate", Name: "originalEstimate", Aliases: []string{"timeOriginalEstimate"}, Type: model.TypeDuration, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "remainingEstimate", Name: "remainingEstimate", Aliases: []string{"timeEstimate"}, Type: model.TypeDuration, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "timeSpent", Name: "timeSpent", Type: model.TypeDuration, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "votes", Name: "votes", Type: model.TypeVotes, Searchable: true, Orderable: true, DefaultDesc: true},
		{ID: "workratio", Name: "workratio", Type: model.TypeWorkRatio, Searchable: true, Orderable: true},
		{ID: "labels", Name: "labels", Type: model.TypeLabels, Searchable: true, Orderable: true},
		{ID: "level", Name: "level", Type: model.TypeLevel, Searchable: true, Orderable: true},
		{ID: "filter", Name: "filter", Aliases: []string{"savedfilter", "request", "searchrequest"}, Type: model.TypeFilter, Searchable: true},

		// Sort-only registrations: orderable, never searchable.
		{ID: "progress", Name: "progress", Type: model.TypeSortOnly, Orderable: true},
		{ID: "subtasks", Name: "subtasks", Type: model.TypeSortOnly, Orderable: true},
	}
}
