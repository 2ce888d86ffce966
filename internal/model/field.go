package model

// FieldType tags the search semantics of a field. System and custom
// fields with the same tag share operator support, operand resolution,
// and comparison behavior.
type FieldType string

const (
	// System field types.
	TypeProject    FieldType = "project"
	TypeIssueType  FieldType = "issuetype"
	TypeIssueKey   FieldType = "issuekey"
	TypeParent     FieldType = "parent"
	TypeText       FieldType = "text"     // summary, description, environment, comment
	TypeDate       FieldType = "date"     // due; relative and date-only formats
	TypeDateTime   FieldType = "datetime" // created, updated, resolved
	TypeUser       FieldType = "user"     // assignee, reporter
	TypePriority   FieldType = "priority" // ranked option
	TypeStatus     FieldType = "status"
	TypeResolution FieldType = "resolution"
	TypeVersion    FieldType = "version" // affectedVersion, fixVersion
	TypeComponent  FieldType = "component"
	TypeDuration   FieldType = "duration" // originalEstimate, remainingEstimate, timeSpent
	TypeVotes      FieldType = "votes"
	TypeWorkRatio  FieldType = "workratio"
	TypeLabels     FieldType = "labels"
	TypeLevel      FieldType = "level" // security level
	TypeFilter     FieldType = "filter"

	// Custom field types.
	TypeCustomText      FieldType = "custom-text"
	TypeCustomDate      FieldType = "custom-date" // date picker; relative and date-only formats
	TypeCustomDateTime  FieldType = "custom-datetime"
	TypeCustomSelect    FieldType = "custom-select" // single select, radio buttons
	TypeCustomMulti     FieldType = "custom-multi"  // multi select, checkboxes
	TypeCustomCascading FieldType = "custom-cascading"
	TypeCustomUser      FieldType = "custom-user"
	TypeCustomMultiUser FieldType = "custom-multiuser"
	TypeCustomGroup     FieldType = "custom-group"
	TypeCustomNumber    FieldType = "custom-number"
	TypeCustomVersion   FieldType = "custom-version"
	TypeCustomProject   FieldType = "custom-project"
	TypeCustomURL       FieldType = "custom-url"
	TypeCustomImportID  FieldType = "custom-importid"
	TypeCustomReadOnly  FieldType = "custom-readonly"

	// Sort-only pseudo fields (progress, subtasks).
	TypeSortOnly FieldType = "sort-only"
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	return string(t)
}

// IsCustom reports whether the type belongs to a custom field.
func (t FieldType) IsCustom() bool {
	switch t {
	case TypeCustomText, TypeCustomDate, TypeCustomDateTime, TypeCustomSelect,
		TypeCustomMulti, TypeCustomCascading, TypeCustomUser, TypeCustomMultiUser,
		TypeCustomGroup, TypeCustomNumber, TypeCustomVersion, TypeCustomProject,
		TypeCustomURL, TypeCustomImportID, TypeCustomReadOnly:
		return true
	}
	return false
}

// IsValid checks whether the field type is a known value.
func (t FieldType) IsValid() bool {
	switch t {
	case TypeProject, TypeIssueType, TypeIssueKey, TypeParent, TypeText,
		TypeDate, TypeDateTime, TypeUser, TypePriority, TypeStatus,
		TypeResolution, TypeVersion, TypeComponent, TypeDuration, TypeVotes,
		TypeWorkRatio, TypeLabels, TypeLevel, TypeFilter, TypeSortOnly:
		return true
	}
	return t.IsCustom()
}
