package model

// Issue is the searchable work-item record. Field values are stored
// under canonical field IDs ("assignee", "cf[10000]", ...); the
// structural fields (project, type, key, parent) are kept directly and
// surfaced through FieldValues.
type Issue struct {
	ID        int64              `json:"id"`
	Key       string             `json:"key"`
	ProjectID int64              `json:"project_id"`
	TypeID    int64              `json:"type_id"`
	ParentID  int64              `json:"parent_id,omitempty"` // 0 = not a sub-task
	Values    map[string][]Value `json:"values,omitempty"`
}

// Canonical IDs of the structural fields.
const (
	FieldProject   = "project"
	FieldIssueType = "issuetype"
	FieldIssueKey  = "issuekey"
	FieldParent    = "parent"
)

// FieldValues returns the issue's stored values for the given canonical
// field ID. A nil result means the field has no value (EMPTY).
func (i *Issue) FieldValues(fieldID string) []Value {
	switch fieldID {
	case FieldProject:
		return []Value{IDValue(i.ProjectID)}
	case FieldIssueType:
		return []Value{IDValue(i.TypeID)}
	case FieldIssueKey:
		return []Value{StringValue(i.Key)}
	case FieldParent:
		if i.ParentID == 0 {
			return nil
		}
		return []Value{IDValue(i.ParentID)}
	}
	return i.Values[fieldID]
}

// SetValue replaces the stored values for a field.
func (i *Issue) SetValue(fieldID string, values ...Value) {
	if i.Values == nil {
		i.Values = make(map[string][]Value)
	}
	i.Values[fieldID] = values
}
