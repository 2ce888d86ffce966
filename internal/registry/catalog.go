// Package registry holds the searchable-field catalog: field
// definitions, custom-field contexts, and the reference data (projects,
// versions, users, options, ...) that operand resolution runs against.
// A Catalog is configuration state; evaluation reads it through an
// immutable Snapshot.
package registry

import "github.com/groblegark/kjql/internal/model"

// Project is a project reference record. An empty Browsers list means
// every user may browse the project.
type Project struct {
	ID       int64    `json:"id" toml:"id"`
	Key      string   `json:"key" toml:"key"`
	Name     string   `json:"name" toml:"name"`
	Browsers []string `json:"browsers,omitempty" toml:"browsers"`
}

// NamedItem is a generic id/name reference record (issue types,
// priorities, statuses, resolutions, security levels). Sequence orders
// ranked items; lower sequence sorts first ascending.
type NamedItem struct {
	ID       int64  `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Sequence int    `json:"sequence,omitempty" toml:"sequence"`
}

// Version is a project version. Sequence is the release ordering used
// by relational comparisons.
type Version struct {
	ID        int64  `json:"id" toml:"id"`
	Name      string `json:"name" toml:"name"`
	ProjectID int64  `json:"project_id" toml:"project_id"`
	Sequence  int    `json:"sequence" toml:"sequence"`
	Released  bool   `json:"released,omitempty" toml:"released"`
	Archived  bool   `json:"archived,omitempty" toml:"archived"`
}

// Component is a project component.
type Component struct {
	ID        int64  `json:"id" toml:"id"`
	Name      string `json:"name" toml:"name"`
	ProjectID int64  `json:"project_id" toml:"project_id"`
}

// User is a searchable user record.
type User struct {
	Name     string   `json:"name" toml:"name"` // login name, the search key
	FullName string   `json:"full_name,omitempty" toml:"full_name"`
	Groups   []string `json:"groups,omitempty" toml:"groups"`
}

// Option is a custom-field option (select, radio, checkbox, cascading).
// ParentID links cascading child options to their parent option.
type Option struct {
	ID       int64  `json:"id" toml:"id"`
	FieldID  string `json:"field_id" toml:"field_id"`
	Value    string `json:"value" toml:"value"`
	ParentID int64  `json:"parent_id,omitempty" toml:"parent_id"`
	Disabled bool   `json:"disabled,omitempty" toml:"disabled"`
}

// SavedFilter is a stored search whose clause tree other queries can
// reference through the "filter" field.
type SavedFilter struct {
	ID         int64  `json:"id" toml:"id"`
	Name       string `json:"name" toml:"name"`
	Owner      string `json:"owner,omitempty" toml:"owner"`
	ClauseJSON string `json:"clause" toml:"clause"`
}

// TimeTracking holds the unit settings that scale textual duration
// literals into minutes. Changing them changes what '1d' resolves to.
type TimeTracking struct {
	HoursPerDay float64 `json:"hours_per_day" toml:"hours_per_day"`
	DaysPerWeek float64 `json:"days_per_week" toml:"days_per_week"`
}

// DefaultTimeTracking matches the product defaults (8h days, 5d weeks).
func DefaultTimeTracking() TimeTracking {
	return TimeTracking{HoursPerDay: 8, DaysPerWeek: 5}
}

// Field describes one searchable (or sort-only) field.
type Field struct {
	ID          string          `json:"id" toml:"id"` // canonical clause name; "cf[10000]" for custom fields
	CustomID    int64           `json:"custom_id,omitempty" toml:"custom_id"`
	Name        string          `json:"name" toml:"name"` // display name, used in error messages
	Aliases     []string        `json:"aliases,omitempty" toml:"aliases"`
	Type        model.FieldType `json:"type" toml:"type"`
	Searchable  bool            `json:"searchable" toml:"searchable"` // a searcher is configured
	Orderable   bool            `json:"orderable" toml:"orderable"`
	DefaultDesc bool            `json:"default_desc,omitempty" toml:"default_desc"`
}

// Context binds a custom-field configuration to a scope: a set of
// projects (empty = all) crossed with a set of issue types (empty =
// all). A field with no contexts is out of scope everywhere.
type Context struct {
	ID           string  `json:"id" toml:"id"`
	FieldID      string  `json:"field_id" toml:"field_id"`
	ProjectIDs   []int64 `json:"project_ids,omitempty" toml:"project_ids"`
	IssueTypeIDs []int64 `json:"issue_type_ids,omitempty" toml:"issue_type_ids"`
}

// Catalog is the full search configuration: reference data, custom
// fields, and context bindings. System fields are implicit (see
// SystemFields) and need not appear in Fields.
type Catalog struct {
	Projects     []Project     `json:"projects,omitempty" toml:"projects"`
	IssueTypes   []NamedItem   `json:"issue_types,omitempty" toml:"issue_types"`
	Priorities   []NamedItem   `json:"priorities,omitempty" toml:"priorities"`
	Statuses     []NamedItem   `json:"statuses,omitempty" toml:"statuses"`
	Resolutions  []NamedItem   `json:"resolutions,omitempty" toml:"resolutions"`
	Levels       []NamedItem   `json:"levels,omitempty" toml:"levels"`
	Versions     []Version     `json:"versions,omitempty" toml:"versions"`
	Components   []Component   `json:"components,omitempty" toml:"components"`
	Users        []User        `json:"users,omitempty" toml:"users"`
	Groups       []string      `json:"groups,omitempty" toml:"groups"`
	Options      []Option      `json:"options,omitempty" toml:"options"`
	Filters      []SavedFilter `json:"filters,omitempty" toml:"filters"`
	Fields       []Field       `json:"fields,omitempty" toml:"fields"`
	Contexts     []Context     `json:"contexts,omitempty" toml:"contexts"`
	TimeTracking TimeTracking  `json:"time_tracking" toml:"time_tracking"`
}

// Clone returns a deep copy of the catalog. Administrative mutations
// clone, edit, and publish a fresh snapshot; in-flight evaluations keep
// reading the old one.
func (c Catalog) Clone() Catalog {
	out := c
	out.Projects = append([]Project(nil), c.Projects...)
	out.IssueTypes = append([]NamedItem(nil), c.IssueTypes...)
	out.Priorities = append([]NamedItem(nil), c.Priorities...)
	out.Statuses = append([]NamedItem(nil), c.Statuses...)
	out.Resolutions = append([]NamedItem(nil), c.Resolutions...)
	out.Levels = append([]NamedItem(nil), c.Levels...)
	out.Versions = append([]Version(nil), c.Versions...)
	out.Components = append([]Component(nil), c.Components...)
	out.Users = append([]User(nil), c.Users...)
	out.Groups = append([]string(nil), c.Groups...)
	out.Options = append([]Option(nil), c.Options...)
	out.Filters = append([]SavedFilter(nil), c.Filters...)
	out.Fields = append([]Field(nil), c.Fields...)
	out.Contexts = append([]Context(nil), c.Contexts...)
	return out
}
