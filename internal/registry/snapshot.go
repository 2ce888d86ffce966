package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Snapshot is an immutable view of a Catalog with lookup indexes built.
// A single evaluation reads one snapshot throughout; administrative
// mutations build and publish a new snapshot rather than editing one in
// place.
type Snapshot struct {
	catalog Catalog

	fieldsByKey     map[string]*Field   // lowercased id, aliases, display name, cf[n]
	sortFieldsByKey map[string][]*Field // display name -> all fields carrying it
	contextsByField map[string][]Context

	projectsByID   map[int64]*Project
	projectsByName map[string]*Project // lowercased key and name

	typesByID         map[int64]*NamedItem
	typesByName       map[string]*NamedItem
	prioritiesByID    map[int64]*NamedItem
	prioritiesByName  map[string]*NamedItem
	statusesByID      map[int64]*NamedItem
	statusesByName    map[string]*NamedItem
	resolutionsByID   map[int64]*NamedItem
	resolutionsByName map[string]*NamedItem
	levelsByID        map[int64]*NamedItem
	levelsByName      map[string]*NamedItem

	versionsByID     map[int64]*Version
	versionsByName   map[string][]*Version
	componentsByID   map[int64]*Component
	componentsByName map[string][]*Component

	usersByName map[string]*User
	groups      map[string]bool

	optionsByID    map[int64]*Option
	optionsByField map[string][]*Option

	filtersByID   map[int64]*SavedFilter
	filtersByName map[string]*SavedFilter
}

// NewSnapshot indexes a catalog. The catalog is copied by reference;
// callers must not mutate it after handing it over (use Catalog.Clone
// when deriving a new configuration).
func NewSnapshot(cat Catalog) *Snapshot {
	s := &Snapshot{
		catalog:           cat,
		fieldsByKey:       make(map[string]*Field),
		sortFieldsByKey:   make(map[string][]*Field),
		contextsByField:   make(map[string][]Context),
		projectsByID:      make(map[int64]*Project),
		projectsByName:    make(map[string]*Project),
		typesByID:         make(map[int64]*NamedItem),
		typesByName:       make(map[string]*NamedItem),
		prioritiesByID:    make(map[int64]*NamedItem),
		prioritiesByName:  make(map[string]*NamedItem),
		statusesByID:      make(map[int64]*NamedItem),
		statusesByName:    make(map[string]*NamedItem),
		resolutionsByID:   make(map[int64]*NamedItem),
		resolutionsByName: make(map[string]*NamedItem),
		levelsByID:        make(map[int64]*NamedItem),
		levelsByName:      make(map[string]*NamedItem),
		versionsByID:      make(map[int64]*Version),
		versionsByName:    make(map[string][]*Version),
		componentsByID:    make(map[int64]*Component),
		componentsByName:  make(map[string][]*Component),
		usersByName:       make(map[string]*User),
		groups:            make(map[string]bool),
		optionsByID:       make(map[int64]*Option),
		optionsByField:    make(map[string][]*Option),
		filtersByID:       make(map[int64]*SavedFilter),
		filtersByName:     make(map[string]*SavedFilter),
	}

	fields := append(SystemFields(), cat.Fields...)
	for i := range fields {
		f := &fields[i]
		s.fieldsByKey[strings.ToLower(f.ID)] = f
		for _, alias := range f.Aliases {
			s.fieldsByKey[strings.ToLower(alias)] = f
		}
		nameKey := strings.ToLower(f.Name)
		if _, taken := s.fieldsByKey[nameKey]; !taken {
			s.fieldsByKey[nameKey] = f
		}
		s.sortFieldsByKey[nameKey] = append(s.sortFieldsByKey[nameKey], f)
	}
	// Same-named fields sort by custom field id, lowest first.
	for _, group := range s.sortFieldsByKey {
		sort.Slice(group, func(i, j int) bool { return group[i].CustomID < group[j].CustomID })
	}

	for i := range cat.Contexts {
		ctx := cat.Contexts[i]
		s.contextsByField[ctx.FieldID] = append(s.contextsByField[ctx.FieldID], ctx)
	}

	for i := range cat.Projects {
		p := &cat.Projects[i]
		s.projectsByID[p.ID] = p
		s.projectsByName[strings.ToLower(p.Key)] = p
		s.projectsByName[strings.ToLower(p.Name)] = p
	}
	indexNamed(cat.IssueTypes, s.typesByID, s.typesByName)
	indexNamed(cat.Priorities, s.prioritiesByID, s.prioritiesByName)
	indexNamed(cat.Statuses, s.statusesByID, s.statusesByName)
	indexNamed(cat.Resolutions, s.resolutionsByID, s.resolutionsByName)
	indexNamed(cat.Levels, s.levelsByID, s.levelsByName)

	for i := range cat.Versions {
		v := &cat.Versions[i]
		s.versionsByID[v.ID] = v
		key := strings.ToLower(v.Name)
		s.versionsByName[key] = append(s.versionsByName[key], v)
	}
	for i := range cat.Components {
		c := &cat.Components[i]
		s.componentsByID[c.ID] = c
		key := strings.ToLower(c.Name)
		s.componentsByName[key] = append(s.componentsByName[key], c)
	}
	for i := range cat.Users {
		u := &cat.Users[i]
		s.usersByName[strings.ToLower(u.Name)] = u
	}
	for _, g := range cat.Groups {
		s.groups[strings.ToLower(g)] = true
	}
	for i := range cat.Options {
		o := &cat.Options[i]
		s.optionsByID[o.ID] = o
		s.optionsByField[o.FieldID] = append(s.optionsByField[o.FieldID], o)
	}
	for i := range cat.Filters {
		f := &cat.Filters[i]
		s.filtersByID[f.ID] = f
		s.filtersByName[strings.ToLower(f.Name)] = f
	}
	return s
}

func indexNamed(items []NamedItem, byID map[int64]*NamedItem, byName map[string]*NamedItem) {
	for i := range items {
		item := &items[i]
		byID[item.ID] = item
		byName[strings.ToLower(item.Name)] = item
	}
}

// Catalog returns the underlying catalog for cloning into a new
// configuration.
func (s *Snapshot) Catalog() Catalog { return s.catalog }

// TimeTracking returns the duration unit settings.
func (s *Snapshot) TimeTracking() TimeTracking {
	if s.catalog.TimeTracking.HoursPerDay <= 0 {
		return DefaultTimeTracking()
	}
	return s.catalog.TimeTracking
}

// FieldByName resolves a clause name to a field, case-insensitively,
// through ids, aliases, display names, and the cf[10000] form. When
// several custom fields share a display name the lowest custom id wins
// for searching.
func (s *Snapshot) FieldByName(name string) *Field {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := s.fieldsByKey[key]; ok {
		return f
	}
	if id, ok := parseCustomFieldRef(key); ok {
		for _, f := range s.fieldsByKey {
			if f.CustomID == id {
				return f
			}
		}
	}
	return nil
}

// SortFieldsByName resolves a clause name for ORDER BY. A display name
// shared by several custom fields returns all of them in custom-id
// order; each is applied as a successive ascending tie-break.
func (s *Snapshot) SortFieldsByName(name string) []*Field {
	key := strings.ToLower(strings.TrimSpace(name))
	if group, ok := s.sortFieldsByKey[key]; ok && len(group) > 0 {
		return group
	}
	if f := s.FieldByName(name); f != nil {
		return []*Field{f}
	}
	return nil
}

// parseCustomFieldRef parses the "cf[10000]" addressing form.
func parseCustomFieldRef(name string) (int64, bool) {
	if !strings.HasPrefix(name, "cf[") || !strings.HasSuffix(name, "]") {
		return 0, false
	}
	id, err := strconv.ParseInt(name[3:len(name)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// CustomFieldID renders the canonical id for a custom field number.
func CustomFieldID(n int64) string { return fmt.Sprintf("cf[%d]", n) }

// Reference data accessors. Name lookups are case-insensitive.

func (s *Snapshot) ProjectByID(id int64) *Project      { return s.projectsByID[id] }
func (s *Snapshot) ProjectByName(name string) *Project { return s.projectsByName[strings.ToLower(name)] }

func (s *Snapshot) IssueTypeByID(id int64) *NamedItem { return s.typesByID[id] }
func (s *Snapshot) IssueTypeByName(name string) *NamedItem {
	return s.typesByName[strings.ToLower(name)]
}

func (s *Snapshot) PriorityByID(id int64) *NamedItem { return s.prioritiesByID[id] }
func (s *Snapshot) PriorityByName(name string) *NamedItem {
	return s.prioritiesByName[strings.ToLower(name)]
}

func (s *Snapshot) StatusByID(id int64) *NamedItem { return s.statusesByID[id] }
func (s *Snapshot) StatusByName(name string) *NamedItem {
	return s.statusesByName[strings.ToLower(name)]
}

func (s *Snapshot) ResolutionByID(id int64) *NamedItem { return s.resolutionsByID[id] }
func (s *Snapshot) ResolutionByName(name string) *NamedItem {
	return s.resolutionsByName[strings.ToLower(name)]
}

func (s *Snapshot) LevelByID(id int64) *NamedItem { return s.levelsByID[id] }
func (s *Snapshot) LevelByName(name string) *NamedItem {
	return s.levelsByName[strings.ToLower(name)]
}

func (s *Snapshot) VersionByID(id int64) *Version { return s.versionsByID[id] }

// VersionsByName returns every version carrying the name; the same name
// commonly exists in several projects.
func (s *Snapshot) VersionsByName(name string) []*Version {
	return s.versionsByName[strings.ToLower(name)]
}

func (s *Snapshot) ComponentByID(id int64) *Component { return s.componentsByID[id] }
func (s *Snapshot) ComponentsByName(name string) []*Component {
	return s.componentsByName[strings.ToLower(name)]
}

func (s *Snapshot) UserByName(name string) *User { return s.usersByName[strings.ToLower(name)] }

func (s *Snapshot) GroupExists(name string) bool { return s.groups[strings.ToLower(name)] }

// UsersInGroup returns the login names of the group's members.
func (s *Snapshot) UsersInGroup(group string) []string {
	var out []string
	for i := range s.catalog.Users {
		u := &s.catalog.Users[i]
		for _, g := range u.Groups {
			if strings.EqualFold(g, group) {
				out = append(out, u.Name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func (s *Snapshot) OptionByID(id int64) *Option { return s.optionsByID[id] }

// OptionsForField returns the options configured for a custom field.
func (s *Snapshot) OptionsForField(fieldID string) []*Option {
	return s.optionsByField[fieldID]
}

// OptionsByLabel returns the field's options matching a label,
// case-insensitively.
func (s *Snapshot) OptionsByLabel(fieldID, label string) []*Option {
	var out []*Option
	for _, o := range s.optionsByField[fieldID] {
		if strings.EqualFold(o.Value, label) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Snapshot) FilterByID(id int64) *SavedFilter { return s.filtersByID[id] }
func (s *Snapshot) FilterByName(name string) *SavedFilter {
	return s.filtersByName[strings.ToLower(name)]
}

// ProjectsForVersions returns the distinct project ids owning the given
// versions.
func (s *Snapshot) ProjectsForVersions(versions []*Version) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, v := range versions {
		if !seen[v.ProjectID] {
			seen[v.ProjectID] = true
			out = append(out, v.ProjectID)
		}
	}
	return out
}

// CanBrowse reports whether the user may browse the project. An empty
// browser list on the project means everyone may.
func (s *Snapshot) CanBrowse(user string, projectID int64) bool {
	p := s.projectsByID[projectID]
	if p == nil {
		return false
	}
	if len(p.Browsers) == 0 {
		return true
	}
	for _, b := range p.Browsers {
		if strings.EqualFold(b, user) {
			return true
		}
	}
	return false
}

// VisibleProjectIDs returns the ids of every project the user may
// browse, in catalog order.
func (s *Snapshot) VisibleProjectIDs(user string) []int64 {
	var out []int64
	for i := range s.catalog.Projects {
		p := &s.catalog.Projects[i]
		if s.CanBrowse(user, p.ID) {
			out = append(out, p.ID)
		}
	}
	return out
}
