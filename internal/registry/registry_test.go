package registry

import (
	"testing"

	"github.com/groblegark/kjql/internal/model"
)

func snapshotWith(cat Catalog) *Snapshot { return NewSnapshot(cat) }

func contextCatalog() Catalog {
	return Catalog{
		Projects: []Project{
			{ID: 10000, Key: "HSP", Name: "homosapien"},
			{ID: 10001, Key: "MKY", Name: "monkey", Browsers: []string{"fred"}},
		},
		IssueTypes: []NamedItem{
			{ID: 1, Name: "Bug"},
			{ID: 3, Name: "Task"},
		},
		Fields: []Field{
			{ID: "cf[10000]", CustomID: 10000, Name: "Colour", Type: model.TypeCustomSelect, Searchable: true},
			{ID: "cf[10001]", CustomID: 10001, Name: "Shape", Type: model.TypeCustomSelect, Searchable: true},
		},
		Contexts: []Context{
			{ID: "ctx-global", FieldID: "cf[10000]"},
			{ID: "ctx-hsp", FieldID: "cf[10000]", ProjectIDs: []int64{10000}},
			{ID: "ctx-bug", FieldID: "cf[10001]", ProjectIDs: []int64{10000}, IssueTypeIDs: []int64{1}},
		},
	}
}

func TestFieldByName_CaseInsensitiveAliases(t *testing.T) {
	s := snapshotWith(Catalog{})
	for _, name := range []string{"key", "KEY", "issue", "id", "issuekey"} {
		f := s.FieldByName(name)
		if f == nil || f.ID != "issuekey" {
			t.Errorf("FieldByName(%q) did not resolve to issuekey", name)
		}
	}
	if s.FieldByName("type") == nil || s.FieldByName("type").ID != "issuetype" {
		t.Error("alias 'type' did not resolve to issuetype")
	}
}

func TestFieldByName_CustomFieldRef(t *testing.T) {
	s := snapshotWith(contextCatalog())
	f := s.FieldByName("CF[10000]")
	if f == nil || f.CustomID != 10000 {
		t.Fatal("cf[10000] form did not resolve")
	}
	if got := s.FieldByName("colour"); got == nil || got.ID != "cf[10000]" {
		t.Error("display name lookup failed")
	}
}

func TestFieldByName_Unknown(t *testing.T) {
	s := snapshotWith(Catalog{})
	if s.FieldByName("bogus") != nil {
		t.Error("expected nil for unknown field")
	}
}

func TestSupportsOperator(t *testing.T) {
	cases := []struct {
		typ  model.FieldType
		op   model.Operator
		want bool
	}{
		{model.TypeProject, model.OpEquals, true},
		{model.TypeProject, model.OpLess, false},
		{model.TypePriority, model.OpGreaterEq, true},
		{model.TypeStatus, model.OpGreater, false},
		{model.TypeText, model.OpContains, true},
		{model.TypeText, model.OpEquals, false},
		{model.TypeVotes, model.OpIs, false},
		{model.TypeParent, model.OpIs, false},
		{model.TypeDate, model.OpIs, true},
	}
	for _, tc := range cases {
		if got := SupportsOperator(tc.typ, tc.op); got != tc.want {
			t.Errorf("SupportsOperator(%s, %s) = %v, want %v", tc.typ, tc.op, got, tc.want)
		}
	}
}

func TestSupportsEmpty(t *testing.T) {
	if SupportsEmpty(model.TypeProject) {
		t.Error("project should not support EMPTY")
	}
	if !SupportsEmpty(model.TypeResolution) {
		t.Error("resolution should support EMPTY")
	}
}

func TestContextFor_MostSpecificWins(t *testing.T) {
	s := snapshotWith(contextCatalog())
	ctx := s.ContextFor("cf[10000]", 10000, 1)
	if ctx == nil || ctx.ID != "ctx-hsp" {
		t.Fatalf("expected project-bound context to win, got %+v", ctx)
	}
	ctx = s.ContextFor("cf[10000]", 10001, 1)
	if ctx == nil || ctx.ID != "ctx-global" {
		t.Fatalf("expected global fallback, got %+v", ctx)
	}
}

func TestContextFor_AmbiguousTieResolvesToNothing(t *testing.T) {
	cat := contextCatalog()
	cat.Contexts = append(cat.Contexts,
		Context{ID: "ctx-hsp-2", FieldID: "cf[10000]", ProjectIDs: []int64{10000}})
	s := snapshotWith(cat)
	if ctx := s.ContextFor("cf[10000]", 10000, 1); ctx != nil {
		t.Errorf("expected nil for tied specificity, got %+v", ctx)
	}
}

func TestInScope_SystemFieldAlwaysInScope(t *testing.T) {
	s := snapshotWith(contextCatalog())
	f := s.FieldByName("project")
	if !s.InScope(f, "nobody", []int64{99999}, nil) {
		t.Error("system fields must be in scope everywhere")
	}
}

func TestInScope_NoContextsMeansOutOfScope(t *testing.T) {
	cat := contextCatalog()
	cat.Contexts = nil
	s := snapshotWith(cat)
	f := s.FieldByName("Colour")
	if s.InScope(f, "fred", nil, nil) {
		t.Error("field without contexts must be out of scope")
	}
}

func TestInScope_ExplicitScopeNeedsFullCoverage(t *testing.T) {
	s := snapshotWith(contextCatalog())
	shape := s.FieldByName("Shape")

	if !s.InScope(shape, "fred", []int64{10000}, []int64{1}) {
		t.Error("covered (project, type) pair should be in scope")
	}
	if s.InScope(shape, "fred", []int64{10000}, []int64{3}) {
		t.Error("uncovered issue type should be out of scope")
	}
	if s.InScope(shape, "fred", []int64{10000, 10001}, []int64{1}) {
		t.Error("partially covered project set should be out of scope")
	}
}

func TestInScope_UnconstrainedNeedsAnyCoverage(t *testing.T) {
	s := snapshotWith(contextCatalog())
	shape := s.FieldByName("Shape")
	if !s.InScope(shape, "fred", nil, nil) {
		t.Error("unconstrained scope with any visible coverage should pass")
	}
}

func TestInScope_BrowsePermissionGates(t *testing.T) {
	s := snapshotWith(contextCatalog())
	colour := s.FieldByName("Colour")
	// bob cannot browse MKY; asking for it explicitly fails the scope.
	if s.InScope(colour, "bob", []int64{10001}, nil) {
		t.Error("explicit scope with unbrowsable project should fail")
	}
	if !s.InScope(colour, "fred", []int64{10001}, nil) {
		t.Error("fred can browse MKY and the global context covers it")
	}
}

func TestSortFieldsByName_SameNameGroupOrderedByCustomID(t *testing.T) {
	cat := contextCatalog()
	cat.Fields = append(cat.Fields,
		Field{ID: "cf[10005]", CustomID: 10005, Name: "Colour", Type: model.TypeCustomSelect, Searchable: true})
	s := snapshotWith(cat)
	group := s.SortFieldsByName("colour")
	if len(group) != 2 {
		t.Fatalf("expected 2 same-named fields, got %d", len(group))
	}
	if group[0].CustomID != 10000 || group[1].CustomID != 10005 {
		t.Errorf("group not in custom-id order: %d, %d", group[0].CustomID, group[1].CustomID)
	}
}

func TestTimeTracking_DefaultsWhenUnset(t *testing.T) {
	s := snapshotWith(Catalog{})
	tt := s.TimeTracking()
	if tt.HoursPerDay != 8 || tt.DaysPerWeek != 5 {
		t.Errorf("defaults = %+v, want 8h/5d", tt)
	}
}

func TestCanBrowse_EmptyListMeansEveryone(t *testing.T) {
	s := snapshotWith(contextCatalog())
	if !s.CanBrowse("anyone", 10000) {
		t.Error("open project should be browsable by everyone")
	}
	if s.CanBrowse("bob", 10001) {
		t.Error("restricted project should reject non-listed users")
	}
	if !s.CanBrowse("FRED", 10001) {
		t.Error("browser list should match case-insensitively")
	}
}

func TestCatalogClone_OfSnapshotReturn(t *testing.T) {
	s := snapshotWith(contextCatalog())
	// Admin mutations clone straight off the accessor's return value.
	clone := s.Catalog().Clone()
	clone.Projects[0].Name = "changed"
	if s.Catalog().Projects[0].Name != "homosapien" {
		t.Error("clone mutation leaked into the snapshot's catalog")
	}
}

func TestCatalogClone_Isolation(t *testing.T) {
	cat := contextCatalog()
	clone := cat.Clone()
	clone.Projects[0].Name = "changed"
	clone.Fields = append(clone.Fields, Field{ID: "cf[10009]", CustomID: 10009, Name: "New", Type: model.TypeCustomText})
	if cat.Projects[0].Name != "homosapien" {
		t.Error("clone mutation leaked into original project slice")
	}
	if len(cat.Fields) != 2 {
		t.Error("clone append leaked into original field slice")
	}
}
