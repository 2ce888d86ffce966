package sorting

import (
	"testing"
	"time"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

func sortSnapshot() *registry.Snapshot {
	return registry.NewSnapshot(registry.Catalog{
		Projects: []registry.Project{
			{ID: 10000, Key: "HSP", Name: "homosapien"},
			{ID: 10001, Key: "MKY", Name: "monkey"},
			{ID: 10010, Key: "ONE", Name: "one"},
		},
		Priorities: []registry.NamedItem{
			{ID: 1, Name: "Blocker", Sequence: 1},
			{ID: 2, Name: "Critical", Sequence: 2},
			{ID: 3, Name: "Major", Sequence: 3},
		},
		Fields: []registry.Field{
			{ID: "cf[10001]", CustomID: 10001, Name: "Rank", Type: model.TypeCustomNumber, Searchable: true, Orderable: true},
			{ID: "cf[10002]", CustomID: 10002, Name: "Rank", Type: model.TypeCustomNumber, Searchable: true, Orderable: true},
		},
	})
}

func sortIssues() []*model.Issue {
	mk := func(id int64, key string, project int64) *model.Issue {
		return &model.Issue{ID: id, Key: key, ProjectID: project, TypeID: 1}
	}

	hsp1 := mk(1, "HSP-1", 10000)
	hsp1.SetValue("priority", model.IDValue(3)) // Major
	hsp1.SetValue("assignee", model.StringValue("fred"))
	hsp1.SetValue("created", model.TimeValue(time.Date(2009, 5, 11, 9, 0, 0, 0, time.UTC)))
	hsp1.SetValue("cf[10001]", model.NumberValue(2))
	hsp1.SetValue("cf[10002]", model.NumberValue(1))

	hsp2 := mk(2, "HSP-2", 10000)
	hsp2.SetValue("priority", model.IDValue(1)) // Blocker
	hsp2.SetValue("created", model.TimeValue(time.Date(2009, 5, 13, 18, 50, 0, 0, time.UTC)))
	hsp2.SetValue("cf[10001]", model.NumberValue(1))
	hsp2.SetValue("cf[10002]", model.NumberValue(2))

	mky1 := mk(3, "MKY-1", 10001)
	mky1.SetValue("priority", model.IDValue(2)) // Critical
	mky1.SetValue("assignee", model.StringValue("admin"))
	mky1.SetValue("created", model.TimeValue(time.Date(2009, 5, 12, 8, 0, 0, 0, time.UTC)))

	one1 := mk(4, "ONE-1", 10010)

	return []*model.Issue{hsp1, hsp2, mky1, one1}
}

func sortedKeys(t *testing.T, orderBy ...model.SortField) []string {
	t.Helper()
	out, qerr := Sort(sortSnapshot(), sortIssues(), orderBy)
	if qerr != nil {
		t.Fatalf("unexpected sort error: %v", qerr)
	}
	keys := make([]string, 0, len(out))
	for _, iss := range out {
		keys = append(keys, iss.Key)
	}
	return keys
}

func assertOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
			return
		}
	}
}

func TestSort_PriorityDefaultsDescending(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "priority"},
		model.SortField{Field: "key"},
	)
	// Most severe first. The empty group moves with the direction, so
	// ONE-1 (no priority) leads the descending order.
	assertOrder(t, got, []string{"ONE-1", "HSP-2", "MKY-1", "HSP-1"})
}

func TestSort_PriorityAscending(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "priority", Direction: model.DirectionAsc},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"HSP-1", "MKY-1", "HSP-2", "ONE-1"})
}

func TestSort_CreatedDefaultsDescending(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "created"},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"ONE-1", "HSP-2", "MKY-1", "HSP-1"})
}

func TestSort_CreatedAliasResolves(t *testing.T) {
	byAlias := sortedKeys(t, model.SortField{Field: "createdDate"}, model.SortField{Field: "key"})
	byName := sortedKeys(t, model.SortField{Field: "created"}, model.SortField{Field: "key"})
	assertOrder(t, byAlias, byName)
}

func TestSort_KeyAscending(t *testing.T) {
	got := sortedKeys(t, model.SortField{Field: "key"})
	assertOrder(t, got, []string{"HSP-1", "HSP-2", "MKY-1", "ONE-1"})
}

func TestSort_ProjectSortsByName(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "project"},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"HSP-1", "HSP-2", "MKY-1", "ONE-1"})
}

func TestSort_EmptyGroupTrailsAscending(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "assignee", Direction: model.DirectionAsc},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"MKY-1", "HSP-1", "HSP-2", "ONE-1"})
}

func TestSort_EmptyGroupLeadsDescending(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "assignee", Direction: model.DirectionDesc},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"HSP-2", "ONE-1", "HSP-1", "MKY-1"})
}

func TestSort_SameNameCustomFieldsIgnoreDirection(t *testing.T) {
	// Two custom fields share the display name "Rank". Both apply as
	// ascending tie-breaks in field-id order even when DESC is asked
	// for; cf[10001] decides before cf[10002] gets a say.
	got := sortedKeys(t,
		model.SortField{Field: "Rank", Direction: model.DirectionDesc},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"HSP-2", "HSP-1", "MKY-1", "ONE-1"})
}

func TestSort_CustomFieldByIDHonorsDirection(t *testing.T) {
	got := sortedKeys(t,
		model.SortField{Field: "cf[10001]", Direction: model.DirectionDesc},
		model.SortField{Field: "key"},
	)
	assertOrder(t, got, []string{"MKY-1", "ONE-1", "HSP-1", "HSP-2"})
}

func TestSort_UnknownField(t *testing.T) {
	_, qerr := Sort(sortSnapshot(), sortIssues(), []model.SortField{{Field: "bogus"}})
	if qerr == nil {
		t.Fatal("expected error for unknown sort field")
	}
	if qerr.Kind != model.ErrFieldNotFound {
		t.Errorf("kind = %v, want ErrFieldNotFound", qerr.Kind)
	}
}

func TestSort_NonOrderableField(t *testing.T) {
	_, qerr := Sort(sortSnapshot(), sortIssues(), []model.SortField{{Field: "comment"}})
	if qerr == nil {
		t.Fatal("expected error for non-orderable sort field")
	}
	if qerr.Message != "Field 'comment' does not support sorting." {
		t.Errorf("message = %q", qerr.Message)
	}
}

func TestSort_StableBeyondLastTerm(t *testing.T) {
	// All four issues tie on a field none of them carry; input order holds.
	got := sortedKeys(t, model.SortField{Field: "labels"})
	assertOrder(t, got, []string{"HSP-1", "HSP-2", "MKY-1", "ONE-1"})
}
