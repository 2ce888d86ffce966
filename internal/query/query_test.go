package query

import (
	"testing"
	"time"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// testNow is the fixed reference time for relative date operands.
var testNow = time.Date(2009, 5, 20, 12, 0, 0, 0, time.UTC)

// testCatalog builds the reference data the query tests run against:
// four projects (one restricted), ranked priorities, versions, users,
// and one select custom field scoped to project ONE.
func testCatalog() registry.Catalog {
	return registry.Catalog{
		Projects: []registry.Project{
			{ID: 10000, Key: "HSP", Name: "homosapien"},
			{ID: 10001, Key: "MKY", Name: "monkey", Browsers: []string{"fred"}},
			{ID: 10010, Key: "ONE", Name: "one"},
			{ID: 10030, Key: "THREE", Name: "three"},
		},
		IssueTypes: []registry.NamedItem{
			{ID: 1, Name: "Bug"},
			{ID: 3, Name: "Task"},
			{ID: 5, Name: "Sub-task"},
		},
		Priorities: []registry.NamedItem{
			{ID: 1, Name: "Blocker", Sequence: 1},
			{ID: 2, Name: "Critical", Sequence: 2},
			{ID: 3, Name: "Major", Sequence: 3},
			{ID: 4, Name: "Minor", Sequence: 4},
			{ID: 5, Name: "Trivial", Sequence: 5},
		},
		Statuses: []registry.NamedItem{
			{ID: 1, Name: "Open", Sequence: 1},
			{ID: 5, Name: "Resolved", Sequence: 5},
		},
		Resolutions: []registry.NamedItem{
			{ID: 1, Name: "Fixed"},
		},
		Versions: []registry.Version{
			{ID: 10000, Name: "New Version 1", ProjectID: 10000, Sequence: 1},
			{ID: 10001, Name: "New Version 4", ProjectID: 10000, Sequence: 2},
			{ID: 10002, Name: "New Version 5", ProjectID: 10000, Sequence: 3, Released: true},
		},
		Users: []registry.User{
			{Name: "fred", FullName: "Fred Normal", Groups: []string{"jira-developers"}},
			{Name: "admin", FullName: "Administrator", Groups: []string{"jira-developers", "jira-administrators"}},
		},
		Groups: []string{"jira-developers", "jira-administrators"},
		Options: []registry.Option{
			{ID: 20000, FieldID: "cf[10000]", Value: "red"},
			{ID: 20001, FieldID: "cf[10000]", Value: "blue"},
		},
		Fields: []registry.Field{
			{ID: "cf[10000]", CustomID: 10000, Name: "Colour", Type: model.TypeCustomSelect, Searchable: true, Orderable: true},
		},
		Contexts: []registry.Context{
			{ID: "ctx-1", FieldID: "cf[10000]", ProjectIDs: []int64{10010}},
		},
	}
}

// testIssues builds the issue universe. THREE-2 is the only sub-task;
// its parent is THREE-1.
func testIssues() []*model.Issue {
	mk := func(id int64, key string, project, typ int64) *model.Issue {
		return &model.Issue{ID: id, Key: key, ProjectID: project, TypeID: typ}
	}

	hsp1 := mk(1, "HSP-1", 10000, 1)
	hsp1.SetValue("priority", model.IDValue(1)) // Blocker
	hsp1.SetValue("assignee", model.StringValue("fred"))
	hsp1.SetValue("summary", model.StringValue("Fix the login flow"))
	hsp1.SetValue("created", model.TimeValue(time.Date(2009, 5, 11, 9, 0, 0, 0, time.UTC)))
	hsp1.SetValue("affectedVersion", model.IDValue(10000))

	hsp2 := mk(2, "HSP-2", 10000, 1)
	hsp2.SetValue("priority", model.IDValue(2)) // Critical
	hsp2.SetValue("summary", model.StringValue("Login button misaligned"))
	hsp2.SetValue("created", model.TimeValue(time.Date(2009, 5, 13, 18, 50, 0, 0, time.UTC)))
	hsp2.SetValue("affectedVersion", model.IDValue(10001))

	hsp3 := mk(3, "HSP-3", 10000, 3)
	hsp3.SetValue("priority", model.IDValue(3)) // Major
	hsp3.SetValue("assignee", model.StringValue("admin"))
	hsp3.SetValue("created", model.TimeValue(time.Date(2009, 5, 14, 8, 0, 0, 0, time.UTC)))

	one1 := mk(4, "ONE-1", 10010, 1)
	one1.SetValue("cf[10000]", model.IDValue(20000)) // red

	three1 := mk(5, "THREE-1", 10030, 3)
	three2 := mk(6, "THREE-2", 10030, 5)
	three2.ParentID = three1.ID

	mky1 := mk(7, "MKY-1", 10001, 1)

	return []*model.Issue{hsp1, hsp2, hsp3, one1, three1, three2, mky1}
}

func testEngine(user string) *Engine {
	return New(registry.NewSnapshot(testCatalog()), user, testNow)
}

// evalKeys evaluates the clause as fred and returns the matched keys.
func evalKeys(t *testing.T, clause model.Clause) []string {
	t.Helper()
	return evalKeysAs(t, "fred", clause)
}

func evalKeysAs(t *testing.T, user string, clause model.Clause) []string {
	t.Helper()
	issues, qerr := testEngine(user).Evaluate(testIssues(), clause)
	if qerr != nil {
		t.Fatalf("unexpected query error: %v", qerr)
	}
	keys := make([]string, 0, len(issues))
	for _, iss := range issues {
		keys = append(keys, iss.Key)
	}
	return keys
}

// evalError evaluates the clause as fred and returns the query error.
func evalError(t *testing.T, clause model.Clause) *model.QueryError {
	t.Helper()
	_, qerr := testEngine("fred").Evaluate(testIssues(), clause)
	if qerr == nil {
		t.Fatal("expected query error, got nil")
	}
	return qerr
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assertKeys(t *testing.T, got, want []string) {
	t.Helper()
	if !sameKeys(got, want) {
		t.Errorf("matched %v, want %v", got, want)
	}
}
