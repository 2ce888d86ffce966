package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

func TestMemoryStore_IssueRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	iss := &model.Issue{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1}
	iss.SetValue("summary", model.StringValue("Fix the login flow"))
	if err := s.PutIssue(ctx, iss); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.GetIssue(ctx, "HSP-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != 10001 || got.ProjectID != 10000 {
		t.Fatalf("got %+v", got)
	}
	if vals := got.FieldValues("summary"); len(vals) != 1 || vals[0].Str != "Fix the login flow" {
		t.Fatalf("summary = %v", vals)
	}
}

func TestMemoryStore_GetIssueNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetIssue(context.Background(), "HSP-404"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestMemoryStore_PutIssueRekeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.PutIssue(ctx, &model.Issue{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Same id, new key: the old key must stop resolving.
	if err := s.PutIssue(ctx, &model.Issue{ID: 10001, Key: "MKY-1", ProjectID: 10001, TypeID: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.GetIssue(ctx, "HSP-1"); err != sql.ErrNoRows {
		t.Fatalf("old key should be gone, got %v", err)
	}
	if got, err := s.GetIssue(ctx, "MKY-1"); err != nil || got.ProjectID != 10001 {
		t.Fatalf("new key lookup: %+v, %v", got, err)
	}
}

func TestMemoryStore_ListIssuesOrderedByID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, iss := range []*model.Issue{
		{ID: 10003, Key: "HSP-3", ProjectID: 10000, TypeID: 1},
		{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1},
		{ID: 10002, Key: "HSP-2", ProjectID: 10000, TypeID: 1},
	} {
		if err := s.PutIssue(ctx, iss); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	issues, err := s.ListIssues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	for i, want := range []string{"HSP-1", "HSP-2", "HSP-3"} {
		if issues[i].Key != want {
			t.Fatalf("issues[%d] = %q, want %q", i, issues[i].Key, want)
		}
	}
}

func TestMemoryStore_DeleteIssue(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.PutIssue(ctx, &model.Issue{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.DeleteIssue(ctx, "HSP-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteIssue(ctx, "HSP-1"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}

func TestMemoryStore_CatalogRevisions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, _, err := s.GetCatalog(ctx); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows before first save, got %v", err)
	}

	cat := &registry.Catalog{Projects: []registry.Project{{ID: 10000, Key: "HSP", Name: "homosapien"}}}
	rev, err := s.SaveCatalog(ctx, cat)
	if err != nil || rev != 1 {
		t.Fatalf("save: rev=%d err=%v", rev, err)
	}

	// The stored copy must be isolated from later caller mutations.
	cat.Projects[0].Name = "changed"
	got, rev, err := s.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rev != 1 || got.Projects[0].Name != "homosapien" {
		t.Fatalf("rev=%d name=%q", rev, got.Projects[0].Name)
	}

	if rev, _ := s.SaveCatalog(ctx, got); rev != 2 {
		t.Fatalf("second save rev=%d, want 2", rev)
	}
}

func TestMemoryStore_RunInTransaction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	err := s.RunInTransaction(ctx, func(tx Store) error {
		return tx.PutIssue(ctx, &model.Issue{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if _, err := s.GetIssue(ctx, "HSP-1"); err != nil {
		t.Fatalf("issue not visible after tx: %v", err)
	}
}
