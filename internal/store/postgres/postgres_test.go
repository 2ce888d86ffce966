package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
	"github.com/groblegark/kjql/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// issueRowColumns is the column list for scanIssue results.
var issueRowColumns = []string{
	"id", "key", "project_id", "type_id", "parent_id", "field_values",
}

func TestScanHelpers(t *testing.T) {
	// nullID
	if nullID(0).Valid {
		t.Error("nullID(0) should be invalid")
	}
	if ni := nullID(10030); !ni.Valid || ni.Int64 != 10030 {
		t.Errorf("nullID(10030) = %v", ni)
	}

	// valuesJSON
	if data, err := valuesJSON(nil); err != nil || data != nil {
		t.Errorf("valuesJSON(nil) = %s, %v", data, err)
	}
	data, err := valuesJSON(map[string][]model.Value{
		"assignee": {model.StringValue("fred")},
	})
	if err != nil {
		t.Fatalf("valuesJSON: %v", err)
	}
	var decoded map[string][]model.Value
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := decoded["assignee"]; len(got) != 1 || got[0].Str != "fred" {
		t.Errorf("round trip = %v", decoded)
	}
}

func TestQueryPutIssue(t *testing.T) {
	db, mock := newMockDB(t)
	iss := &model.Issue{ID: 10001, Key: "HSP-1", ProjectID: 10000, TypeID: 1}
	iss.SetValue("assignee", model.StringValue("fred"))

	mock.ExpectExec("INSERT INTO issues").
		WithArgs(int64(10001), "HSP-1", int64(10000), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryPutIssue(context.Background(), db, iss); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetIssue(t *testing.T) {
	db, mock := newMockDB(t)
	values := []byte(`{"assignee":[{"str":"fred"}],"summary":[{"str":"Fix the login flow"}]}`)
	rows := sqlmock.NewRows(issueRowColumns).
		AddRow(int64(10001), "HSP-1", int64(10000), int64(1), nil, values)
	mock.ExpectQuery("SELECT .+ FROM issues WHERE key = \\$1").WithArgs("HSP-1").WillReturnRows(rows)

	iss, err := queryGetIssue(context.Background(), db, "HSP-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iss.ID != 10001 || iss.Key != "HSP-1" || iss.ParentID != 0 {
		t.Fatalf("got %+v", iss)
	}
	if vals := iss.FieldValues("assignee"); len(vals) != 1 || vals[0].Str != "fred" {
		t.Fatalf("assignee = %v", vals)
	}
}

func TestQueryGetIssue_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM issues WHERE key = \\$1").WithArgs("HSP-404").WillReturnError(sql.ErrNoRows)

	if _, err := queryGetIssue(context.Background(), db, "HSP-404"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestQueryListIssues(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(issueRowColumns).
		AddRow(int64(10001), "HSP-1", int64(10000), int64(1), nil, nil).
		AddRow(int64(10030), "THREE-2", int64(10030), int64(5), int64(10029), nil)
	mock.ExpectQuery("SELECT .+ FROM issues ORDER BY id").WillReturnRows(rows)

	issues, err := queryListIssues(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[1].ParentID != 10029 {
		t.Fatalf("parent_id = %d, want 10029", issues[1].ParentID)
	}
}

func TestQueryDeleteIssue(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM issues WHERE key = \\$1").WithArgs("HSP-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryDeleteIssue(context.Background(), db, "HSP-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryDeleteIssue_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM issues WHERE key = \\$1").WithArgs("HSP-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := queryDeleteIssue(context.Background(), db, "HSP-404"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestQuerySaveCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	cat := &registry.Catalog{Projects: []registry.Project{{ID: 10000, Key: "HSP", Name: "homosapien"}}}
	mock.ExpectQuery("INSERT INTO catalog_revisions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"revision"}).AddRow(int64(3)))

	rev, err := querySaveCatalog(context.Background(), db, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev != 3 {
		t.Fatalf("revision = %d, want 3", rev)
	}
}

func TestQueryGetCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	data := []byte(`{"projects":[{"id":10000,"key":"HSP","name":"homosapien"}],"time_tracking":{"hours_per_day":8,"days_per_week":5}}`)
	mock.ExpectQuery("SELECT revision, data").
		WillReturnRows(sqlmock.NewRows([]string{"revision", "data"}).AddRow(int64(7), data))

	cat, rev, err := queryGetCatalog(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev != 7 {
		t.Fatalf("revision = %d, want 7", rev)
	}
	if len(cat.Projects) != 1 || cat.Projects[0].Key != "HSP" {
		t.Fatalf("catalog = %+v", cat)
	}
	if cat.TimeTracking.HoursPerDay != 8 {
		t.Fatalf("time tracking = %+v", cat.TimeTracking)
	}
}

func TestQueryGetCatalog_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT revision, data").
		WillReturnError(sql.ErrNoRows)

	if _, _, err := queryGetCatalog(context.Background(), db); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestRunInTransaction_CommitAndRollback(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM issues WHERE key = \\$1").WithArgs("HSP-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.DeleteIssue(ctx, "HSP-1")
	})
	if err != nil {
		t.Fatalf("commit path: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM issues WHERE key = \\$1").WithArgs("HSP-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.DeleteIssue(ctx, "HSP-404")
	})
	if err != sql.ErrNoRows {
		t.Fatalf("rollback path: expected sql.ErrNoRows, got %v", err)
	}
}
