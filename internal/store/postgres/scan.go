package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanIssue scans a single row into a model.Issue.
// The row must contain columns in the order defined by issueColumns.
func scanIssue(row scannable) (*model.Issue, error) {
	var iss model.Issue
	var (
		parentID sql.NullInt64
		values   []byte
	)

	err := row.Scan(
		&iss.ID,
		&iss.Key,
		&iss.ProjectID,
		&iss.TypeID,
		&parentID,
		&values,
	)
	if err != nil {
		return nil, err
	}

	iss.ParentID = parentID.Int64
	if len(values) > 0 {
		if err := json.Unmarshal(values, &iss.Values); err != nil {
			return nil, err
		}
	}

	return &iss, nil
}

// scanIssues scans multiple rows into a slice of model.Issue pointers.
func scanIssues(rows *sql.Rows) ([]*model.Issue, error) {
	var issues []*model.Issue
	for rows.Next() {
		iss, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return issues, nil
}

// scanCatalog scans a revision row into a registry.Catalog.
func scanCatalog(row scannable) (*registry.Catalog, int64, error) {
	var revision int64
	var data []byte
	if err := row.Scan(&revision, &data); err != nil {
		return nil, 0, err
	}
	var cat registry.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, 0, err
	}
	return &cat, revision, nil
}

// nullID converts a domain id to sql.NullInt64; 0 is null.
func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

// valuesJSON encodes an issue's field-value map for a JSONB column.
// An empty map stores as null.
func valuesJSON(values map[string][]model.Value) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return json.Marshal(values)
}

// catalogJSON encodes a catalog for a JSONB column.
func catalogJSON(cat *registry.Catalog) ([]byte, error) {
	return json.Marshal(cat)
}
