package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// issueColumns is the column list used for SELECT statements on the issues table.
const issueColumns = `id, key, project_id, type_id, parent_id, field_values`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryPutIssue(ctx context.Context, db executor, issue *model.Issue) error {
	values, err := valuesJSON(issue.Values)
	if err != nil {
		return fmt.Errorf("encode field values: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO issues (id, key, project_id, type_id, parent_id, field_values)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			key = EXCLUDED.key,
			project_id = EXCLUDED.project_id,
			type_id = EXCLUDED.type_id,
			parent_id = EXCLUDED.parent_id,
			field_values = EXCLUDED.field_values,
			updated_at = NOW()`,
		issue.ID,
		issue.Key,
		issue.ProjectID,
		issue.TypeID,
		nullID(issue.ParentID),
		values,
	)
	return err
}

func queryGetIssue(ctx context.Context, db executor, key string) (*model.Issue, error) {
	row := db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE key = $1`, key)
	return scanIssue(row)
}

func queryListIssues(ctx context.Context, db executor) ([]*model.Issue, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+issueColumns+` FROM issues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()
	return scanIssues(rows)
}

func queryDeleteIssue(ctx context.Context, db executor, key string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM issues WHERE key = $1`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func querySaveCatalog(ctx context.Context, db executor, cat *registry.Catalog) (int64, error) {
	data, err := catalogJSON(cat)
	if err != nil {
		return 0, fmt.Errorf("encode catalog: %w", err)
	}
	var revision int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO catalog_revisions (data)
		VALUES ($1)
		RETURNING revision`,
		data,
	).Scan(&revision)
	if err != nil {
		return 0, err
	}
	return revision, nil
}

func queryGetCatalog(ctx context.Context, db executor) (*registry.Catalog, int64, error) {
	row := db.QueryRowContext(ctx, `
		SELECT revision, data
		FROM catalog_revisions
		ORDER BY revision DESC
		LIMIT 1`)
	return scanCatalog(row)
}
