package store

import (
	"context"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// Store defines the persistence interface for issues and the search
// catalog. Lookups that find nothing return sql.ErrNoRows regardless of
// the backing implementation.
type Store interface {
	// Issues
	PutIssue(ctx context.Context, issue *model.Issue) error // upsert by id
	GetIssue(ctx context.Context, key string) (*model.Issue, error)
	ListIssues(ctx context.Context) ([]*model.Issue, error)
	DeleteIssue(ctx context.Context, key string) error

	// Catalog revisions. SaveCatalog appends a new revision and returns
	// its number; GetCatalog loads the latest.
	SaveCatalog(ctx context.Context, cat *registry.Catalog) (int64, error)
	GetCatalog(ctx context.Context) (*registry.Catalog, int64, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
