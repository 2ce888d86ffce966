// Package client provides a transport-agnostic interface for the kjql
// service and an HTTP/JSON implementation that talks to the kjql REST
// API.
package client

import (
	"context"
	"encoding/json"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// SearchClient is the interface that all kjql CLI commands use to
// communicate with the server. It is implemented by HTTPClient
// (default) and can be backed by any transport.
type SearchClient interface {
	// Search
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	Validate(ctx context.Context, req *SearchRequest) (*ValidateResponse, error)
	Fit(ctx context.Context, req *SearchRequest) (*model.FitResult, error)

	// Issues
	PutIssue(ctx context.Context, issue *model.Issue) (*model.Issue, error)
	GetIssue(ctx context.Context, key string) (*model.Issue, error)
	ListIssues(ctx context.Context) (*SearchResponse, error)
	DeleteIssue(ctx context.Context, key string) error

	// Catalog administration
	GetCatalog(ctx context.Context) (*CatalogResponse, error)
	ReplaceCatalog(ctx context.Context, cat *registry.Catalog) (int64, error)
	AddContext(ctx context.Context, fieldContext *registry.Context) (*registry.Context, error)
	RemoveContext(ctx context.Context, id string) error
	UpdateField(ctx context.Context, id string, req *FieldUpdateRequest) (*registry.Field, error)
	SetTimeTracking(ctx context.Context, tt registry.TimeTracking) error
	SaveFilter(ctx context.Context, filter *registry.SavedFilter) error
	DeleteFilter(ctx context.Context, id int64) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// SearchRequest holds parameters for search, validate, and fit calls.
// The clause is carried as raw JSON so callers can pass user input
// through without building a tree.
type SearchRequest struct {
	User    string            `json:"user"`
	Clause  json.RawMessage   `json:"clause,omitempty"`
	OrderBy []model.SortField `json:"order_by,omitempty"`
}

// SearchResponse is the response from Search and ListIssues.
type SearchResponse struct {
	Issues []*model.Issue `json:"issues"`
	Total  int            `json:"total"`
}

// ValidateResponse is the response from Validate.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// CatalogResponse is the response from GetCatalog.
type CatalogResponse struct {
	Catalog  registry.Catalog `json:"catalog"`
	Revision int64            `json:"revision"`
}

// FieldUpdateRequest holds optional field settings for UpdateField.
// Nil pointer fields mean "don't change".
type FieldUpdateRequest struct {
	Searchable *bool `json:"searchable,omitempty"`
	Orderable  *bool `json:"orderable,omitempty"`
}
