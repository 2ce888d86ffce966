package events

import (
	"context"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// Event topic constants
const (
	TopicCatalogUpdated      = "kjql.catalog.updated"
	TopicContextAdded        = "kjql.catalog.context.added"
	TopicContextRemoved      = "kjql.catalog.context.removed"
	TopicFieldUpdated        = "kjql.catalog.field.updated"
	TopicTimeTrackingUpdated = "kjql.catalog.timetracking.updated"
	TopicFilterSaved         = "kjql.catalog.filter.saved"
	TopicFilterDeleted       = "kjql.catalog.filter.deleted"

	TopicIssueUpserted = "kjql.issue.upserted"
	TopicIssueDeleted  = "kjql.issue.deleted"
)

// Event types

// CatalogUpdated announces that a new catalog revision is live. Readers
// that cache a snapshot reload on receipt.
type CatalogUpdated struct {
	Revision int64  `json:"revision"`
	Actor    string `json:"actor,omitempty"`
}

type ContextAdded struct {
	Context  registry.Context `json:"context"`
	Revision int64            `json:"revision"`
}

type ContextRemoved struct {
	ContextID string `json:"context_id"`
	FieldID   string `json:"field_id"`
	Revision  int64  `json:"revision"`
}

// FieldUpdated reports a searcher or sort-capability change on a field.
type FieldUpdated struct {
	FieldID    string `json:"field_id"`
	Searchable bool   `json:"searchable"`
	Orderable  bool   `json:"orderable"`
	Revision   int64  `json:"revision"`
}

type TimeTrackingUpdated struct {
	TimeTracking registry.TimeTracking `json:"time_tracking"`
	Revision     int64                 `json:"revision"`
}

type FilterSaved struct {
	Filter   registry.SavedFilter `json:"filter"`
	Revision int64                `json:"revision"`
}

type FilterDeleted struct {
	FilterID int64 `json:"filter_id"`
	Revision int64 `json:"revision"`
}

type IssueUpserted struct {
	Issue *model.Issue `json:"issue"`
}

type IssueDeleted struct {
	Key string `json:"key"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
