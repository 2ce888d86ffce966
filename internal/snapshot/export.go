// Package snapshot exports the search state (catalog plus issues) as
// JSONL and ships it to configured destinations on a schedule.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/kjql/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	IssueCount      int       `json:"issue_count"`
	CatalogRevision int64     `json:"catalog_revision"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes the current catalog revision and all issues from
// the store as JSONL to w. Issues come back ordered by id.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	cat, revision, err := s.GetCatalog(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get catalog: %w", err)
	}

	issues, err := s.ListIssues(ctx)
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:         "1",
		Type:            "header",
		Timestamp:       time.Now().UTC(),
		IssueCount:      len(issues),
		CatalogRevision: revision,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	if cat != nil {
		if err := enc.Encode(record{Type: "catalog", Data: cat}); err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
	}

	for _, iss := range issues {
		if err := enc.Encode(record{Type: "issue", Data: iss}); err != nil {
			return fmt.Errorf("encode issue %s: %w", iss.Key, err)
		}
	}

	return nil
}
