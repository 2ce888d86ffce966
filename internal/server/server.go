// Package server exposes query evaluation and catalog administration
// over HTTP. Evaluation reads an immutable configuration snapshot;
// administrative mutations clone the catalog, persist a new revision,
// and swap the snapshot atomically so in-flight searches are never
// disturbed.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/groblegark/kjql/internal/events"
	"github.com/groblegark/kjql/internal/registry"
	"github.com/groblegark/kjql/internal/store"
)

// Server serves search and catalog administration requests.
type Server struct {
	store     store.Store
	publisher events.Publisher

	mu       sync.RWMutex
	snap     *registry.Snapshot
	revision int64

	// adminMu serializes clone-edit-publish cycles so concurrent
	// mutations cannot lose each other's edits.
	adminMu sync.Mutex
}

// NewServer returns a server backed by the given store and publisher.
// The snapshot starts empty; call LoadSnapshot to pick up the persisted
// catalog.
func NewServer(s store.Store, p events.Publisher) *Server {
	return &Server{
		store:     s,
		publisher: p,
		snap:      registry.NewSnapshot(registry.Catalog{}),
	}
}

// LoadSnapshot reads the latest persisted catalog revision and installs
// it. A store with no catalog yet leaves the empty snapshot in place.
func (s *Server) LoadSnapshot(ctx context.Context) error {
	cat, revision, err := s.store.GetCatalog(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load catalog: %w", err)
	}

	s.mu.Lock()
	s.snap = registry.NewSnapshot(*cat)
	s.revision = revision
	s.mu.Unlock()
	return nil
}

// SeedCatalog installs a catalog when the store holds none yet. Used at
// startup to bootstrap from a configuration file without clobbering
// revisions written by a previous run.
func (s *Server) SeedCatalog(ctx context.Context, cat *registry.Catalog) error {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	if _, _, err := s.store.GetCatalog(ctx); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check catalog: %w", err)
	}

	_, err := s.swapCatalog(ctx, cat.Clone())
	return err
}

// snapshot returns the current configuration snapshot and its revision.
func (s *Server) snapshot() (*registry.Snapshot, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.revision
}

// swapCatalog persists cat as a new revision and installs the indexed
// snapshot. Callers hold adminMu.
func (s *Server) swapCatalog(ctx context.Context, cat registry.Catalog) (int64, error) {
	revision, err := s.store.SaveCatalog(ctx, &cat)
	if err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}

	s.mu.Lock()
	s.snap = registry.NewSnapshot(cat)
	s.revision = revision
	s.mu.Unlock()
	return revision, nil
}

// publish sends an event to the publisher. Publishing is best-effort;
// failures are logged but do not fail the request.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// The transport layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
