package store

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// MemoryStore is an in-process Store for tests and single-shot CLI use.
type MemoryStore struct {
	mu       sync.RWMutex
	issues   map[int64]*model.Issue
	byKey    map[string]int64
	catalog  *registry.Catalog
	revision int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		issues: make(map[int64]*model.Issue),
		byKey:  make(map[string]int64),
	}
}

func (s *MemoryStore) PutIssue(_ context.Context, issue *model.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.issues[issue.ID]; ok {
		delete(s.byKey, prev.Key)
	}
	cp := *issue
	s.issues[issue.ID] = &cp
	s.byKey[issue.Key] = issue.ID
	return nil
}

func (s *MemoryStore) GetIssue(_ context.Context, key string) (*model.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s.issues[id]
	return &cp, nil
}

func (s *MemoryStore) ListIssues(_ context.Context) ([]*model.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Issue, 0, len(s.issues))
	for _, iss := range s.issues {
		cp := *iss
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteIssue(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		return sql.ErrNoRows
	}
	delete(s.issues, id)
	delete(s.byKey, key)
	return nil
}

func (s *MemoryStore) SaveCatalog(_ context.Context, cat *registry.Catalog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cat.Clone()
	s.catalog = &cp
	s.revision++
	return s.revision, nil
}

func (s *MemoryStore) GetCatalog(_ context.Context) (*registry.Catalog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, 0, sql.ErrNoRows
	}
	cp := s.catalog.Clone()
	return &cp, s.revision, nil
}

// RunInTransaction runs fn against the store itself; the in-memory
// store offers no rollback.
func (s *MemoryStore) RunInTransaction(_ context.Context, fn func(tx Store) error) error {
	return fn(s)
}

func (s *MemoryStore) Close() error { return nil }
