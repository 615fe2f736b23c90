// Package memory is an in-process record backend. Nothing survives a restart;
// it backs tests and INBOX_DB_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/store"
)

// Store keeps records in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Record // ID -> Record
}

var _ store.Backend = (*Store)(nil)

func New() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
	}
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Ping(context.Context) error    { return nil }
func (s *Store) Close() error                  { return nil }

// Insert stores a copy of rec.
func (s *Store) Insert(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) List(_ context.Context, offset, limit int) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return window(s.sortedLocked(nil), offset, limit), nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.records)), nil
}

func (s *Store) Search(_ context.Context, term string, offset, limit int) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return window(s.sortedLocked(matcher(term)), offset, limit), nil
}

func (s *Store) CountSearch(_ context.Context, term string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := matcher(term)
	var n int64
	for _, rec := range s.records {
		if match(rec) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteMany(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) PurgeOlderThan(_ context.Context, cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, rec := range s.records {
		if rec.CreatedAt < cutoff {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

// sortedLocked returns copies of the records accepted by keep (all when nil),
// newest first. Callers hold s.mu.
func (s *Store) sortedLocked(keep func(*domain.Record) bool) []*domain.Record {
	out := make([]*domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		if keep != nil && !keep(rec) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matcher(term string) func(*domain.Record) bool {
	needle := strings.ToLower(term)
	return func(rec *domain.Record) bool {
		return strings.Contains(strings.ToLower(rec.Title), needle) ||
			strings.Contains(strings.ToLower(rec.Description), needle) ||
			strings.Contains(strings.ToLower(rec.Markdown), needle)
	}
}

func window(recs []*domain.Record, offset, limit int) []*domain.Record {
	if offset < 0 || offset >= len(recs) {
		return []*domain.Record{}
	}
	end := offset + limit
	if end > len(recs) || end < offset {
		end = len(recs)
	}
	return recs[offset:end]
}
