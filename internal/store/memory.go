package store

import (
	"context"
	"sync"

	"github.com/takak2166/notion2telegram/internal/models"
)

// MemoryStore keeps records in process memory. Archived records are kept in
// the history.
type MemoryStore struct {
	mu      sync.Mutex
	active  map[string]models.SyncRecord
	history []models.SyncRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore(records ...models.SyncRecord) *MemoryStore {
	s := &MemoryStore{active: make(map[string]models.SyncRecord)}
	for _, rec := range records {
		rec.PageID = models.NormalizePageID(rec.PageID)
		rec.Archived = false
		s.active[rec.PageID] = rec
	}
	return s
}

func (s *MemoryStore) LoadAll(ctx context.Context) (map[string]models.SyncRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.SyncRecord, len(s.active))
	for id, rec := range s.active {
		out[id] = rec
	}
	return out, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, rec models.SyncRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.PageID = models.NormalizePageID(rec.PageID)
	rec.Archived = false
	s.active[rec.PageID] = rec
	return nil
}

func (s *MemoryStore) Archive(ctx context.Context, pageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pageID = models.NormalizePageID(pageID)
	rec, ok := s.active[pageID]
	if !ok {
		return nil
	}
	delete(s.active, pageID)
	rec.Archived = true
	s.history = append(s.history, rec)
	return nil
}

// History returns the archived records of a page, oldest first, followed by
// the active record if there is one.
func (s *MemoryStore) History(ctx context.Context, pageID string) ([]models.SyncRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pageID = models.NormalizePageID(pageID)
	var out []models.SyncRecord
	for _, rec := range s.history {
		if rec.PageID == pageID {
			out = append(out, rec)
		}
	}
	if rec, ok := s.active[pageID]; ok {
		out = append(out, rec)
	}
	return out, nil
}
