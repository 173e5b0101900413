// Package store persists the page to message mapping.
package store

import (
	"context"

	"github.com/takak2166/notion2telegram/internal/models"
)

// Store is the durable mapping between source pages and chat messages.
// LoadAll returns active records only. Upsert is idempotent and keeps at most
// one active record per page. Archive soft-deletes the active record.
//
//go:generate mockgen -source=store.go -destination=mock_store/mock_store.go -package=mock_store
type Store interface {
	LoadAll(ctx context.Context) (map[string]models.SyncRecord, error)
	Upsert(ctx context.Context, rec models.SyncRecord) error
	Archive(ctx context.Context, pageID string) error
}

// HistoryReader is implemented by backends that keep archived records
// readable.
type HistoryReader interface {
	History(ctx context.Context, pageID string) ([]models.SyncRecord, error)
}
