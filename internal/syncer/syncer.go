// Package syncer reconciles the pages under the root page with the pinned
// messages of the chat.
package syncer

import (
	"context"

	"github.com/takak2166/notion2telegram/internal/models"
)

// Collaborators of a sync pass.
//
//go:generate mockgen -source=syncer.go -destination=mock_syncer/mock_syncer.go -package=mock_syncer
type (
	PageSource interface {
		ListPages(ctx context.Context) ([]models.SourcePage, error)
	}

	ContentAssembler interface {
		Assemble(ctx context.Context, pageID string) (string, error)
	}

	Messenger interface {
		Send(ctx context.Context, text string) (int, error)
		Edit(ctx context.Context, messageID int, text string) error
		Pin(ctx context.Context, messageID int) error
		Unpin(ctx context.Context, messageID int) error
		Delete(ctx context.Context, messageID int) error
	}
)

// State is the mapping cache carried from one pass to the next. It is owned
// by a single caller and must not be shared between goroutines.
type State struct {
	Records map[string]models.SyncRecord
	// Loaded is false until the records have been read from the store, and
	// again after a failed reload.
	Loaded bool
	// Pending holds records the store failed to persist. They are retried on
	// the next pass.
	Pending map[string]models.SyncRecord
}

// NewState returns an empty, unloaded state
func NewState() *State {
	return &State{
		Records: make(map[string]models.SyncRecord),
		Pending: make(map[string]models.SyncRecord),
	}
}
