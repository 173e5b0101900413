package app

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/takak2166/notion2telegram/internal/config"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/models"
	"github.com/takak2166/notion2telegram/internal/store"
	"github.com/takak2166/notion2telegram/internal/syncer/mock_syncer"
)

const pageID = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Notion.APIKey = "secret"
	cfg.Notion.RootPage = pageID
	cfg.Telegram.BotToken = "123:abc"
	cfg.Telegram.ChatID = -1001234567890
	cfg.Sync.Timezone = "UTC"
	cfg.Sync.IntervalSeconds = 3600
	cfg.Store.Backend = config.BackendMemory
	cfg.Log.Level = "error"
	return cfg
}

type mocks struct {
	pages     *mock_syncer.MockPageSource
	content   *mock_syncer.MockContentAssembler
	messenger *mock_syncer.MockMessenger
	store     *store.MemoryStore
}

func newMocks(t *testing.T) *mocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &mocks{
		pages:     mock_syncer.NewMockPageSource(ctrl),
		content:   mock_syncer.NewMockContentAssembler(ctrl),
		messenger: mock_syncer.NewMockMessenger(ctrl),
		store:     store.NewMemoryStore(),
	}
}

func (m *mocks) options(cfg *config.Config) []Option {
	return []Option{
		WithConfig(cfg),
		WithPageSource(m.pages),
		WithContentAssembler(m.content),
		WithMessenger(m.messenger),
		WithStore(m.store),
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	edited := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		setupMocks  func(m *mocks)
		expectError bool
		verify      func(t *testing.T, m *mocks)
	}{
		"Success": {
			setupMocks: func(m *mocks) {
				m.pages.EXPECT().ListPages(gomock.Any()).Return([]models.SourcePage{
					{ID: pageID, Title: "Rules", LastEdited: edited},
				}, nil)
				m.content.EXPECT().Assemble(gomock.Any(), pageID).Return("Be nice", nil)
				m.messenger.EXPECT().Send(gomock.Any(), "*Rules*\n\nBe nice").Return(7, nil)
				m.messenger.EXPECT().Pin(gomock.Any(), 7).Return(nil)
			},
			verify: func(t *testing.T, m *mocks) {
				all, err := m.store.LoadAll(ctx)
				if err != nil {
					t.Fatal(err)
				}
				if rec := all[pageID]; rec.MessageID != 7 || rec.Title != "Rules" {
					t.Errorf("Unexpected record %+v", rec)
				}
			},
		},
		"Failure - Pages unavailable": {
			setupMocks: func(m *mocks) {
				m.pages.EXPECT().ListPages(gomock.Any()).Return(nil, errors.New("unauthorized"))
			},
			expectError: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := newMocks(t)
			tt.setupMocks(m)

			err := Run(ctx, append(m.options(testConfig()), WithOnce(true))...)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, m)
			}
		})
	}
}

func TestRunUntilCanceled(t *testing.T) {
	m := newMocks(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.pages.EXPECT().ListPages(gomock.Any()).DoAndReturn(func(context.Context) ([]models.SourcePage, error) {
		cancel()
		return nil, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, m.options(testConfig())...)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRunInvalidLogLevel(t *testing.T) {
	m := newMocks(t)
	cfg := testConfig()
	cfg.Log.Level = "loud"

	if err := Run(context.Background(), m.options(cfg)...); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestBuildDefaultsToConfiguredBackend(t *testing.T) {
	m := newMocks(t)
	cfg := testConfig()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Store.SQLitePath = t.TempDir() + "/sync.db"

	a := &application{
		config:    cfg,
		pages:     m.pages,
		content:   m.content,
		messenger: m.messenger,
	}
	closeStore, err := a.build(context.Background())
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	defer closeStore()

	if _, ok := a.store.(*store.SQLiteStore); !ok {
		t.Errorf("Expected SQLite store, got %T", a.store)
	}
}

func TestRunInvalidRootPage(t *testing.T) {
	m := newMocks(t)
	cfg := testConfig()
	cfg.Notion.RootPage = "https://www.notion.so/workspace"

	if err := Run(context.Background(), m.options(cfg)...); err == nil {
		t.Error("Expected error, got nil")
	}
}
