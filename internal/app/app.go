// Package app wires the sync components together and runs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/takak2166/notion2telegram/internal/config"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/markdown"
	"github.com/takak2166/notion2telegram/internal/notion"
	"github.com/takak2166/notion2telegram/internal/store"
	"github.com/takak2166/notion2telegram/internal/syncer"
	"github.com/takak2166/notion2telegram/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	rootID, err := cfg.RootPageID()
	if err != nil {
		return fmt.Errorf("failed to parse root page: %w", err)
	}

	logger.Info("Configuration loaded", map[string]interface{}{
		"root_page_id":  rootID,
		"chat_id":       cfg.Telegram.ChatID,
		"interval":      cfg.Sync.Interval().String(),
		"timezone":      loc.String(),
		"store_backend": cfg.Store.Backend,
		"http_port":     cfg.HTTP.Port,
		"once":          app.once,
	})

	closeStore, err := app.build(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	reconciler := syncer.New(app.pages, app.content, app.messenger, app.store,
		syncer.WithSkipPrefixes(cfg.Sync.SkipTitlePrefixes),
		syncer.WithErrorDumpDir(cfg.Sync.ErrorDumpDir),
		syncer.WithClock(func() time.Time { return time.Now().In(loc) }),
	)
	scheduler := NewScheduler(reconciler, cfg.Sync.Interval())

	if app.once {
		report := scheduler.RunOnce(ctx)
		if report.Err != nil {
			return fmt.Errorf("sync pass failed: %w", report.Err)
		}
		return nil
	}

	return app.serve(ctx, scheduler)
}

// build creates the collaborators that were not supplied as options. The
// returned function releases the store.
func (a *application) build(ctx context.Context) (func(), error) {
	cfg := a.config
	closeStore := func() {}

	var notionClient *notion.Client
	needNotion := a.pages == nil || a.content == nil || (a.store == nil && cfg.Store.Backend == config.BackendNotion)
	if needNotion {
		client, err := notion.New(cfg.Notion.APIKey, cfg.Notion.RootPage)
		if err != nil {
			return closeStore, fmt.Errorf("failed to create Notion client: %w", err)
		}
		notionClient = client
	}

	if a.pages == nil {
		a.pages = notionClient
	}
	if a.content == nil {
		a.content = markdown.NewAssembler(notionClient)
	}

	if a.messenger == nil {
		client, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return closeStore, fmt.Errorf("failed to create Telegram client: %w", err)
		}
		a.messenger = client
	}

	if a.store != nil {
		return closeStore, nil
	}

	switch cfg.Store.Backend {
	case config.BackendNotion:
		db, err := notionClient.SyncDatabase(ctx, notion.SyncDatabaseTitle)
		if err != nil {
			return closeStore, fmt.Errorf("failed to open sync database: %w", err)
		}
		logger.Info("Using Notion sync database", map[string]interface{}{
			"root_id":     notionClient.RootID(),
			"database_id": db.ID(),
		})
		a.store = store.NewNotionStore(db, cfg.Telegram.ChatID)
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return closeStore, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.store = db
		closeStore = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close sqlite store", err)
			}
		}
	case config.BackendMemory:
		logger.Warn("Using in-memory store, mappings are lost on restart", nil)
		a.store = store.NewMemoryStore()
	default:
		return closeStore, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return closeStore, nil
}

// serve runs the scheduler and the optional status server until ctx is done
// or a shutdown signal arrives.
func (a *application) serve(ctx context.Context, scheduler *Scheduler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Run(gCtx)
	})

	if a.config.HTTP.Enabled() {
		history, _ := a.store.(store.HistoryReader)
		httpServer := &http.Server{
			Addr:              a.config.HTTP.Address(),
			Handler:           NewRouter(scheduler, history),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", map[string]interface{}{
				"address": httpServer.Addr,
			})
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", err)
		return err
	}

	logger.Info("Stopped")
	return nil
}
