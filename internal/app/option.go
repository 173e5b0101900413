package app

import (
	"github.com/takak2166/notion2telegram/internal/config"
	"github.com/takak2166/notion2telegram/internal/store"
	"github.com/takak2166/notion2telegram/internal/syncer"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *config.Config
	once   bool

	// Collaborators built from config when left nil.
	pages     syncer.PageSource
	content   syncer.ContentAssembler
	messenger syncer.Messenger
	store     store.Store
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOnce runs a single pass and returns instead of scheduling.
func WithOnce(once bool) Option {
	return func(a *application) {
		a.once = once
	}
}

// WithPageSource replaces the Notion page source.
func WithPageSource(pages syncer.PageSource) Option {
	return func(a *application) {
		a.pages = pages
	}
}

// WithContentAssembler replaces the page content assembler.
func WithContentAssembler(content syncer.ContentAssembler) Option {
	return func(a *application) {
		a.content = content
	}
}

// WithMessenger replaces the Telegram client.
func WithMessenger(messenger syncer.Messenger) Option {
	return func(a *application) {
		a.messenger = messenger
	}
}

// WithStore replaces the mapping store selected by the config.
func WithStore(st store.Store) Option {
	return func(a *application) {
		a.store = st
	}
}
