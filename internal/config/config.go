// Package config loads settings from .env, an optional YAML file and the
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/takak2166/notion2telegram/internal/models"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendNotion = "notion"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the application configuration
type Config struct {
	Notion   NotionConfig   `yaml:"notion"`
	Telegram TelegramConfig `yaml:"telegram"`
	Sync     SyncConfig     `yaml:"sync"`
	Store    StoreConfig    `yaml:"store"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
}

type NotionConfig struct {
	APIKey string `yaml:"api_key"`
	// RootPage is the URL or id of the page whose children are synced.
	RootPage string `yaml:"root_page"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type SyncConfig struct {
	IntervalSeconds   int      `yaml:"interval_seconds"`
	Timezone          string   `yaml:"timezone"`
	SkipTitlePrefixes []string `yaml:"skip_title_prefixes"`
	ErrorDumpDir      string   `yaml:"error_dump_dir"`
}

// Interval returns the time between passes
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

type StoreConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

type HTTPConfig struct {
	// Port of the status server, 0 disables it.
	Port int `yaml:"port"`
}

// Address returns the listen address of the status server
func (c HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Enabled reports whether the status server should run
func (c HTTPConfig) Enabled() bool {
	return c.Port > 0
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			IntervalSeconds:   300,
			Timezone:          "Europe/Madrid",
			SkipTitlePrefixes: []string{"[DRAFT]", "[TG_SYNC]"},
		},
		Store: StoreConfig{
			Backend:    BackendNotion,
			SQLitePath: "notion2telegram.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. A missing .env file is not an error, and an
// empty path skips the YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with the environment variables that are set
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("NOTION_API_KEY", &cfg.Notion.APIKey)
	str("NOTION_ROOT_PAGE_URL", &cfg.Notion.RootPage)
	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	str("TIMEZONE", &cfg.Sync.Timezone)
	str("ERROR_DUMP_DIR", &cfg.Sync.ErrorDumpDir)
	str("STORE_BACKEND", &cfg.Store.Backend)
	str("SQLITE_PATH", &cfg.Store.SQLitePath)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := lookup("TELEGRAM_CHAT_ID"); ok && v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	if err := integer("SYNC_INTERVAL_SECONDS", &cfg.Sync.IntervalSeconds); err != nil {
		return err
	}
	if err := integer("HTTP_PORT", &cfg.HTTP.Port); err != nil {
		return err
	}
	if v, ok := lookup("SKIP_TITLE_PREFIXES"); ok {
		cfg.Sync.SkipTitlePrefixes = splitList(v)
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RootPageID returns the normalized id of the root page
func (c *Config) RootPageID() (string, error) {
	ref, err := models.ParseNotionRef(c.Notion.RootPage)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Notion.Validate(); err != nil {
		return fmt.Errorf("notion: %w", err)
	}
	if err := c.Telegram.Validate(); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.RootPage, validation.Required, validation.By(func(value interface{}) error {
			_, err := models.ParseNotionRef(value.(string))
			return err
		})),
	)
}

func (c *TelegramConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BotToken, validation.Required),
		validation.Field(&c.ChatID, validation.Required),
	)
}

func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IntervalSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.Timezone, validation.By(func(value interface{}) error {
			_, err := time.LoadLocation(value.(string))
			return err
		})),
	)
}

func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendNotion, BackendSQLite, BackendMemory)),
		validation.Field(&c.SQLitePath, validation.When(c.Backend == BackendSQLite, validation.Required)),
	)
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
	)
}

func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal", "panic")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}
