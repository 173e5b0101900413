package main

import (
	"context"
	"fmt"
	"os"

	"github.com/takak2166/notion2telegram/internal/app"
	"github.com/takak2166/notion2telegram/internal/config"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flag wins over file and environment
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	opts := []app.Option{
		app.WithConfig(cfg),
		app.WithOnce(cmd.Bool("once")),
	}

	if err := app.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "notion2telegram",
		Usage:  "Keep one pinned Telegram message per Notion page in sync",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single sync pass and exit",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the log level (debug, info, warn, error)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("Application error", err)
		os.Exit(1)
	}
}
