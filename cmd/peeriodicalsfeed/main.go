package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"PeeriodicalsFeed/internal/app"
	"PeeriodicalsFeed/internal/config"
	"PeeriodicalsFeed/internal/logging"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load(cmd.String("config"))
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, cmd.String("user"), logger)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:   "peeriodicalsfeed",
		Usage:  "Build an RSS feed from a peeriodical's publication listing",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("PEERIODICALS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Username combined with the configured mail domain for Crossref polite authentication",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("feed build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
