package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"PeeriodicalsFeed/internal/config"
	"PeeriodicalsFeed/internal/infrastructure/credentials"
	"PeeriodicalsFeed/internal/infrastructure/crossref"
	"PeeriodicalsFeed/internal/infrastructure/parser"
	"PeeriodicalsFeed/internal/infrastructure/rss"
	"PeeriodicalsFeed/internal/usecase"
)

// Application wires configuration to the pipeline for a single run.
type Application struct {
	pipeline *usecase.Pipeline
}

// New resolves the polite email and proxy map, then builds the runnable
// application. A non-empty username seeds the email from the configured mail
// domain without touching the email file; otherwise resolution may prompt on
// stdin.
func New(cfg config.Config, username string, logger *slog.Logger) (*Application, error) {
	email, err := credentials.ResolveEmail(cfg.Crossref.EmailFile, username, cfg.Crossref.EmailDomain, os.Stdin, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("resolve email: %w", err)
	}

	proxies, err := config.LoadProxies(cfg.Proxies.File)
	if err != nil {
		return nil, fmt.Errorf("load proxies: %w", err)
	}

	client := &http.Client{
		Timeout:   20 * time.Second,
		Transport: &http.Transport{Proxy: proxyFunc(proxies)},
	}

	source := parser.NewPeeriodicalScanner(client, cfg.Feed, logger.With("component", "scanner"))
	lookup := crossref.NewClient(cfg.Crossref.Endpoint, email, client, logger.With("component", "crossref"))
	writer := rss.NewWriter(cfg.Feed.Output, cfg.Feed.Name, cfg.Feed.ListingURL(), cfg.Feed.Description)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source: source,
		Lookup: lookup,
		Writer: writer,
		Logger: logger.With("component", "pipeline"),
	})

	return &Application{pipeline: pipeline}, nil
}

// Run performs one fetch-to-feed pass.
func (a *Application) Run(ctx context.Context) error {
	return a.pipeline.Run(ctx)
}

// proxyFunc selects the configured proxy for a request's URL scheme; schemes
// without an entry connect directly.
func proxyFunc(proxies map[string]string) func(*http.Request) (*url.URL, error) {
	if len(proxies) == 0 {
		return nil
	}
	return func(req *http.Request) (*url.URL, error) {
		raw, ok := proxies[req.URL.Scheme]
		if !ok {
			return nil, nil
		}
		return url.Parse(raw)
	}
}
