package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"PeeriodicalsFeed/internal/domain"
	"PeeriodicalsFeed/internal/ports"
)

const pubDateLayout = "Mon, 02 Jan 2006 15:04 GMT"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source ports.ListingSource
	Lookup ports.CitationLookup
	Writer ports.FeedWriter
	Logger *slog.Logger
}

// Pipeline implements the fetch, parse, enrich, render, write workflow of a
// single feed build.
type Pipeline struct {
	source ports.ListingSource
	lookup ports.CitationLookup
	writer ports.FeedWriter
	logger *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source: deps.Source,
		lookup: deps.Lookup,
		writer: deps.Writer,
		logger: logger,
	}
}

// Run executes one feed build. Records without a positive editorial decision
// stay in the accepted set but never reach the feed; items are emitted
// oldest-first since the listing orders newest-first.
func (p *Pipeline) Run(ctx context.Context) error {
	publications, err := p.source.FetchPublications(ctx)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}

	var items []ports.Item
	for i := len(publications) - 1; i >= 0; i-- {
		pub := publications[i]
		if !pub.EditorialDecision {
			continue
		}

		items = append(items, ports.Item{
			Title:       pub.Title,
			Link:        pub.FeedURL,
			GUID:        pub.FeedURL + "?guid=0",
			PubDate:     pub.UpdatedAt.Format(pubDateLayout),
			Description: p.describe(ctx, pub),
		})
	}

	if err := p.writer.Write(items); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	p.logger.Info("feed written", "publications", len(publications), "items", len(items))
	return nil
}

// describe enriches one record and renders its body. Records without a DOI
// and records whose lookup failed produce an empty description.
func (p *Pipeline) describe(ctx context.Context, pub domain.Publication) string {
	if pub.DOI == "" || p.lookup == nil {
		return ""
	}

	citation, err := p.lookup.Lookup(ctx, pub.DOI)
	if err != nil {
		p.logger.Warn("citation lookup aborted", "doi", pub.DOI, "error", err)
		return ""
	}
	if citation == nil {
		return ""
	}

	return buildDescription(pub, citation)
}
