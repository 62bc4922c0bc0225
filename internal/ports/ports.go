package ports

import (
	"context"

	"PeeriodicalsFeed/internal/domain"
)

// ListingSource pulls the publication listing and extracts accepted records.
type ListingSource interface {
	FetchPublications(ctx context.Context) ([]domain.Publication, error)
}

// CitationLookup resolves bibliographic metadata for a DOI. A nil Citation
// with nil error means the lookup failed recoverably and was already logged.
type CitationLookup interface {
	Lookup(ctx context.Context, doi string) (*domain.Citation, error)
}

// FeedWriter serializes the finished channel and items to the output file.
type FeedWriter interface {
	Write(items []Item) error
}

// Item is one rendered feed entry handed to the writer. Description holds
// literal markup and is written without entity escaping; an empty value
// emits an empty description element.
type Item struct {
	Title       string
	Link        string
	GUID        string
	PubDate     string
	Description string
}
