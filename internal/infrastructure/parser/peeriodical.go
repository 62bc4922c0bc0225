package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PeeriodicalsFeed/internal/config"
	"PeeriodicalsFeed/internal/domain"
	"PeeriodicalsFeed/internal/ports"
)

// Browser-like request headers; the listing only embeds the publication data
// when it believes a browser is asking.
var listingHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.77 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Charset":  "ISO-8859-1,utf-8;q=0.7,*;q=0.3",
	"Accept-Encoding": "none",
	"Accept-Language": "en-US,en;q=0.8",
	"Connection":      "keep-alive",
}

// PeeriodicalScanner fetches the listing page and extracts accepted
// publication records from the token blob embedded in it.
type PeeriodicalScanner struct {
	client *http.Client
	feed   config.FeedConfig
	logger *slog.Logger
}

var _ ports.ListingSource = (*PeeriodicalScanner)(nil)

// NewPeeriodicalScanner wires an HTTP client; nil gets a 20s-timeout default.
func NewPeeriodicalScanner(client *http.Client, feed config.FeedConfig, logger *slog.Logger) *PeeriodicalScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PeeriodicalScanner{client: client, feed: feed, logger: logger}
}

// FetchPublications downloads the listing and runs every fragment through the
// extractor, keeping the first record seen for each journal URL.
func (s *PeeriodicalScanner) FetchPublications(ctx context.Context) ([]domain.Publication, error) {
	doc, err := s.fetchDocument(ctx, s.feed.ListingURL())
	if err != nil {
		return nil, err
	}

	fragments, err := splitFragments(doc)
	if err != nil {
		return nil, err
	}

	accepted := make([]domain.Publication, 0, len(fragments))
	for _, fragment := range fragments {
		if pub := s.publicationFromFragment(fragment, accepted); pub != nil {
			accepted = append(accepted, *pub)
		}
	}

	s.logger.Debug("listing parsed", "fragments", len(fragments), "accepted", len(accepted))
	return accepted, nil
}

func (s *PeeriodicalScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range listingHeaders {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	return doc, nil
}

// splitFragments recovers the raw token blob from the serialized peeriodical
// element and cuts it into per-publication fragments. Every piece of the
// split, including the leading one holding the feed's own header, is a
// candidate the extractor must judge.
func splitFragments(doc *goquery.Document) ([]string, error) {
	sel := doc.Find("peeriodical").First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no peeriodical element in listing page")
	}

	raw, err := goquery.OuterHtml(sel)
	if err != nil {
		return nil, fmt.Errorf("serialize peeriodical element: %w", err)
	}

	// net/html re-escapes quotes inside attribute values as &#34;.
	raw = strings.ReplaceAll(raw, "&#34;", `"`)
	raw = strings.ReplaceAll(raw, "&quot;", `"`)

	_, blob, found := strings.Cut(raw, `"name":`)
	if !found {
		return nil, fmt.Errorf("no name field in peeriodical element")
	}

	return strings.Split(blob, `"title":`), nil
}
