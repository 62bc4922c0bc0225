package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"PeeriodicalsFeed/internal/config"
	"PeeriodicalsFeed/internal/domain"
	"PeeriodicalsFeed/internal/infrastructure/crossref"
	"PeeriodicalsFeed/internal/infrastructure/parser"
	"PeeriodicalsFeed/internal/infrastructure/rss"
	"PeeriodicalsFeed/internal/ports"
)

type stubSource struct {
	pubs []domain.Publication
	err  error
}

func (s *stubSource) FetchPublications(ctx context.Context) ([]domain.Publication, error) {
	return s.pubs, s.err
}

type stubLookup struct {
	citation *domain.Citation
	calls    int
}

func (s *stubLookup) Lookup(ctx context.Context, doi string) (*domain.Citation, error) {
	s.calls++
	return s.citation, nil
}

type captureWriter struct {
	items  []ports.Item
	called bool
}

func (w *captureWriter) Write(items []ports.Item) error {
	w.called = true
	w.items = items
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunFiltersAndReverses(t *testing.T) {
	t.Parallel()

	updated := time.Date(2021, time.May, 6, 7, 8, 0, 0, time.UTC)
	source := &stubSource{pubs: []domain.Publication{
		{Title: "Newest", FeedURL: "https://f/1", UpdatedAt: updated, EditorialDecision: true},
		{Title: "Pending", FeedURL: "https://f/2", UpdatedAt: updated, EditorialDecision: false},
		{Title: "Oldest", FeedURL: "https://f/3", UpdatedAt: updated, EditorialDecision: true},
	}}
	lookup := &stubLookup{}
	writer := &captureWriter{}

	p := NewPipeline(PipelineDeps{Source: source, Lookup: lookup, Writer: writer, Logger: discardLogger()})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(writer.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(writer.items))
	}
	if writer.items[0].Title != "Oldest" || writer.items[1].Title != "Newest" {
		t.Fatalf("items not in reverse extraction order: %+v", writer.items)
	}
	if writer.items[0].GUID != "https://f/3?guid=0" {
		t.Fatalf("unexpected guid: %s", writer.items[0].GUID)
	}
	if writer.items[0].PubDate != "Thu, 06 May 2021 07:08 GMT" {
		t.Fatalf("unexpected pubDate: %s", writer.items[0].PubDate)
	}

	// No record carries a DOI, so the lookup never runs.
	if lookup.calls != 0 {
		t.Fatalf("expected no lookups, got %d", lookup.calls)
	}
}

func TestRunListingFailureAborts(t *testing.T) {
	t.Parallel()

	source := &stubSource{err: errors.New("listing returned 404 Not Found")}
	writer := &captureWriter{}

	p := NewPipeline(PipelineDeps{Source: source, Writer: writer, Logger: discardLogger()})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed listing fetch")
	}
	if writer.called {
		t.Fatal("writer must not run after a failed fetch")
	}
}

func TestRunLookupFailureLeavesDescriptionEmpty(t *testing.T) {
	t.Parallel()

	source := &stubSource{pubs: []domain.Publication{
		{Title: "T", FeedURL: "https://f/1", DOI: "10.1/x", UpdatedAt: time.Now(), EditorialDecision: true},
	}}
	lookup := &stubLookup{citation: nil}
	writer := &captureWriter{}

	p := NewPipeline(PipelineDeps{Source: source, Lookup: lookup, Writer: writer, Logger: discardLogger()})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(writer.items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(writer.items))
	}
	if writer.items[0].Description != "" {
		t.Fatalf("expected empty description, got %q", writer.items[0].Description)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected 1 lookup, got %d", lookup.calls)
	}
}

// listingBlob is embedded in the page the way the live site does it: inside
// an attribute of the peeriodical element, quotes entity-escaped.
func listingHandler(blob string) http.HandlerFunc {
	page := `<html><body><peeriodical page-data="` +
		strings.ReplaceAll(blob, `"`, "&quot;") +
		`"></peeriodical></body></html>`
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}
}

const e2eBlob = `{"name":"My Test Feed","publications":[` +
	`{"title":"Flow chemistry at scale","journal":{"url":"https:\/\/journals.example\/one"},` +
	`"published_at":"2021","pubpeer_id":"AAA1",` +
	`"identifiers":[{"value":"10.1234\/jx.42","type":"DOI"}],` +
	`"updated_at":"2021-05-06T07:08:09.000000Z","editorial_decision":true,` +
	`"users":[{"display_name":"Alice Smith","orcid":"https:\/\/orcid.org\/0000-0001"}]}]}`

func runEndToEnd(t *testing.T, crossrefBody string) string {
	t.Helper()

	listing := httptest.NewServer(listingHandler(e2eBlob))
	defer listing.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/10.1234/jx.42" {
			t.Errorf("unexpected crossref path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(crossrefBody))
	}))
	defer api.Close()

	feed := config.FeedConfig{
		BaseURL: listing.URL,
		Name:    "My Test Feed",
		URLName: "my-test-feed",
	}
	out := filepath.Join(t.TempDir(), "rss.xml")

	p := NewPipeline(PipelineDeps{
		Source: parser.NewPeeriodicalScanner(listing.Client(), feed, discardLogger()),
		Lookup: crossref.NewClient(api.URL, "tester@example.com", api.Client(), discardLogger()),
		Writer: rss.NewWriter(out, feed.Name, feed.ListingURL(), "About the feed"),
		Logger: discardLogger(),
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read feed output: %v", err)
	}
	return string(raw)
}

func TestEndToEndWithPages(t *testing.T) {
	t.Parallel()

	out := runEndToEnd(t, `{
		"status": "ok",
		"message": {
			"container-title": ["Journal of Examples"],
			"short-container-title": ["J. Ex."],
			"volume": "12",
			"page": "100-110"
		}
	}`)

	if got := strings.Count(out, "<item>"); got != 1 {
		t.Fatalf("expected exactly 1 item, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "in <em>Journal of Examples</em>") {
		t.Fatalf("missing journal line:\n%s", out)
	}
	if !strings.Contains(out, "100&ndash;110") {
		t.Fatalf("missing en-dash page range:\n%s", out)
	}
	if strings.Contains(out, "https://doi.org/") {
		t.Fatalf("DOI link present despite pages:\n%s", out)
	}
	if !strings.Contains(out, "<pubDate>Thu, 06 May 2021 07:08 GMT</pubDate>") {
		t.Fatalf("unexpected pubDate:\n%s", out)
	}
}

func TestEndToEndWithoutPages(t *testing.T) {
	t.Parallel()

	out := runEndToEnd(t, `{
		"status": "ok",
		"message": {
			"container-title": ["Journal of Examples"],
			"short-container-title": ["J. Ex."],
			"volume": "12"
		}
	}`)

	if !strings.Contains(out, `<a href="https://doi.org/10.1234/jx.42"`) {
		t.Fatalf("missing DOI link:\n%s", out)
	}
	if strings.Contains(out, "&ndash;") {
		t.Fatalf("unexpected page range:\n%s", out)
	}
}

func TestEndToEndListingFailureWritesNothing(t *testing.T) {
	t.Parallel()

	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer listing.Close()

	feed := config.FeedConfig{BaseURL: listing.URL, Name: "X", URLName: "x"}
	out := filepath.Join(t.TempDir(), "rss.xml")

	p := NewPipeline(PipelineDeps{
		Source: parser.NewPeeriodicalScanner(listing.Client(), feed, discardLogger()),
		Writer: rss.NewWriter(out, feed.Name, feed.ListingURL(), "About"),
		Logger: discardLogger(),
	})

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error from 404 listing")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output file must not exist after abort, stat err: %v", err)
	}
}
