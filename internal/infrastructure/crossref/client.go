package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"PeeriodicalsFeed/internal/domain"
	"PeeriodicalsFeed/internal/ports"
)

// Client queries the Crossref works API for citation metadata.
type Client struct {
	endpoint   string
	email      string
	httpClient *http.Client
	retryPause time.Duration
	logger     *slog.Logger
}

var _ ports.CitationLookup = (*Client)(nil)

// NewClient builds a polite Crossref client. The email lands in the
// User-Agent so rate limiting stays on the courteous tier.
func NewClient(endpoint, email string, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		email:      email,
		httpClient: client,
		retryPause: 10 * time.Second,
		logger:     logger,
	}
}

type worksResponse struct {
	Status  string       `json:"status"`
	Message worksMessage `json:"message"`
}

type worksMessage struct {
	ContainerTitle      []string `json:"container-title"`
	ShortContainerTitle []string `json:"short-container-title"`
	Volume              string   `json:"volume"`
	Page                string   `json:"page"`
}

// Lookup fetches citation metadata for a DOI. A connection timeout is retried
// once after a fixed pause. All other failures (transport, bad status,
// unparseable body) are logged and reported as a nil Citation so the run can
// continue without a description for the record.
func (c *Client) Lookup(ctx context.Context, doi string) (*domain.Citation, error) {
	resp, err := c.get(ctx, doi)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.logger.Warn("crossref request timed out, retrying once", "doi", doi, "pause", c.retryPause)
			select {
			case <-time.After(c.retryPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			resp, err = c.get(ctx, doi)
		}
	}
	if err != nil {
		c.logger.Warn("crossref request failed", "doi", doi, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("crossref returned unexpected status", "doi", doi, "status", resp.Status)
		return nil, nil
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		c.logger.Warn("crossref response unreadable", "doi", doi, "error", err)
		return nil, nil
	}
	if works.Status != "ok" {
		c.logger.Warn("crossref lookup not ok", "doi", doi, "status", works.Status)
		return nil, nil
	}

	return citationFromMessage(works.Message), nil
}

func (c *Client) get(ctx context.Context, doi string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/works/"+doi, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("Peeriodicals-to-RSS; mailto:%s", c.email))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Charset", "ISO-8859-1,utf-8;q=0.7,*;q=0.3")
	req.Header.Set("Accept-Encoding", "none")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request work: %w", err)
	}
	return resp, nil
}

// citationFromMessage applies the fallback between the journal name and its
// abbreviation and formats the page range for display.
func citationFromMessage(msg worksMessage) *domain.Citation {
	citation := &domain.Citation{Volume: msg.Volume}

	if len(msg.ContainerTitle) > 0 {
		citation.Journal = msg.ContainerTitle[0]
	}
	if len(msg.ShortContainerTitle) > 0 {
		citation.JournalAbbr = msg.ShortContainerTitle[0]
		if citation.Journal == "" {
			citation.Journal = citation.JournalAbbr
		}
	} else {
		citation.JournalAbbr = citation.Journal
	}

	if msg.Page != "" {
		citation.Pages = strings.ReplaceAll(msg.Page, "-", "&ndash;")
	}

	return citation
}
