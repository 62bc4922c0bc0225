package parser

import (
	"strconv"
	"strings"
	"time"

	"PeeriodicalsFeed/internal/domain"
)

const updatedAtLayout = "2006-01-02T15:04:05.000000Z"

// publicationFromFragment recovers a structured record from one raw fragment.
// It returns nil for fragments that are not publications: the listing header
// (title equals the feed name), duplicates of already-accepted records, and
// empty tails of the split. Malformed fragments are skipped with a warning.
func (s *PeeriodicalScanner) publicationFromFragment(fragment string, accepted []domain.Publication) *domain.Publication {
	end := strings.Index(fragment, `",`)
	if end < 1 {
		return nil
	}
	title := fragment[1:end]
	if title == s.feed.Name {
		return nil
	}
	title = decodeEntities(title)

	splits := strings.Split(fragment[end+2:], `"`)
	if len(splits) == 1 && splits[0] == "" {
		return nil
	}

	journalURL, ok := markerValue(splits, "url", 2)
	if !ok {
		s.logger.Warn("fragment missing url marker, skipping", "title", title)
		return nil
	}
	journalURL = decodeSlashes(journalURL)
	for _, p := range accepted {
		if p.JournalURL == journalURL {
			// first occurrence wins
			return nil
		}
	}

	yearToken, ok := markerValue(splits, "published_at", 2)
	if !ok {
		s.logger.Warn("fragment missing published_at marker, skipping", "title", title)
		return nil
	}
	year, err := strconv.Atoi(yearToken)
	if err != nil {
		s.logger.Warn("fragment has non-numeric year, skipping", "title", title, "year", yearToken)
		return nil
	}

	id, ok := markerValue(splits, "pubpeer_id", 2)
	if !ok {
		s.logger.Warn("fragment missing pubpeer_id marker, skipping", "title", title)
		return nil
	}

	updatedToken, ok := markerValue(splits, "updated_at", 2)
	if !ok {
		s.logger.Warn("fragment missing updated_at marker, skipping", "title", title)
		return nil
	}
	updatedAt, err := time.Parse(updatedAtLayout, updatedToken)
	if err != nil {
		s.logger.Warn("fragment has unparseable timestamp, skipping", "title", title, "updated_at", updatedToken)
		return nil
	}

	pub := &domain.Publication{
		Title:      encodeUnicodeEscapes(title),
		JournalURL: journalURL,
		Year:       year,
		ID:         id,
		FeedURL:    s.feed.PublicationURL(id),
		UpdatedAt:  updatedAt,
		Authors:    s.extractAuthors(splits),
	}

	if doi, ok := markerValue(splits, "DOI", -4); ok {
		pub.DOI = decodeSlashes(doi)
	}
	if pmid, ok := markerValue(splits, "PubMed", -4); ok {
		pub.PubMedID = decodeSlashes(pmid)
	}
	if decision, ok := markerValue(splits, "editorial_decision", 1); ok {
		pub.EditorialDecision = strings.Contains(decision, "true")
	}

	return pub
}

// markerValue reads the token at a fixed offset from the first occurrence of
// marker. Most values follow their marker at +2 in the "key":"value" token
// rhythm; DOI and PubMed values sit four tokens before their marker because
// of the listing's irregular layout around those fields.
func markerValue(splits []string, marker string, offset int) (string, bool) {
	for i, token := range splits {
		if token == marker {
			j := i + offset
			if j < 0 || j >= len(splits) {
				return "", false
			}
			return splits[j], true
		}
	}
	return "", false
}
