package parser

import "PeeriodicalsFeed/internal/domain"

// extractAuthors pairs positional display_name and orcid tokens into the
// ordered author list. The listing emits the two marker sequences in matching
// order; when their counts disagree the extra entries are dropped and a
// warning is logged.
func (s *PeeriodicalScanner) extractAuthors(splits []string) []domain.Author {
	var names, orcids []string
	for i, token := range splits {
		switch token {
		case "display_name":
			if i+2 < len(splits) {
				names = append(names, encodeUnicodeEscapes(splits[i+2]))
			}
		case "orcid":
			if i+2 < len(splits) {
				orcids = append(orcids, decodeSlashes(splits[i+2]))
			}
		}
	}

	if len(names) != len(orcids) {
		s.logger.Warn("author name/orcid counts differ, pairing to the shorter list",
			"names", len(names), "orcids", len(orcids))
	}

	n := min(len(names), len(orcids))
	authors := make([]domain.Author, 0, n)
	for i := 0; i < n; i++ {
		authors = append(authors, domain.Author{Name: names[i], ORCID: orcids[i]})
	}
	return authors
}
