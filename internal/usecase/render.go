package usecase

import (
	"fmt"
	"strings"

	"PeeriodicalsFeed/internal/domain"
)

// buildDescription composes the literal-HTML body of a feed item: heading,
// journal line, author line, and reference. The block is CDATA-wrapped and
// pre-indented for its position in the document; the feed writer passes it
// through without escaping.
func buildDescription(pub domain.Publication, citation *domain.Citation) string {
	journalLine := "<br>"
	if citation.Journal != "" {
		journalLine = fmt.Sprintf("in <em>%s</em><br>", citation.Journal)
	}

	lines := []string{
		"\t\t\t\t<h5>" + pub.Title + "</h5>",
		"<p>",
		journalLine,
		authorLine(pub.Authors) + "<br>",
		reference(citation, pub.Year, pub.DOI),
		"</p>",
	}

	return "<![CDATA[\n" + strings.Join(lines, "\n\t\t\t\t") + "\n\t\t\t\t]]>\n\t\t\t"
}

// authorLine joins authors with commas, linking names that carry an ORCID.
func authorLine(authors []domain.Author) string {
	parts := make([]string, 0, len(authors))
	for _, author := range authors {
		if author.ORCID != "" {
			parts = append(parts, fmt.Sprintf(`<a href="%s" _target="_blank" rel="noopener">%s</a>`, author.ORCID, author.Name))
		} else {
			parts = append(parts, author.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// reference renders the citation line: volume and pages when the page range
// is known, otherwise a link to the DOI resolver.
func reference(citation *domain.Citation, year int, doi string) string {
	if citation.Pages != "" {
		return fmt.Sprintf("<em>%s</em> <strong>%d</strong>, %s, %s",
			citation.JournalAbbr, year, citation.Volume, citation.Pages)
	}
	return fmt.Sprintf(`<em>%s</em> <strong>%d</strong>, <a href="https://doi.org/%s" target="_blank" ref="noopener">%s</a>`,
		citation.JournalAbbr, year, doi, doi)
}
