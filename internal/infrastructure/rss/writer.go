package rss

import (
	"fmt"
	"os"
	"strings"

	"PeeriodicalsFeed/internal/ports"
)

// Writer serializes the channel and its items as an RSS 2.0 document.
// Escaping is a per-field mode: ordinary text fields are entity-escaped,
// while the description field is written raw so its CDATA-wrapped markup
// reaches feed readers untouched.
type Writer struct {
	path        string
	title       string
	link        string
	description string
}

var _ ports.FeedWriter = (*Writer)(nil)

// NewWriter targets the output path with the channel header fields.
func NewWriter(path, title, link, description string) *Writer {
	return &Writer{path: path, title: title, link: link, description: description}
}

// Write renders the document and writes it to the output file.
func (w *Writer) Write(items []ports.Item) error {
	var b strings.Builder
	b.WriteString("<?xml version='1.0' encoding='utf-8'?>\n")
	b.WriteString("<rss xmlns:atom=\"http://www.w3.org/2005/Atom\" version=\"2.0\">\n")
	b.WriteString("\t<channel>\n")
	writeElement(&b, 2, "title", w.title, false)
	writeElement(&b, 2, "link", w.link, false)
	b.WriteString("\t\t<atom:link href=\"\" rel=\"self\" type=\"application/rss+xml\" />\n")
	writeElement(&b, 2, "language", "en-gb", false)
	writeElement(&b, 2, "category", "Science", false)
	writeElement(&b, 2, "description", w.description, false)

	for _, item := range items {
		b.WriteString("\t\t<item>\n")
		writeElement(&b, 3, "title", item.Title, false)
		writeElement(&b, 3, "link", item.Link, false)
		writeElement(&b, 3, "guid", item.GUID, false)
		writeElement(&b, 3, "pubDate", item.PubDate, false)
		writeElement(&b, 3, "description", item.Description, true)
		b.WriteString("\t\t</item>\n")
	}

	b.WriteString("\t</channel>\n")
	b.WriteString("</rss>\n")

	if err := os.WriteFile(w.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write feed file: %w", err)
	}
	return nil
}

// writeElement emits one indented element. raw bypasses entity escaping for
// fields whose text is literal markup.
func writeElement(b *strings.Builder, depth int, name, text string, raw bool) {
	if !raw {
		text = escapeText(text)
	}
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", strings.Repeat("\t", depth), name, text, name)
}

// escapeText entity-escapes XML character data. Ampersands go first so the
// other replacements are not escaped twice.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
