package parser

import (
	"regexp"
	"strings"
)

var unicodeEscapeExpr = regexp.MustCompile(`\\(u[\da-fA-F]{4})`)

// decodeEntities reverses the escape encodings the listing applies to titles.
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return decodeSlashes(s)
}

// decodeSlashes turns escaped path separators back into plain slashes.
func decodeSlashes(s string) string {
	return strings.ReplaceAll(s, `\/`, "/")
}

// encodeUnicodeEscapes rewrites \uXXXX sequences as &uXXXX; placeholders.
// This is a format substitution, not a decode: the feed writer passes the
// placeholder through as entity-style text rather than a raw code point.
func encodeUnicodeEscapes(s string) string {
	return unicodeEscapeExpr.ReplaceAllString(s, "&${1};")
}
