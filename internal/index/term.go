package index

import (
	"regexp"
	"strings"
)

var (
	mdLinkPattern     = regexp.MustCompile(`(?s)\[([^\]]+)\]\([^)]+\)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Term is the normalized form of a marker's text.
type Term struct {
	// Key merges occurrences: two markers index the same entry exactly when
	// their keys are equal (case-sensitive).
	Key string `json:"key" yaml:"key"`
	// Sort orders entries. It is Key without emphasis characters, so
	// "_Option_" sorts next to "Option" while still displaying in italics.
	Sort string `json:"-" yaml:"-"`
}

// NewTerm normalizes marker text into a Term.
func NewTerm(text string) Term {
	key := Canonicalize(text)
	return Term{Key: key, Sort: sortKey(key)}
}

// Canonicalize converts marker text to the form shown in the index: markdown
// links are reduced to their text, whitespace runs collapse to a single space
// and the result is trimmed.
func Canonicalize(s string) string {
	delinked := mdLinkPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(delinked, " "))
}

func sortKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '*', '`':
			return -1
		}
		return r
	}, key)
}

// HasCopyrightMark reports whether s contains "(C)" in any case, which some
// renderers would otherwise turn into a copyright glyph.
func HasCopyrightMark(s string) bool {
	return strings.Contains(strings.ToUpper(s), "(C)")
}
