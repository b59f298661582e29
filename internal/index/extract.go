package index

import (
	"log/slog"
	"strings"
)

// Occurrence is one marker turned into an index record.
type Occurrence struct {
	Term     Term
	Kind     Kind
	Location Location
}

// Extractor rewrites chapter text, replacing each marker with its output
// text plus the renderer's anchor and recording an Occurrence for it.
type Extractor struct {
	renderer Renderer
	tracker  *Tracker
	logger   *slog.Logger
}

// NewExtractor returns an extractor that marks occurrences with r and
// locates them with t.
func NewExtractor(r Renderer, t *Tracker, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{renderer: r, tracker: t, logger: logger}
}

// Rewrite returns text with every marker replaced, and the occurrences in
// document order. Markers whose text normalizes to nothing are replaced but
// not indexed.
func (e *Extractor) Rewrite(text string) (string, []Occurrence) {
	var sb strings.Builder
	var found []Occurrence
	last := 0

	for m := range Scan(text) {
		sb.WriteString(text[last:m.Start])
		last = m.End

		term := NewTerm(m.Inner)
		if term.Key == "" {
			e.logger.Debug("skipping empty index marker", "kind", m.Kind.String())
			sb.WriteString(m.Replacement())
			continue
		}

		occ := Occurrence{Term: term, Kind: m.Kind, Location: e.tracker.Next()}
		e.logger.Debug("found index entry",
			"kind", m.Kind.String(), "text", m.Inner, "term", term.Key, "anchor", occ.Location.Anchor)

		sb.WriteString(e.renderer.Mark(m.Replacement(), occ))
		found = append(found, occ)
	}

	if last == 0 {
		return text, found
	}
	sb.WriteString(text[last:])
	return sb.String(), found
}
