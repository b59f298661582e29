package index

import (
	"fmt"
	"iter"
	"strings"
)

// Kind is the flavour of an index marker.
type Kind int

const (
	// Include keeps the marked text in the chapter: {{i:text}}.
	Include Kind = iota
	// IncludeItalic keeps the marked text, wrapped in italics: {{ii:text}}.
	IncludeItalic
	// Hidden removes the marked text from the chapter: {{hi:text}}.
	Hidden
)

func (k Kind) String() string {
	switch k {
	case Include:
		return "i"
	case IncludeItalic:
		return "ii"
	case Hidden:
		return "hi"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Marker is one recognized marker span in chapter text.
type Marker struct {
	Kind  Kind
	Inner string // text between the opener and the closer, verbatim
	Start int    // byte offset of the opener
	End   int    // byte offset just past the closer
}

// Replacement is the text that stands in for the marker in the chapter.
func (m Marker) Replacement() string {
	switch m.Kind {
	case IncludeItalic:
		return "*" + m.Inner + "*"
	case Hidden:
		return ""
	default:
		return m.Inner
	}
}

const (
	openPrefix = "{{"
	closer     = "}}"
)

// openers are tried in order; the two-letter forms go first so "{{i:" is
// never taken for a prefix of "{{ii:".
var openers = []struct {
	token string
	kind  Kind
}{
	{"{{ii:", IncludeItalic},
	{"{{hi:", Hidden},
	{"{{i:", Include},
}

func matchOpener(s string) (Kind, int, bool) {
	for _, o := range openers {
		if strings.HasPrefix(s, o.token) {
			return o.kind, len(o.token), true
		}
	}
	return 0, 0, false
}

// Scan yields the markers in text from left to right. Markers do not nest:
// the first "}}" after an opener closes it. An opener with no closer is
// ordinary text and ends the scan, since no later opener can be closed
// either. The sequence is lazy and may be ranged over more than once.
func Scan(text string) iter.Seq[Marker] {
	return func(yield func(Marker) bool) {
		pos := 0
		for pos < len(text) {
			rel := strings.Index(text[pos:], openPrefix)
			if rel < 0 {
				return
			}
			start := pos + rel

			kind, n, ok := matchOpener(text[start:])
			if !ok {
				pos = start + 1
				continue
			}

			innerStart := start + n
			end := strings.Index(text[innerStart:], closer)
			if end < 0 {
				return
			}

			m := Marker{
				Kind:  kind,
				Inner: text[innerStart : innerStart+end],
				Start: start,
				End:   innerStart + end + len(closer),
			}
			if !yield(m) {
				return
			}
			pos = m.End
		}
	}
}
