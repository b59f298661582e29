package index

import (
	"fmt"

	"github.com/itsmostafa/mdindex/internal/book"
)

// Location is one occurrence of an index term.
type Location struct {
	Path   string `json:"path" yaml:"path"`                       // section number, e.g. "2.3"
	Title  string `json:"title,omitempty" yaml:"title,omitempty"` // chapter name, only with chapter-name labels
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Anchor string `json:"anchor" yaml:"anchor"`

	chapter string
}

// Counter hands out anchor ids. One counter is shared by every chapter of a
// pass, which keeps ids unique within the book.
type Counter struct {
	n int
}

// Next returns the next anchor id: a001, a002, ...
func (c *Counter) Next() string {
	c.n++
	return fmt.Sprintf("a%03d", c.n)
}

// Issued returns how many ids have been handed out.
func (c *Counter) Issued() int {
	return c.n
}

// Tracker stamps occurrences with the chapter currently being indexed.
type Tracker struct {
	counter         *Counter
	useChapterNames bool
	current         Location
}

// NewTracker returns a tracker drawing anchors from counter.
func NewTracker(counter *Counter, useChapterNames bool) *Tracker {
	return &Tracker{counter: counter, useChapterNames: useChapterNames}
}

// Enter makes ch the current chapter. pos is the chapter's position in the
// tree, used as its path when the host gave it no section number.
func (t *Tracker) Enter(ch *book.Chapter, pos []int) {
	loc := Location{chapter: ch.Name}
	if len(ch.Number) > 0 {
		loc.Path = book.FormatNumber(ch.Number)
	} else {
		loc.Path = book.FormatNumber(pos)
	}
	if t.useChapterNames {
		loc.Title = ch.Name
	}
	if ch.Path != nil {
		loc.Source = *ch.Path
	}
	t.current = loc
}

// Next returns the location of a new occurrence in the current chapter.
func (t *Tracker) Next() Location {
	loc := t.current
	loc.Anchor = t.counter.Next()
	return loc
}
