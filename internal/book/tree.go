package book

import (
	"strconv"
	"strings"
)

// Walk traverses the book depth-first in display order, calling fn for each
// chapter before its sub-chapters. pos is the chapter's 1-based position among
// chapter siblings at every level (separators and part titles are skipped), so
// it can stand in for a section number when the host did not assign one. The
// slice is reused between calls; copy it to keep it.
func (b *Book) Walk(fn func(ch *Chapter, pos []int)) {
	if b == nil {
		return
	}
	walkItems(b.Items, nil, fn)
}

func walkItems(items []Item, pos []int, fn func(*Chapter, []int)) {
	n := 0
	for _, item := range items {
		if item.Kind != KindChapter || item.Chapter == nil {
			continue
		}
		n++
		here := append(pos, n)
		fn(item.Chapter, here)
		if len(item.Chapter.SubItems) > 0 {
			walkItems(item.Chapter.SubItems, here, fn)
		}
	}
}

// Chapters returns all chapters in display order as a flat slice.
func (b *Book) Chapters() []*Chapter {
	var chapters []*Chapter
	b.Walk(func(ch *Chapter, _ []int) {
		chapters = append(chapters, ch)
	})
	return chapters
}

// FindChapters returns every chapter whose name is exactly name.
func (b *Book) FindChapters(name string) []*Chapter {
	var found []*Chapter
	b.Walk(func(ch *Chapter, _ []int) {
		if ch.Name == name {
			found = append(found, ch)
		}
	})
	return found
}

// FormatNumber renders a section number as a dotted structure code,
// e.g. [1 2 3] becomes "1.2.3". An empty number renders as "".
func FormatNumber(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
