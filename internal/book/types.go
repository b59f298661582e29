// Package book models the document tree mdBook hands to a preprocessor:
// an ordered list of items, each either a chapter (with nested sub-items),
// a separator, or a part title.
//
// The JSON codec is lossless for fields this package does not know about, so
// a book read from the host and written back only differs where a caller
// changed it.
package book

import (
	"encoding/json"
	"fmt"
)

// ItemKind identifies the variant held by an Item.
type ItemKind int

const (
	// KindChapter is a chapter with content and optional sub-items.
	KindChapter ItemKind = iota
	// KindSeparator is a horizontal separator in the summary.
	KindSeparator
	// KindPartTitle is an unnumbered part heading in the summary.
	KindPartTitle
)

func (k ItemKind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindSeparator:
		return "separator"
	case KindPartTitle:
		return "part-title"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Item is one entry in a book or in a chapter's sub-items.
type Item struct {
	Kind      ItemKind
	Chapter   *Chapter // set when Kind == KindChapter
	PartTitle string   // set when Kind == KindPartTitle
}

// NewChapterItem wraps a chapter in an Item.
func NewChapterItem(ch *Chapter) Item {
	return Item{Kind: KindChapter, Chapter: ch}
}

// Chapter is a single page of the book.
type Chapter struct {
	Name        string
	Content     string
	Number      []int // section number, nil for prefix/suffix/draft chapters
	SubItems    []Item
	Path        *string // rendered path relative to src, nil for draft chapters
	SourcePath  *string
	ParentNames []string

	extra map[string]json.RawMessage
}

// Book is the root of the document tree.
type Book struct {
	Items []Item

	itemsKey string
	extra    map[string]json.RawMessage
}

// New returns a book holding the given items. It serializes in the mdBook 0.4
// layout ("sections").
func New(items ...Item) *Book {
	return &Book{Items: items}
}

// String returns a JSON representation of the chapter for debugging.
func (c *Chapter) String() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// Clone creates a deep copy of the chapter, including unknown fields.
func (c *Chapter) Clone() *Chapter {
	if c == nil {
		return nil
	}
	clone := &Chapter{
		Name:    c.Name,
		Content: c.Content,
	}
	if c.Number != nil {
		clone.Number = append([]int(nil), c.Number...)
	}
	if c.Path != nil {
		p := *c.Path
		clone.Path = &p
	}
	if c.SourcePath != nil {
		p := *c.SourcePath
		clone.SourcePath = &p
	}
	if c.ParentNames != nil {
		clone.ParentNames = append([]string(nil), c.ParentNames...)
	}
	if c.extra != nil {
		clone.extra = make(map[string]json.RawMessage, len(c.extra))
		for k, v := range c.extra {
			clone.extra[k] = v
		}
	}
	if c.SubItems != nil {
		clone.SubItems = cloneItems(c.SubItems)
	}
	return clone
}

// Clone creates a deep copy of the book.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	clone := &Book{
		Items:    cloneItems(b.Items),
		itemsKey: b.itemsKey,
	}
	if b.extra != nil {
		clone.extra = make(map[string]json.RawMessage, len(b.extra))
		for k, v := range b.extra {
			clone.extra[k] = v
		}
	}
	return clone
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		if item.Chapter != nil {
			out[i].Chapter = item.Chapter.Clone()
		}
	}
	return out
}
