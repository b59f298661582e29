package book

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// mdBook 0.4 lists top-level items under "sections", 0.5 under "items".
const (
	sectionsKey      = "sections"
	itemsKey         = "items"
	nonExhaustiveKey = "__non_exhaustive"
	separatorVariant = "Separator"
	chapterVariant   = "Chapter"
	partTitleVariant = "PartTitle"
)

// chapterFields are the chapter fields decoded into Chapter; everything else
// is carried through untouched.
var chapterFields = []string{"name", "content", "number", "sub_items", "path", "source_path", "parent_names"}

type chapterWire struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Number      []int    `json:"number"`
	SubItems    []Item   `json:"sub_items"`
	Path        *string  `json:"path"`
	SourcePath  *string  `json:"source_path"`
	ParentNames []string `json:"parent_names"`
}

// UnmarshalJSON decodes a chapter, keeping unknown fields for re-encoding.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("chapter: %w", err)
	}
	var w chapterWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("chapter: %w", err)
	}
	for _, k := range chapterFields {
		delete(raw, k)
	}

	*c = Chapter{
		Name:        w.Name,
		Content:     w.Content,
		Number:      w.Number,
		SubItems:    w.SubItems,
		Path:        w.Path,
		SourcePath:  w.SourcePath,
		ParentNames: w.ParentNames,
	}
	if len(raw) > 0 {
		c.extra = raw
	}
	return nil
}

// MarshalJSON encodes a chapter in mdBook's layout.
func (c Chapter) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+len(chapterFields))
	for k, v := range c.extra {
		out[k] = v
	}

	subItems := c.SubItems
	if subItems == nil {
		subItems = []Item{}
	}
	parentNames := c.ParentNames
	if parentNames == nil {
		parentNames = []string{}
	}

	out["name"] = c.Name
	out["content"] = c.Content
	out["number"] = c.Number
	out["sub_items"] = subItems
	out["path"] = c.Path
	out["source_path"] = c.SourcePath
	out["parent_names"] = parentNames
	return json.Marshal(out)
}

// UnmarshalJSON decodes one of mdBook's BookItem variants.
func (it *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var variant string
		if err := json.Unmarshal(data, &variant); err != nil {
			return err
		}
		if variant != separatorVariant {
			return fmt.Errorf("unknown book item %q", variant)
		}
		*it = Item{Kind: KindSeparator}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("book item: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("book item: expected exactly one variant, got %d", len(tagged))
	}

	if raw, ok := tagged[chapterVariant]; ok {
		ch := &Chapter{}
		if err := json.Unmarshal(raw, ch); err != nil {
			return err
		}
		*it = Item{Kind: KindChapter, Chapter: ch}
		return nil
	}
	if raw, ok := tagged[partTitleVariant]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return fmt.Errorf("part title: %w", err)
		}
		*it = Item{Kind: KindPartTitle, PartTitle: title}
		return nil
	}
	for k := range tagged {
		return fmt.Errorf("unknown book item %q", k)
	}
	return nil
}

// MarshalJSON encodes the item as an externally tagged variant.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case KindSeparator:
		return json.Marshal(separatorVariant)
	case KindPartTitle:
		return json.Marshal(map[string]string{partTitleVariant: it.PartTitle})
	case KindChapter:
		if it.Chapter == nil {
			return nil, fmt.Errorf("chapter item without chapter")
		}
		return json.Marshal(map[string]*Chapter{chapterVariant: it.Chapter})
	default:
		return nil, fmt.Errorf("cannot encode %s", it.Kind)
	}
}

// UnmarshalJSON accepts both the "sections" and the "items" layouts.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("book: %w", err)
	}

	key := sectionsKey
	list, ok := raw[sectionsKey]
	if !ok {
		if list, ok = raw[itemsKey]; ok {
			key = itemsKey
		}
	}

	var items []Item
	if ok && !bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
		if err := json.Unmarshal(list, &items); err != nil {
			return fmt.Errorf("book %s: %w", key, err)
		}
	}
	delete(raw, key)

	*b = Book{Items: items, itemsKey: key}
	if len(raw) > 0 {
		b.extra = raw
	}
	return nil
}

// MarshalJSON encodes the book in the layout it was decoded from.
func (b Book) MarshalJSON() ([]byte, error) {
	key := b.itemsKey
	if key == "" {
		key = sectionsKey
	}
	items := b.Items
	if items == nil {
		items = []Item{}
	}

	out := make(map[string]any, len(b.extra)+2)
	for k, v := range b.extra {
		out[k] = v
	}
	if key == sectionsKey {
		if _, ok := out[nonExhaustiveKey]; !ok {
			out[nonExhaustiveKey] = nil
		}
	}
	out[key] = items
	return json.Marshal(out)
}
