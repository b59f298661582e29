// Package host implements mdBook's preprocessor protocol: the host writes a
// JSON array [context, book] to the preprocessor's stdin and reads the
// processed book back from its stdout.
package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itsmostafa/mdindex/internal/book"
)

// ErrMalformedInput is returned when the host payload cannot be decoded.
var ErrMalformedInput = errors.New("malformed preprocessor input")

// Context is the build context mdBook sends along with the book.
type Context struct {
	Root          string         `json:"root"`
	Config        map[string]any `json:"config"`
	Renderer      string         `json:"renderer"`
	MdbookVersion string         `json:"mdbook_version"`
}

// ReadInput decodes the [context, book] pair from r.
func ReadInput(r io.Reader) (*Context, *book.Book, error) {
	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(pair) != 2 {
		return nil, nil, fmt.Errorf("%w: expected [context, book], got %d elements", ErrMalformedInput, len(pair))
	}

	var ctx Context
	if err := json.Unmarshal(pair[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: context: %v", ErrMalformedInput, err)
	}

	var b book.Book
	if err := json.Unmarshal(pair[1], &b); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	return &ctx, &b, nil
}

// WriteBook encodes the processed book to w.
func WriteBook(w io.Writer, b *book.Book) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("failed to write book: %w", err)
	}
	return nil
}

// Lookup returns the config value at a dotted path such as
// "preprocessor.indexing", mirroring how mdBook addresses book.toml tables.
func (c *Context) Lookup(path string) (any, bool) {
	if c == nil || c.Config == nil {
		return nil, false
	}
	var cur any = c.Config
	for _, key := range strings.Split(path, ".") {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = table[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Table returns the config table at path. A missing table yields nil and no
// error; a value of another type is an error.
func (c *Context) Table(path string) (map[string]any, error) {
	v, ok := c.Lookup(path)
	if !ok || v == nil {
		return nil, nil
	}
	table, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config %s: expected a table, got %T", path, v)
	}
	return table, nil
}
