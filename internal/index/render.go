package index

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Backend names as reported by the host in the build context.
const (
	BackendHTML     = "html"
	BackendAsciiDoc = "asciidoc"
)

var asciiDocBackends = map[string]bool{
	BackendAsciiDoc: true,
	"asciidoctor":   true,
	"adoc":          true,
}

// Renderer produces the markup for one output backend.
type Renderer interface {
	// Mark returns the text that replaces one marker: the marker's output
	// text together with the backend's invisible anchor for occ.
	Mark(replacement string, occ Occurrence) string
	// Index returns the content of the Index chapter located at indexPath.
	Index(idx *Index, indexPath string) string
}

// RendererFor picks the renderer for backend. Backends without a dedicated
// renderer get the HTML one.
func RendererFor(backend string, cfg Config) Renderer {
	if cfg.Skips(backend) {
		return PlainRenderer{}
	}
	if asciiDocBackends[backend] {
		return AsciiDocRenderer{Rules: cfg.Rules()}
	}
	return HTMLRenderer{UseChapterNames: cfg.UseChapterNames, SuppressHead: cfg.SuppressHead}
}

// PlainRenderer strips markers without indexing anything. It is used for
// backends listed in skip_renderer.
type PlainRenderer struct{}

// Mark returns the replacement text alone.
func (PlainRenderer) Mark(replacement string, _ Occurrence) string {
	return replacement
}

// Index returns nothing; skipped backends keep their Index chapter as is.
func (PlainRenderer) Index(*Index, string) string {
	return ""
}

const (
	// nestIndent indents a nest_under entry below its parent:
	//
	//	testing,
	//	      fuzz testing
	nestIndent = "&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;"

	// namesIndent indents the per-chapter lines of an entry when locations
	// are labelled with chapter names:
	//
	//	testing
	//	      Introduction,
	//	      Tooling
	namesIndent = "&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;"

	lineBreak = "<br/>\n"
)

// HTMLRenderer targets mdBook's HTML backend: anchors are empty <a> elements
// and the index is a list of markdown links to them.
type HTMLRenderer struct {
	UseChapterNames bool
	// SuppressHead omits the "# Index" heading, for Index chapters that
	// carry their own.
	SuppressHead bool
}

// Mark appends a zero-width link target after the replacement text.
func (r HTMLRenderer) Mark(replacement string, occ Occurrence) string {
	return fmt.Sprintf(`%s<a id="%s"></a>`, replacement, occ.Location.Anchor)
}

// Index renders every entry on its own line, nested entries indented below
// their parent.
func (r HTMLRenderer) Index(idx *Index, indexPath string) string {
	var sb strings.Builder
	if !r.SuppressHead {
		sb.WriteString("# Index\n\n")
	}
	for _, e := range idx.Entries {
		r.writeEntry(&sb, e, 0, indexPath)
	}
	return sb.String()
}

func (r HTMLRenderer) writeEntry(sb *strings.Builder, e *Entry, depth int, indexPath string) {
	indent := strings.Repeat(nestIndent, depth)
	sb.WriteString(indent)
	sb.WriteString(e.Display())

	if e.Redirected() {
		fmt.Fprintf(sb, ", see %s", e.See)
	} else {
		for i, loc := range e.Locations {
			var label string
			if r.UseChapterNames {
				sb.WriteString("," + lineBreak + indent + namesIndent)
				label = loc.Title
			} else {
				sb.WriteString(", ")
				label = loc.Path
			}
			if label == "" {
				label = strconv.Itoa(i + 1)
			}

			if loc.Source == "" {
				sb.WriteString(label)
			} else {
				fmt.Fprintf(sb, "[%s](%s#%s)", label, relativeLink(indexPath, loc.Source), loc.Anchor)
			}
		}
	}
	sb.WriteString(lineBreak)

	for _, child := range e.Children {
		r.writeEntry(sb, child, depth+1, indexPath)
	}
}

// relativeLink returns target relative to the directory of the page at from.
// Both are slash-separated paths relative to the book's source root.
func relativeLink(from, target string) string {
	dir := path.Dir(from)
	if from == "" || dir == "." {
		return target
	}

	fromParts := strings.Split(dir, "/")
	targetParts := strings.Split(target, "/")
	common := 0
	for common < len(fromParts) && common < len(targetParts)-1 && fromParts[common] == targetParts[common] {
		common++
	}

	parts := make([]string, 0, len(fromParts)-common+len(targetParts)-common)
	for range fromParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	return strings.Join(parts, "/")
}

// SupportsRenderer answers mdBook's "supports" probe. Every backend is
// accepted; unknown ones fall back to the HTML renderer.
func SupportsRenderer(backend string) bool {
	return backend != "not-supported"
}
