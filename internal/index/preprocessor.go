// Package index builds a back-of-book index from inline markers in mdBook
// chapters and writes it into the chapter titled "Index".
//
// Three markers are recognized:
//
//	{{i:text}}   text stays in the chapter and is indexed
//	{{ii:text}}  text stays in the chapter in italics and is indexed
//	{{hi:text}}  text is removed from the chapter but still indexed
//
// Entries may be redirected ("unit type, see ()") or nested under another
// entry through the see_instead and nest_under tables of the
// [preprocessor.indexing] section in book.toml.
//
// # Pipeline
//
// A Preprocessor runs one pass over a book:
//
//   - Scan: every chapter except Index is rewritten, markers replaced by their
//     output text and an invisible anchor (Scan, Extractor, Tracker).
//   - Build: occurrences are merged, redirected, nested and sorted (Builder).
//   - Substitute: the Index chapter's content is replaced with the
//     renderer's output (HTMLRenderer, AsciiDocRenderer).
package index

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/itsmostafa/mdindex/internal/book"
)

// State is the stage a Preprocessor has reached.
type State int

const (
	StateIdle State = iota
	StateScanningChapters
	StateBuildingIndex
	StateSubstituting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanningChapters:
		return "scanning-chapters"
	case StateBuildingIndex:
		return "building-index"
	case StateSubstituting:
		return "substituting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAlreadyRun is returned when Run is called on a used Preprocessor.
var ErrAlreadyRun = errors.New("preprocessor has already run")

// Preprocessor performs a single indexing pass for one backend.
type Preprocessor struct {
	cfg      Config
	backend  string
	logger   *slog.Logger
	state    State
	index    *Index
	anchors  int
	replaced int
}

// New returns a Preprocessor for backend. A nil logger discards output.
func New(cfg Config, backend string, logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preprocessor{cfg: cfg, backend: backend, logger: logger}
}

// State returns the stage the preprocessor has reached.
func (p *Preprocessor) State() State {
	return p.state
}

// Index returns the index built by Run, or nil before the build stage.
func (p *Preprocessor) Index() *Index {
	return p.index
}

// Run rewrites b in place and returns it. Chapters named Index are not
// scanned; their content is replaced with the generated index unless the
// backend is skipped. A book without an Index chapter is returned with its
// markers rewritten and no index.
func (p *Preprocessor) Run(b *book.Book) (*book.Book, error) {
	if p.state != StateIdle {
		return nil, ErrAlreadyRun
	}

	renderer := RendererFor(p.backend, p.cfg)
	skipped := p.cfg.Skips(p.backend)
	if skipped {
		p.logger.Info("indexing disabled for renderer", "renderer", p.backend)
	}

	p.state = StateScanningChapters
	occurrences, indexChapters := p.scan(b, renderer)

	p.state = StateBuildingIndex
	p.index = Builder{Rules: p.cfg.Rules(), Logger: p.logger}.Build(occurrences)
	p.logger.Debug("built index", "entries", p.index.Len(), "occurrences", len(occurrences))

	p.state = StateSubstituting
	switch {
	case skipped:
	case len(indexChapters) == 0:
		p.logger.Warn("no chapter named Index, index not rendered", "entries", p.index.Len())
	default:
		for _, ch := range indexChapters {
			p.logger.Debug("replacing chapter with index", "chapter", ch.Name)
			var at string
			if ch.Path != nil {
				at = *ch.Path
			}
			ch.Content = renderer.Index(p.index, at)
			p.replaced++
		}
	}

	p.state = StateDone
	p.logger.Info("indexing complete",
		"renderer", p.backend, "anchors", p.anchors, "entries", p.index.Len(), "index_chapters", p.replaced)
	return b, nil
}

func (p *Preprocessor) scan(b *book.Book, renderer Renderer) ([]Occurrence, []*book.Chapter) {
	counter := &Counter{}
	tracker := NewTracker(counter, p.cfg.UseChapterNames)
	extractor := NewExtractor(renderer, tracker, p.logger)

	var occurrences []Occurrence
	var indexChapters []*book.Chapter
	b.Walk(func(ch *book.Chapter, pos []int) {
		if ch.Name == ChapterName {
			indexChapters = append(indexChapters, ch)
			return
		}
		p.logger.Info("indexing chapter", "chapter", ch.Name)
		tracker.Enter(ch, pos)
		content, found := extractor.Rewrite(ch.Content)
		ch.Content = content
		occurrences = append(occurrences, found...)
	})
	p.anchors = counter.Issued()
	return occurrences, indexChapters
}
