package index

import (
	"log/slog"
	"slices"
	"strings"
)

// ChapterName is the title of the chapter that receives the generated index.
const ChapterName = "Index"

// Rules are the author's redirect and nesting instructions, keyed by term.
type Rules struct {
	// SeeInstead maps a term to the text its entry points at ("see ...").
	SeeInstead map[string]string
	// NestUnder maps a term to the display text of its parent entry.
	NestUnder map[string]string
}

// Entry is one line of the index.
type Entry struct {
	Term        Term       `json:"term" yaml:"term"`
	Locations   []Location `json:"locations,omitempty" yaml:"locations,omitempty"`
	See         string     `json:"see,omitempty" yaml:"see,omitempty"`
	Synthesized bool       `json:"synthesized,omitempty" yaml:"synthesized,omitempty"`
	Children    []*Entry   `json:"children,omitempty" yaml:"children,omitempty"`

	redirected bool
	parent     *Entry
}

// Display is the text shown for the entry.
func (e *Entry) Display() string {
	return e.Term.Key
}

// Redirected reports whether the entry is a "see" pointer without locations.
func (e *Entry) Redirected() bool {
	return e.redirected
}

// Index is the built, ordered index.
type Index struct {
	Entries []*Entry `json:"entries" yaml:"entries"`
}

// Len returns the number of entries, nested ones included.
func (idx *Index) Len() int {
	n := 0
	var count func([]*Entry)
	count = func(entries []*Entry) {
		for _, e := range entries {
			n++
			count(e.Children)
		}
	}
	count(idx.Entries)
	return n
}

// Lookup finds the entry for term anywhere in the index.
func (idx *Index) Lookup(term string) *Entry {
	var find func([]*Entry) *Entry
	find = func(entries []*Entry) *Entry {
		for _, e := range entries {
			if e.Term.Key == term {
				return e
			}
			if found := find(e.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return find(idx.Entries)
}

// Builder turns occurrences into an Index.
type Builder struct {
	Rules  Rules
	Logger *slog.Logger
}

// Build groups occurrences with the given rules; see Builder.Build.
func Build(occurrences []Occurrence, rules Rules) *Index {
	return Builder{Rules: rules}.Build(occurrences)
}

// Build merges occurrences by term, applies redirects and nesting, and sorts
// the result. Occurrences are expected in document order; each entry lists
// its locations in that order, and entries with equal sort keys keep the
// order in which they were first seen.
func (b Builder) Build(occurrences []Occurrence) *Index {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seeInstead := canonicalKeys(b.Rules.SeeInstead)
	nestUnder := canonicalKeys(b.Rules.NestUnder)

	groups := make(map[string]*Entry)
	var order []*Entry
	add := func(term Term) *Entry {
		e := &Entry{Term: term}
		groups[term.Key] = e
		order = append(order, e)
		return e
	}

	for _, occ := range occurrences {
		if occ.Location.chapter == ChapterName {
			continue
		}
		e, ok := groups[occ.Term.Key]
		if !ok {
			e = add(occ.Term)
		}
		e.Locations = append(e.Locations, occ.Location)
	}

	// Redirect sources are listed even when no marker mentions them.
	for _, key := range sortedKeys(seeInstead) {
		if _, ok := groups[key]; !ok {
			add(NewTerm(key))
		}
	}

	for _, e := range order {
		target, ok := seeInstead[e.Term.Key]
		if !ok {
			continue
		}
		e.See = target
		e.redirected = true
		e.Locations = nil
		if _, ok := groups[Canonicalize(target)]; !ok {
			logger.Warn("see_instead destination not in index", "term", e.Term.Key, "see", target)
		}
	}

	// Synthesized parents are appended to order, so they get nested too.
	for i := 0; i < len(order); i++ {
		e := order[i]
		parentText, ok := nestUnder[e.Term.Key]
		if !ok {
			continue
		}
		parentText = Canonicalize(parentText)
		if parentText == e.Term.Key {
			logger.Warn("ignoring entry nested under itself", "term", e.Term.Key)
			continue
		}
		parent, ok := groups[parentText]
		if !ok {
			logger.Info("synthesizing parent entry", "parent", parentText, "child", e.Term.Key)
			parent = add(NewTerm(parentText))
			parent.Synthesized = true
		}
		e.parent = parent
	}

	breakCycles(order, logger)

	var top []*Entry
	for _, e := range order {
		if e.parent == nil {
			top = append(top, e)
		} else {
			e.parent.Children = append(e.parent.Children, e)
		}
	}

	sortEntries(top)
	for _, e := range order {
		sortEntries(e.Children)
	}

	return &Index{Entries: top}
}

// breakCycles un-nests entries whose parent chain leads back to themselves,
// so that a cycle of nest_under rules still leaves every entry reachable.
func breakCycles(order []*Entry, logger *slog.Logger) {
	for _, e := range order {
		steps := 0
		for p := e.parent; p != nil && steps <= len(order); p = p.parent {
			if p == e {
				logger.Warn("nest_under cycle, keeping entry at top level", "term", e.Term.Key)
				e.parent = nil
				break
			}
			steps++
		}
	}
}

// sortEntries orders entries by sort key, case-sensitively. The sort is
// stable, so ties keep insertion order.
func sortEntries(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return strings.Compare(a.Term.Sort, b.Term.Sort)
	})
}

// canonicalKeys normalizes rule keys the way marker text is normalized, so
// config entries match regardless of stray whitespace. Values are kept as
// written.
func canonicalKeys(rules map[string]string) map[string]string {
	out := make(map[string]string, len(rules))
	for k, v := range rules {
		out[Canonicalize(k)] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
