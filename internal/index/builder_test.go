package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func occ(term, path, anchor string) Occurrence {
	return Occurrence{
		Term:     NewTerm(term),
		Location: Location{Path: path, Anchor: anchor, chapter: "ch" + path},
	}
}

func topLevel(idx *Index) []string {
	var keys []string
	for _, e := range idx.Entries {
		keys = append(keys, e.Term.Key)
	}
	return keys
}

func anchors(e *Entry) []string {
	var out []string
	for _, loc := range e.Locations {
		out = append(out, loc.Anchor)
	}
	return out
}

func TestBuildMergesOccurrences(t *testing.T) {
	occs := []Occurrence{
		occ("trait", "1", "a001"),
		occ("closure", "1", "a002"),
		occ("trait", "2", "a003"),
		occ("trait", "3", "a004"),
	}

	idx := Build(occs, Rules{})

	if diff := cmp.Diff([]string{"closure", "trait"}, topLevel(idx)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	trait := idx.Lookup("trait")
	if diff := cmp.Diff([]string{"a001", "a003", "a004"}, anchors(trait)); diff != "" {
		t.Errorf("trait locations not in document order (-want +got):\n%s", diff)
	}
}

func TestBuildSortIsCaseSensitiveAndStable(t *testing.T) {
	occs := []Occurrence{
		occ("borrow", "1", "a001"),
		occ("_Borrow_", "1", "a002"),
		occ("Borrow", "2", "a003"),
		occ("apple", "2", "a004"),
	}

	idx := Build(occs, Rules{})

	// "_Borrow_" and "Borrow" share a sort key; first seen goes first.
	want := []string{"_Borrow_", "Borrow", "apple", "borrow"}
	if diff := cmp.Diff(want, topLevel(idx)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	occs := []Occurrence{
		occ("zeta", "1", "a001"),
		occ("alpha", "1", "a002"),
		occ("`alpha`", "2", "a003"),
		occ("mid", "2", "a004"),
	}
	rules := Rules{
		SeeInstead: map[string]string{"x": "y", "w": "v"},
		NestUnder:  map[string]string{"mid": "group", "zeta": "group"},
	}

	first := HTMLRenderer{}.Index(Build(occs, rules), "")
	second := HTMLRenderer{}.Index(Build(occs, rules), "")
	if first != second {
		t.Errorf("builds differ:\n%s\n---\n%s", first, second)
	}
}

func TestBuildSeeInstead(t *testing.T) {
	occs := []Occurrence{
		occ("unit type", "1", "a001"),
		occ("unit type", "2", "a002"),
		occ("()", "2", "a003"),
	}

	idx := Build(occs, Rules{SeeInstead: map[string]string{"unit type": "`()`", "nil": "None"}})

	unit := idx.Lookup("unit type")
	if unit == nil {
		t.Fatal("expected unit type entry")
	}
	if !unit.Redirected() || unit.See != "`()`" {
		t.Errorf("expected redirect to `()`, got redirected=%v see=%q", unit.Redirected(), unit.See)
	}
	if len(unit.Locations) != 0 {
		t.Errorf("expected no locations for redirected entry, got %d", len(unit.Locations))
	}

	unused := idx.Lookup("nil")
	if unused == nil || !unused.Redirected() || unused.See != "None" {
		t.Errorf("expected configured redirect without occurrences to be listed, got %+v", unused)
	}
}

func TestBuildNestUnder(t *testing.T) {
	occs := []Occurrence{
		occ("generic type", "1", "a001"),
		occ("generics", "1", "a002"),
		occ("generic type", "2", "a003"),
		occ("generic function", "2", "a004"),
	}

	idx := Build(occs, Rules{NestUnder: map[string]string{
		"generic type":     "generics",
		"generic function": "generics",
	}})

	if diff := cmp.Diff([]string{"generics"}, topLevel(idx)); diff != "" {
		t.Errorf("top level mismatch (-want +got):\n%s", diff)
	}
	parent := idx.Entries[0]
	var children []string
	for _, c := range parent.Children {
		children = append(children, c.Term.Key)
	}
	if diff := cmp.Diff([]string{"generic function", "generic type"}, children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a001", "a003"}, anchors(idx.Lookup("generic type"))); diff != "" {
		t.Errorf("child locations mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSynthesizesMissingParent(t *testing.T) {
	idx := Build([]Occurrence{occ("fuzz testing", "1", "a001")},
		Rules{NestUnder: map[string]string{"fuzz testing": "testing"}})

	if diff := cmp.Diff([]string{"testing"}, topLevel(idx)); diff != "" {
		t.Fatalf("top level mismatch (-want +got):\n%s", diff)
	}
	parent := idx.Entries[0]
	if !parent.Synthesized || len(parent.Locations) != 0 {
		t.Errorf("expected synthesized parent without locations, got %+v", parent)
	}
	if len(parent.Children) != 1 || parent.Children[0].Term.Key != "fuzz testing" {
		t.Errorf("expected fuzz testing nested under testing, got %+v", parent.Children)
	}
}

func TestBuildNestsSynthesizedParents(t *testing.T) {
	idx := Build([]Occurrence{occ("fuzz testing", "1", "a001")},
		Rules{NestUnder: map[string]string{
			"fuzz testing": "testing",
			"testing":      "software",
		}})

	if diff := cmp.Diff([]string{"software"}, topLevel(idx)); diff != "" {
		t.Fatalf("top level mismatch (-want +got):\n%s", diff)
	}
	software := idx.Entries[0]
	if !software.Synthesized || len(software.Children) != 1 {
		t.Fatalf("expected synthesized software with one child, got %+v", software)
	}
	mid := software.Children[0]
	if mid.Term.Key != "testing" || !mid.Synthesized {
		t.Fatalf("expected synthesized testing under software, got %+v", mid)
	}
	if len(mid.Children) != 1 || mid.Children[0].Term.Key != "fuzz testing" {
		t.Errorf("expected fuzz testing under testing, got %+v", mid.Children)
	}
}

func TestBuildRedirectWinsOverNesting(t *testing.T) {
	idx := Build([]Occurrence{occ("tuple struct", "1", "a001"), occ("struct", "1", "a002")},
		Rules{
			SeeInstead: map[string]string{"tuple struct": "struct"},
			NestUnder:  map[string]string{"tuple struct": "struct"},
		})

	if diff := cmp.Diff([]string{"struct"}, topLevel(idx)); diff != "" {
		t.Fatalf("top level mismatch (-want +got):\n%s", diff)
	}
	child := idx.Entries[0].Children[0]
	if child.Term.Key != "tuple struct" || !child.Redirected() || len(child.Locations) != 0 {
		t.Errorf("expected nested redirect without locations, got %+v", child)
	}
}

func TestBuildBreaksNestingCycles(t *testing.T) {
	idx := Build([]Occurrence{occ("a", "1", "a001"), occ("b", "1", "a002")},
		Rules{NestUnder: map[string]string{"a": "b", "b": "a"}})

	if idx.Len() != 2 {
		t.Fatalf("expected both entries to survive, got %d", idx.Len())
	}
	if diff := cmp.Diff([]string{"a"}, topLevel(idx)); diff != "" {
		t.Errorf("top level mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIgnoresSelfNesting(t *testing.T) {
	idx := Build([]Occurrence{occ("loop", "1", "a001")},
		Rules{NestUnder: map[string]string{"loop": "loop"}})

	if diff := cmp.Diff([]string{"loop"}, topLevel(idx)); diff != "" {
		t.Errorf("top level mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildExcludesIndexChapter(t *testing.T) {
	inIndex := occ("self", "9", "a001")
	inIndex.Location.chapter = ChapterName

	idx := Build([]Occurrence{inIndex, occ("other", "1", "a002")}, Rules{})

	if diff := cmp.Diff([]string{"other"}, topLevel(idx)); diff != "" {
		t.Errorf("top level mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil, Rules{})
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}
}
