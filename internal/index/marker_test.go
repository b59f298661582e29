package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(text string) []Marker {
	var markers []Marker
	for m := range Scan(text) {
		markers = append(markers, m)
	}
	return markers
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Marker
	}{
		{
			name: "no markers",
			text: "plain text with {braces}",
			want: nil,
		},
		{
			name: "include",
			text: "a {{i:term}} b",
			want: []Marker{{Kind: Include, Inner: "term", Start: 2, End: 12}},
		},
		{
			name: "italic is not read as include",
			text: "{{ii:Option}}",
			want: []Marker{{Kind: IncludeItalic, Inner: "Option", Start: 0, End: 13}},
		},
		{
			name: "hidden",
			text: "x{{hi:internal}}",
			want: []Marker{{Kind: Hidden, Inner: "internal", Start: 1, End: 16}},
		},
		{
			name: "first closer wins",
			text: "{{i:a}}b}}",
			want: []Marker{{Kind: Include, Inner: "a", Start: 0, End: 7}},
		},
		{
			name: "opener after stray braces",
			text: "{{{i:x}}",
			want: []Marker{{Kind: Include, Inner: "x", Start: 1, End: 8}},
		},
		{
			name: "unknown opener is text",
			text: "{{#include file.rs}} {{i:y}}",
			want: []Marker{{Kind: Include, Inner: "y", Start: 21, End: 28}},
		},
		{
			name: "unterminated opener",
			text: "{{i:a}} then {{i:never closed",
			want: []Marker{{Kind: Include, Inner: "a", Start: 0, End: 7}},
		},
		{
			name: "multi-line inner text",
			text: "{{i:two\nlines}}",
			want: []Marker{{Kind: Include, Inner: "two\nlines", Start: 0, End: 15}},
		},
		{
			name: "adjacent markers",
			text: "{{i:a}}{{hi:b}}",
			want: []Marker{
				{Kind: Include, Inner: "a", Start: 0, End: 7},
				{Kind: Hidden, Inner: "b", Start: 7, End: 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestScanIsRestartable(t *testing.T) {
	seq := Scan("{{i:a}} {{i:b}} {{i:c}}")

	var first []string
	for m := range seq {
		first = append(first, m.Inner)
		if len(first) == 2 {
			break
		}
	}
	var second []string
	for m := range seq {
		second = append(second, m.Inner)
	}

	if diff := cmp.Diff([]string{"a", "b"}, first); diff != "" {
		t.Errorf("first pass mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, second); diff != "" {
		t.Errorf("second pass mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkerReplacement(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Include, "text"},
		{IncludeItalic, "*text*"},
		{Hidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m := Marker{Kind: tt.kind, Inner: "text"}
			if got := m.Replacement(); got != tt.want {
				t.Errorf("Replacement() = %q, want %q", got, tt.want)
			}
		})
	}
}
