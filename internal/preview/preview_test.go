package preview

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/mdindex/internal/index"
)

func sampleIndex() *index.Index {
	return index.Build([]index.Occurrence{
		{Term: index.NewTerm("fuzz testing"), Location: index.Location{Path: "1", Anchor: "a001"}},
		{Term: index.NewTerm("closure"), Location: index.Location{Path: "2", Anchor: "a002"}},
	}, index.Rules{
		SeeInstead: map[string]string{"lambda": "closure"},
		NestUnder:  map[string]string{"fuzz testing": "testing"},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleIndex(), Summary{Renderer: "html", Chapters: 2}, FormatText); err != nil {
		t.Fatalf("Print: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Renderer:", "html", "Entries:", "closure", "2#a002", "lambda", "see", "testing", "  fuzz testing", "1#a001"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleIndex(), Summary{}, FormatYAML); err != nil {
		t.Fatalf("Print: %v", err)
	}

	var doc struct {
		Entries []struct {
			Term struct {
				Key string `yaml:"key"`
			} `yaml:"term"`
			See string `yaml:"see"`
		} `yaml:"entries"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
	}
	if len(doc.Entries) != 3 {
		t.Fatalf("expected 3 top-level entries, got %d", len(doc.Entries))
	}
	if doc.Entries[1].Term.Key != "lambda" || doc.Entries[1].See != "closure" {
		t.Errorf("unexpected second entry %+v", doc.Entries[1])
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleIndex(), Summary{}, FormatJSON); err != nil {
		t.Fatalf("Print: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	entries, ok := doc["entries"].([]any)
	if !ok || len(entries) != 3 {
		t.Errorf("expected 3 entries, got %v", doc["entries"])
	}
}
