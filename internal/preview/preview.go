// Package preview prints a built index to the terminal, for checking an
// index without running a full book build.
package preview

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/mdindex/internal/index"
)

// Format selects how Print renders the index.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat checks if the given format string is valid and returns the Format.
func ParseFormat(format string) (Format, error) {
	switch Format(format) {
	case FormatText, "":
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format: %q (valid options: text, yaml, json)", format)
	}
}

var (
	// headerStyle for the summary box
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	// termStyle for entry text
	termStyle = lipgloss.NewStyle().
			Bold(true)

	// synthesizedStyle for parent entries created by nest_under
	synthesizedStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(lipgloss.Color("245"))

	// seeStyle for redirect targets
	seeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// dimStyle for locations and labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Summary describes where an index came from.
type Summary struct {
	Renderer string
	Chapters int
}

// Print writes idx to w in the given format.
func Print(w io.Writer, idx *index.Index, summary Summary, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(idx); err != nil {
			return fmt.Errorf("failed to encode index: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(idx); err != nil {
			return fmt.Errorf("failed to encode index: %w", err)
		}
		return nil
	default:
		printText(w, idx, summary)
		return nil
	}
}

func printText(w io.Writer, idx *index.Index, summary Summary) {
	header := fmt.Sprintf("%s %s  %s %d  %s %d",
		dimStyle.Render("Renderer:"), summary.Renderer,
		dimStyle.Render("Chapters:"), summary.Chapters,
		dimStyle.Render("Entries:"), idx.Len(),
	)
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, e := range idx.Entries {
		writeEntry(w, e, 0)
	}
}

func writeEntry(w io.Writer, e *index.Entry, depth int) {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))

	if e.Synthesized {
		sb.WriteString(synthesizedStyle.Render(e.Display()))
	} else {
		sb.WriteString(termStyle.Render(e.Display()))
	}

	if e.Redirected() {
		sb.WriteString(dimStyle.Render(", see "))
		sb.WriteString(seeStyle.Render(e.See))
	} else if len(e.Locations) > 0 {
		labels := make([]string, len(e.Locations))
		for i, loc := range e.Locations {
			label := loc.Path
			if loc.Title != "" {
				label = loc.Title
			}
			labels[i] = label + "#" + loc.Anchor
		}
		sb.WriteString(dimStyle.Render("  " + strings.Join(labels, ", ")))
	}

	fmt.Fprintln(w, sb.String())
	for _, child := range e.Children {
		writeEntry(w, child, depth+1)
	}
}
