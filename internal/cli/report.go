package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jnothman/searchgrid"
	"github.com/jnothman/searchgrid/internal/presentation/tui"
)

// Output formats accepted by the expand command.
const (
	FormatAuto     = "auto"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// writeExpansion renders an expansion in the requested format. The auto
// format picks styled markdown on a terminal and JSON everywhere else.
func writeExpansion(w io.Writer, format string, exp *searchgrid.Expansion) error {
	switch format {
	case "", FormatAuto:
		if tui.IsTerminal(w) {
			return writeRendered(w, exp)
		}
		return writeJSON(w, exp)
	case FormatJSON:
		return writeJSON(w, exp)
	case FormatYAML:
		return writeYAML(w, exp)
	case FormatMarkdown:
		if tui.IsTerminal(w) {
			return writeRendered(w, exp)
		}
		_, err := io.WriteString(w, expansionMarkdown(exp))
		return err
	default:
		return fmt.Errorf("unknown format %q (supported: auto, json, yaml, markdown)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func writeRendered(w io.Writer, exp *searchgrid.Expansion) error {
	markdown := expansionMarkdown(exp)

	render := tui.NewRenderer()
	styled, err := render(markdown)
	if err != nil {
		// Style engine failed; the raw markdown is still readable.
		_, werr := io.WriteString(w, markdown)
		return werr
	}
	_, err = io.WriteString(w, styled)
	return err
}

// expansionMarkdown builds the human-readable report: a headline with the
// candidate count and one table per grid.
func expansionMarkdown(exp *searchgrid.Expansion) string {
	var sb strings.Builder

	if exp.Name != "" {
		fmt.Fprintf(&sb, "# Grid expansion: %s\n\n", exp.Name)
	} else {
		sb.WriteString("# Grid expansion\n\n")
	}

	gridWord := "grids"
	if len(exp.Grids) == 1 {
		gridWord = "grid"
	}
	detail := fmt.Sprintf("%d folds", exp.Folds)
	if exp.Scoring != "" {
		detail += fmt.Sprintf(", scoring %s", exp.Scoring)
	}
	fmt.Fprintf(&sb, "**%d** candidate settings across %d %s (%s).\n", exp.Size, len(exp.Grids), gridWord, detail)

	for i, g := range exp.Grids {
		fmt.Fprintf(&sb, "\n## Grid %d\n\n", i+1)
		if len(g) == 0 {
			sb.WriteString("_No parameters: the single default candidate._\n")
			continue
		}
		sb.WriteString("| Parameter | Candidates |\n| --- | --- |\n")
		for _, key := range sortedGridKeys(g) {
			vals := make([]string, len(g[key]))
			for j, v := range g[key] {
				vals[j] = formatCandidate(v)
			}
			fmt.Fprintf(&sb, "| `%s` | %s |\n", key, strings.Join(vals, ", "))
		}
	}

	return sb.String()
}

// formatCandidate renders one grid value compactly. JSON covers strings,
// numbers, nulls and the rendered component maps alike.
func formatCandidate(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func sortedGridKeys(g map[string][]any) []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
