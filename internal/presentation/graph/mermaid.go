package graph

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jnothman/searchgrid/pkg/compose"
	"github.com/jnothman/searchgrid/pkg/estimator"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from an
// estimator tree. It applies semantic styling:
// - Root: ((Circle))
// - Composite (pipeline, union, column stack): [[Subroutine]]
// - Empty slot: [/Parallelogram/]
// - Leaf component: [Rectangle]
// Placed steps are drawn with solid labeled arrows; grid alternatives for a
// slot are drawn with dashed arrows.
func GenerateMermaid(root estimator.Estimator) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	w := &walker{sb: &sb}
	w.emit("root", rootLabel(root), root, true)
	return sb.String()
}

func rootLabel(est estimator.Estimator) string {
	if estimator.IsNil(est) {
		return "none"
	}
	return estimator.NameFor(est)
}

type walker struct {
	sb *strings.Builder
}

func (w *walker) emit(path, label string, est estimator.Estimator, isRoot bool) {
	// Sanitize ID for Mermaid
	safeID := sanitizeMermaidID(path)

	if estimator.IsNil(est) {
		fmt.Fprintf(w.sb, "    %s[/\"%s\"/]\n", safeID, escapeMermaidLabel(label))
		return
	}

	// Node Shape based on role
	opener, closer := "[", "]"
	switch {
	case isRoot:
		opener, closer = "((", "))" // Circle
	case isComposite(est):
		opener, closer = "[[", "]]" // Subroutine
	}

	grids := estimator.GridOf(est)
	if note := gridNote(grids); note != "" {
		label = label + " <br/> " + note
	}
	fmt.Fprintf(w.sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer)

	// Placed steps (solid labeled arrows)
	placed := map[string]estimator.Estimator{}
	for _, s := range steps(est) {
		placed[s.name] = s.est
		childPath := path + "." + s.name

		edgeLabel := s.name
		if len(s.columns) > 0 {
			edgeLabel = fmt.Sprintf("%s [%s]", s.name, strings.Join(s.columns, ", "))
		}
		fmt.Fprintf(w.sb, "    %s -- \"%s\" --> %s\n", safeID, escapeMermaidLabel(edgeLabel), sanitizeMermaidID(childPath))
		w.emit(childPath, s.name, s.est, false)
	}

	// Grid alternatives (dashed arrows). A slot key is any grid key holding
	// component or nil candidates; plain-valued keys are part of the label.
	altSeq := map[string]int{}
	for _, g := range grids {
		for _, key := range sortedKeys(g) {
			for _, cand := range g[key] {
				var alt estimator.Estimator
				edgeLabel := key

				switch c := cand.(type) {
				case compose.ColumnAlt:
					alt = c.Estimator
					if len(c.Columns) > 0 {
						edgeLabel = fmt.Sprintf("%s [%s]", key, strings.Join(c.Columns, ", "))
					}
				default:
					var ok bool
					alt, ok = estimator.AsEstimator(cand)
					if !ok && !isNilCandidate(cand) {
						continue
					}
				}
				if samePointer(alt, placed[key]) {
					continue // already drawn as the placed step
				}
				if estimator.IsNil(alt) {
					if p, found := placed[key]; found && estimator.IsNil(p) {
						continue // the placed slot is already the empty one
					}
				}

				altSeq[key]++
				altPath := fmt.Sprintf("%s.%s-%d", path, key, altSeq[key])
				fmt.Fprintf(w.sb, "    %s -. \"%s\" .-> %s\n", safeID, escapeMermaidLabel(edgeLabel), sanitizeMermaidID(altPath))
				if estimator.IsNil(alt) {
					w.emit(altPath, "none", nil, false)
				} else {
					w.emit(altPath, estimator.NameFor(alt), alt, false)
				}
			}
		}
	}
}

type slot struct {
	name    string
	est     estimator.Estimator
	columns []string
}

func steps(est estimator.Estimator) []slot {
	switch c := est.(type) {
	case *compose.Pipeline:
		out := make([]slot, 0, len(c.Steps()))
		for _, s := range c.Steps() {
			out = append(out, slot{name: s.Name, est: s.Estimator})
		}
		return out
	case *compose.FeatureUnion:
		out := make([]slot, 0, len(c.Steps()))
		for _, s := range c.Steps() {
			out = append(out, slot{name: s.Name, est: s.Estimator})
		}
		return out
	case *compose.ColumnStack:
		out := make([]slot, 0, len(c.Steps()))
		for _, s := range c.Steps() {
			out = append(out, slot{name: s.Name, est: s.Estimator, columns: s.Columns})
		}
		return out
	}
	return nil
}

func isComposite(est estimator.Estimator) bool {
	switch est.(type) {
	case *compose.Pipeline, *compose.FeatureUnion, *compose.ColumnStack:
		return true
	}
	return false
}

// gridNote summarizes the plain-valued grid keys of a node, e.g. "grid: C, penalty".
func gridNote(grids []estimator.Grid) string {
	seen := map[string]bool{}
	var keys []string
	for _, g := range grids {
		for key, cands := range g {
			if seen[key] {
				continue
			}
			plain := len(cands) > 0
			for _, cand := range cands {
				if _, isCols := cand.(compose.ColumnAlt); isCols {
					plain = false
					break
				}
				if _, ok := estimator.AsEstimator(cand); ok || isNilCandidate(cand) {
					plain = false
					break
				}
			}
			if plain {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return "grid: " + strings.Join(keys, ", ")
}

func isNilCandidate(v any) bool {
	if v == nil {
		return true
	}
	if est, ok := v.(estimator.Estimator); ok {
		return estimator.IsNil(est)
	}
	return false
}

// samePointer avoids interface comparison to stay safe with non-comparable
// dynamic types.
func samePointer(a, b estimator.Estimator) bool {
	if a == nil || b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != reflect.Ptr || rb.Kind() != reflect.Ptr {
		return false
	}
	return ra.Pointer() == rb.Pointer()
}

func sortedKeys(g estimator.Grid) []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
