package compose

import (
	"fmt"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// StepSpec describes one slot of an auto-named composite: one component, or
// several alternatives to search over. A nil alternative means the slot may
// be skipped.
type StepSpec struct {
	// Name overrides the derived step name when non-empty.
	Name string
	// Alternatives are the candidate components for the slot, in search
	// order. The first one becomes the placed component.
	Alternatives []estimator.Estimator
}

// Est is a single-component slot.
func Est(e estimator.Estimator) StepSpec {
	return StepSpec{Alternatives: []estimator.Estimator{e}}
}

// OneOf is a slot searched over several alternative components.
func OneOf(alts ...estimator.Estimator) StepSpec {
	return StepSpec{Alternatives: alts}
}

// Named pins the slot's step name instead of deriving one.
func (s StepSpec) Named(name string) StepSpec {
	s.Name = name
	return s
}

// ColumnAlt is one alternative for a column-stack slot: a component and the
// columns it applies to. The zero value means the slot is skipped.
type ColumnAlt struct {
	Estimator estimator.Estimator
	Columns   []string
}

// Cols pairs a component with the columns it transforms.
func Cols(e estimator.Estimator, columns ...string) ColumnAlt {
	return ColumnAlt{Estimator: e, Columns: columns}
}

// ColumnStepSpec describes one slot of an auto-named column stack.
type ColumnStepSpec struct {
	Name         string
	Alternatives []ColumnAlt
}

// ColStep is a column-stack slot with one or more alternatives.
func ColStep(alts ...ColumnAlt) ColumnStepSpec {
	return ColumnStepSpec{Alternatives: alts}
}

// Named pins the slot's step name instead of deriving one.
func (s ColumnStepSpec) Named(name string) ColumnStepSpec {
	s.Name = name
	return s
}

// MakePipeline builds a pipeline with derived step names and an alternatives
// annotation for every slot with more than one candidate.
//
// A slot is named after its alternatives: the lowercased component type name
// when all non-nil alternatives share one type, "alt" when they mix, "none"
// when every alternative is nil. Base names appearing on several slots get
// "-1", "-2", … suffixes in slot order. The first alternative becomes the
// placed step, even when nil.
func MakePipeline(specs []StepSpec, opts ...PipelineOption) (*Pipeline, error) {
	steps, grid, err := resolveSpecs(specs)
	if err != nil {
		return nil, err
	}
	p, err := NewPipeline(steps, opts...)
	if err != nil {
		return nil, err
	}
	if len(grid) > 0 {
		p.SetParamGrid([]estimator.Grid{grid})
	}
	return p, nil
}

// MakeUnion is MakePipeline for a feature union.
func MakeUnion(specs []StepSpec) (*FeatureUnion, error) {
	steps, grid, err := resolveSpecs(specs)
	if err != nil {
		return nil, err
	}
	u, err := NewUnion(steps)
	if err != nil {
		return nil, err
	}
	if len(grid) > 0 {
		u.SetParamGrid([]estimator.Grid{grid})
	}
	return u, nil
}

// MakeColumnStack is MakePipeline for a column stack. Alternatives carry
// their own column bindings; candidates are whole ColumnAlt values, so a
// search swaps component and columns together.
func MakeColumnStack(specs []ColumnStepSpec) (*ColumnStack, error) {
	bases := make([]string, len(specs))
	for i, spec := range specs {
		if len(spec.Alternatives) == 0 {
			return nil, fmt.Errorf("slot %d: no alternatives", i)
		}
		if spec.Name != "" {
			bases[i] = spec.Name
			continue
		}
		named := make([]any, len(spec.Alternatives))
		for j, alt := range spec.Alternatives {
			named[j] = altValue(alt)
		}
		bases[i] = slotBase(named)
	}
	names := numberNames(bases)

	steps := make([]ColumnStep, len(specs))
	grid := make(estimator.Grid)
	for i, spec := range specs {
		first := spec.Alternatives[0]
		est := first.Estimator
		if estimator.IsNil(est) {
			est = nil
		}
		steps[i] = ColumnStep{Name: names[i], Estimator: est, Columns: first.Columns}
		if len(spec.Alternatives) > 1 {
			candidates := make([]any, len(spec.Alternatives))
			for j, alt := range spec.Alternatives {
				candidates[j] = altValue(alt)
			}
			grid[names[i]] = candidates
		}
	}
	c, err := NewColumnStack(steps)
	if err != nil {
		return nil, err
	}
	if len(grid) > 0 {
		c.SetParamGrid([]estimator.Grid{grid})
	}
	return c, nil
}

func resolveSpecs(specs []StepSpec) ([]Step, estimator.Grid, error) {
	bases := make([]string, len(specs))
	for i, spec := range specs {
		if len(spec.Alternatives) == 0 {
			return nil, nil, fmt.Errorf("slot %d: no alternatives", i)
		}
		if spec.Name != "" {
			bases[i] = spec.Name
			continue
		}
		named := make([]any, len(spec.Alternatives))
		for j, alt := range spec.Alternatives {
			if estimator.IsNil(alt) {
				named[j] = nil
			} else {
				named[j] = alt
			}
		}
		bases[i] = slotBase(named)
	}
	names := numberNames(bases)

	steps := make([]Step, len(specs))
	grid := make(estimator.Grid)
	for i, spec := range specs {
		first := spec.Alternatives[0]
		if estimator.IsNil(first) {
			first = nil
		}
		steps[i] = Step{Name: names[i], Estimator: first}
		if len(spec.Alternatives) > 1 {
			candidates := make([]any, len(spec.Alternatives))
			for j, alt := range spec.Alternatives {
				if estimator.IsNil(alt) {
					candidates[j] = nil
				} else {
					candidates[j] = alt
				}
			}
			grid[names[i]] = candidates
		}
	}
	return steps, grid, nil
}

// altValue boxes a column alternative as a grid candidate: nil for a skip,
// the ColumnAlt itself otherwise.
func altValue(alt ColumnAlt) any {
	if estimator.IsNil(alt.Estimator) && len(alt.Columns) == 0 {
		return nil
	}
	return alt
}

// slotBase derives a slot's base name from its boxed alternatives.
func slotBase(alts []any) string {
	distinct := make(map[string]struct{})
	last := ""
	for _, a := range alts {
		if a == nil {
			continue
		}
		name := ""
		switch v := a.(type) {
		case ColumnAlt:
			if estimator.IsNil(v.Estimator) {
				continue
			}
			name = estimator.NameFor(v.Estimator)
		default:
			name = estimator.NameFor(v)
		}
		distinct[name] = struct{}{}
		last = name
	}
	switch len(distinct) {
	case 0:
		return estimator.NilName
	case 1:
		return last
	default:
		return "alt"
	}
}

// numberNames suffixes repeated base names with "-1", "-2", … in slot
// order; unique names stay bare.
func numberNames(bases []string) []string {
	counts := make(map[string]int, len(bases))
	for _, b := range bases {
		counts[b]++
	}
	seen := make(map[string]int, len(bases))
	out := make([]string, len(bases))
	for i, b := range bases {
		if counts[b] > 1 {
			seen[b]++
			out[i] = fmt.Sprintf("%s-%d", b, seen[b])
		} else {
			out[i] = b
		}
	}
	return out
}
