package gridfile

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jnothman/searchgrid/pkg/compose"
	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/registry"
	"github.com/jnothman/searchgrid/pkg/search"
)

// Compile resolves the document against reg and returns the prepared search.
func (d *Document) Compile(reg *registry.Registry) (*search.GridSearch, error) {
	est, err := CompileComponent(d.Estimator, reg)
	if err != nil {
		return nil, fmt.Errorf("gridfile: %w", err)
	}
	if estimator.IsNil(est) {
		return nil, fmt.Errorf("gridfile: root estimator must not be %s", TypeNone)
	}

	var opts []search.Option
	if d.Folds > 0 {
		opts = append(opts, search.WithFolds(d.Folds))
	}
	if d.Scoring != "" {
		opts = append(opts, search.WithScoring(d.Scoring))
	}
	if d.Parallelism > 0 {
		opts = append(opts, search.WithParallelism(d.Parallelism))
	}
	if d.Refit != nil {
		opts = append(opts, search.WithRefit(*d.Refit))
	}
	if len(d.Constraints) > 0 {
		accept, err := CompileConstraints(d.Constraints)
		if err != nil {
			return nil, fmt.Errorf("gridfile: %w", err)
		}
		opts = append(opts, search.WithConstraint(accept))
	}
	return search.NewGridSearch(est, opts...)
}

// CompileComponent resolves one component description into an estimator,
// with its grid annotation applied. A none component compiles to nil.
func CompileComponent(c Component, reg *registry.Registry) (estimator.Estimator, error) {
	switch c.Type {
	case "":
		return nil, fmt.Errorf("component type is required")

	case TypeNone:
		if len(c.Params) > 0 || len(c.Grid) > 0 || len(c.Grids) > 0 || len(c.Steps) > 0 || c.CacheDir != "" {
			return nil, fmt.Errorf("%s takes no configuration", TypeNone)
		}
		return nil, nil

	case TypePipeline:
		if err := checkComposite(c); err != nil {
			return nil, err
		}
		specs, err := compileSteps(c.Steps, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		var opts []compose.PipelineOption
		if c.CacheDir != "" {
			opts = append(opts, compose.WithCacheDir(c.CacheDir))
		}
		pipe, err := compose.MakePipeline(specs, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		return pipe, applyAnnotation(pipe, c, reg)

	case TypeUnion:
		if err := checkComposite(c); err != nil {
			return nil, err
		}
		if c.CacheDir != "" {
			return nil, fmt.Errorf("cache_dir is only valid on a %s", TypePipeline)
		}
		specs, err := compileSteps(c.Steps, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		union, err := compose.MakeUnion(specs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		return union, applyAnnotation(union, c, reg)

	case TypeColumns:
		if err := checkComposite(c); err != nil {
			return nil, err
		}
		if c.CacheDir != "" {
			return nil, fmt.Errorf("cache_dir is only valid on a %s", TypePipeline)
		}
		specs, err := compileColumnSteps(c.Steps, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		stack, err := compose.MakeColumnStack(specs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Type, err)
		}
		return stack, applyAnnotation(stack, c, reg)

	default:
		if len(c.Steps) > 0 {
			return nil, fmt.Errorf("component type %s does not take steps", c.Type)
		}
		if c.CacheDir != "" {
			return nil, fmt.Errorf("cache_dir is only valid on a %s", TypePipeline)
		}
		est, err := reg.Build(c.Type, c.Params)
		if err != nil {
			return nil, err
		}
		return est, applyAnnotation(est, c, reg)
	}
}

func checkComposite(c Component) error {
	if len(c.Params) > 0 {
		return fmt.Errorf("%s is configured through steps, not params", c.Type)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("%s needs steps", c.Type)
	}
	return nil
}

func compileSteps(steps []Step, reg *registry.Registry) ([]compose.StepSpec, error) {
	specs := make([]compose.StepSpec, len(steps))
	for i, s := range steps {
		if len(s.Columns) > 0 {
			return nil, fmt.Errorf("step %d: columns are only valid inside a %s component", i, TypeColumns)
		}
		spec, err := compileStep(s, reg)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		specs[i] = spec
	}
	return specs, nil
}

func compileStep(s Step, reg *registry.Registry) (compose.StepSpec, error) {
	if len(s.Alternatives) > 0 {
		if s.Type != "" {
			return compose.StepSpec{}, fmt.Errorf("type and alternatives are mutually exclusive")
		}
		alts := make([]estimator.Estimator, len(s.Alternatives))
		for j, ac := range s.Alternatives {
			est, err := CompileComponent(ac, reg)
			if err != nil {
				return compose.StepSpec{}, fmt.Errorf("alternative %d: %w", j, err)
			}
			alts[j] = est
		}
		spec := compose.OneOf(alts...)
		if s.Name != "" {
			spec = spec.Named(s.Name)
		}
		return spec, nil
	}

	est, err := CompileComponent(s.Component, reg)
	if err != nil {
		return compose.StepSpec{}, err
	}
	spec := compose.Est(est)
	if s.Name != "" {
		spec = spec.Named(s.Name)
	}
	return spec, nil
}

func compileColumnSteps(steps []Step, reg *registry.Registry) ([]compose.ColumnStepSpec, error) {
	specs := make([]compose.ColumnStepSpec, len(steps))
	for i, s := range steps {
		spec, err := compileColumnStep(s, reg)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		specs[i] = spec
	}
	return specs, nil
}

// compileColumnStep binds every alternative of the slot to the step's
// columns. A none alternative stands for skipping the slot.
func compileColumnStep(s Step, reg *registry.Registry) (compose.ColumnStepSpec, error) {
	var alts []compose.ColumnAlt
	if len(s.Alternatives) > 0 {
		if s.Type != "" {
			return compose.ColumnStepSpec{}, fmt.Errorf("type and alternatives are mutually exclusive")
		}
		alts = make([]compose.ColumnAlt, len(s.Alternatives))
		for j, ac := range s.Alternatives {
			est, err := CompileComponent(ac, reg)
			if err != nil {
				return compose.ColumnStepSpec{}, fmt.Errorf("alternative %d: %w", j, err)
			}
			if est == nil {
				continue
			}
			alts[j] = compose.Cols(est, s.Columns...)
		}
	} else {
		est, err := CompileComponent(s.Component, reg)
		if err != nil {
			return compose.ColumnStepSpec{}, err
		}
		if est != nil {
			alts = []compose.ColumnAlt{compose.Cols(est, s.Columns...)}
		} else {
			alts = []compose.ColumnAlt{{}}
		}
	}
	spec := compose.ColStep(alts...)
	if s.Name != "" {
		spec = spec.Named(s.Name)
	}
	return spec, nil
}

// applyAnnotation attaches the component's grid entries. Grid and grids are
// mutually exclusive; grids records a union of several grids.
func applyAnnotation(est estimator.Estimator, c Component, reg *registry.Registry) error {
	if len(c.Grid) > 0 && len(c.Grids) > 0 {
		return fmt.Errorf("component %s: grid and grids are mutually exclusive", c.Type)
	}
	var raw []map[string][]any
	if len(c.Grid) > 0 {
		raw = append(raw, c.Grid)
	}
	raw = append(raw, c.Grids...)
	if len(raw) == 0 {
		return nil
	}

	grids := make([]estimator.Grid, len(raw))
	for i, rg := range raw {
		g := make(estimator.Grid, len(rg))
		for name, list := range rg {
			candidates := make([]any, len(list))
			for j, v := range list {
				cv, err := compileCandidate(v, reg)
				if err != nil {
					return fmt.Errorf("grid %s[%d]: %w", name, j, err)
				}
				candidates[j] = cv
			}
			g[name] = candidates
		}
		grids[i] = g
	}
	return estimator.SetGrid(est, grids...)
}

// compileCandidate resolves one grid candidate. Maps are component
// descriptions and compile to estimators; everything else is a plain value.
func compileCandidate(v any, reg *registry.Registry) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	var comp Component
	if err := mapstructure.Decode(m, &comp); err != nil {
		return nil, fmt.Errorf("decoding component candidate: %w", err)
	}
	if comp.Type == "" {
		return nil, fmt.Errorf("component candidate needs a type")
	}
	est, err := CompileComponent(comp, reg)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, nil
	}
	return est, nil
}
