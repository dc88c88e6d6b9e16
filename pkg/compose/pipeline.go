// Package compose provides the composite estimators the annotation
// convention attaches to: sequential pipelines, parallel feature unions,
// and column-bound transformer stacks. Constructors with auto-named steps
// accept alternative components per slot and record the alternatives as a
// search-space annotation on the composite.
package compose

import (
	"fmt"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// Step is a named slot in a composite. A nil Estimator means the slot is
// skipped until a search assigns a component to it.
type Step struct {
	Name      string
	Estimator estimator.Estimator
}

// Pipeline chains named steps sequentially. It implements the full
// estimator convention: steps are shallow parameters, dotted paths reach
// into them, and whole steps can be replaced by name.
type Pipeline struct {
	estimator.SearchSpace
	steps    []Step
	cacheDir string
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCacheDir sets a directory a driver may use to cache fitted steps.
// The pipeline itself never touches it.
func WithCacheDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.cacheDir = dir
	}
}

// NewPipeline builds a pipeline from explicitly named steps.
func NewPipeline(steps []Step, opts ...PipelineOption) (*Pipeline, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	p := &Pipeline{steps: copySteps(steps)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Steps returns the pipeline's steps in order.
func (p *Pipeline) Steps() []Step {
	return copySteps(p.steps)
}

// Step returns the named step's component.
func (p *Pipeline) Step(name string) (estimator.Estimator, bool) {
	for _, s := range p.steps {
		if s.Name == name {
			return s.Estimator, true
		}
	}
	return nil, false
}

// CacheDir returns the configured cache directory, empty when unset.
func (p *Pipeline) CacheDir() string { return p.cacheDir }

// Params implements estimator.Estimator: one entry per step plus the
// pipeline's own configuration.
func (p *Pipeline) Params() estimator.Params {
	params := make(estimator.Params, len(p.steps)+1)
	for _, s := range p.steps {
		params[s.Name] = s.Estimator
	}
	params["cache_dir"] = p.cacheDir
	return params
}

// SetParams implements estimator.ParamSetter. A bare step name replaces the
// step's component (nil skips it); dotted paths are routed into the step
// after any replacement.
func (p *Pipeline) SetParams(params estimator.Params) error {
	direct, nested := estimator.GroupByHead(params)
	for name, v := range direct {
		if name == "cache_dir" {
			dir, ok := v.(string)
			if !ok {
				return fmt.Errorf("cache_dir: expected string, got %T", v)
			}
			p.cacheDir = dir
			continue
		}
		if err := replaceStep(p.steps, name, v); err != nil {
			return err
		}
	}
	return routeNested(p.steps, nested)
}

// CloneEstimator implements estimator.Cloner. Steps are cloned when they
// implement Cloner and shared otherwise; the annotation is not carried.
func (p *Pipeline) CloneEstimator() estimator.Estimator {
	return &Pipeline{steps: cloneSteps(p.steps), cacheDir: p.cacheDir}
}

// --- shared step plumbing ---

func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("composite needs at least one step")
	}
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		if s.Name == "" {
			return fmt.Errorf("step name must not be empty")
		}
		if _, rest := estimator.SplitHead(s.Name); rest != "" {
			return fmt.Errorf("step name %q must not contain %q", s.Name, estimator.Sep)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate step name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

func copySteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Name: s.Name, Estimator: cloneOrShare(s.Estimator)}
	}
	return out
}

func cloneOrShare(est estimator.Estimator) estimator.Estimator {
	if estimator.IsNil(est) {
		return nil
	}
	if c, ok := est.(estimator.Cloner); ok {
		return c.CloneEstimator()
	}
	return est
}

func replaceStep(steps []Step, name string, v any) error {
	for i := range steps {
		if steps[i].Name != name {
			continue
		}
		if v == nil {
			steps[i].Estimator = nil
			return nil
		}
		est, ok := v.(estimator.Estimator)
		if !ok {
			return fmt.Errorf("step %s: expected estimator or nil, got %T", name, v)
		}
		if estimator.IsNil(est) {
			est = nil
		}
		steps[i].Estimator = est
		return nil
	}
	return fmt.Errorf("%w: %s", estimator.ErrUnknownParam, name)
}

func routeNested(steps []Step, nested map[string]estimator.Params) error {
	for head, sub := range nested {
		var target estimator.Estimator
		found := false
		for _, s := range steps {
			if s.Name == head {
				target, found = s.Estimator, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", estimator.ErrUnknownParam, head)
		}
		if estimator.IsNil(target) {
			return fmt.Errorf("cannot set parameters on skipped step %s", head)
		}
		setter, ok := target.(estimator.ParamSetter)
		if !ok {
			return fmt.Errorf("step %s (%T) does not implement ParamSetter", head, target)
		}
		if err := setter.SetParams(sub); err != nil {
			return fmt.Errorf("%s: %w", head, err)
		}
	}
	return nil
}
