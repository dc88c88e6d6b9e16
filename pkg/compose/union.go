package compose

import "github.com/jnothman/searchgrid/pkg/estimator"

// FeatureUnion applies named steps in parallel and concatenates their
// outputs. Structurally it shares everything with Pipeline except ordering
// semantics, which only a driver cares about.
type FeatureUnion struct {
	estimator.SearchSpace
	steps []Step
}

// NewUnion builds a feature union from explicitly named steps.
func NewUnion(steps []Step) (*FeatureUnion, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	return &FeatureUnion{steps: copySteps(steps)}, nil
}

// Steps returns the union's steps in order.
func (u *FeatureUnion) Steps() []Step {
	return copySteps(u.steps)
}

// Step returns the named step's component.
func (u *FeatureUnion) Step(name string) (estimator.Estimator, bool) {
	for _, s := range u.steps {
		if s.Name == name {
			return s.Estimator, true
		}
	}
	return nil, false
}

// Params implements estimator.Estimator.
func (u *FeatureUnion) Params() estimator.Params {
	params := make(estimator.Params, len(u.steps))
	for _, s := range u.steps {
		params[s.Name] = s.Estimator
	}
	return params
}

// SetParams implements estimator.ParamSetter.
func (u *FeatureUnion) SetParams(params estimator.Params) error {
	direct, nested := estimator.GroupByHead(params)
	for name, v := range direct {
		if err := replaceStep(u.steps, name, v); err != nil {
			return err
		}
	}
	return routeNested(u.steps, nested)
}

// CloneEstimator implements estimator.Cloner.
func (u *FeatureUnion) CloneEstimator() estimator.Estimator {
	return &FeatureUnion{steps: cloneSteps(u.steps)}
}
