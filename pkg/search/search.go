// Package search assembles grid-search handoff objects. A GridSearch pairs a
// root estimator with its flattened parameter grid and the tuning settings a
// driver needs to run the search. Fitting, cross-validation and scoring stay
// with the driver; this package only prepares the work.
package search

import (
	"fmt"
	"math"

	"github.com/jnothman/searchgrid/pkg/compose"
	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/grid"
)

// RootStep is the step name used when wrapping a list of alternative
// estimators into a single-step pipeline.
const RootStep = "root"

// DefaultFolds is the cross-validation fold count used when no option
// overrides it.
const DefaultFolds = 5

// Constraint decides whether a candidate parameter assignment should be kept.
type Constraint func(params estimator.Params) (bool, error)

// GridSearch is a prepared search: the estimator to tune, the grids built
// from its annotations, and the settings the executing driver honours.
type GridSearch struct {
	est         estimator.Estimator
	grids       []estimator.Grid
	folds       int
	scoring     string
	parallelism int
	refit       bool
	errorScore  float64
	constraint  Constraint
}

// Option configures a GridSearch.
type Option func(*GridSearch)

// WithFolds sets the cross-validation fold count.
func WithFolds(n int) Option {
	return func(gs *GridSearch) {
		gs.folds = n
	}
}

// WithScoring sets the scoring metric name handed to the driver.
func WithScoring(name string) Option {
	return func(gs *GridSearch) {
		gs.scoring = name
	}
}

// WithParallelism sets how many candidates the driver may evaluate at once.
func WithParallelism(n int) Option {
	return func(gs *GridSearch) {
		gs.parallelism = n
	}
}

// WithRefit controls whether the driver refits the best candidate on the
// full training set after the search.
func WithRefit(refit bool) Option {
	return func(gs *GridSearch) {
		gs.refit = refit
	}
}

// WithErrorScore sets the score assigned to candidates whose fit fails.
func WithErrorScore(score float64) Option {
	return func(gs *GridSearch) {
		gs.errorScore = score
	}
}

// WithConstraint filters enumerated candidates through accept. Candidates it
// rejects are dropped from Candidates; Size stays unfiltered.
func WithConstraint(accept Constraint) Option {
	return func(gs *GridSearch) {
		gs.constraint = accept
	}
}

// NewGridSearch builds the parameter grid for est and returns the prepared
// search. An estimator without annotations yields an empty grid, which a
// driver runs as a single default-parameter fit.
func NewGridSearch(est estimator.Estimator, opts ...Option) (*GridSearch, error) {
	if estimator.IsNil(est) {
		return nil, fmt.Errorf("search: estimator must not be nil")
	}
	gs := &GridSearch{
		est:         est,
		folds:       DefaultFolds,
		parallelism: 1,
		refit:       true,
		errorScore:  math.NaN(),
	}
	for _, opt := range opts {
		opt(gs)
	}
	if gs.folds < 2 {
		return nil, fmt.Errorf("search: folds must be at least 2, got %d", gs.folds)
	}
	if gs.parallelism < 1 {
		return nil, fmt.Errorf("search: parallelism must be positive, got %d", gs.parallelism)
	}
	grids, err := grid.Build(est)
	if err != nil {
		return nil, fmt.Errorf("search: building parameter grid: %w", err)
	}
	gs.grids = grids
	return gs, nil
}

// NewGridSearchFrom wraps alternative estimators into a single-step pipeline
// named RootStep, annotates that step with the alternatives, and prepares the
// search over them. Nil alternatives stand for omitting the step.
func NewGridSearchFrom(alts []estimator.Estimator, opts ...Option) (*GridSearch, error) {
	if len(alts) == 0 {
		return nil, fmt.Errorf("search: at least one alternative estimator is required")
	}
	pipe, err := compose.NewPipeline([]compose.Step{{Name: RootStep, Estimator: alts[0]}})
	if err != nil {
		return nil, err
	}
	candidates := make([]any, len(alts))
	for i, alt := range alts {
		if estimator.IsNil(alt) {
			continue
		}
		candidates[i] = alt
	}
	if err := estimator.SetGrid(pipe, estimator.Grid{RootStep: candidates}); err != nil {
		return nil, err
	}
	return NewGridSearch(pipe, opts...)
}

// Estimator returns the estimator the search tunes.
func (gs *GridSearch) Estimator() estimator.Estimator {
	return gs.est
}

// Grids returns the flattened parameter grids built from the estimator's
// annotations. An empty result means the search has a single default
// candidate.
func (gs *GridSearch) Grids() []estimator.Grid {
	return gs.grids
}

// Size returns the number of candidates before constraint filtering.
func (gs *GridSearch) Size() int {
	return grid.Size(gs.grids)
}

// Candidates enumerates the concrete parameter assignments in grid order,
// applying the constraint when one is set.
func (gs *GridSearch) Candidates() ([]estimator.Params, error) {
	all := grid.Enumerate(gs.grids)
	if gs.constraint == nil {
		return all, nil
	}
	kept := make([]estimator.Params, 0, len(all))
	for _, params := range all {
		ok, err := gs.constraint(params)
		if err != nil {
			return nil, fmt.Errorf("search: constraint: %w", err)
		}
		if ok {
			kept = append(kept, params)
		}
	}
	return kept, nil
}

// Apply clones the estimator and configures the clone with one candidate's
// parameters.
func (gs *GridSearch) Apply(params estimator.Params) (estimator.Estimator, error) {
	return estimator.Apply(gs.est, params)
}

// Folds returns the cross-validation fold count.
func (gs *GridSearch) Folds() int {
	return gs.folds
}

// Scoring returns the scoring metric name, empty when the driver's default
// applies.
func (gs *GridSearch) Scoring() string {
	return gs.scoring
}

// Parallelism returns how many candidates may be evaluated at once.
func (gs *GridSearch) Parallelism() int {
	return gs.parallelism
}

// Refit reports whether the best candidate is refit after the search.
func (gs *GridSearch) Refit() bool {
	return gs.refit
}

// ErrorScore returns the score assigned to failed fits. It is NaN unless
// WithErrorScore overrode it.
func (gs *GridSearch) ErrorScore() float64 {
	return gs.errorScore
}
