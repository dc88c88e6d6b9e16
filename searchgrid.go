package searchgrid

import (
	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/grid"
	"github.com/jnothman/searchgrid/pkg/search"
)

// Core types re-exported so most callers only import the root package.
type (
	// Estimator is the component convention annotations attach to.
	Estimator = estimator.Estimator
	// Grid maps parameter names to candidate values.
	Grid = estimator.Grid
	// Params is one concrete parameter assignment.
	Params = estimator.Params
	// GridSearch is a prepared search handoff.
	GridSearch = search.GridSearch
	// SearchOption configures a GridSearch.
	SearchOption = search.Option
)

// Annotation errors re-exported for errors.Is branching.
var (
	ErrNoGridSupport = estimator.ErrNoGridSupport
	ErrUnknownParam  = estimator.ErrUnknownParam
)

// Set annotates est with one or more candidate grids, replacing any previous
// annotation. Several grids express a union of alternative subspaces; zero
// grids clears the annotation.
func Set(est Estimator, grids ...Grid) error {
	return estimator.SetGrid(est, grids...)
}

// With is the chaining form of Set, for annotating components inside
// composite literals. It panics if est cannot carry a grid annotation.
func With(est Estimator, grids ...Grid) Estimator {
	return estimator.With(est, grids...)
}

// Build flattens the annotations of est and every nested component into
// fully-qualified parameter grids. An estimator without annotations yields
// an empty result.
func Build(est Estimator) ([]Grid, error) {
	return grid.Build(est)
}

// NewGridSearch flattens est's annotations and prepares a search handoff.
func NewGridSearch(est Estimator, opts ...SearchOption) (*GridSearch, error) {
	return search.NewGridSearch(est, opts...)
}

// NewGridSearchFrom prepares a search over whole-model alternatives. Each
// alternative may carry its own annotation; nil stands for fitting nothing.
func NewGridSearchFrom(alts []Estimator, opts ...SearchOption) (*GridSearch, error) {
	return search.NewGridSearchFrom(alts, opts...)
}
