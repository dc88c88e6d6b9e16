package estimator

import "fmt"

// GridCarrier is implemented by estimators that can hold a search-space
// annotation. Embed SearchSpace to satisfy it.
type GridCarrier interface {
	// SetParamGrid replaces the annotation. Multiple grids form a union of
	// alternative subspaces; nil or empty clears the annotation.
	SetParamGrid(grids []Grid)
	// ParamGrid returns the current annotation, nil when unset.
	ParamGrid() []Grid
}

// SearchSpace is an embeddable GridCarrier. Its zero value is an estimator
// with no annotation.
type SearchSpace struct {
	grids []Grid
}

// SetParamGrid implements GridCarrier.
func (s *SearchSpace) SetParamGrid(grids []Grid) {
	s.grids = grids
}

// ParamGrid implements GridCarrier.
func (s *SearchSpace) ParamGrid() []Grid {
	return s.grids
}

// SetGrid annotates est with the search space to consider for its
// parameters. Each grid maps a shallow parameter name to candidate values;
// passing several grids declares a union of alternative subspaces. A later
// call replaces the whole annotation; a call with no grids clears it.
//
// The annotation is inert until the estimator tree is flattened. Candidate
// values that are themselves annotated estimators expand recursively there.
func SetGrid(est Estimator, grids ...Grid) error {
	c, ok := est.(GridCarrier)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNoGridSupport, est)
	}
	if len(grids) == 0 {
		c.SetParamGrid(nil)
		return nil
	}
	c.SetParamGrid(grids)
	return nil
}

// With is the chaining form of SetGrid for use inside composite literals:
// it returns the annotated estimator and panics if est cannot carry a grid.
func With(est Estimator, grids ...Grid) Estimator {
	if err := SetGrid(est, grids...); err != nil {
		panic(err)
	}
	return est
}

// GridOf returns est's annotation, or nil when est has none or cannot carry
// one.
func GridOf(est Estimator) []Grid {
	c, ok := est.(GridCarrier)
	if !ok {
		return nil
	}
	return c.ParamGrid()
}
