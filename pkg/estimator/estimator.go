// Package estimator defines the component convention the rest of the module
// builds on: introspectable parameters, dotted parameter paths, optional
// cloning and parameter assignment, and the search-space annotation carrier.
//
// An estimator here is any model-like component — a transformer, a
// classifier, a whole pipeline. The package makes no assumptions about what
// the component computes; it only standardizes how its configuration is read,
// written, copied, and annotated.
package estimator

// Params is a single concrete parameter assignment, keyed by parameter path.
type Params map[string]any

// Grid maps parameter paths to candidate values to search over.
// Candidate values may themselves be estimators (alternative components),
// and those alternatives may carry their own grid annotations.
type Grid map[string][]any

// Estimator is the minimal contract a searchable component satisfies.
type Estimator interface {
	// Params returns the component's shallow parameters: its own
	// configuration plus direct sub-components, with undotted names.
	// Nested parameters are reached by recursion, not by deep keys.
	Params() Params
}

// ParamSetter is implemented by estimators whose parameters can be assigned.
// Composites route dotted paths to the named sub-component and accept a bare
// component name to replace that sub-component wholesale (nil means "skip").
type ParamSetter interface {
	SetParams(params Params) error
}

// Cloner is implemented by estimators that can produce an unfitted copy of
// themselves with the same configuration. Search-space annotations do not
// survive cloning: a clone is a fresh component, not a fresh search.
type Cloner interface {
	CloneEstimator() Estimator
}

// TypeNamer lets an estimator override the base name derived from its Go
// type, used when auto-naming composite steps and registry components.
type TypeNamer interface {
	EstimatorName() string
}

// Clone copies the grid and its candidate slices. Candidate values are
// shared, not copied.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for k, vs := range g {
		cp := make([]any, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}

// Clone returns a shallow copy of the assignment.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
