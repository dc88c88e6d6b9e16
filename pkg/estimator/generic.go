package estimator

import "fmt"

// Generic is a schemaless estimator: a named bag of parameters with a
// search-space carrier. It stands in for components that live outside this
// process (declarative grid files, handoff payloads) and as a lightweight
// test double.
type Generic struct {
	SearchSpace
	name   string
	params Params
}

// NewGeneric returns a Generic with the given component name and initial
// parameters. The map is copied.
func NewGeneric(name string, params Params) *Generic {
	return &Generic{name: name, params: params.Clone()}
}

// EstimatorName implements TypeNamer.
func (g *Generic) EstimatorName() string { return g.name }

// Params implements Estimator.
func (g *Generic) Params() Params {
	if g.params == nil {
		return Params{}
	}
	return g.params.Clone()
}

// Param returns a single parameter value.
func (g *Generic) Param(name string) (any, bool) {
	v, ok := g.params[name]
	return v, ok
}

// SetParams implements ParamSetter. Undotted names are assigned freely (the
// bag has no schema); dotted paths are routed into the named sub-component,
// which must already be present and support parameter assignment.
func (g *Generic) SetParams(params Params) error {
	direct, nested := GroupByHead(params)
	if g.params == nil && (len(direct) > 0 || len(nested) > 0) {
		g.params = make(Params)
	}
	for k, v := range direct {
		g.params[k] = v
	}
	for head, sub := range nested {
		child, ok := AsEstimator(g.params[head])
		if !ok {
			return fmt.Errorf("%w: %s (no sub-component %q on %s)", ErrUnknownParam, JoinPath(head, firstKey(sub)), head, g.name)
		}
		setter, ok := child.(ParamSetter)
		if !ok {
			return fmt.Errorf("sub-component %q of %s does not implement ParamSetter", head, g.name)
		}
		if err := setter.SetParams(sub); err != nil {
			return fmt.Errorf("%s: %w", head, err)
		}
	}
	return nil
}

// CloneEstimator implements Cloner. Parameter values that are cloneable
// estimators are cloned; other values are shared by reference.
func (g *Generic) CloneEstimator() Estimator {
	out := &Generic{name: g.name, params: make(Params, len(g.params))}
	for k, v := range g.params {
		if child, ok := AsEstimator(v); ok {
			if c, ok := child.(Cloner); ok {
				out.params[k] = c.CloneEstimator()
				continue
			}
		}
		out.params[k] = v
	}
	return out
}

func firstKey(p Params) string {
	for k := range p {
		return k
	}
	return ""
}
