package compose

import (
	"fmt"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// ColumnStep is a named slot that applies its component to a fixed set of
// input columns.
type ColumnStep struct {
	Name      string
	Estimator estimator.Estimator
	Columns   []string
}

// ColumnStack applies named steps to disjoint column subsets and
// concatenates their outputs. Columns are bound to the slot, not to the
// component: a search may swap the component while the columns stay put.
type ColumnStack struct {
	estimator.SearchSpace
	steps []ColumnStep
}

// NewColumnStack builds a column stack from explicitly named steps.
func NewColumnStack(steps []ColumnStep) (*ColumnStack, error) {
	named := make([]Step, len(steps))
	for i, s := range steps {
		named[i] = Step{Name: s.Name, Estimator: s.Estimator}
	}
	if err := validateSteps(named); err != nil {
		return nil, err
	}
	c := &ColumnStack{steps: make([]ColumnStep, len(steps))}
	for i, s := range steps {
		cols := make([]string, len(s.Columns))
		copy(cols, s.Columns)
		c.steps[i] = ColumnStep{Name: s.Name, Estimator: s.Estimator, Columns: cols}
	}
	return c, nil
}

// Steps returns the stack's steps in order.
func (c *ColumnStack) Steps() []ColumnStep {
	out := make([]ColumnStep, len(c.steps))
	copy(out, c.steps)
	return out
}

// Step returns the named step's component and columns.
func (c *ColumnStack) Step(name string) (estimator.Estimator, []string, bool) {
	for _, s := range c.steps {
		if s.Name == name {
			return s.Estimator, s.Columns, true
		}
	}
	return nil, nil, false
}

// Params implements estimator.Estimator: the component per slot. Column
// bindings are structure, not searchable parameters.
func (c *ColumnStack) Params() estimator.Params {
	params := make(estimator.Params, len(c.steps))
	for _, s := range c.steps {
		params[s.Name] = s.Estimator
	}
	return params
}

// SetParams implements estimator.ParamSetter. An estimator value replaces
// the slot's component and keeps its columns; a ColumnAlt value replaces
// column binding and component together.
func (c *ColumnStack) SetParams(params estimator.Params) error {
	direct, nested := estimator.GroupByHead(params)
	for name, v := range direct {
		if err := c.replace(name, v); err != nil {
			return err
		}
	}
	named := make([]Step, len(c.steps))
	for i, s := range c.steps {
		named[i] = Step{Name: s.Name, Estimator: s.Estimator}
	}
	return routeNested(named, nested)
}

func (c *ColumnStack) replace(name string, v any) error {
	for i := range c.steps {
		if c.steps[i].Name != name {
			continue
		}
		switch alt := v.(type) {
		case nil:
			c.steps[i].Estimator = nil
		case ColumnAlt:
			est := alt.Estimator
			if estimator.IsNil(est) {
				est = nil
			}
			cols := make([]string, len(alt.Columns))
			copy(cols, alt.Columns)
			c.steps[i].Estimator = est
			c.steps[i].Columns = cols
		case estimator.Estimator:
			if estimator.IsNil(alt) {
				alt = nil
			}
			c.steps[i].Estimator = alt
		default:
			return fmt.Errorf("step %s: expected estimator, ColumnAlt or nil, got %T", name, v)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", estimator.ErrUnknownParam, name)
}

// CloneEstimator implements estimator.Cloner.
func (c *ColumnStack) CloneEstimator() estimator.Estimator {
	out := &ColumnStack{steps: make([]ColumnStep, len(c.steps))}
	for i, s := range c.steps {
		cols := make([]string, len(s.Columns))
		copy(cols, s.Columns)
		out.steps[i] = ColumnStep{Name: s.Name, Estimator: cloneOrShare(s.Estimator), Columns: cols}
	}
	return out
}
