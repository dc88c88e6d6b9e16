package gridfile

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/search"
)

var (
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// constraintEnv returns the shared CEL environment. Constraint expressions
// see a single variable, params: the candidate's parameter assignment keyed
// by dotted path.
func constraintEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("params", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// CompileConstraint compiles one CEL expression into a candidate filter.
// The expression must evaluate to a boolean. Indexing a key that a
// candidate does not carry fails the evaluation, so expressions over keys
// that only some grids mention should guard with `"sel.k" in params`.
func CompileConstraint(expr string) (search.Constraint, error) {
	env, err := constraintEnv()
	if err != nil {
		return nil, fmt.Errorf("constraint environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling constraint %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("constraint program %q: %w", expr, err)
	}
	return func(params estimator.Params) (bool, error) {
		out, _, err := prg.Eval(map[string]any{"params": map[string]any(params)})
		if err != nil {
			return false, fmt.Errorf("evaluating constraint %q: %w", expr, err)
		}
		result, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("constraint %q must return a boolean, got %T", expr, out.Value())
		}
		return result, nil
	}, nil
}

// CompileConstraints compiles several expressions into one filter that
// keeps a candidate only when every expression accepts it.
func CompileConstraints(exprs []string) (search.Constraint, error) {
	filters := make([]search.Constraint, 0, len(exprs))
	for _, expr := range exprs {
		f, err := CompileConstraint(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return func(params estimator.Params) (bool, error) {
		for _, f := range filters {
			ok, err := f(params)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}, nil
}
