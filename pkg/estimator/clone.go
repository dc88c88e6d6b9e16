package estimator

import (
	"fmt"
	"reflect"
)

// IsNil reports whether est is nil, including a typed nil inside the
// interface. Nil components stand for "skip this step" and are never
// introspected.
func IsNil(est Estimator) bool {
	if est == nil {
		return true
	}
	v := reflect.ValueOf(est)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// AsEstimator reports whether v is a usable estimator value. It is false
// for nil and typed-nil values.
func AsEstimator(v any) (Estimator, bool) {
	est, ok := v.(Estimator)
	if !ok || IsNil(est) {
		return nil, false
	}
	return est, true
}

// Clone returns an unfitted copy of est with the same configuration.
// Nil clones to nil. Estimators that do not implement Cloner cannot be
// copied and yield ErrNotCloneable.
func Clone(est Estimator) (Estimator, error) {
	if IsNil(est) {
		return nil, nil
	}
	c, ok := est.(Cloner)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotCloneable, est)
	}
	return c.CloneEstimator(), nil
}

// Apply clones est and assigns one concrete parameter setting to the copy.
// Component replacements and their nested parameters may appear in the same
// assignment; SetParams implementations apply replacements before routing
// into the replaced component.
func Apply(est Estimator, params Params) (Estimator, error) {
	out, err := Clone(est)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return out, nil
	}
	setter, ok := out.(ParamSetter)
	if !ok {
		return nil, fmt.Errorf("cannot assign parameters: %T does not implement ParamSetter", out)
	}
	if err := setter.SetParams(params); err != nil {
		return nil, err
	}
	return out, nil
}
