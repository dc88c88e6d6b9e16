package estimator

import (
	"reflect"
	"strings"
)

// NilName is the base name used for nil components.
const NilName = "none"

// NameFor derives the base name of a component for step naming and
// registry lookup: the TypeNamer override if implemented, otherwise the
// lowercased Go type name. Nil components are named NilName.
func NameFor(v any) string {
	if v == nil {
		return NilName
	}
	if est, ok := v.(Estimator); ok && IsNil(est) {
		return NilName
	}
	if n, ok := v.(TypeNamer); ok {
		if name := n.EstimatorName(); name != "" {
			return name
		}
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return "estimator"
	}
	return strings.ToLower(name)
}
