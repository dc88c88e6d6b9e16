// Package grid flattens the search-space annotations of an estimator tree
// into fully-qualified parameter grids, and enumerates the candidate
// settings a grid describes.
//
// A flattened grid is a list of estimator.Grid values. The list is a union:
// a search driver tries every dict. Within a dict, keys multiply: every
// combination of candidate values is one setting. Keys are dotted paths
// rooted at the estimator that was flattened.
package grid

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// Build flattens est's annotations, and those of every component reachable
// from it, into a single list of grids over dotted parameter paths.
//
// The traversal is depth-first. For each shallow parameter holding a
// sub-component, the sub-component's flattened grid is merged in under its
// parameter name — except into annotation dicts that already search over
// that parameter, since each alternative listed there owns its sub-space.
// Candidate values that are annotated estimators expand to one dict per
// sub-space, in candidate order, followed by a single dict collecting the
// plain candidates. When merged keys collide, the more deeply derived entry
// wins.
//
// An estimator with nothing annotated anywhere flattens to an empty list:
// a driver given no grid fits defaults exactly once.
//
// Iteration is by sorted parameter name throughout, so equal trees flatten
// to equal lists, order included. A component reachable from itself is
// estimator.ErrCycle.
func Build(est estimator.Estimator) ([]estimator.Grid, error) {
	if estimator.IsNil(est) {
		return nil, nil
	}
	return build(est, make(map[any]struct{}))
}

func build(est estimator.Estimator, seen map[any]struct{}) ([]estimator.Grid, error) {
	if key, ok := identity(est); ok {
		if _, hit := seen[key]; hit {
			return nil, fmt.Errorf("%w: %T", estimator.ErrCycle, est)
		}
		seen[key] = struct{}{}
		defer delete(seen, key)
	}

	work, err := annotationOf(est)
	if err != nil {
		return nil, err
	}

	// Merge each direct sub-component's grid under its parameter name.
	params := est.Params()
	for _, name := range sortedKeys(params) {
		if _, rest := estimator.SplitHead(name); rest != "" {
			continue
		}
		child, ok := estimator.AsEstimator(params[name])
		if !ok {
			continue
		}
		sub, err := build(child, seen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(sub) == 0 {
			continue
		}
		sub = withPrefix(sub, name+estimator.Sep)
		next := make([]estimator.Grid, 0, len(work))
		for _, d := range work {
			if _, owned := d[name]; owned {
				// This dict searches over the component itself; the
				// alternatives carry their own grids.
				next = append(next, d)
				continue
			}
			next = append(next, product([]estimator.Grid{d}, sub)...)
		}
		work = next
	}

	// Expand candidate values that are annotated estimators.
	out := make([]estimator.Grid, 0, len(work))
	for _, d := range work {
		part := []estimator.Grid{d}
		for _, name := range sortedKeys(d) {
			values := d[name]
			if len(values) == 0 {
				return nil, fmt.Errorf("%s: %w", name, estimator.ErrEmptyCandidates)
			}
			var alts []estimator.Grid
			var plain []any
			for _, v := range values {
				if child, ok := estimator.AsEstimator(v); ok {
					sub, err := build(child, seen)
					if err != nil {
						return nil, fmt.Errorf("%s: %w", name, err)
					}
					if len(sub) > 0 {
						sub = withPrefix(sub, name+estimator.Sep)
						alts = append(alts, product([]estimator.Grid{{name: []any{v}}}, sub)...)
						continue
					}
				}
				plain = append(plain, v)
			}
			if len(plain) > 0 {
				alts = append(alts, estimator.Grid{name: plain})
			}
			part = product(part, alts)
		}
		out = append(out, part...)
	}

	if len(out) == 1 && len(out[0]) == 0 {
		return nil, nil
	}
	return out, nil
}

// annotationOf copies est's annotation as the working grid list, starting
// from a single empty dict when nothing is annotated.
func annotationOf(est estimator.Estimator) ([]estimator.Grid, error) {
	grids := estimator.GridOf(est)
	if len(grids) == 0 {
		return []estimator.Grid{{}}, nil
	}
	work := make([]estimator.Grid, len(grids))
	for i, g := range grids {
		for name, vs := range g {
			if len(vs) == 0 {
				return nil, fmt.Errorf("%s: %w", name, estimator.ErrEmptyCandidates)
			}
		}
		work[i] = g.Clone()
	}
	return work, nil
}

// product cross-multiplies two grid lists, merging each pair of dicts.
// Entries from src win on key collision. An empty src leaves dest as is.
func product(dest, src []estimator.Grid) []estimator.Grid {
	if len(src) == 0 {
		return dest
	}
	out := make([]estimator.Grid, 0, len(dest)*len(src))
	for _, d1 := range dest {
		for _, d2 := range src {
			m := make(estimator.Grid, len(d1)+len(d2))
			for k, v := range d1 {
				m[k] = v
			}
			for k, v := range d2 {
				m[k] = v
			}
			out = append(out, m)
		}
	}
	return out
}

// withPrefix rewrites every key of every dict under the given prefix.
func withPrefix(grids []estimator.Grid, prefix string) []estimator.Grid {
	out := make([]estimator.Grid, len(grids))
	for i, g := range grids {
		m := make(estimator.Grid, len(g))
		for k, v := range g {
			m[prefix+k] = v
		}
		out[i] = m
	}
	return out
}

// identity returns a cycle-tracking key for est. Only pointer-backed
// estimators are tracked: value types cannot contain themselves.
func identity(est estimator.Estimator) (any, bool) {
	if reflect.TypeOf(est).Kind() != reflect.Ptr {
		return nil, false
	}
	return est, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
