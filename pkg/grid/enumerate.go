package grid

import "github.com/jnothman/searchgrid/pkg/estimator"

// Size returns how many candidate settings the grids describe. An empty
// list sizes to 1: a driver with no grid still fits the defaults once.
func Size(grids []estimator.Grid) int {
	if len(grids) == 0 {
		return 1
	}
	total := 0
	for _, g := range grids {
		n := 1
		for _, vs := range g {
			n *= len(vs)
		}
		total += n
	}
	return total
}

// Enumerate lists every candidate setting, in deterministic order: grids in
// list order; within a grid, keys sorted, with the last key's candidates
// varying fastest. An empty grid list yields a single empty setting.
func Enumerate(grids []estimator.Grid) []estimator.Params {
	if len(grids) == 0 {
		return []estimator.Params{{}}
	}
	out := make([]estimator.Params, 0, Size(grids))
	for _, g := range grids {
		out = append(out, enumerateOne(g)...)
	}
	return out
}

func enumerateOne(g estimator.Grid) []estimator.Params {
	keys := sortedKeys(g)
	if len(keys) == 0 {
		return []estimator.Params{{}}
	}
	n := 1
	for _, k := range keys {
		if len(g[k]) == 0 {
			return nil
		}
		n *= len(g[k])
	}
	out := make([]estimator.Params, 0, n)
	idx := make([]int, len(keys))
	for {
		p := make(estimator.Params, len(keys))
		for i, k := range keys {
			p[k] = g[k][idx[i]]
		}
		out = append(out, p)

		// Advance the odometer, last key fastest.
		i := len(keys) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(g[keys[i]]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}
