// Package values provides constructors for candidate value lists used in
// parameter grids. Grids hold candidates as []any so that heterogeneous
// alternatives (numbers, strings, estimators, nil) can share a slot; these
// helpers build the common numeric shapes without hand-written loops.
package values

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

// Of boxes a typed list of candidates into the []any form grids expect.
func Of[T any](vals ...T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

// Ints returns the inclusive integer range from..to as candidates.
// An empty slice is returned when from > to.
func Ints[T constraints.Integer](from, to T) []any {
	if from > to {
		return []any{}
	}
	out := make([]any, 0, int(to-from)+1)
	for v := from; ; v++ {
		out = append(out, v)
		if v == to {
			break
		}
	}
	return out
}

// Bools returns the two boolean candidates.
func Bools() []any {
	return []any{true, false}
}

// Linspace returns n evenly spaced candidates from..to inclusive.
// It panics when n < 1.
func Linspace(from, to float64, n int) []any {
	if n < 1 {
		panic(fmt.Sprintf("values: Linspace needs n >= 1, got %d", n))
	}
	if n == 1 {
		return []any{from}
	}
	return Of(floats.Span(make([]float64, n), from, to)...)
}

// Logspace returns n geometrically spaced candidates from..to inclusive.
// Both bounds must be positive. It panics when n < 1 or a bound is not
// positive.
func Logspace(from, to float64, n int) []any {
	if n < 1 {
		panic(fmt.Sprintf("values: Logspace needs n >= 1, got %d", n))
	}
	if from <= 0 || to <= 0 {
		panic(fmt.Sprintf("values: Logspace needs positive bounds, got %g..%g", from, to))
	}
	if n == 1 {
		return []any{from}
	}
	return Of(floats.LogSpan(make([]float64, n), from, to)...)
}
