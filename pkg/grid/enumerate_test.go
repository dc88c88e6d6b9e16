package grid_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/grid"
)

func TestSize(t *testing.T) {
	assert.Equal(t, 1, grid.Size(nil), "no grid still fits defaults once")
	assert.Equal(t, 1, grid.Size([]estimator.Grid{{}}))
	assert.Equal(t, 4, grid.Size([]estimator.Grid{{"a": {1, 2}, "b": {"x", "y"}}}))
	assert.Equal(t, 3, grid.Size([]estimator.Grid{{"a": {1}}, {"b": {2, 3}}}))
	assert.Equal(t, 10, grid.Size([]estimator.Grid{
		{"clf": {1}, "clf.kernel": {"linear"}, "sel.k": {2, 3}},
		{"clf": {1}, "clf.kernel": {"poly"}, "clf.degree": {2, 3}, "sel.k": {2, 3}},
		{"clf": {1, 2}, "sel.k": {2, 3}},
	}))
}

func TestEnumerateOrder(t *testing.T) {
	got := grid.Enumerate([]estimator.Grid{{"a": {1, 2}, "b": {"x", "y"}}})
	want := []estimator.Params{
		{"a": 1, "b": "x"},
		{"a": 1, "b": "y"},
		{"a": 2, "b": "x"},
		{"a": 2, "b": "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateUnion(t *testing.T) {
	got := grid.Enumerate([]estimator.Grid{{"a": {1}}, {"b": {2, 3}}})
	want := []estimator.Params{{"a": 1}, {"b": 2}, {"b": 3}}
	require.Equal(t, want, got)
}

func TestEnumerateEmpty(t *testing.T) {
	got := grid.Enumerate(nil)
	require.Equal(t, []estimator.Params{{}}, got)

	got = grid.Enumerate([]estimator.Grid{{}})
	require.Equal(t, []estimator.Params{{}}, got)
}

func TestEnumerateMatchesSize(t *testing.T) {
	grids := []estimator.Grid{
		{"a": {1, 2, 3}, "b": {true, false}},
		{},
		{"c": {"p", "q"}},
	}
	assert.Len(t, grid.Enumerate(grids), grid.Size(grids))
}
