package grid_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnothman/searchgrid/pkg/components"
	"github.com/jnothman/searchgrid/pkg/compose"
	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/grid"
)

func pipeline(t *testing.T, steps ...compose.Step) *compose.Pipeline {
	t.Helper()
	p, err := compose.NewPipeline(steps)
	require.NoError(t, err)
	return p
}

func TestBuildBasic(t *testing.T) {
	cases := []struct {
		name string
		est  estimator.Estimator
		want []estimator.Grid
	}{
		{
			name: "single param",
			est:  estimator.With(&components.Classifier{}, estimator.Grid{"c": {1, 2}}),
			want: []estimator.Grid{{"c": {1, 2}}},
		},
		{
			name: "two params multiply in one dict",
			est: estimator.With(&components.Classifier{},
				estimator.Grid{"c": {1, 2}, "gamma": {1, 2}}),
			want: []estimator.Grid{{"c": {1, 2}, "gamma": {1, 2}}},
		},
		{
			name: "step params get the step prefix",
			est: pipeline(t, compose.Step{
				Name: "svc",
				Estimator: estimator.With(&components.Classifier{},
					estimator.Grid{"c": {1, 2}, "gamma": {1, 2}}),
			}),
			want: []estimator.Grid{{"svc.c": {1, 2}, "svc.gamma": {1, 2}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := grid.Build(tc.est)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("grid mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildNoAnnotations(t *testing.T) {
	got, err := grid.Build(&components.Classifier{})
	require.NoError(t, err)
	assert.Empty(t, got)

	pipe := pipeline(t,
		compose.Step{Name: "sel", Estimator: &components.KBest{}},
		compose.Step{Name: "clf", Estimator: &components.Linear{}},
	)
	got, err = grid.Build(pipe)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = grid.Build(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// Alternative components listed as candidate values expand to one dict per
// annotated alternative, in candidate order, with the plain candidates
// collected into a final dict.
func TestBuildAlternativeEstimators(t *testing.T) {
	clf1 := estimator.With(&components.Classifier{}, estimator.Grid{"kernel": {"linear"}})
	clf2 := &components.Linear{}
	clf3 := estimator.With(&components.Classifier{},
		estimator.Grid{"kernel": {"poly"}, "degree": {2, 3}})
	clf4 := &components.SGD{}

	pipe := pipeline(t,
		compose.Step{Name: "sel", Estimator: estimator.With(&components.KBest{}, estimator.Grid{"k": {2, 3}})},
		compose.Step{Name: "clf", Estimator: nil},
	)
	require.NoError(t, estimator.SetGrid(pipe, estimator.Grid{"clf": {clf1, clf2, clf3, clf4}}))

	got, err := grid.Build(pipe)
	require.NoError(t, err)

	want := []estimator.Grid{
		{"clf": {clf1}, "clf.kernel": {"linear"}, "sel.k": {2, 3}},
		{"clf": {clf3}, "clf.kernel": {"poly"}, "clf.degree": {2, 3}, "sel.k": {2, 3}},
		{"clf": {clf2, clf4}, "sel.k": {2, 3}},
	}
	require.Equal(t, want, got)
}

// A component that is both a placed step and one of several searched
// alternatives keeps its grid to itself: the rival alternatives must not
// inherit it.
func TestBuildStepGridNotShared(t *testing.T) {
	lin := estimator.With(&components.Linear{}, estimator.Grid{"c": {1.0, 2.0, 3.0}})
	svc := &components.Classifier{}

	pipe := pipeline(t, compose.Step{Name: "root", Estimator: lin})
	require.NoError(t, estimator.SetGrid(pipe, estimator.Grid{"root": {lin, svc}}))

	got, err := grid.Build(pipe)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []any{lin}, got[0]["root"])
	assert.Contains(t, got[0], "root.c")

	assert.Equal(t, []any{svc}, got[1]["root"])
	assert.NotContains(t, got[1], "root.c")
}

func TestBuildUnionAnnotation(t *testing.T) {
	clf := &components.Classifier{}
	require.NoError(t, estimator.SetGrid(clf,
		estimator.Grid{"kernel": {"linear"}, "c": {1.0, 10.0}},
		estimator.Grid{"kernel": {"poly"}, "degree": {2, 3}},
	))

	got, err := grid.Build(clf)
	require.NoError(t, err)

	want := []estimator.Grid{
		{"kernel": {"linear"}, "c": {1.0, 10.0}},
		{"kernel": {"poly"}, "degree": {2, 3}},
	}
	require.Equal(t, want, got)
}

func TestBuildNestedComposites(t *testing.T) {
	inner := pipeline(t, compose.Step{
		Name:      "sel",
		Estimator: estimator.With(&components.KBest{}, estimator.Grid{"k": {1, 2}}),
	})
	outer := pipeline(t,
		compose.Step{Name: "prep", Estimator: inner},
		compose.Step{Name: "clf", Estimator: estimator.With(&components.Linear{}, estimator.Grid{"c": {0.1, 1.0}})},
	)

	got, err := grid.Build(outer)
	require.NoError(t, err)

	want := []estimator.Grid{{
		"prep.sel.k": {1, 2},
		"clf.c":      {0.1, 1.0},
	}}
	require.Equal(t, want, got)
}

func TestBuildNilCandidate(t *testing.T) {
	svc := estimator.With(&components.Classifier{}, estimator.Grid{"c": {1.0, 2.0}})
	pipe := pipeline(t, compose.Step{Name: "clf", Estimator: nil})
	require.NoError(t, estimator.SetGrid(pipe, estimator.Grid{"clf": {nil, svc}}))

	got, err := grid.Build(pipe)
	require.NoError(t, err)

	want := []estimator.Grid{
		{"clf": {svc}, "clf.c": {1.0, 2.0}},
		{"clf": {nil}},
	}
	require.Equal(t, want, got)
}

func TestBuildCycle(t *testing.T) {
	g := estimator.NewGeneric("loop", nil)
	require.NoError(t, g.SetParams(estimator.Params{"child": g}))
	require.NoError(t, estimator.SetGrid(g, estimator.Grid{"x": {1}}))

	_, err := grid.Build(g)
	require.ErrorIs(t, err, estimator.ErrCycle)
}

func TestBuildEmptyCandidates(t *testing.T) {
	clf := estimator.With(&components.Classifier{}, estimator.Grid{"c": {}})
	_, err := grid.Build(clf)
	require.ErrorIs(t, err, estimator.ErrEmptyCandidates)
}

func TestBuildDeterministic(t *testing.T) {
	mk := func() estimator.Estimator {
		clf1 := estimator.With(&components.Classifier{}, estimator.Grid{"kernel": {"linear"}})
		clf2 := &components.Linear{}
		pipe := pipeline(t,
			compose.Step{Name: "sel", Estimator: estimator.With(&components.KBest{}, estimator.Grid{"k": {2, 3}})},
			compose.Step{Name: "clf", Estimator: nil},
		)
		require.NoError(t, estimator.SetGrid(pipe, estimator.Grid{"clf": {clf1, clf2}}))
		return pipe
	}

	first, err := grid.Build(mk())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := grid.Build(mk())
		require.NoError(t, err)
		// Same shape every run: list order and key sets are stable.
		require.Len(t, again, len(first))
		for j := range first {
			assert.ElementsMatch(t, keysOf(first[j]), keysOf(again[j]))
		}
	}
}

func keysOf(g estimator.Grid) []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	return keys
}
