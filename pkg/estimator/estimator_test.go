package estimator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnothman/searchgrid/pkg/components"
	"github.com/jnothman/searchgrid/pkg/estimator"
)

// bare implements Estimator but not GridCarrier.
type bare struct{}

func (bare) Params() estimator.Params { return estimator.Params{} }

func TestSetGrid(t *testing.T) {
	clf := &components.Classifier{}

	err := estimator.SetGrid(clf, estimator.Grid{"c": {1.0, 10.0}})
	require.NoError(t, err)
	require.Len(t, estimator.GridOf(clf), 1)
	assert.Equal(t, []any{1.0, 10.0}, estimator.GridOf(clf)[0]["c"])

	// A later call replaces the whole annotation.
	err = estimator.SetGrid(clf, estimator.Grid{"kernel": {"linear"}})
	require.NoError(t, err)
	require.Len(t, estimator.GridOf(clf), 1)
	assert.NotContains(t, estimator.GridOf(clf)[0], "c")

	// No grids clears it.
	require.NoError(t, estimator.SetGrid(clf))
	assert.Nil(t, estimator.GridOf(clf))
}

func TestSetGridUnion(t *testing.T) {
	clf := &components.Classifier{}
	err := estimator.SetGrid(clf,
		estimator.Grid{"kernel": {"linear"}, "c": {1.0, 10.0}},
		estimator.Grid{"kernel": {"poly"}, "degree": {2, 3}},
	)
	require.NoError(t, err)
	assert.Len(t, estimator.GridOf(clf), 2)
}

func TestSetGridNoCarrier(t *testing.T) {
	err := estimator.SetGrid(bare{}, estimator.Grid{"x": {1}})
	require.ErrorIs(t, err, estimator.ErrNoGridSupport)

	assert.Panics(t, func() {
		estimator.With(bare{}, estimator.Grid{"x": {1}})
	})
}

func TestWithChains(t *testing.T) {
	est := estimator.With(&components.KBest{}, estimator.Grid{"k": {2, 3}})
	sel, ok := est.(*components.KBest)
	require.True(t, ok)
	assert.Len(t, estimator.GridOf(sel), 1)
}

func TestGridOfNonCarrier(t *testing.T) {
	assert.Nil(t, estimator.GridOf(bare{}))
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "clf.degree", estimator.JoinPath("clf", "degree"))
	assert.Equal(t, []string{"a", "b", "c"}, estimator.SplitPath("a.b.c"))

	head, rest := estimator.SplitHead("clf.kernel.width")
	assert.Equal(t, "clf", head)
	assert.Equal(t, "kernel.width", rest)

	head, rest = estimator.SplitHead("clf")
	assert.Equal(t, "clf", head)
	assert.Equal(t, "", rest)
}

func TestGroupByHead(t *testing.T) {
	direct, nested := estimator.GroupByHead(estimator.Params{
		"clf":        "replacement",
		"clf.degree": 2,
		"clf.c":      1.0,
		"sel.k":      3,
	})
	assert.Equal(t, estimator.Params{"clf": "replacement"}, direct)
	require.Contains(t, nested, "clf")
	assert.Equal(t, estimator.Params{"degree": 2, "c": 1.0}, nested["clf"])
	assert.Equal(t, estimator.Params{"k": 3}, nested["sel"])
}

func TestNameFor(t *testing.T) {
	assert.Equal(t, "none", estimator.NameFor(nil))
	assert.Equal(t, "none", estimator.NameFor((*components.KBest)(nil)))
	assert.Equal(t, "kbest", estimator.NameFor(&components.KBest{}))
	assert.Equal(t, "classifier", estimator.NameFor(&components.Classifier{}))
	assert.Equal(t, "svc", estimator.NameFor(estimator.NewGeneric("svc", nil)))
}

func TestIsNil(t *testing.T) {
	assert.True(t, estimator.IsNil(nil))
	assert.True(t, estimator.IsNil((*components.KBest)(nil)))
	assert.False(t, estimator.IsNil(&components.KBest{}))
}

func TestClone(t *testing.T) {
	clf := &components.Classifier{Kernel: "rbf", C: 2.0}
	require.NoError(t, estimator.SetGrid(clf, estimator.Grid{"c": {1.0, 2.0}}))

	out, err := estimator.Clone(clf)
	require.NoError(t, err)
	cp, ok := out.(*components.Classifier)
	require.True(t, ok)
	require.NotSame(t, clf, cp)
	assert.Equal(t, "rbf", cp.Kernel)
	assert.Equal(t, 2.0, cp.C)

	// Annotations do not survive cloning.
	assert.Nil(t, estimator.GridOf(cp))

	nilOut, err := estimator.Clone(nil)
	require.NoError(t, err)
	assert.Nil(t, nilOut)

	_, err = estimator.Clone(bare{})
	require.ErrorIs(t, err, estimator.ErrNotCloneable)
}

func TestApply(t *testing.T) {
	clf := &components.Classifier{Kernel: "rbf"}
	out, err := estimator.Apply(clf, estimator.Params{"kernel": "poly", "degree": 3})
	require.NoError(t, err)
	applied := out.(*components.Classifier)
	assert.Equal(t, "poly", applied.Kernel)
	assert.Equal(t, 3, applied.Degree)
	// The template is untouched.
	assert.Equal(t, "rbf", clf.Kernel)
}

func TestGenericSetParams(t *testing.T) {
	g := estimator.NewGeneric("svc", estimator.Params{"c": 1.0})

	require.NoError(t, g.SetParams(estimator.Params{"c": 10.0, "kernel": "rbf"}))
	v, ok := g.Param("c")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
	v, _ = g.Param("kernel")
	assert.Equal(t, "rbf", v)
}

func TestGenericRouting(t *testing.T) {
	inner := estimator.NewGeneric("kernel", estimator.Params{"width": 1.0})
	g := estimator.NewGeneric("svc", estimator.Params{"kern": inner})

	require.NoError(t, g.SetParams(estimator.Params{"kern.width": 2.5}))
	v, _ := inner.Param("width")
	assert.Equal(t, 2.5, v)

	err := g.SetParams(estimator.Params{"missing.width": 1.0})
	require.ErrorIs(t, err, estimator.ErrUnknownParam)
}

func TestGenericClone(t *testing.T) {
	inner := estimator.NewGeneric("kernel", estimator.Params{"width": 1.0})
	g := estimator.NewGeneric("svc", estimator.Params{"kern": inner, "c": 1.0})

	out := g.CloneEstimator().(*estimator.Generic)
	require.NoError(t, out.SetParams(estimator.Params{"kern.width": 9.0}))

	// The original's sub-component is untouched: clones are deep.
	v, _ := inner.Param("width")
	assert.Equal(t, 1.0, v)
}
