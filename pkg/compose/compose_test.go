package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnothman/searchgrid/pkg/components"
	"github.com/jnothman/searchgrid/pkg/compose"
	"github.com/jnothman/searchgrid/pkg/estimator"
)

func TestNewPipelineValidation(t *testing.T) {
	_, err := compose.NewPipeline(nil)
	assert.Error(t, err)

	_, err = compose.NewPipeline([]compose.Step{{Name: "", Estimator: &components.KBest{}}})
	assert.Error(t, err)

	_, err = compose.NewPipeline([]compose.Step{
		{Name: "sel", Estimator: &components.KBest{}},
		{Name: "sel", Estimator: &components.KBest{}},
	})
	assert.Error(t, err)

	_, err = compose.NewPipeline([]compose.Step{{Name: "a.b", Estimator: &components.KBest{}}})
	assert.Error(t, err)
}

func TestPipelineParams(t *testing.T) {
	sel := &components.KBest{K: 2}
	pipe, err := compose.NewPipeline([]compose.Step{
		{Name: "sel", Estimator: sel},
		{Name: "clf", Estimator: nil},
	})
	require.NoError(t, err)

	params := pipe.Params()
	assert.Same(t, sel, params["sel"])
	assert.Nil(t, params["clf"])
	assert.Equal(t, "", params["cache_dir"])
}

func TestPipelineSetParams(t *testing.T) {
	sel := &components.KBest{K: 2}
	pipe, err := compose.NewPipeline([]compose.Step{
		{Name: "sel", Estimator: sel},
		{Name: "clf", Estimator: nil},
	})
	require.NoError(t, err)

	clf := &components.Classifier{}
	// Replacement and nested assignment in one call: the replacement is
	// applied first.
	err = pipe.SetParams(estimator.Params{
		"clf":        clf,
		"clf.kernel": "poly",
		"sel.k":      3,
	})
	require.NoError(t, err)

	got, ok := pipe.Step("clf")
	require.True(t, ok)
	assert.Same(t, clf, got)
	assert.Equal(t, "poly", clf.Kernel)
	assert.Equal(t, 3, sel.K)

	// nil skips a step again.
	require.NoError(t, pipe.SetParams(estimator.Params{"clf": nil}))
	got, _ = pipe.Step("clf")
	assert.Nil(t, got)

	err = pipe.SetParams(estimator.Params{"missing": clf})
	assert.ErrorIs(t, err, estimator.ErrUnknownParam)

	err = pipe.SetParams(estimator.Params{"clf.kernel": "rbf"})
	assert.Error(t, err, "routing into a skipped step")
}

func TestPipelineClone(t *testing.T) {
	sel := &components.KBest{K: 2}
	pipe, err := compose.NewPipeline(
		[]compose.Step{{Name: "sel", Estimator: sel}},
		compose.WithCacheDir("/tmp/fits"),
	)
	require.NoError(t, err)
	require.NoError(t, estimator.SetGrid(pipe, estimator.Grid{"sel.k": {2, 3}}))

	out, err := estimator.Clone(pipe)
	require.NoError(t, err)
	cp := out.(*compose.Pipeline)

	assert.Equal(t, "/tmp/fits", cp.CacheDir())
	assert.Nil(t, estimator.GridOf(cp))

	clonedSel, _ := cp.Step("sel")
	require.NotSame(t, sel, clonedSel)
	require.NoError(t, cp.SetParams(estimator.Params{"sel.k": 9}))
	assert.Equal(t, 2, sel.K)
}

func assertSlots(t *testing.T, names []string, ests []estimator.Estimator, grids []estimator.Grid,
	t1, t2, t4, t6, t8 estimator.Estimator, slotAlts map[string][]any) {
	t.Helper()

	assert.Equal(t, []string{"kbest-1", "kbest-2", "alt-1", "kbest-3", "kbest-4", "alt-2", "none"}, names)

	require.Len(t, ests, 7)
	assert.Same(t, t1, ests[0])
	assert.Same(t, t2, ests[1])
	assert.Same(t, t4, ests[2])
	assert.Same(t, t6, ests[3])
	assert.Nil(t, ests[4])
	assert.Same(t, t8, ests[5])
	assert.Nil(t, ests[6])

	require.Len(t, grids, 1)
	require.Len(t, grids[0], 5)
	for name, want := range slotAlts {
		assert.Equal(t, want, grids[0][name], name)
	}
}

func TestMakePipeline(t *testing.T) {
	t1 := &components.KBest{}
	t2 := &components.KBest{}
	t3 := &components.KBest{}
	t4 := &components.KBest{}
	t5 := &components.Percentile{}
	t6 := &components.KBest{}
	t7 := &components.KBest{}
	t8 := &components.KBest{}
	t9 := &components.Percentile{}

	specs := []compose.StepSpec{
		compose.OneOf(t1, nil),
		compose.OneOf(t2, t3),
		compose.OneOf(t4, t5), // mixed
		compose.Est(t6),
		compose.OneOf(nil, t7),
		compose.OneOf(t8, nil, t9), // mixed
		compose.Est(nil),
	}

	pipe, err := compose.MakePipeline(specs, compose.WithCacheDir("/path/to/nowhere"))
	require.NoError(t, err)
	assert.Equal(t, "/path/to/nowhere", pipe.CacheDir())

	union, err := compose.MakeUnion(specs)
	require.NoError(t, err)

	slotAlts := map[string][]any{
		"kbest-1": {t1, nil},
		"kbest-2": {t2, t3},
		"alt-1":   {t4, t5},
		"kbest-4": {nil, t7},
		"alt-2":   {t8, nil, t9},
	}

	pipeSteps := pipe.Steps()
	names := make([]string, len(pipeSteps))
	ests := make([]estimator.Estimator, len(pipeSteps))
	for i, s := range pipeSteps {
		names[i], ests[i] = s.Name, s.Estimator
	}
	assertSlots(t, names, ests, estimator.GridOf(pipe), t1, t2, t4, t6, t8, slotAlts)

	unionSteps := union.Steps()
	names = make([]string, len(unionSteps))
	ests = make([]estimator.Estimator, len(unionSteps))
	for i, s := range unionSteps {
		names[i], ests[i] = s.Name, s.Estimator
	}
	assertSlots(t, names, ests, estimator.GridOf(union), t1, t2, t4, t6, t8, slotAlts)
}

func TestMakePipelineSingleSlots(t *testing.T) {
	sel := &components.KBest{}
	clf := &components.Classifier{}
	pipe, err := compose.MakePipeline([]compose.StepSpec{
		compose.Est(sel),
		compose.Est(clf),
	})
	require.NoError(t, err)

	steps := pipe.Steps()
	assert.Equal(t, "kbest", steps[0].Name)
	assert.Equal(t, "classifier", steps[1].Name)
	// No slot has alternatives, so nothing is annotated.
	assert.Nil(t, estimator.GridOf(pipe))
}

func TestMakePipelineNamedSlot(t *testing.T) {
	pipe, err := compose.MakePipeline([]compose.StepSpec{
		compose.Est(&components.KBest{}).Named("sel"),
		compose.OneOf(&components.Classifier{}, &components.Linear{}).Named("clf"),
	})
	require.NoError(t, err)

	steps := pipe.Steps()
	assert.Equal(t, "sel", steps[0].Name)
	assert.Equal(t, "clf", steps[1].Name)
	require.Len(t, estimator.GridOf(pipe), 1)
	assert.Contains(t, estimator.GridOf(pipe)[0], "clf")
}

func TestMakeColumnStack(t *testing.T) {
	t1 := compose.Cols(&components.KBest{}, "column1")
	t2 := compose.Cols(&components.KBest{}, "column2a", "column2b")
	t3 := compose.Cols(&components.KBest{}, "column3")
	t4 := compose.Cols(&components.KBest{}, "column4")
	t5 := compose.Cols(&components.Percentile{}, "column5")
	t6 := compose.Cols(&components.KBest{}, "column6a", "column6b")
	t7 := compose.Cols(&components.KBest{}, "column7")
	t8 := compose.Cols(&components.KBest{}, "column8")
	t9 := compose.Cols(&components.Percentile{}, "column9")

	stack, err := compose.MakeColumnStack([]compose.ColumnStepSpec{
		compose.ColStep(t1, compose.ColumnAlt{}),
		compose.ColStep(t2, t3),
		compose.ColStep(t4, t5), // mixed
		compose.ColStep(t6),
		compose.ColStep(compose.ColumnAlt{}, t7),
		compose.ColStep(t8, compose.ColumnAlt{}, t9), // mixed
		compose.ColStep(compose.ColumnAlt{}),
	})
	require.NoError(t, err)

	steps := stack.Steps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"kbest-1", "kbest-2", "alt-1", "kbest-3", "kbest-4", "alt-2", "none"}, names)

	assert.Same(t, t1.Estimator, steps[0].Estimator)
	assert.Equal(t, []string{"column1"}, steps[0].Columns)
	assert.Same(t, t6.Estimator, steps[3].Estimator)
	assert.Equal(t, []string{"column6a", "column6b"}, steps[3].Columns)
	assert.Nil(t, steps[4].Estimator)
	assert.Nil(t, steps[6].Estimator)

	grids := estimator.GridOf(stack)
	require.Len(t, grids, 1)
	require.Len(t, grids[0], 5)
	assert.Equal(t, []any{t1, nil}, grids[0]["kbest-1"])
	assert.Equal(t, []any{t2, t3}, grids[0]["kbest-2"])
	assert.Equal(t, []any{t4, t5}, grids[0]["alt-1"])
	assert.Equal(t, []any{nil, t7}, grids[0]["kbest-4"])
	assert.Equal(t, []any{t8, nil, t9}, grids[0]["alt-2"])
}

func TestColumnStackSetParams(t *testing.T) {
	sel := &components.KBest{K: 2}
	stack, err := compose.NewColumnStack([]compose.ColumnStep{
		{Name: "numeric", Estimator: sel, Columns: []string{"age", "height"}},
	})
	require.NoError(t, err)

	// Replacing with a bare estimator keeps the columns.
	repl := &components.Percentile{}
	require.NoError(t, stack.SetParams(estimator.Params{"numeric": repl}))
	est, cols, ok := stack.Step("numeric")
	require.True(t, ok)
	assert.Same(t, repl, est)
	assert.Equal(t, []string{"age", "height"}, cols)

	// Replacing with a ColumnAlt swaps columns and component together.
	alt := compose.Cols(&components.KBest{K: 5}, "weight")
	require.NoError(t, stack.SetParams(estimator.Params{"numeric": alt}))
	est, cols, _ = stack.Step("numeric")
	assert.Same(t, alt.Estimator, est)
	assert.Equal(t, []string{"weight"}, cols)

	// Nested routing reaches the current component.
	require.NoError(t, stack.SetParams(estimator.Params{"numeric.k": 7}))
	assert.Equal(t, 7, alt.Estimator.(*components.KBest).K)
}

func TestUnionSetParams(t *testing.T) {
	a := &components.KBest{K: 1}
	b := &components.Percentile{Pct: 0.5}
	union, err := compose.NewUnion([]compose.Step{
		{Name: "kbest", Estimator: a},
		{Name: "percentile", Estimator: b},
	})
	require.NoError(t, err)

	require.NoError(t, union.SetParams(estimator.Params{"kbest.k": 4, "percentile.pct": 0.9}))
	assert.Equal(t, 4, a.K)
	assert.Equal(t, 0.9, b.Pct)
}
