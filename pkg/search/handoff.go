package search

import (
	"encoding/json"
	"math"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// RenderGrids converts flattened grids into a JSON-friendly form. Estimator
// candidates become {"type": ..., "params": ...} objects, nil candidates
// become JSON null, plain values pass through unchanged.
func RenderGrids(grids []estimator.Grid) []map[string][]any {
	out := make([]map[string][]any, len(grids))
	for i, g := range grids {
		rendered := make(map[string][]any, len(g))
		for key, values := range g {
			rv := make([]any, len(values))
			for j, v := range values {
				rv[j] = renderValue(v)
			}
			rendered[key] = rv
		}
		out[i] = rendered
	}
	return out
}

func renderValue(v any) any {
	est, ok := estimator.AsEstimator(v)
	if !ok {
		return v
	}
	if estimator.IsNil(est) {
		return nil
	}
	params := est.Params()
	rendered := make(map[string]any, len(params))
	for name, value := range params {
		rendered[name] = renderValue(value)
	}
	return map[string]any{
		"type":   estimator.NameFor(est),
		"params": rendered,
	}
}

// handoff is the wire form of a GridSearch.
type handoff struct {
	Grids       []map[string][]any `json:"grids"`
	Size        int                `json:"size"`
	Folds       int                `json:"folds"`
	Scoring     string             `json:"scoring,omitempty"`
	Parallelism int                `json:"parallelism"`
	Refit       bool               `json:"refit"`
	ErrorScore  any                `json:"error_score"`
}

// MarshalJSON renders the search as a handoff document for an out-of-process
// driver. An unset error score serializes as "raise": failed fits abort the
// search unless a numeric fallback was configured.
func (gs *GridSearch) MarshalJSON() ([]byte, error) {
	var errorScore any = "raise"
	if !math.IsNaN(gs.errorScore) {
		errorScore = gs.errorScore
	}
	return json.Marshal(handoff{
		Grids:       RenderGrids(gs.grids),
		Size:        gs.Size(),
		Folds:       gs.folds,
		Scoring:     gs.scoring,
		Parallelism: gs.parallelism,
		Refit:       gs.refit,
		ErrorScore:  errorScore,
	})
}
