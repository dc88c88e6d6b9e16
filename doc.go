/*
Package searchgrid annotates the components of composite estimators with
hyperparameter search spaces and flattens those annotations into the
fully-qualified parameter grids a grid-search driver consumes.

Specifying a parameter grid next to the estimator it tunes keeps composite
models readable: each component declares its own candidates, including
alternative components for a whole step, and Build assembles the dotted
parameter paths ("sel.k", "clf.kernel") that address them from the root.

# Concept

An estimator is anything exposing its shallow parameters through Params.
Annotations attach to the estimator itself via Set (or the chaining form
With) and stay with it through composition. Build walks the tree, prefixes
each child's grid with its step name, and multiplies the annotation dicts
into a union of cross-product grids. NewGridSearch captures the flattened
grids together with fold count, scoring and parallelism settings in an
inert handoff object; nothing in this module ever fits or scores a model.

# Key Features

  - Declarative annotation: candidates live on the component they tune.
  - Alternative components: a grid entry whose candidates are estimators
    searches over the component choice and each choice's own sub-grid.
  - Deterministic output: sorted parameter names, stable candidate order.
  - Declarative documents: YAML grid files compile against a component
    registry into the same annotated estimators (pkg/gridfile).

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/jnothman/searchgrid"
		"github.com/jnothman/searchgrid/pkg/components"
		"github.com/jnothman/searchgrid/pkg/compose"
		"github.com/jnothman/searchgrid/pkg/values"
	)

	func main() {
		// Annotate each component with its candidates.
		sel := searchgrid.With(&components.KBest{K: 10},
			searchgrid.Grid{"k": values.Ints(5, 7)})
		clf := searchgrid.With(&components.Classifier{Kernel: "rbf"},
			searchgrid.Grid{"kernel": values.Of("linear", "rbf")})

		// Compose them; step names are derived from the component types.
		pipe, err := compose.MakePipeline([]compose.StepSpec{
			compose.Est(sel),
			compose.Est(clf),
		})
		if err != nil {
			log.Fatal(err)
		}

		// Flatten into a search handoff for a driver.
		gs, err := searchgrid.NewGridSearch(pipe)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(gs.Size()) // 6 candidate settings

		candidates, _ := gs.Candidates()
		for _, params := range candidates {
			model, _ := gs.Apply(params)
			_ = model // hand the configured clone to the driver
		}
	}
*/
package searchgrid
