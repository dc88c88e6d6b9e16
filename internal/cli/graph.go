package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jnothman/searchgrid/internal/presentation/graph"
)

// GraphOptions contains all the configuration for the graph command.
type GraphOptions struct {
	Path  string
	Debug bool
	Out   io.Writer
}

// RunGraph compiles a grid document and renders the estimator tree as a
// Mermaid diagram.
func RunGraph(ctx context.Context, opts GraphOptions) error {
	logger := createLogger(opts.Debug)
	out := orStdout(opts.Out)

	data, err := readDocument(opts.Path)
	if err != nil {
		return err
	}

	expander := newExpander(logger)
	gs, err := expander.Search(ctx, data)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", displayName(opts.Path), err)
	}

	fmt.Fprint(out, graph.GenerateMermaid(gs.Estimator()))
	return nil
}
