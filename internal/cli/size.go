package cli

import (
	"context"
	"fmt"
	"io"
)

// SizeOptions contains all the configuration for the size command.
type SizeOptions struct {
	Path  string
	Debug bool
	Out   io.Writer
}

// RunSize prints the number of candidate settings a grid document expands
// to, without materializing them.
func RunSize(ctx context.Context, opts SizeOptions) error {
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

	fmt.Fprintln(out, gs.Size())
	return nil
}
