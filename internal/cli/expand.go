package cli

import (
	"context"
	"fmt"
	"io"
)

// ExpandOptions contains all the configuration for the expand command.
type ExpandOptions struct {
	Path   string // grid document path, or "-" for stdin
	Format string // auto, json, yaml or markdown
	Name   string // optional label echoed in the report
	Debug  bool
	Out    io.Writer
}

// RunExpand flattens a grid document into fully-qualified parameter grids
// and writes the report in the requested format.
func RunExpand(ctx context.Context, opts ExpandOptions) error {
	logger := createLogger(opts.Debug)
	out := orStdout(opts.Out)

	data, err := readDocument(opts.Path)
	if err != nil {
		return err
	}

	expander := newExpander(logger)
	exp, err := expander.Expand(ctx, data)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", displayName(opts.Path), err)
	}
	if opts.Name != "" {
		exp.Name = opts.Name
	}

	return writeExpansion(out, opts.Format, exp)
}
