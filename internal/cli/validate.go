package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jnothman/searchgrid"
)

// ValidateOptions contains all the configuration for the validate command.
type ValidateOptions struct {
	Path  string
	Watch bool // re-validate whenever the document changes on disk
	Debug bool
	Out   io.Writer
}

// RunValidate checks that a grid document parses and compiles against the
// component registry. With Watch it keeps running and re-validates on
// every file change.
func RunValidate(ctx context.Context, opts ValidateOptions) error {
	if opts.Watch {
		return RunWatch(ctx, opts)
	}

	logger := createLogger(opts.Debug)
	expander := newExpander(logger)
	return validateOnce(ctx, expander, opts.Path, orStdout(opts.Out))
}

func validateOnce(ctx context.Context, expander *searchgrid.Expander, path string, out io.Writer) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}

	doc, err := expander.Validate(ctx, data)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "Document is valid! ✅ (root: %s)\n", doc.Estimator.Type)
	return nil
}
