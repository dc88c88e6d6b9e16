package searchgrid

import (
	"context"
	"io"
	"log/slog"

	"github.com/jnothman/searchgrid/pkg/gridfile"
	"github.com/jnothman/searchgrid/pkg/registry"
	"github.com/jnothman/searchgrid/pkg/search"
)

// Expander is the high-level entry point for declarative grid documents.
// It binds a component registry and a logger, and is shared by the CLI,
// the HTTP server and the tool server.
type Expander struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithRegistry sets the component registry documents compile against.
func WithRegistry(reg *registry.Registry) ExpanderOption {
	return func(e *Expander) {
		e.registry = reg
	}
}

// WithLogger sets a structured logger for the expander.
func WithLogger(logger *slog.Logger) ExpanderOption {
	return func(e *Expander) {
		e.logger = logger
	}
}

// NewExpander creates an Expander. Without options it compiles against the
// default registry and logs nowhere.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{}

	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = registry.Default
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return e
}

// Registry returns the component registry documents compile against.
func (e *Expander) Registry() *registry.Registry {
	return e.registry
}

// Expansion is the rendered result of expanding a grid document.
type Expansion struct {
	Name    string             `json:"name,omitempty"`
	Size    int                `json:"size"`
	Folds   int                `json:"folds"`
	Scoring string             `json:"scoring,omitempty"`
	Grids   []map[string][]any `json:"grids"`
}

// Search parses and compiles a grid document into a prepared search.
func (e *Expander) Search(ctx context.Context, doc []byte) (*search.GridSearch, error) {
	_, gs, err := e.compile(ctx, doc)
	return gs, err
}

// Expand parses and compiles a grid document, then flattens it into
// fully-qualified parameter grids with a candidate count.
func (e *Expander) Expand(ctx context.Context, doc []byte) (*Expansion, error) {
	_, gs, err := e.compile(ctx, doc)
	if err != nil {
		return nil, err
	}

	exp := &Expansion{
		Size:    gs.Size(),
		Folds:   gs.Folds(),
		Scoring: gs.Scoring(),
		Grids:   search.RenderGrids(gs.Grids()),
	}
	e.logger.InfoContext(ctx, "expanded grid document", "grids", len(exp.Grids), "size", exp.Size)
	return exp, nil
}

// Validate parses and compiles a grid document without producing output,
// returning the parsed document for inspection.
func (e *Expander) Validate(ctx context.Context, doc []byte) (*gridfile.Document, error) {
	d, _, err := e.compile(ctx, doc)
	return d, err
}

func (e *Expander) compile(ctx context.Context, doc []byte) (*gridfile.Document, *search.GridSearch, error) {
	d, err := gridfile.Parse(doc)
	if err != nil {
		e.logger.WarnContext(ctx, "grid document rejected", "error", err)
		return nil, nil, err
	}

	gs, err := d.Compile(e.registry)
	if err != nil {
		e.logger.WarnContext(ctx, "grid document failed to compile", "error", err)
		return nil, nil, err
	}

	return d, gs, nil
}
