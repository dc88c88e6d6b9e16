// Package registry maps component type names to constructors. Grid
// specifications loaded from documents name their components by type, and a
// registry turns those names back into estimator instances.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/jnothman/searchgrid/pkg/estimator"
)

// Builder constructs a component configured with the given parameters.
type Builder func(params estimator.Params) (estimator.Estimator, error)

// Registry manages the available component builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register adds a builder to the registry.
// If a builder with the same name exists, it is overwritten.
func (r *Registry) Register(name string, build Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = build
}

// Build looks up a component type by name and constructs it.
// Returns an error if the type is not registered.
func (r *Registry) Build(name string, params estimator.Params) (estimator.Estimator, error) {
	r.mu.RLock()
	build, ok := r.builders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("component type not registered: %s", name)
	}
	est, err := build(params)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", name, err)
	}
	return est, nil
}

// Has reports whether a component type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered component type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Struct returns a Builder that fills a fresh instance from construct with
// the component's parameters. Values are decoded with weak typing so numbers
// read from YAML or JSON documents fit integer and float fields alike.
func Struct(construct func() estimator.Estimator) Builder {
	return func(params estimator.Params) (estimator.Estimator, error) {
		est := construct()
		if len(params) == 0 {
			return est, nil
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           est,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(map[string]any(params)); err != nil {
			return nil, fmt.Errorf("decoding parameters: %w", err)
		}
		return est, nil
	}
}

// Default is the registry used by the package-level functions.
var Default = New()

// Register adds a builder to the default registry.
func Register(name string, build Builder) {
	Default.Register(name, build)
}

// Build constructs a component from the default registry.
func Build(name string, params estimator.Params) (estimator.Estimator, error) {
	return Default.Build(name, params)
}
