// Package gridfile reads search specifications from YAML documents and
// compiles them into prepared grid searches. A document names component
// types held in a registry, nests composites through steps, annotates any
// component with candidate grids, and optionally filters candidates with
// CEL constraint expressions.
package gridfile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reserved component type names. Everything else resolves through the
// registry.
const (
	TypePipeline = "pipeline"
	TypeUnion    = "union"
	TypeColumns  = "columns"
	TypeNone     = "none"
)

// CurrentVersion is the newest document format this package reads.
const CurrentVersion = 1

// Document is a complete search specification.
type Document struct {
	// Version is the document format version. Zero means current.
	Version   int       `yaml:"version,omitempty" mapstructure:"version"`
	Estimator Component `yaml:"estimator" mapstructure:"estimator"`

	// Constraints are CEL expressions over the candidate's parameter
	// assignment; a candidate is kept only when every expression is true.
	Constraints []string `yaml:"constraints,omitempty" mapstructure:"constraints"`

	Folds       int    `yaml:"folds,omitempty" mapstructure:"folds"`
	Scoring     string `yaml:"scoring,omitempty" mapstructure:"scoring"`
	Parallelism int    `yaml:"parallelism,omitempty" mapstructure:"parallelism"`
	Refit       *bool  `yaml:"refit,omitempty" mapstructure:"refit"`
}

// Component describes one estimator: a registered leaf type with parameters,
// or a composite built from steps. Grid entries annotate the component with
// candidate values; a candidate may itself be a component given as a map
// with a type key.
type Component struct {
	Type     string             `yaml:"type" mapstructure:"type"`
	Params   map[string]any     `yaml:"params,omitempty" mapstructure:"params"`
	Grid     map[string][]any   `yaml:"grid,omitempty" mapstructure:"grid"`
	Grids    []map[string][]any `yaml:"grids,omitempty" mapstructure:"grids"`
	Steps    []Step             `yaml:"steps,omitempty" mapstructure:"steps"`
	CacheDir string             `yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`
}

// Step is one slot of a composite: a single component, or alternatives to
// search over. An empty name derives the step name from the alternatives.
type Step struct {
	Component    `yaml:",inline" mapstructure:",squash"`
	Name         string      `yaml:"name,omitempty" mapstructure:"name"`
	Columns      []string    `yaml:"columns,omitempty" mapstructure:"columns"`
	Alternatives []Component `yaml:"alternatives,omitempty" mapstructure:"alternatives"`
}

// Parse reads a single YAML document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("gridfile: parsing document: %w", err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("gridfile: unsupported document version %d", doc.Version)
	}
	return &doc, nil
}

// Load reads and parses a document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gridfile: %w", err)
	}
	return Parse(data)
}
