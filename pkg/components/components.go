// Package components provides small reference estimators: feature selectors
// and model stand-ins that hold configuration but do no learning. They back
// the examples, the command-line tools and the test suites, and they show
// what a component implementation looks like.
package components

import (
	"fmt"

	"github.com/jnothman/searchgrid/pkg/estimator"
	"github.com/jnothman/searchgrid/pkg/registry"
)

// KBest selects the K highest-scoring features.
type KBest struct {
	estimator.SearchSpace
	K int `mapstructure:"k"`
}

func (e *KBest) Params() estimator.Params {
	return estimator.Params{"k": e.K}
}

func (e *KBest) SetParams(params estimator.Params) error {
	for name, v := range params {
		switch name {
		case "k":
			k, err := asInt(v)
			if err != nil {
				return fmt.Errorf("k: %w", err)
			}
			e.K = k
		default:
			return fmt.Errorf("%w: %s on KBest", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *KBest) CloneEstimator() estimator.Estimator {
	return &KBest{K: e.K}
}

// Percentile selects the top fraction of features.
type Percentile struct {
	estimator.SearchSpace
	Pct float64 `mapstructure:"pct"`
}

func (e *Percentile) Params() estimator.Params {
	return estimator.Params{"pct": e.Pct}
}

func (e *Percentile) SetParams(params estimator.Params) error {
	for name, v := range params {
		switch name {
		case "pct":
			f, err := asFloat(v)
			if err != nil {
				return fmt.Errorf("pct: %w", err)
			}
			e.Pct = f
		default:
			return fmt.Errorf("%w: %s on Percentile", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *Percentile) CloneEstimator() estimator.Estimator {
	return &Percentile{Pct: e.Pct}
}

// Scaler standardizes features before a downstream model.
type Scaler struct {
	estimator.SearchSpace
	WithMean bool `mapstructure:"with_mean"`
	WithStd  bool `mapstructure:"with_std"`
}

func (e *Scaler) Params() estimator.Params {
	return estimator.Params{"with_mean": e.WithMean, "with_std": e.WithStd}
}

func (e *Scaler) SetParams(params estimator.Params) error {
	for name, v := range params {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%s: expected bool, got %T", name, v)
		}
		switch name {
		case "with_mean":
			e.WithMean = b
		case "with_std":
			e.WithStd = b
		default:
			return fmt.Errorf("%w: %s on Scaler", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *Scaler) CloneEstimator() estimator.Estimator {
	return &Scaler{WithMean: e.WithMean, WithStd: e.WithStd}
}

// Classifier is a kernel-machine stand-in with the parameters the flattening
// tests care about.
type Classifier struct {
	estimator.SearchSpace
	Kernel string  `mapstructure:"kernel"`
	Degree int     `mapstructure:"degree"`
	C      float64 `mapstructure:"c"`
	Gamma  float64 `mapstructure:"gamma"`
}

func (e *Classifier) Params() estimator.Params {
	return estimator.Params{
		"kernel": e.Kernel,
		"degree": e.Degree,
		"c":      e.C,
		"gamma":  e.Gamma,
	}
}

func (e *Classifier) SetParams(params estimator.Params) error {
	for name, v := range params {
		switch name {
		case "kernel":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("kernel: expected string, got %T", v)
			}
			e.Kernel = s
		case "degree":
			d, err := asInt(v)
			if err != nil {
				return fmt.Errorf("degree: %w", err)
			}
			e.Degree = d
		case "c":
			f, err := asFloat(v)
			if err != nil {
				return fmt.Errorf("c: %w", err)
			}
			e.C = f
		case "gamma":
			f, err := asFloat(v)
			if err != nil {
				return fmt.Errorf("gamma: %w", err)
			}
			e.Gamma = f
		default:
			return fmt.Errorf("%w: %s on Classifier", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *Classifier) CloneEstimator() estimator.Estimator {
	return &Classifier{Kernel: e.Kernel, Degree: e.Degree, C: e.C, Gamma: e.Gamma}
}

// Linear is a regularized linear-model stand-in.
type Linear struct {
	estimator.SearchSpace
	C float64 `mapstructure:"c"`
}

func (e *Linear) Params() estimator.Params {
	return estimator.Params{"c": e.C}
}

func (e *Linear) SetParams(params estimator.Params) error {
	for name, v := range params {
		switch name {
		case "c":
			f, err := asFloat(v)
			if err != nil {
				return fmt.Errorf("c: %w", err)
			}
			e.C = f
		default:
			return fmt.Errorf("%w: %s on Linear", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *Linear) CloneEstimator() estimator.Estimator {
	return &Linear{C: e.C}
}

// SGD is a gradient-descent stand-in.
type SGD struct {
	estimator.SearchSpace
	Alpha float64 `mapstructure:"alpha"`
}

func (e *SGD) Params() estimator.Params {
	return estimator.Params{"alpha": e.Alpha}
}

func (e *SGD) SetParams(params estimator.Params) error {
	for name, v := range params {
		switch name {
		case "alpha":
			f, err := asFloat(v)
			if err != nil {
				return fmt.Errorf("alpha: %w", err)
			}
			e.Alpha = f
		default:
			return fmt.Errorf("%w: %s on SGD", estimator.ErrUnknownParam, name)
		}
	}
	return nil
}

func (e *SGD) CloneEstimator() estimator.Estimator {
	return &SGD{Alpha: e.Alpha}
}

// Register adds every reference component to reg under its conventional
// type name, each with its usual defaults.
func Register(reg *registry.Registry) {
	reg.Register("kbest", registry.Struct(func() estimator.Estimator { return &KBest{K: 10} }))
	reg.Register("percentile", registry.Struct(func() estimator.Estimator { return &Percentile{Pct: 10} }))
	reg.Register("scaler", registry.Struct(func() estimator.Estimator { return &Scaler{WithMean: true, WithStd: true} }))
	reg.Register("classifier", registry.Struct(func() estimator.Estimator { return &Classifier{Kernel: "rbf", Degree: 3, C: 1} }))
	reg.Register("linear", registry.Struct(func() estimator.Estimator { return &Linear{C: 1} }))
	reg.Register("sgd", registry.Struct(func() estimator.Estimator { return &SGD{Alpha: 1e-4} }))
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int64(n)) {
			return int(n), nil
		}
		return 0, fmt.Errorf("expected int, got float %v", n)
	default:
		return 0, fmt.Errorf("expected int, got %T", v)
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected float, got %T", v)
	}
}
