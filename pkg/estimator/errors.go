package estimator

import "errors"

// ErrNoGridSupport is returned when annotating an estimator that does not
// carry a search space (does not implement GridCarrier).
var ErrNoGridSupport = errors.New("estimator does not support grid annotation")

// ErrUnknownParam is returned by SetParams for a parameter path that does
// not name anything on the estimator.
var ErrUnknownParam = errors.New("unknown parameter")

// ErrNotCloneable is returned when a copy of an estimator is needed but the
// estimator does not implement Cloner.
var ErrNotCloneable = errors.New("estimator is not cloneable")

// ErrCycle is returned when an estimator tree refers back to itself.
var ErrCycle = errors.New("estimator tree contains a cycle")

// ErrEmptyCandidates is returned when a grid entry lists no candidate values.
var ErrEmptyCandidates = errors.New("grid entry has no candidate values")
