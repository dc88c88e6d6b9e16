package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSpecNotFound is returned when a stored specification cannot be found.
var ErrSpecNotFound = errors.New("spec not found")

// SpecRecord is a stored search specification: the raw gridfile document
// plus naming and bookkeeping. Documents are stored verbatim; compilation
// happens on the read path.
type SpecRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SpecStore defines the interface for persisting search specifications.
type SpecStore interface {
	// Put inserts or replaces a record by ID.
	Put(ctx context.Context, rec *SpecRecord) error

	// Get retrieves a record by ID.
	// Returns ErrSpecNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*SpecRecord, error)

	// Delete removes a record by ID. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns all records sorted by name.
	List(ctx context.Context) ([]*SpecRecord, error)
}
