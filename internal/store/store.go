// Package store persists case records for the CLI. Library packages depend on
// the Store interface only.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
)

// ErrNotFound is returned when a case id is unknown.
var ErrNotFound = errors.New("store: case not found")

// Store loads and saves whole case records.
type Store interface {
	Load(ctx context.Context, id string) (*caserecord.Case, error)
	Save(ctx context.Context, c *caserecord.Case) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
}

// Summary is a listing row.
type Summary struct {
	ID    string
	State caserecord.State
	// UpdatedAt uses RFC3339 in UTC.
	UpdatedAt string
}

// NewID returns a fresh case identifier.
func NewID() string {
	return uuid.NewString()
}

var errMissingID = errors.New("store: case id is required")
