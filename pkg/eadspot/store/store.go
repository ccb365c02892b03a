// Package store defines the optional occurrence catalog: a local
// record of every entity occurrence recognized across runs.
package store

import (
	"context"
	"time"
)

// Store persists recognized occurrences.
type Store interface {
	Close() error

	SaveOccurrence(ctx context.Context, o Occurrence) error
	ListByRun(ctx context.Context, runID string) ([]Occurrence, error)
}

// Occurrence is one recognized entity occurrence as cataloged.
type Occurrence struct {
	ID           string // ULID
	RunID        string // ULID shared by all occurrences of one run
	Section      string
	SurfaceForm  string
	URI          string
	Kind         string // person, place, organization, or ""
	Similarity   float64
	Support      int
	RecognizedAt time.Time
}
