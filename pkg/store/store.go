// Package store persists computed layouts so the API can serve them by ID.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per record under a directory
//   - [MongoStore]: a MongoDB collection for multi-instance deployments
//
// # Usage
//
//	rec := store.NewRecord(datasetHash, layout)
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//	got, err := s.Get(ctx, rec.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown ID
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/graph"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is one stored layout.
type Record struct {
	ID          string       `json:"id" bson:"_id"`
	DatasetHash string       `json:"dataset_hash" bson:"dataset_hash"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	Layout      graph.Layout `json:"layout" bson:"layout"`
}

// NewRecord creates a record with a fresh identifier.
func NewRecord(datasetHash string, l graph.Layout) *Record {
	return &Record{
		ID:          uuid.NewString(),
		DatasetHash: datasetHash,
		CreatedAt:   time.Now().UTC(),
		Layout:      l,
	}
}

// Summary is a Record without the layout body, as returned by listings.
type Summary struct {
	ID          string    `json:"id" bson:"_id"`
	DatasetHash string    `json:"dataset_hash" bson:"dataset_hash"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Focal       string    `json:"focal" bson:"focal"`
	People      int       `json:"people" bson:"people"`
}

// Summarize returns the listing view of r.
func (r *Record) Summarize() Summary {
	return Summary{
		ID:          r.ID,
		DatasetHash: r.DatasetHash,
		CreatedAt:   r.CreatedAt,
		Focal:       r.Layout.Focal,
		People:      len(r.Layout.Nodes),
	}
}

// Store is the interface for layout storage backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
