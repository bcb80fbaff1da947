// Package store persists records of completed traces for later inspection
// and build-over-build comparison.
//
// This package defines the Run record and a Store interface with
// implementations for different backends:
//   - file: JSON files in a user directory, for single-machine CLI use
//   - mongo: MongoDB-backed storage for shared or long-lived archives
//
// # Architecture
//
// Every saved trace becomes a Run: the entry module, the loader config
// hash, node and edge counts, and the full serialized graph. Runs are
// immutable once saved and identified by a generated UUID. The Store
// interface supports:
//   - Save for recording a completed trace
//   - Get by ID and List in reverse chronological order
//   - Close for releasing backend resources
//
// # Usage
//
// Record a run after tracing:
//
//	st, err := store.NewFileStore("")  // Uses ~/.config/amdtrace/runs/
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	run := store.NewRun("app/main", configHash, baseDir, g)
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//
// Browse the archive:
//
//	runs, err := st.List(ctx, 10)  // Ten most recent runs
//	run, err := st.Get(ctx, id)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amdtrace/amdtrace/pkg/graph"
)

// Sentinel errors for archive operations.
var (
	// ErrRunNotFound is returned when no run with the requested ID exists.
	ErrRunNotFound = errors.New("run not found")
)

// Run is a persisted record of one completed trace.
type Run struct {
	ID         string      `json:"id" bson:"_id"`
	Entry      string      `json:"entry" bson:"entry"`
	ConfigHash string      `json:"config_hash" bson:"config_hash"`
	BaseDir    string      `json:"base_dir" bson:"base_dir"`
	Nodes      int         `json:"nodes" bson:"nodes"`
	Edges      int         `json:"edges" bson:"edges"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	Graph      graph.Graph `json:"graph" bson:"graph"`
}

// ShortID returns a truncated ID for display in listings.
func (r *Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// NewRun creates a run record for a completed trace.
// Node and edge counts are derived from the graph.
func NewRun(entry, configHash, baseDir string, g graph.Graph) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Entry:      entry,
		ConfigHash: configHash,
		BaseDir:    baseDir,
		Nodes:      len(g.Nodes),
		Edges:      len(g.Edges),
		CreatedAt:  time.Now().UTC(),
		Graph:      g,
	}
}

// Store is the interface for run archive backends.
type Store interface {
	// Save persists a run record.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns ErrRunNotFound if no run with that ID exists.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs, newest first.
	// A limit of zero or less returns all runs.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases any resources held by the store.
	Close() error
}
