// Package store defines the persistence boundary for exported canvas
// snapshots and the model they share across the backends.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a snapshot lookup by id fails.
var ErrNotFound = errors.New("store: snapshot not found")

// Snapshot is an exported canvas image persisted for later retrieval.
type Snapshot struct {
	ID        string    `json:"id"`
	CanvasID  string    `json:"canvas_id"`
	MIME      string    `json:"mime"`
	Data      []byte    `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotStore persists exported canvas snapshots.
type SnapshotStore interface {
	// Save stores the snapshot and returns its generated id.
	Save(ctx context.Context, s *Snapshot) (string, error)
	// Find retrieves a snapshot by id, including its binary payload.
	Find(ctx context.Context, id string) (*Snapshot, error)
	// List returns the snapshot metadata (payload omitted) recorded for a
	// canvas, most recent first.
	List(ctx context.Context, canvasID string) ([]Snapshot, error)
	// Delete removes a snapshot by id.
	Delete(ctx context.Context, id string) error
	// Close releases the resources held by the backend.
	Close() error
}
