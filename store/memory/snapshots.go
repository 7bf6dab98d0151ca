package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/canvix/canvix/store"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type snapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]store.Snapshot
}

// NewSnapshotStore returns an in-memory snapshot store. The content is lost
// when the process exits; it mainly serves development and testing setups.
func NewSnapshotStore() store.SnapshotStore {
	return &snapshotStore{
		snapshots: make(map[string]store.Snapshot),
	}
}

func (s *snapshotStore) Save(ctx context.Context, snap *store.Snapshot) (string, error) {
	id := ulid.Make().String()

	stored := *snap
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.snapshots[id] = stored
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"snapshot_id": id,
		"canvas_id":   stored.CanvasID,
		"data_length": len(stored.Data),
	}).Info("Snapshot saved")

	return id, nil
}

func (s *snapshotStore) Find(ctx context.Context, id string) (*store.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[id]
	s.mu.RUnlock()

	if !ok {
		logrus.WithField("snapshot_id", id).Warn("Snapshot with specified ID not found")
		return nil, store.ErrNotFound
	}
	return &snap, nil
}

func (s *snapshotStore) List(ctx context.Context, canvasID string) ([]store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]store.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		if snap.CanvasID != canvasID {
			continue
		}
		snap.Data = nil
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps, nil
}

func (s *snapshotStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.snapshots, id)

	return nil
}

func (s *snapshotStore) Close() error {
	return nil
}
