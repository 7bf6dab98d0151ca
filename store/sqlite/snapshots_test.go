package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/canvix/canvix/store"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) store.SnapshotStore {
	t.Helper()

	st, err := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("failed to open the sqlite store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func TestSqlite_SaveAndFind(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	id, err := st.Save(ctx, &store.Snapshot{
		CanvasID: "canvas-1",
		MIME:     "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	assert.NoError(err)
	assert.NotEmpty(id)

	snap, err := st.Find(ctx, id)
	assert.NoError(err)
	assert.Equal(id, snap.ID)
	assert.Equal("canvas-1", snap.CanvasID)
	assert.Equal("image/png", snap.MIME)
	assert.Equal([]byte{0x89, 0x50, 0x4e, 0x47}, snap.Data)
	assert.False(snap.CreatedAt.IsZero())
}

func TestSqlite_FindMissing(t *testing.T) {
	assert := assert.New(t)
	st := newTestStore(t)

	_, err := st.Find(context.Background(), "no-such-id")
	assert.ErrorIs(err, store.ErrNotFound)
}

func TestSqlite_List(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	now := time.Now()
	_, err := st.Save(ctx, &store.Snapshot{
		CanvasID: "a", MIME: "image/png", Data: []byte("old"), CreatedAt: now.Add(-time.Hour),
	})
	assert.NoError(err)
	newest, err := st.Save(ctx, &store.Snapshot{
		CanvasID: "a", MIME: "image/png", Data: []byte("new"), CreatedAt: now,
	})
	assert.NoError(err)
	_, err = st.Save(ctx, &store.Snapshot{
		CanvasID: "b", MIME: "image/png", Data: []byte("other"), CreatedAt: now,
	})
	assert.NoError(err)

	snaps, err := st.List(ctx, "a")
	assert.NoError(err)
	assert.Len(snaps, 2)
	// Most recent first, payloads are not loaded by the listing.
	assert.Equal(newest, snaps[0].ID)
	for _, snap := range snaps {
		assert.Equal("a", snap.CanvasID)
		assert.Nil(snap.Data)
	}
}

func TestSqlite_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	id, err := st.Save(ctx, &store.Snapshot{CanvasID: "a", MIME: "image/png", Data: []byte("x")})
	assert.NoError(err)

	assert.NoError(st.Delete(ctx, id))
	_, err = st.Find(ctx, id)
	assert.ErrorIs(err, store.ErrNotFound)

	assert.ErrorIs(st.Delete(ctx, id), store.ErrNotFound)
}
