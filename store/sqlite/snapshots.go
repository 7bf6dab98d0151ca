package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/canvix/canvix/store"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	canvas_id TEXT NOT NULL,
	mime TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_canvas ON snapshots (canvas_id, created_at);`

type snapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens (and if needed initializes) a sqlite backed
// snapshot store at the given data source name.
func NewSnapshotStore(dataSourceName string) (store.SnapshotStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the sqlite database")
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "could not create the snapshots table")
	}
	return &snapshotStore{db: db}, nil
}

func (s *snapshotStore) Save(ctx context.Context, snap *store.Snapshot) (string, error) {
	id := ulid.Make().String()

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	log := logrus.WithFields(logrus.Fields{
		"snapshot_id": id,
		"canvas_id":   snap.CanvasID,
		"data_length": len(snap.Data),
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO snapshots (id, canvas_id, mime, created_at, data) VALUES (?, ?, ?, ?, ?)",
		id, snap.CanvasID, snap.MIME, createdAt.UnixMilli(), snap.Data)
	if err != nil {
		log.WithField("error", err).Error("Failed to save snapshot")
		return "", errors.Wrap(err, "could not save the snapshot")
	}

	log.Info("Snapshot saved")
	return id, nil
}

func (s *snapshotStore) Find(ctx context.Context, id string) (*store.Snapshot, error) {
	var (
		snap      store.Snapshot
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, canvas_id, mime, created_at, data FROM snapshots WHERE id = ?", id).
		Scan(&snap.ID, &snap.CanvasID, &snap.MIME, &createdAt, &snap.Data)
	if err != nil {
		if err == sql.ErrNoRows {
			logrus.WithField("snapshot_id", id).Warn("Snapshot with specified ID not found")
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "could not retrieve the snapshot")
	}

	snap.CreatedAt = time.UnixMilli(createdAt)
	return &snap, nil
}

func (s *snapshotStore) List(ctx context.Context, canvasID string) ([]store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, canvas_id, mime, created_at FROM snapshots WHERE canvas_id = ? ORDER BY created_at DESC",
		canvasID)
	if err != nil {
		return nil, errors.Wrap(err, "could not list the snapshots")
	}
	defer rows.Close()

	var snaps []store.Snapshot
	for rows.Next() {
		var (
			snap      store.Snapshot
			createdAt int64
		)
		if err := rows.Scan(&snap.ID, &snap.CanvasID, &snap.MIME, &createdAt); err != nil {
			return nil, errors.Wrap(err, "could not scan the snapshot row")
		}
		snap.CreatedAt = time.UnixMilli(createdAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *snapshotStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "could not delete the snapshot")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "could not read the delete result")
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *snapshotStore) Close() error {
	return s.db.Close()
}
