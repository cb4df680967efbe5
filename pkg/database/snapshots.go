package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SnapshotStore reads and writes JSON documents keyed by a named slot.
// It is the durable side of the linker: one slot, one document, newest
// write wins.
type SnapshotStore struct {
	DB *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{DB: db}
}

// Read returns the document stored under slot, or nil when the slot
// has never been written.
func (s *SnapshotStore) Read(ctx context.Context, slot string) ([]byte, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT body FROM snapshots WHERE slot = ?
	`, slot)

	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot %q: %w", slot, err)
	}
	return []byte(body), nil
}

// Write stores the document under slot, replacing any previous value.
func (s *SnapshotStore) Write(ctx context.Context, slot string, body []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO snapshots (slot, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP
	`, slot, string(body))
	if err != nil {
		return fmt.Errorf("write snapshot %q: %w", slot, err)
	}
	return nil
}
