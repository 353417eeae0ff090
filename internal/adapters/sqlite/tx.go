package sqlite

import (
	"database/sql"
	"time"
)

// snapshotTx groups the writes of one save
type snapshotTx struct {
	tx *sql.Tx
}

// Insert appends a snapshot row
func (t *snapshotTx) Insert(savedAt time.Time, entities, links int, payload []byte) error {
	_, err := t.tx.Exec(`
		INSERT INTO snapshots (saved_at, entities, links, payload)
		VALUES (?, ?, ?, ?)
	`, savedAt.UnixMilli(), entities, links, string(payload))
	return err
}

// Prune keeps only the newest keep rows
func (t *snapshotTx) Prune(keep int) error {
	_, err := t.tx.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)
	`, keep)
	return err
}

// Commit commits the transaction
func (t *snapshotTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *snapshotTx) Rollback() error {
	return t.tx.Rollback()
}
