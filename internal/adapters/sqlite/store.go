package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schemer/internal/domain"
	"schemer/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// DefaultKeep is how many snapshots survive each save.
const DefaultKeep = 20

// Store implements ports.DiagramStore and ports.SnapshotHistory using SQLite.
// Every save appends a snapshot row; Load reads the newest one.
type Store struct {
	db   *sql.DB
	path string
	keep int
	now  func() time.Time
}

// Ensure Store implements both ports
var (
	_ ports.DiagramStore    = (*Store)(nil)
	_ ports.SnapshotHistory = (*Store)(nil)
)

// Option configures a Store
type Option func(*Store)

// WithKeep sets how many snapshots are retained.
func WithKeep(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.keep = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens or creates the database at path
func Open(path string, opts ...Option) (*Store, error) {
	// Expand ~ in path
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	s := &Store{path: path, keep: DefaultKeep, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL mode so the HTTP server and the editor can share a file
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)
	s.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			saved_at INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			links INTEGER NOT NULL,
			payload TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the newest snapshot, or nil when none exists
func (s *Store) Load(ctx context.Context) (*domain.Diagram, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1
	`).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return domain.DecodeDiagram([]byte(payload))
}

// Save appends a snapshot and prunes old ones in one transaction
func (s *Store) Save(ctx context.Context, d *domain.Diagram) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.Insert(s.now(), len(d.Nodes), len(d.Links), payload); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if err := tx.Prune(s.keep); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return tx.Commit()
}

// History lists snapshots, newest first
func (s *Store) History(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	if limit <= 0 {
		limit = s.keep
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, entities, links
		FROM snapshots ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.SnapshotInfo
	for rows.Next() {
		var info domain.SnapshotInfo
		var savedAt int64
		if err := rows.Scan(&info.ID, &savedAt, &info.Entities, &info.Links); err != nil {
			return nil, err
		}
		info.SavedAt = time.UnixMilli(savedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Snapshot loads one snapshot by id, or nil when it does not exist
func (s *Store) Snapshot(ctx context.Context, id int64) (*domain.Diagram, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return domain.DecodeDiagram([]byte(payload))
}

func (s *Store) begin(ctx context.Context) (*snapshotTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &snapshotTx{tx: tx}, nil
}
