// Package catalog provides a SQLite-backed registry of trajectory
// snapshots, so simulation runs can be archived and restored by ID.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rdme-xyz/go-rdme/trajectory"
)

// ErrNotFound is returned when no snapshot has the requested ID.
var ErrNotFound = errors.New("catalog: snapshot not found")

// Entry is the metadata row for one stored snapshot.
type Entry struct {
	ID        string    `json:"id"`
	ModelName string    `json:"model_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Catalog handles database operations for the snapshot registry.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens a catalog at the given path. ":memory:" gives
// a throwaway in-memory registry.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// migrate creates the schema if it doesn't exist.
func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		model_name TEXT,
		created_at DATETIME NOT NULL,
		size INTEGER NOT NULL,
		snapshot BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Save inserts a snapshot, replacing any previous one with the same
// ID. The snapshot is stored as its JSON encoding.
func (c *Catalog) Save(ctx context.Context, snap *trajectory.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("catalog: nil snapshot")
	}
	blob, err := trajectory.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	modelName := sql.NullString{}
	if snap.Model != nil {
		modelName = sql.NullString{String: snap.Model.Name, Valid: true}
	}
	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (id, model_name, created_at, size, snapshot)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.ID, modelName, createdAt, int64(len(blob)), blob,
	)
	return err
}

// Get retrieves one snapshot by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*trajectory.Snapshot, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT snapshot FROM snapshots WHERE id = ?`, id)

	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trajectory.DecodeSnapshot(blob)
}

// List returns the metadata of every stored snapshot, newest first.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, model_name, created_at, size
		 FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var modelName sql.NullString
		if err := rows.Scan(&e.ID, &modelName, &e.CreatedAt, &e.Size); err != nil {
			return nil, err
		}
		if modelName.Valid {
			e.ModelName = modelName.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes one snapshot by ID.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
