// Package snapshot persists a copy of the catalog to a SQLite file so it can
// be shipped, inspected with standard tools, or loaded back.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// Store reads and writes catalog snapshots.
type Store struct {
	db *sql.DB
}

// Info describes the snapshot currently held by a Store.
type Info struct {
	Title   string    `json:"title"`
	SavedAt time.Time `json:"saved_at"`
	Records int       `json:"records"`
}

// NewSQLiteStore opens or creates the snapshot database at dbPath.
func NewSQLiteStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an open database, creating the schema if needed.
func NewStore(db *sql.DB) (*Store, error) {
	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// createSchema creates the snapshot tables. Positions record source order.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS disorders (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		common_name TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		cause TEXT NOT NULL DEFAULT '',
		symptoms TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS genes (
		disorder_id TEXT NOT NULL REFERENCES disorders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (disorder_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_genes_name ON genes(name);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with records in a single transaction.
func (s *Store) Save(ctx context.Context, title string, records []domain.Disorder) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM genes"); err != nil {
		return fmt.Errorf("failed to clear genes: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM disorders"); err != nil {
		return fmt.Errorf("failed to clear disorders: %w", err)
	}

	for i, d := range records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO disorders (position, id, name, common_name, icon, cause, symptoms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, d.ID, d.Name, d.CommonName, d.Icon, d.Cause, d.Symptoms)
		if err != nil {
			return fmt.Errorf("failed to insert disorder %q: %w", d.Name, err)
		}

		for j, g := range d.Genes {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO genes (disorder_id, position, id, name, description)
				VALUES (?, ?, ?, ?, ?)
			`, d.ID, j, g.ID, g.Name, g.Description)
			if err != nil {
				return fmt.Errorf("failed to insert gene %q of %q: %w", g.Name, d.Name, err)
			}
		}
	}

	meta := [][2]string{
		{"title", title},
		{"saved_at", time.Now().UTC().Format(time.RFC3339Nano)},
	}
	for _, kv := range meta {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", kv[0], err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDisorder(s scanner) (domain.Disorder, error) {
	var d domain.Disorder
	err := s.Scan(&d.ID, &d.Name, &d.CommonName, &d.Icon, &d.Cause, &d.Symptoms)
	d.Genes = make([]domain.Gene, 0)
	return d, err
}

// Load returns the stored records in their original order, each with its
// genes in their original order.
func (s *Store) Load(ctx context.Context) ([]domain.Disorder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, common_name, icon, cause, symptoms
		FROM disorders
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query disorders: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Disorder, 0)
	index := make(map[string]int)
	for rows.Next() {
		d, err := scanDisorder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disorder: %w", err)
		}
		index[d.ID] = len(records)
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read disorders: %w", err)
	}

	geneRows, err := s.db.QueryContext(ctx, `
		SELECT disorder_id, id, name, description
		FROM genes
		ORDER BY disorder_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genes: %w", err)
	}
	defer geneRows.Close()

	for geneRows.Next() {
		var disorderID string
		var g domain.Gene
		if err := geneRows.Scan(&disorderID, &g.ID, &g.Name, &g.Description); err != nil {
			return nil, fmt.Errorf("failed to scan gene: %w", err)
		}
		i, ok := index[disorderID]
		if !ok {
			return nil, fmt.Errorf("gene %q references unknown disorder %q", g.Name, disorderID)
		}
		records[i].Genes = append(records[i].Genes, g)
	}
	if err := geneRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read genes: %w", err)
	}

	return records, nil
}

// Count returns the number of stored disorders.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM disorders").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count disorders: %w", err)
	}
	return count, nil
}

// Info returns the stored title, save time and record count. The zero Info
// is returned for a store that was never saved to.
func (s *Store) Info(ctx context.Context) (Info, error) {
	var info Info

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM snapshot_meta")
	if err != nil {
		return info, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return info, fmt.Errorf("failed to scan metadata: %w", err)
		}
		switch key {
		case "title":
			info.Title = value
		case "saved_at":
			t, err := time.Parse(time.RFC3339Nano, value)
			if err != nil {
				return info, fmt.Errorf("invalid saved_at %q: %w", value, err)
			}
			info.SavedAt = t
		}
	}
	if err := rows.Err(); err != nil {
		return info, fmt.Errorf("failed to read metadata: %w", err)
	}

	info.Records, err = s.Count(ctx)
	return info, err
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	return s.db.Close()
}
