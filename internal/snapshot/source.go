package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// IsSnapshotPath reports whether path names a SQLite snapshot rather than a
// YAML catalog file.
func IsSnapshotPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// OpenExisting opens a snapshot that must already exist on disk.
func OpenExisting(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	return NewSQLiteStore(dbPath)
}

// LoadCatalog returns the records selected by cfg. A catalog file with a
// snapshot extension is read from SQLite and validated; everything else is
// handled by catalog.Load.
func LoadCatalog(ctx context.Context, cfg domain.CatalogConfig) ([]domain.Disorder, error) {
	if !IsSnapshotPath(cfg.File) {
		return catalog.Load(cfg)
	}

	store, err := OpenExisting(cfg.File)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.File, err)
	}
	if err := catalog.Validate(records); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.File, err)
	}
	return records, nil
}
