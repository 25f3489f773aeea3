package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"
)

var ErrMigrationLayout = errors.New("bad migration layout")

// migration files are named NNNN_description.sql; other files are ignored.
var migrationName = regexp.MustCompile(`^(\d{4})_[a-z0-9_]+\.sql$`)

type migration struct {
	Number  int
	Version string
	Path    string
}

// migrationFiles lists the numbered migrations of dir in order. Two files
// sharing a number are rejected.
func migrationFiles(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}
	seen := map[int]string{}
	var out []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migrationName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		if prev, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %s and %s share number %d", ErrMigrationLayout, prev, e.Name(), n)
		}
		seen[n] = e.Name()
		out = append(out, migration{
			Number:  n,
			Version: e.Name()[:len(e.Name())-len(".sql")],
			Path:    filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ApplyMigrations runs the pending migrations of dir, each in its own
// transaction, and returns the versions it applied.
func ApplyMigrations(ctx context.Context, db *gorm.DB, dir string) ([]string, error) {
	const meta = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := db.WithContext(ctx).Exec(meta).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	files, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range files {
		var count int64
		if err := db.WithContext(ctx).Table("schema_migrations").Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}
		content, err := os.ReadFile(m.Path)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", m.Version, err)
		}
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", m.Version, err)
			}
			return tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, m.Version, time.Now()).Error
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}
