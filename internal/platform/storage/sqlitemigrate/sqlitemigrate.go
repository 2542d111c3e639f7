// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ApplyMigrations runs every *.sql file under dir in name order, each at
// most once. Applied file names are recorded in schema_migrations.
func ApplyMigrations(ctx context.Context, db *sql.DB, migrations fs.FS, dir string) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	files, err := fs.Glob(migrations, path.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		if err := applyOne(ctx, db, migrations, file); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, migrations fs.FS, file string) error {
	name := path.Base(file)
	applied, err := isApplied(ctx, db, name)
	if err != nil {
		return fmt.Errorf("check migration %s: %w", name, err)
	}
	if applied {
		return nil
	}
	content, err := fs.ReadFile(migrations, file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	up := ExtractUpMigration(string(content))
	if strings.TrimSpace(up) == "" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, up); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// ExtractUpMigration returns the SQL between the Up and Down markers, or the
// whole file when it has no Up marker.
func ExtractUpMigration(content string) string {
	_, up, found := strings.Cut(content, upMarker)
	if !found {
		return content
	}
	up, _, _ = strings.Cut(up, downMarker)
	return up
}

// IsAlreadyExistsError reports whether err comes from DDL that already ran.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
