package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
	}

	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	first := fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(context.Background(), db, first, ""); err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}

	// A rerun of 001 would fail on the INSERT; only 002 should execute.
	second := fstest.MapFS{
		"001_create.sql": {Data: []byte("INSERT INTO missing VALUES (1);")},
		"002_more.sql":   {Data: []byte("CREATE TABLE more(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(context.Background(), db, second, ""); err != nil {
		t.Fatalf("apply second migrations: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 2 {
		t.Fatalf("expected 2 migration rows, got %d", rows)
	}
	if !tableExists(t, db, "more") {
		t.Fatal("expected second table to exist")
	}
}

func TestApplyMigrationsReadsSubdirectory(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"sql/001_create.sql": {Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
		"other.sql":          {Data: []byte("CREATE TABLE ignored(id TEXT);")},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, "sql"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if tableExists(t, db, "ignored") {
		t.Fatal("expected files outside dir to be skipped")
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	if err := ApplyMigrations(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tcs := []struct {
		content string
		want    string
	}{
		{"CREATE TABLE a(id);", "CREATE TABLE a(id);"},
		{"-- +migrate Up\nCREATE TABLE a(id);", "\nCREATE TABLE a(id);"},
		{"-- +migrate Up\nUP;\n-- +migrate Down\nDOWN;", "\nUP;\n"},
	}
	for _, tc := range tcs {
		if got := ExtractUpMigration(tc.content); got != tc.want {
			t.Fatalf("ExtractUpMigration(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if !IsAlreadyExistsError(errors.New("table items already exists")) {
		t.Fatal("expected already exists match")
	}
	if !IsAlreadyExistsError(errors.New("duplicate column name: x")) {
		t.Fatal("expected duplicate column match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("unexpected match")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("lookup table %s: %v", name, err)
	}
	return true
}
