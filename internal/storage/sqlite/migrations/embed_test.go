package migrations

import (
	"io/fs"
	"testing"
)

func TestFSContainsMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded migrations")
	}
}
