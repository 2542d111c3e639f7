// Package sqlite provides the SQLite-backed companion storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/notes"
	sqlitemigrate "github.com/louisbranch/dualidade/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dualidade/internal/storage"
	"github.com/louisbranch/dualidade/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists sheets and notes in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCharacter returns the stored sheet for profileID. Documents are read
// through character.Import so older exports keep loading.
func (s *Store) GetCharacter(ctx context.Context, profileID string) (storage.CharacterRecord, error) {
	if err := s.check(ctx); err != nil {
		return storage.CharacterRecord{}, err
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.CharacterRecord{}, fmt.Errorf("profile id is required")
	}

	var document string
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT document, updated_at FROM characters WHERE profile_id = ?`,
		profileID,
	).Scan(&document, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}

	sheet, err := character.Import([]byte(document))
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode character %s: %w", profileID, err)
	}
	return storage.CharacterRecord{
		ProfileID: profileID,
		Character: sheet,
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

// PutCharacter inserts or replaces a profile's sheet.
func (s *Store) PutCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	profileID := strings.TrimSpace(record.ProfileID)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	document, err := character.Export(record.Character)
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO characters (profile_id, document, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		profileID,
		string(document),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	return nil
}

// GetNotes returns the stored notes for profileID.
func (s *Store) GetNotes(ctx context.Context, profileID string) (storage.NotesRecord, error) {
	if err := s.check(ctx); err != nil {
		return storage.NotesRecord{}, err
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.NotesRecord{}, fmt.Errorf("profile id is required")
	}

	var record storage.NotesRecord
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT content, font_size, updated_at FROM notes WHERE profile_id = ?`,
		profileID,
	).Scan(&record.Notes.Content, &record.Notes.FontSize, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.NotesRecord{}, storage.ErrNotFound
		}
		return storage.NotesRecord{}, fmt.Errorf("get notes: %w", err)
	}
	record.ProfileID = profileID
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// PutNotes sanitizes and stores a profile's notes.
func (s *Store) PutNotes(ctx context.Context, record storage.NotesRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	profileID := strings.TrimSpace(record.ProfileID)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	normalized, err := notes.Normalize(record.Notes)
	if err != nil {
		return err
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO notes (profile_id, content, font_size, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
		   content = excluded.content,
		   font_size = excluded.font_size,
		   updated_at = excluded.updated_at`,
		profileID,
		normalized.Content,
		normalized.FontSize,
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put notes: %w", err)
	}
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

var (
	_ storage.CharacterStore = (*Store)(nil)
	_ storage.NotesStore     = (*Store)(nil)
)
