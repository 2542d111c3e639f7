// Package storage defines persistence contracts for the companion's
// character sheet and notes.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/notes"
)

// DefaultProfileID keys the single local profile.
const DefaultProfileID = "local"

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
)

// CharacterRecord stores one profile's sheet.
type CharacterRecord struct {
	ProfileID string
	Character character.Character
	UpdatedAt time.Time
}

// NotesRecord stores one profile's notes.
type NotesRecord struct {
	ProfileID string
	Notes     notes.Notes
	UpdatedAt time.Time
}

// CharacterStore persists character sheets.
type CharacterStore interface {
	GetCharacter(ctx context.Context, profileID string) (CharacterRecord, error)
	PutCharacter(ctx context.Context, record CharacterRecord) error
}

// NotesStore persists session notes.
type NotesStore interface {
	GetNotes(ctx context.Context, profileID string) (NotesRecord, error)
	PutNotes(ctx context.Context, record NotesRecord) error
}
