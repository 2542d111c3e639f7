package companion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/notes"
	"github.com/louisbranch/dualidade/internal/storage"
)

// Store is the persistence the companion needs.
type Store interface {
	storage.CharacterStore
	storage.NotesStore
}

// sheetService serializes read-modify-write cycles on the stored sheet.
type sheetService struct {
	mu        sync.Mutex
	store     storage.CharacterStore
	profileID string
	newID     character.IDFunc
	now       func() time.Time
}

func newSheetService(store storage.CharacterStore, profileID string, newID character.IDFunc, now func() time.Time) *sheetService {
	if now == nil {
		now = time.Now
	}
	return &sheetService{store: store, profileID: profileID, newID: newID, now: now}
}

// load returns the stored sheet, or a default one for a new profile.
func (s *sheetService) load(ctx context.Context) (character.Character, error) {
	record, err := s.store.GetCharacter(ctx, s.profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return character.Default(), nil
	}
	if err != nil {
		return character.Character{}, fmt.Errorf("load character: %w", err)
	}
	return record.Character, nil
}

func (s *sheetService) get(ctx context.Context) (character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *sheetService) replace(ctx context.Context, c character.Character) (character.Character, error) {
	return s.mutate(ctx, func(current *character.Character) error {
		*current = c
		return nil
	})
}

// mutate applies fn to the stored sheet and saves it when fn succeeds.
func (s *sheetService) mutate(ctx context.Context, fn func(*character.Character) error) (character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.load(ctx)
	if err != nil {
		return character.Character{}, err
	}
	if err := fn(&c); err != nil {
		return character.Character{}, err
	}
	character.Normalize(&c)
	if err := s.store.PutCharacter(ctx, storage.CharacterRecord{
		ProfileID: s.profileID,
		Character: c,
		UpdatedAt: s.now(),
	}); err != nil {
		return character.Character{}, fmt.Errorf("save character: %w", err)
	}
	return c, nil
}

func (s *sheetService) modifier(ctx context.Context, name string) (int, error) {
	c, err := s.get(ctx)
	if err != nil {
		return 0, err
	}
	return c.AttributeModifier(name)
}

type notesService struct {
	store     storage.NotesStore
	profileID string
	now       func() time.Time
}

func (s *notesService) get(ctx context.Context) (notes.Notes, error) {
	record, err := s.store.GetNotes(ctx, s.profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return notes.Default(), nil
	}
	if err != nil {
		return notes.Notes{}, fmt.Errorf("load notes: %w", err)
	}
	return record.Notes, nil
}

func (s *notesService) put(ctx context.Context, n notes.Notes) (notes.Notes, error) {
	normalized, err := notes.Normalize(n)
	if err != nil {
		return notes.Notes{}, err
	}
	if err := s.store.PutNotes(ctx, storage.NotesRecord{
		ProfileID: s.profileID,
		Notes:     normalized,
		UpdatedAt: s.now(),
	}); err != nil {
		return notes.Notes{}, fmt.Errorf("save notes: %w", err)
	}
	return normalized, nil
}
