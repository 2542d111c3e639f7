// Package domainerr maps package sentinel errors onto coded platform errors
// so transports can pick a status and a localized message.
package domainerr

import (
	"errors"

	"github.com/louisbranch/dualidade/internal/character"
	"github.com/louisbranch/dualidade/internal/dice"
	"github.com/louisbranch/dualidade/internal/notes"
	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/storage"
)

var mappings = []struct {
	target error
	code   apperrors.Code
}{
	{roller.ErrRollInProgress, apperrors.CodeRollInProgress},
	{roller.ErrClosed, apperrors.CodeRollControllerStopped},
	{dice.ErrInvalidDieFaces, apperrors.CodeRollInvalidDieFaces},
	{dice.ErrInvalidPoolSize, apperrors.CodeRollInvalidPoolSize},
	{dice.ErrInvalidAggregation, apperrors.CodeRollInvalidLogic},
	{character.ErrUnknownAttribute, apperrors.CodeRollUnknownAttribute},
	{character.ErrInvalidImport, apperrors.CodeCharacterInvalidImport},
	{character.ErrEntryNotFound, apperrors.CodeCharacterEntryNotFound},
	{character.ErrInvalidItemType, apperrors.CodeCharacterInvalidEntryKind},
	{notes.ErrTooLarge, apperrors.CodeNotesTooLarge},
	{storage.ErrNotFound, apperrors.CodeNotFound},
}

// Wrap converts err to a coded error. metadata fills message templates.
// Errors that already carry a code, and unknown errors, pass through.
func Wrap(err error, metadata map[string]string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &apperrors.Error{
				Code:     m.code,
				Message:  err.Error(),
				Metadata: metadata,
				Cause:    err,
			}
		}
	}
	return err
}
