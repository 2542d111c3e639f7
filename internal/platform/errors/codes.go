// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roll errors
	CodeRollInProgress        Code = "ROLL_IN_PROGRESS"
	CodeRollInvalidDieFaces   Code = "ROLL_INVALID_DIE_FACES"
	CodeRollInvalidPoolSize   Code = "ROLL_INVALID_POOL_SIZE"
	CodeRollInvalidLogic      Code = "ROLL_INVALID_AGGREGATION"
	CodeRollInvalidModifier   Code = "ROLL_INVALID_MODIFIER"
	CodeRollUnknownAttribute  Code = "ROLL_UNKNOWN_ATTRIBUTE"
	CodeRollControllerStopped Code = "ROLL_CONTROLLER_STOPPED"

	// Character errors
	CodeCharacterInvalidImport    Code = "CHARACTER_INVALID_IMPORT"
	CodeCharacterInvalidField     Code = "CHARACTER_INVALID_FIELD"
	CodeCharacterEntryNotFound    Code = "CHARACTER_ENTRY_NOT_FOUND"
	CodeCharacterInvalidEntryKind Code = "CHARACTER_INVALID_ENTRY_KIND"

	// Notes errors
	CodeNotesTooLarge Code = "NOTES_TOO_LARGE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// KnownCodes lists every code that needs a localized message.
var KnownCodes = []Code{
	CodeUnknown,
	CodeRollInProgress,
	CodeRollInvalidDieFaces,
	CodeRollInvalidPoolSize,
	CodeRollInvalidLogic,
	CodeRollInvalidModifier,
	CodeRollUnknownAttribute,
	CodeRollControllerStopped,
	CodeCharacterInvalidImport,
	CodeCharacterInvalidField,
	CodeCharacterEntryNotFound,
	CodeCharacterInvalidEntryKind,
	CodeNotesTooLarge,
	CodeNotFound,
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad input
	case CodeRollInvalidDieFaces,
		CodeRollInvalidPoolSize,
		CodeRollInvalidLogic,
		CodeRollInvalidModifier,
		CodeRollUnknownAttribute,
		CodeCharacterInvalidImport,
		CodeCharacterInvalidField,
		CodeCharacterInvalidEntryKind:
		return http.StatusBadRequest

	// State doesn't allow the operation
	case CodeRollInProgress:
		return http.StatusConflict

	case CodeRollControllerStopped:
		return http.StatusServiceUnavailable

	case CodeNotesTooLarge:
		return http.StatusRequestEntityTooLarge

	case CodeNotFound,
		CodeCharacterEntryNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
