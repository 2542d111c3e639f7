// Package storage defines the persistence contracts for the companion.
//
// Character sheets and notes are stored as one document per profile id.
// Roll history lives only in memory and never reaches this package.
//
// Implementations return ErrNotFound when a profile has nothing saved yet;
// callers fall back to defaults in that case.
package storage
