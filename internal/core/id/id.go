// Package id provides UUIDv7 generation for all entities.
// Time-ordered ids keep movement history naturally sorted by creation.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7. The embedded timestamp gives chronological
// ordering and good B-tree locality in PostgreSQL.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the entropy source does; fall back to V4.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to ID, panics on error. Tests and constants only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if id is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
