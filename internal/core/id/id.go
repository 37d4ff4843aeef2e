// Package id generates identifiers for wizard sessions and requests.
// UUIDv7 is time-ordered, so session keys in the snapshot table sort by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// NewSession returns a fresh session id in canonical string form.
func NewSession() string {
	return New().String()
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ValidSession reports whether s is a well-formed, non-nil session id.
func ValidSession(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u != uuid.Nil
}
