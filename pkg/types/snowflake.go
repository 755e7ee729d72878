package types

import "github.com/google/uuid"

// NewSnowflake generates a globally unique, roughly time-ordered
// external identifier (UUID v7), distinct from the store's internal
// sequential keys.
func NewSnowflake() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewOrigin generates a random per-process window identity (UUID v4).
// Origins are never persisted.
func NewOrigin() string {
	return uuid.NewString()
}
