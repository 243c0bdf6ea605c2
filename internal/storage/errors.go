package storage

import "errors"

// Registry errors. Stores wrap driver errors into these so callers can
// branch with errors.Is regardless of backend.
var (
	// ErrNotFound is returned when a place or response does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a response id is already stored, or a
	// place carries two branches with the same remote code.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when a record breaks a registry invariant,
	// including references to unknown places or branches.
	ErrInvalidInput = errors.New("invalid input")
)
