package storage

import "errors"

// Storage errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. Records are never updated in place.
	ErrDuplicateKey = errors.New("duplicate key: records are never updated in place")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferenced is returned when deleting a wallet or chain that
	// existing transactions still reference. Deletes are blocked, never
	// cascaded.
	ErrReferenced = errors.New("record is referenced by existing transactions")
)
