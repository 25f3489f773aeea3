package ports

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a versioned save does not match the stored
	// version, including a create over an existing record.
	ErrConflict = errors.New("record version conflict")
)
