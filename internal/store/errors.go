package store

import "errors"

// Sentinel errors shared by the domain stores. Handlers translate these to
// HTTP statuses; callers match with errors.Is.
var (
	// ErrNotFound: the target id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID: an add collided with an existing item id.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrValidation: a required field is missing or a numeric field is negative.
	ErrValidation = errors.New("validation failed")
)
