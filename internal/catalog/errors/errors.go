package errors

import "errors"

var (
	ErrNotFound = errors.New("catalog entity not found")

	ErrInvalidID = errors.New("invalid catalog entity ID format")

	ErrDuplicateName = errors.New("an entity with this name already exists")
)
