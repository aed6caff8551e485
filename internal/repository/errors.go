package repository

import "errors"

var (
	// ErrNotFound means a lookup by id/ownership matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID means an identifier could not be parsed as an ObjectID.
	ErrInvalidID = errors.New("invalid id")

	// ErrDuplicate means a unique field (email, username) is already taken.
	ErrDuplicate = errors.New("already exists")

	// ErrNoFields means an update carried nothing to change.
	ErrNoFields = errors.New("no valid fields to update")
)
