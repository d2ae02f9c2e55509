package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid or is not in a valid
	// state for the requested operation.
	ErrNotValid = errors.New("not valid")
	// ErrConflict is returned when a resource changed or is held by someone else
	// since it was read.
	ErrConflict = errors.New("conflict")
)
