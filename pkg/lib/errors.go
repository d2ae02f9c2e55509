package lib

import (
	"errors"

	"github.com/slok/appforge/internal/model"
)

var (
	// ErrNotFound is returned when a project does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a project already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input or project state.
	ErrNotValid = errors.New("not valid")
	// ErrConflict is returned when the project is being built by another process.
	ErrConflict = errors.New("conflict")
)

// mapError maps internal errors to the public SDK sentinels keeping the original message.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return &mappedError{original: err, sentinel: ErrNotFound}
	case errors.Is(err, model.ErrAlreadyExists):
		return &mappedError{original: err, sentinel: ErrAlreadyExists}
	case errors.Is(err, model.ErrNotValid):
		return &mappedError{original: err, sentinel: ErrNotValid}
	case errors.Is(err, model.ErrConflict):
		return &mappedError{original: err, sentinel: ErrConflict}
	default:
		return err
	}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string        { return e.original.Error() }
func (e *mappedError) Is(target error) bool { return target == e.sentinel }
func (e *mappedError) Unwrap() error        { return e.original }
