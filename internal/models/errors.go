package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrReference              = errors.New("referenced type does not exist")
	ErrDuplicateName          = errors.New("pokemon name already exists")
	ErrDuplicatePokedexNumber = errors.New("pokedex number already exists")
	ErrDuplicateType          = errors.New("pokemon type already exists")
	ErrCannotEvolve           = errors.New("pokemon cannot evolve")
	ErrCorruptChain           = errors.New("evolution chain is corrupt")
	ErrTypeInUse              = errors.New("pokemon type is still referenced")
)

// ValidationError reports a missing or invalid field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferenceError reports a type id that does not resolve. It matches ErrReference.
type ReferenceError struct {
	Field  string
	TypeID int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: type %d does not exist", e.Field, e.TypeID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReference
}
