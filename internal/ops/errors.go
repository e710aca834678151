package ops

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every NotFoundError. Use errors.Is to check for it.
var ErrNotFound = errors.New("item not found")

// Sentinels wrapped by ValidationError, one per ErrorKind.
var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// NotFoundError indicates that no item has the given ID.
type NotFoundError struct {
	ID string // the ID that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	KindEmptyName       ErrorKind = "EmptyName"
	KindInvalidPrice    ErrorKind = "InvalidPrice"
	KindInvalidQuantity ErrorKind = "InvalidQuantity"
)

// ValidationError indicates a proposed item field was rejected.
type ValidationError struct {
	Kind    ErrorKind
	Field   string // "name", "price" or "quantity"
	Value   string // the rejected input
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case KindEmptyName:
		return ErrEmptyName
	case KindInvalidPrice:
		return ErrInvalidPrice
	case KindInvalidQuantity:
		return ErrInvalidQuantity
	default:
		return nil
	}
}
