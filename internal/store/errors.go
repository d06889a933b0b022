package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific errors such as ErrAuthorNotFound wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity violates a storage
	// constraint. Check the wrapped error for the specific constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrAuthorNotFound indicates that the requested author does not exist in the store.
	ErrAuthorNotFound = fmt.Errorf("%w: author", ErrNotFound)

	// ErrBookNotFound indicates that the requested book does not exist in the store.
	ErrBookNotFound = fmt.Errorf("%w: book", ErrNotFound)

	// ErrAuthorReference is returned when a book references an author that
	// does not exist, typically because the author was deleted concurrently.
	ErrAuthorReference = fmt.Errorf("%w: book references a missing author", ErrInvalidEntity)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError adds entity and operation context to a store failure.
type StoreError struct {
	Entity    string // The entity type (e.g., "author", "book")
	Operation string // The operation that failed (e.g., "create", "update")
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation on %s failed: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation and wrapped error.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Err:       err,
	}
}
