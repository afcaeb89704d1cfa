// Package apperrors defines the domain-level error kinds shared by every
// service. Handlers translate them to HTTP status categories.
package apperrors

import "errors"

var (
	// ErrInvalidArgument is returned when a required argument is missing,
	// typically a nil entity passed to save or update.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidData is returned when entity data fails validation or a
	// referential precondition blocks the operation.
	ErrInvalidData = errors.New("invalid data")

	// ErrDuplicateEntity is returned when saving would violate a uniqueness
	// invariant: an existing identity, a business key, or an invoice that
	// already has a payment.
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrEntityNotFound is returned when a referenced identity does not exist
	// in the store.
	ErrEntityNotFound = errors.New("entity not found")
)
