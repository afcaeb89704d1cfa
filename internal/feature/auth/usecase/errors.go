// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidCredentials is returned on any email/password mismatch. The
	// cause is deliberately not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")
)
