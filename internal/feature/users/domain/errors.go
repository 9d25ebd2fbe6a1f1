// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

// Domain errors for user operations.
// These represent business rule failures and are mapped to HTTP statuses
// at the transport boundary.
var (
	// ErrUserNotFound indicates that no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists indicates a uniqueness conflict on the email
	// column, either from the pre-check or from the database index.
	ErrEmailAlreadyExists = errors.New("email is already registered")

	// ErrInvalidEmailFormat indicates the email does not match the
	// configured email pattern.
	ErrInvalidEmailFormat = errors.New("invalid email format")

	// ErrInvalidPasswordFormat indicates the password does not match the
	// configured password pattern.
	ErrInvalidPasswordFormat = errors.New("invalid password format")
)
