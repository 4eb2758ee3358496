// Package apperrors defines the business error kinds the service layer
// returns. Handlers translate each kind into an HTTP status; nothing else
// crosses the transport boundary, so storage errors never leak verbatim.
package apperrors

import "errors"

var (
	// ErrUserNotFound covers both a login attempt with an unknown email
	// and a token whose subject no longer exists in the user store.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials means the password did not match the stored
	// hash. It is reported only after the user has been found, so the two
	// failure modes stay distinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedToken covers a bad signature, structure, signing
	// method, issuer, or a missing subject claim.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken means the signature checked out but the expiry
	// has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTaskNotFound covers tasks that are absent and tasks that were
	// soft-deleted; tombstones are indistinguishable from missing rows.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotTaskOwner is returned only for tasks that exist and are not
	// deleted, strictly after the existence check.
	ErrNotTaskOwner = errors.New("not the task owner")

	// ErrTaskCreation wraps validation and persistence failures during
	// task creation; the caller sees an opaque creation error.
	ErrTaskCreation = errors.New("task could not be created")

	// ErrEmailTaken is returned when registration reuses an email.
	ErrEmailTaken = errors.New("email already registered")
)
