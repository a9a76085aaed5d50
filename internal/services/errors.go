package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// statuses with errors.Is; anything else is treated as a storage failure.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrValidation         = errors.New("validation failed")

	// ErrNotFound covers both a missing task and a task owned by another
	// user. The two cases are deliberately indistinguishable so that probing
	// for other users' task IDs leaks nothing.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps database failures (connection loss, constraint
	// violations outside the modeled taxonomy).
	ErrStorage = errors.New("storage failure")
)
