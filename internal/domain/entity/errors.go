package entity

import "errors"

var (
	// ErrPostNotFound is returned when the post does not exist at read or transaction time.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when no profile matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict marks a transaction aborted by concurrent contention. It is transient.
	ErrConflict = errors.New("transaction conflict")
	// ErrUnavailable marks an unreachable backing store.
	ErrUnavailable = errors.New("store unavailable")
	// ErrForbidden is returned when the acting user does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation wraps input validation failures.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists is returned on unique key violations (email, username).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
