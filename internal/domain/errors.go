package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end odometer below start).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when credentials are missing, wrong, or the
// presented token is invalid or expired.
// Handlers should map this to HTTP 401 with a {"detail": ...} body.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when an authenticated user lacks the role or
// ownership required for an operation (e.g. an operator editing a vehicle,
// or finishing another driver's trip).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation is valid in shape but conflicts
// with current state: starting a trip that is already in progress, finishing
// one that is already finished, or registering a taken username.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
