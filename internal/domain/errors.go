package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. rejecting a request without a justification).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidTransition is returned when a status change is attempted on a
// request that has already been resolved. Only pending requests may be
// approved or rejected; repeated clicks must never grow the audit trail.
// Handlers should map this to HTTP 409 Conflict.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrVersionConflict is returned by the record store when an update carries a
// stale version — another session modified the record since it was read.
// Callers should reload and retry deliberately, never automatically.
// Handlers should map this to HTTP 409 Conflict.
var ErrVersionConflict = errors.New("version conflict")

// ErrUnauthenticated is returned when no session actor can be resolved.
// Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when the acting actor lacks the role or sector
// required for an operation. The lifecycle engine re-validates authorization
// itself rather than trusting the route guard alone.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
