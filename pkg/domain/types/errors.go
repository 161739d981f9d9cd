package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify adapter and dispatch failures. The retry runner
// retries only errors tagged ErrTagTransient; everything else is terminal
// for that attempt and surfaces in the connection's status field.
var (
	// ErrTagTransient marks remote failures worth retrying: network errors,
	// rate limits, 5xx responses.
	ErrTagTransient = goerr.NewTag("transient")

	// ErrTagNotFound marks "the remote resource for this connection does
	// not exist" and precondition failures such as dispatching a non-create
	// action on a connection without a remote identifier.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagConflict marks idempotency conflicts: the remote resource
	// already exists, or is already in the requested state.
	ErrTagConflict = goerr.NewTag("conflict")
)

// IsTransient reports whether err carries the transient tag
func IsTransient(err error) bool {
	return goerr.HasTag(err, ErrTagTransient)
}

// IsNotFound reports whether err carries the not_found tag
func IsNotFound(err error) bool {
	return goerr.HasTag(err, ErrTagNotFound)
}

// IsConflict reports whether err carries the conflict tag
func IsConflict(err error) bool {
	return goerr.HasTag(err, ErrTagConflict)
}
