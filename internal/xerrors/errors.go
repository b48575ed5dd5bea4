package xerrors

import "errors"

// Error kinds shared across the whole service. Packages wrap these with
// fmt.Errorf("%w: ...") and callers match with errors.Is.
var (
	// ErrNotFound: a referenced resource or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: a request is malformed or violates a model
	// invariant, such as a duplicate name in the same location.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied: the acting user is not allowed to perform the
	// requested action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInconsistency: internal state violates a structural invariant.
	// This never happens in correct operation.
	ErrInconsistency = errors.New("inconsistent state")
)
