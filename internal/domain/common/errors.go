// internal/domain/common/errors.go
package common

import "errors"

// Error kinds shared across aggregates. Domain packages wrap these with
// package-prefixed sentinels so callers can branch with errors.Is on either
// the specific sentinel or the kind.
var (
	// ErrNotFound: a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: operation preconditions unmet (empty cart at checkout,
	// duplicate email at registration, illegal status transition, ...).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation: malformed input rejected before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrConflict: concurrent-write precondition failed (version mismatch,
	// duplicate create). Callers may retry.
	ErrConflict = errors.New("conflict")
)
