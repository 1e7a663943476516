package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrEventNotFound    = errors.New("event not found")
	ErrMentorNotFound   = errors.New("mentor not found")
	ErrDuplicateRequest = errors.New("duplicate mentorship request")
	ErrRequestNotFound  = errors.New("mentorship request not found")
	ErrRequestAnswered  = errors.New("mentorship request already answered")
	ErrInternal         = errors.New("internal error")

	// ErrStoreUnavailable wraps failures of the backing store. Callers may
	// retry; this layer does not.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConcurrencyConflict means every attempt of a read-modify-write lost
	// to a concurrent writer. The caller may retry the whole operation.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// storeError tags err as a store failure while keeping it in the chain.
func storeError(err error) error {
	return errors.Join(ErrStoreUnavailable, err)
}

// IsRetryable reports whether err is a transient condition a caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrConcurrencyConflict)
}
