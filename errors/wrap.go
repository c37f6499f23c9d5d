package errors

import stderrors "errors"

// Standard library helpers, re-exported so callers only import this package.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Join   = stderrors.Join
	Unwrap = stderrors.Unwrap
)

// IsUnavailable reports whether err means a backing store could not be
// reached. Such errors are never a statement about the data itself.
func IsUnavailable(err error) bool {
	return Is(err, ErrStoreUnavailable)
}

// IsNotFound reports whether err is a missing user or refresh token.
func IsNotFound(err error) bool {
	return Is(err, ErrUserNotFound) || Is(err, ErrRefreshTokenNotFound)
}
