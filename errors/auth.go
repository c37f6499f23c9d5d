package errors

// Authentication and user-management failures.
var (
	ErrUserNotFound             = New(404, "user_not_found", "user not found")
	ErrWrongPassword            = New(401, "wrong_password", "wrong password")
	ErrInactiveUser             = New(403, "inactive_user", "inactive user")
	ErrInvalidToken             = New(401, "invalid_token", "could not validate credentials")
	ErrExpired                  = New(401, "token_expired", "token expired")
	ErrRefreshTokenNotFound     = New(401, "refresh_token_not_found", "refresh token not found")
	ErrNotEnoughPrivileges      = New(403, "not_enough_privileges", "the user doesn't have enough privileges")
	ErrEmailAlreadyExists       = New(409, "email_exists", "the user with this email already exists in the system")
	ErrStoreUnavailable         = New(503, "store_unavailable", "backing store unavailable")
	ErrOpenRegistrationDisabled = New(403, "registration_disabled", "open user registration is forbidden on this server")
)

// Generic request failures used by the transport layer.
var (
	ErrBadRequest      = New(400, "bad_request", "bad request")
	ErrTooManyRequests = New(429, "too_many_requests", "too many requests")
	ErrInternal        = New(500, "internal", "internal server error")
)

// StoreUnavailable wraps a transport or connection failure of a backing store.
func StoreUnavailable(cause error) *Error {
	return ErrStoreUnavailable.WithCause(cause)
}

// BadRequest returns a 400 error with the given message.
func BadRequest(format string, args ...any) *Error {
	return ErrBadRequest.WithMessage(format, args...)
}
