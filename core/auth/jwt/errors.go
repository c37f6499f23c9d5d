package jwt

import "errors"

var (
	ErrEmptySecret          = errors.New("jwt: access and refresh secrets are required")
	ErrSameSecret           = errors.New("jwt: access and refresh secrets must differ")
	ErrInvalidTTL           = errors.New("jwt: token ttl must be positive")
	ErrUnsupportedAlgorithm = errors.New("jwt: unsupported signing algorithm")
)
