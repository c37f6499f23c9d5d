package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(401, "unauthorized", "unauthorized access for %s", "bob")
	assert.Equal(t, 401, err.GetCode())
	assert.Equal(t, "unauthorized", err.GetReason())
	assert.Equal(t, "unauthorized access for bob", err.GetMessage())
	assert.Contains(t, err.Error(), "reason=unauthorized")
}

func TestWithMetadata(t *testing.T) {
	err := New(401, "unauthorized", "unauthorized")

	assert.Same(t, err, err.WithMetadata(map[string]string{}))

	err2 := err.WithMetadata(map[string]string{"user": "john"})
	assert.NotSame(t, err, err2)
	assert.Equal(t, "john", err2.GetMetadata()["user"])
	assert.Nil(t, err.GetMetadata())
}

func TestWithCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := StoreUnavailable(cause)

	assert.Same(t, cause, err.GetCause())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, ErrStoreUnavailable.GetCause())
}

func TestIsComparesCodeAndReason(t *testing.T) {
	assert.ErrorIs(t, ErrWrongPassword.WithMessage("nope"), ErrWrongPassword)
	assert.NotErrorIs(t, ErrWrongPassword, ErrInvalidToken)
	assert.NotErrorIs(t, ErrInvalidToken, ErrExpired)
	assert.NotErrorIs(t, ErrStoreUnavailable, ErrUserNotFound)

	wrapped := fmt.Errorf("sign in: %w", ErrInactiveUser)
	assert.ErrorIs(t, wrapped, ErrInactiveUser)
}

func TestFromError(t *testing.T) {
	std := errors.New("standard error")
	ge := FromError(std)
	assert.Equal(t, UnknownCode, ge.GetCode())
	assert.ErrorIs(t, ge, std)

	wrapped := fmt.Errorf("outer: %w", ErrExpired)
	assert.Same(t, ErrExpired, FromError(wrapped))

	assert.Nil(t, FromError(nil))
}

func TestCodeAndReason(t *testing.T) {
	tests := []struct {
		err    error
		code   int
		reason string
	}{
		{nil, 200, ""},
		{ErrUserNotFound, 404, "user_not_found"},
		{fmt.Errorf("x: %w", ErrStoreUnavailable), 503, "store_unavailable"},
		{errors.New("boom"), UnknownCode, UnknownReason},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err))
		assert.Equal(t, tt.reason, Reason(tt.err))
	}
}

func TestWrap(t *testing.T) {
	require.Nil(t, Wrap(nil, 500, "internal", "x"))

	cause := errors.New("disk full")
	err := Wrap(cause, 500, "internal", "write %s", "users")
	assert.Equal(t, "write users", err.GetMessage())
	assert.ErrorIs(t, err, cause)
}

func BenchmarkErrorString(b *testing.B) {
	err := New(500, "internal", "internal server error").
		WithMetadata(map[string]string{"service": "api"}).
		WithCause(errors.New("database error"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = err.Error()
	}
}

func TestClassification(t *testing.T) {
	down := StoreUnavailable(fmt.Errorf("dial tcp: connection refused"))
	assert.True(t, IsUnavailable(down))
	assert.True(t, IsUnavailable(fmt.Errorf("get user: %w", down)))
	assert.False(t, IsNotFound(down))

	assert.True(t, IsNotFound(ErrUserNotFound))
	assert.True(t, IsNotFound(ErrRefreshTokenNotFound.WithMessage("gone")))
	assert.False(t, IsUnavailable(ErrUserNotFound))
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsNotFound(errors.New("user not found")))
}
