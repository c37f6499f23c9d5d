package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/kochabx/authkit/errors"
)

// HashPassword hashes password with bcrypt at the given cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errors.BadRequest("password must be at most 72 bytes")
		}
		return "", errors.ErrInternal.WithCause(err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// comparePasswordDummy spends the same bcrypt work as a real password
// check so an unknown email costs as much as a wrong password.
func (s *Service) comparePasswordDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("authkit-unmatchable", s.bcryptCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("build dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		VerifyPassword(s.dummyHash, password)
	}
}
