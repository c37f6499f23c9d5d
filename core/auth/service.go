// Package auth signs users in and manages their sessions.
//
// A session is a pair of tokens: a short-lived access token presented on
// every request and a refresh token that can be exchanged once for a new
// pair. A refresh token is honored only while it is a member of the
// user's refresh-token set in the session store, so removing it from the
// set revokes it immediately.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/kochabx/authkit/core/auth/jwt"
	"github.com/kochabx/authkit/core/auth/session"
	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
)

// TokenCodec issues and verifies token pairs.
type TokenCodec interface {
	IssuePair(subjectID int64) (*jwt.TokenPair, error)
	VerifyAccess(token string) (int64, error)
	VerifyRefresh(token string) (int64, error)
	// RefreshSubject verifies the signature but accepts expired tokens.
	RefreshSubject(token string) (int64, error)
}

// Service is the auth core. It is safe for concurrent use.
type Service struct {
	codec   TokenCodec
	users   user.Directory
	store   session.Store
	keys    session.Keyspace
	logger  *log.Logger
	metrics *Metrics
	auditor Auditor

	bcryptCost       int
	openRegistration bool

	dummyOnce sync.Once
	dummyHash string
}

// New creates a Service over its three collaborators.
func New(codec TokenCodec, users user.Directory, store session.Store, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Service{
		codec:            codec,
		users:            users,
		store:            store,
		keys:             o.keys,
		logger:           o.logger.Component("auth"),
		metrics:          o.metrics,
		auditor:          o.auditor,
		bcryptCost:       o.bcryptCost,
		openRegistration: o.openRegistration,
	}
}

// OpenRegistration reports whether anonymous sign-up is allowed.
func (s *Service) OpenRegistration() bool {
	return s.openRegistration
}

// SignIn checks the credentials and starts a new session.
//
// An unknown email fails with errors.ErrUserNotFound, a bad password with
// errors.ErrWrongPassword and a disabled account with errors.ErrInactiveUser.
func (s *Service) SignIn(ctx context.Context, email, password string) (pair *jwt.TokenPair, u *user.User, err error) {
	defer s.observe("sign_in", time.Now(), &err)

	u, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			s.comparePasswordDummy(password)
		}
		s.audit(ctx, EventSignInFailed, 0, err)
		return nil, nil, err
	}
	if !VerifyPassword(u.HashedPassword, password) {
		err = errors.ErrWrongPassword
		s.audit(ctx, EventSignInFailed, u.ID, err)
		return nil, nil, err
	}
	if err = RequireActive(u); err != nil {
		s.audit(ctx, EventSignInFailed, u.ID, err)
		return nil, nil, err
	}

	if pair, err = s.issue(ctx, u.ID); err != nil {
		return nil, nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Msg("signed in")
	s.audit(ctx, EventSignIn, u.ID, nil)
	return pair, u, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token
// can be used once: it is removed from the registry before the new pair
// is issued, so of two concurrent calls with the same token at most one
// succeeds. If the call fails after that point the old token is gone and
// the caller has to sign in again.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (pair *jwt.TokenPair, u *user.User, err error) {
	defer s.observe("refresh", time.Now(), &err)

	id, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	key := s.keys.RefreshTokenKey(id)
	ok, err := s.store.SetContains(ctx, key, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.ErrRefreshTokenNotFound
	}

	removed, err := s.store.SetRemove(ctx, key, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if !removed {
		return nil, nil, errors.ErrRefreshTokenNotFound
	}

	if u, err = s.Get(ctx, id); err != nil {
		return nil, nil, err
	}
	if pair, err = s.issue(ctx, u.ID); err != nil {
		return nil, nil, err
	}

	s.audit(ctx, EventRefresh, u.ID, nil)
	return pair, u, nil
}

// issue mints a pair and registers its refresh token.
func (s *Service) issue(ctx context.Context, id int64) (*jwt.TokenPair, error) {
	pair, err := s.codec.IssuePair(id)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	if err := s.store.SetAdd(ctx, s.keys.RefreshTokenKey(id), pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate resolves the user an access token was issued to. It does
// not check the active or superuser flags; see RequireActive and
// RequireSuperuser.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (u *user.User, err error) {
	defer s.observe("authenticate", time.Now(), &err)

	id, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AuthenticateActive is Authenticate followed by RequireActive.
func (s *Service) AuthenticateActive(ctx context.Context, accessToken string) (*user.User, error) {
	u, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if err := RequireActive(u); err != nil {
		return nil, err
	}
	return u, nil
}

// AuthenticateSuperuser is AuthenticateActive followed by RequireSuperuser.
func (s *Service) AuthenticateSuperuser(ctx context.Context, accessToken string) (*user.User, error) {
	u, err := s.AuthenticateActive(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if err := RequireSuperuser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// RequireActive fails with errors.ErrInactiveUser for a disabled account.
func RequireActive(u *user.User) error {
	if !u.IsActive {
		return errors.ErrInactiveUser
	}
	return nil
}

// RequireSuperuser fails with errors.ErrNotEnoughPrivileges unless u is a superuser.
func RequireSuperuser(u *user.User) error {
	if !u.IsSuperuser {
		return errors.ErrNotEnoughPrivileges
	}
	return nil
}

// Logout revokes one refresh token. An expired token is still accepted
// as long as its signature verifies, and revoking a token that is not
// registered is a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) (err error) {
	defer s.observe("logout", time.Now(), &err)

	id, err := s.codec.RefreshSubject(refreshToken)
	if err != nil {
		return err
	}
	if _, err = s.store.SetRemove(ctx, s.keys.RefreshTokenKey(id), refreshToken); err != nil {
		return err
	}

	s.audit(ctx, EventLogout, id, nil)
	return nil
}

// LogoutAll revokes every refresh token of the user.
func (s *Service) LogoutAll(ctx context.Context, userID int64) (err error) {
	defer s.observe("logout_all", time.Now(), &err)

	if err = s.store.SetDelete(ctx, s.keys.RefreshTokenKey(userID)); err != nil {
		return err
	}

	s.audit(ctx, EventLogoutAll, userID, nil)
	return nil
}

// LogoutAllWithToken revokes every refresh token of the user the given,
// still valid, refresh token belongs to.
func (s *Service) LogoutAllWithToken(ctx context.Context, refreshToken string) error {
	id, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return err
	}
	return s.LogoutAll(ctx, id)
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.observe(op, start, *err)
}

func (s *Service) audit(ctx context.Context, t EventType, userID int64, err error) {
	e := Event{Type: t, UserID: userID, Time: time.Now().UTC()}
	if err != nil {
		e.Reason = errors.Reason(err)
	}
	s.auditor.Publish(ctx, e)
}
