package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/errors"
)

// UserCreate is a new account with a plaintext password.
type UserCreate struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=1,max=72"`
	FullName    string `json:"full_name" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdate lists the fields to change. Password is plaintext and is
// hashed before it is stored.
type UserUpdate struct {
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Password    *string `json:"password" validate:"omitempty,max=72"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// Get returns the user with id, reading through the session store cache.
// Misses are filled from the directory; absent users are not cached. A
// fill is written only if the user's generation is unchanged since before
// the directory read, so a snapshot read ahead of a concurrent update is
// never cached after that update's invalidation.
func (s *Service) Get(ctx context.Context, id int64) (*user.User, error) {
	key := s.keys.UserKey(id)

	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		var u user.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			return &u, nil
		}
		s.logger.Warn().Int64("user_id", id).Msg("dropping undecodable cache entry")
		if err := s.store.Delete(ctx, key); err != nil {
			return nil, err
		}
	}

	gen, err := s.generation(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(u)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	stored, err := s.store.PutIfGeneration(ctx, key, string(data), s.keys.GenerationKey(id), gen)
	if err != nil {
		return nil, err
	}
	if !stored {
		s.logger.Debug().Int64("user_id", id).Msg("user changed during read, not cached")
	}
	return u, nil
}

func (s *Service) generation(ctx context.Context, id int64) (int64, error) {
	raw, ok, err := s.store.Get(ctx, s.keys.GenerationKey(id))
	if err != nil || !ok {
		return 0, err
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.ErrInternal.WithCause(err)
	}
	return gen, nil
}

// GetByEmail reads straight from the directory.
func (s *Service) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// List returns a page of users ordered by id.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*user.User, error) {
	return s.users.List(ctx, offset, limit)
}

// Create adds an account on behalf of an administrator.
func (s *Service) Create(ctx context.Context, in UserCreate) (u *user.User, err error) {
	defer s.observe("create_user", time.Now(), &err)

	nu, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	if u, err = s.users.Create(ctx, nu); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Msg("user created")
	s.audit(ctx, EventUserCreated, u.ID, nil)
	return u, nil
}

// Register is anonymous sign-up. It fails with
// errors.ErrOpenRegistrationDisabled unless enabled with
// WithOpenRegistration, and never grants superuser rights.
func (s *Service) Register(ctx context.Context, in UserCreate) (*user.User, error) {
	if !s.openRegistration {
		return nil, errors.ErrOpenRegistrationDisabled
	}
	in.IsSuperuser = false
	in.IsActive = nil
	return s.Create(ctx, in)
}

// EnsureSuperuser creates the first superuser if no account with email
// exists yet. An existing account is returned unchanged.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password, fullName string) (*user.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	nu, err := s.newUser(UserCreate{
		Email:       email,
		Password:    password,
		FullName:    fullName,
		IsSuperuser: true,
	})
	if err != nil {
		return nil, err
	}

	u, created, err := s.users.GetOrCreateByEmail(ctx, email, nu)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info().Int64("user_id", u.ID).Msg("first superuser created")
		s.audit(ctx, EventUserCreated, u.ID, nil)
	}
	return u, nil
}

func (s *Service) newUser(in UserCreate) (user.NewUser, error) {
	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return user.NewUser{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return user.NewUser{
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       active,
		IsSuperuser:    in.IsSuperuser,
	}, nil
}

// Update applies upd to u. Any successful update drops the cached user
// and revokes all of the user's refresh tokens. If that cleanup fails the
// update is already stored; the error is errors.ErrStoreUnavailable and
// the stale entries live until the next update or delete.
func (s *Service) Update(ctx context.Context, u *user.User, upd UserUpdate) (updated *user.User, err error) {
	defer s.observe("update_user", time.Now(), &err)

	cs := user.Changeset{
		Email:       upd.Email,
		FullName:    upd.FullName,
		IsActive:    upd.IsActive,
		IsSuperuser: upd.IsSuperuser,
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		cs.HashedPassword = &hash
	}

	if updated, err = s.users.Update(ctx, u, cs); err != nil {
		return nil, err
	}
	if err = s.invalidate(ctx, u.ID); err != nil {
		return updated, err
	}

	s.audit(ctx, EventUserUpdated, u.ID, nil)
	return updated, nil
}

// Delete removes u and everything the session store holds for it.
func (s *Service) Delete(ctx context.Context, u *user.User) (deleted *user.User, err error) {
	defer s.observe("delete_user", time.Now(), &err)

	if deleted, err = s.users.Delete(ctx, u); err != nil {
		return nil, err
	}
	if err = s.invalidate(ctx, u.ID); err != nil {
		return deleted, err
	}

	s.audit(ctx, EventUserDeleted, u.ID, nil)
	return deleted, nil
}

// DeleteByID is Delete for a user that has not been loaded.
func (s *Service) DeleteByID(ctx context.Context, id int64) (deleted *user.User, err error) {
	defer s.observe("delete_user", time.Now(), &err)

	if deleted, err = s.users.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	if err = s.invalidate(ctx, id); err != nil {
		return deleted, err
	}

	s.audit(ctx, EventUserDeleted, id, nil)
	return deleted, nil
}

// invalidate bumps the user's generation, then drops the cached user and
// the refresh-token registry. Every step is attempted even if an earlier
// one fails.
func (s *Service) invalidate(ctx context.Context, id int64) error {
	_, genErr := s.store.Incr(ctx, s.keys.GenerationKey(id))
	if genErr != nil {
		s.logger.Error().Err(genErr).Int64("user_id", id).Msg("bump user generation")
	}
	cacheErr := s.store.Delete(ctx, s.keys.UserKey(id))
	if cacheErr != nil {
		s.logger.Error().Err(cacheErr).Int64("user_id", id).Msg("drop cached user")
	}
	tokensErr := s.store.SetDelete(ctx, s.keys.RefreshTokenKey(id))
	if tokensErr != nil {
		s.logger.Error().Err(tokensErr).Int64("user_id", id).Msg("revoke refresh tokens")
	}

	if genErr != nil || cacheErr != nil || tokensErr != nil {
		return errors.StoreUnavailable(errors.Join(genErr, cacheErr, tokensErr))
	}
	return nil
}
