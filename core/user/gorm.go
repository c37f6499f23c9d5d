package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/kochabx/authkit/errors"
)

var _ Directory = (*GormDirectory)(nil)

// GormDirectory stores users through gorm. The *gorm.DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a directory on db.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ErrEmailAlreadyExists.WithCause(err)
	default:
		return errors.StoreUnavailable(err)
	}
}

// Get returns the user with id or errors.ErrUserNotFound.
func (d *GormDirectory) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := d.db.WithContext(ctx).Take(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByEmail returns the user with email or errors.ErrUserNotFound.
func (d *GormDirectory) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := d.db.WithContext(ctx).Take(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create inserts nu. A taken email fails with errors.ErrEmailAlreadyExists.
func (d *GormDirectory) Create(ctx context.Context, nu NewUser) (*User, error) {
	u := &User{
		Email:          nu.Email,
		HashedPassword: nu.HashedPassword,
		FullName:       nu.FullName,
		IsActive:       nu.IsActive,
		IsSuperuser:    nu.IsSuperuser,
	}
	if err := d.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Update applies cs to existing and returns the stored row.
func (d *GormDirectory) Update(ctx context.Context, existing *User, cs Changeset) (*User, error) {
	if !cs.Empty() {
		err := d.db.WithContext(ctx).Model(&User{ID: existing.ID}).Updates(cs.columns()).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return d.Get(ctx, existing.ID)
}

// Delete removes existing and returns it.
func (d *GormDirectory) Delete(ctx context.Context, existing *User) (*User, error) {
	res := d.db.WithContext(ctx).Delete(&User{}, "id = ?", existing.ID)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.ErrUserNotFound
	}
	deleted := *existing
	return &deleted, nil
}

// DeleteByID removes the user with id and returns it.
func (d *GormDirectory) DeleteByID(ctx context.Context, id int64) (*User, error) {
	u, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Delete(ctx, u)
}

// List returns users ordered by id.
func (d *GormDirectory) List(ctx context.Context, offset, limit int) ([]*User, error) {
	offset, limit = normalizePage(offset, limit)
	var users []*User
	err := d.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// GetOrCreateByEmail returns the user with email, creating it from nu if
// absent. The bool reports whether it was created.
func (d *GormDirectory) GetOrCreateByEmail(ctx context.Context, email string, nu NewUser) (*User, bool, error) {
	u, err := d.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, errors.ErrUserNotFound) {
		return nil, false, err
	}

	nu.Email = email
	u, err = d.Create(ctx, nu)
	if err == nil {
		return u, true, nil
	}
	if !errors.Is(err, errors.ErrEmailAlreadyExists) {
		return nil, false, err
	}

	// lost the race; the failed insert was rolled back, read the winner
	u, err = d.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return u, false, nil
}
