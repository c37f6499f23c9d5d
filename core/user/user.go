// Package user is the durable directory of user accounts.
package user

import (
	"context"
	"embed"
	"io/fs"
	"time"
)

// User is a user account. ID is assigned by the directory and never changes.
type User struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex:ix_users_email" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"hashed_password"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null" json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// NewUser holds the fields of a user to create. The password is already hashed.
type NewUser struct {
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	IsSuperuser    bool
}

// Changeset lists the fields to change; nil fields are left as they are.
type Changeset struct {
	Email          *string
	HashedPassword *string
	FullName       *string
	IsActive       *bool
	IsSuperuser    *bool
}

// Empty reports whether the changeset changes nothing.
func (c Changeset) Empty() bool {
	return c.Email == nil && c.HashedPassword == nil && c.FullName == nil &&
		c.IsActive == nil && c.IsSuperuser == nil
}

func (c Changeset) apply(u *User) {
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.HashedPassword != nil {
		u.HashedPassword = *c.HashedPassword
	}
	if c.FullName != nil {
		u.FullName = *c.FullName
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	if c.IsSuperuser != nil {
		u.IsSuperuser = *c.IsSuperuser
	}
}

func (c Changeset) columns() map[string]any {
	m := make(map[string]any, 5)
	if c.Email != nil {
		m["email"] = *c.Email
	}
	if c.HashedPassword != nil {
		m["hashed_password"] = *c.HashedPassword
	}
	if c.FullName != nil {
		m["full_name"] = *c.FullName
	}
	if c.IsActive != nil {
		m["is_active"] = *c.IsActive
	}
	if c.IsSuperuser != nil {
		m["is_superuser"] = *c.IsSuperuser
	}
	return m
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return offset, limit
}

// Directory is the durable store of users.
//
// Lookups of absent users fail with errors.ErrUserNotFound, a duplicate
// email with errors.ErrEmailAlreadyExists and backend failures with
// errors.ErrStoreUnavailable.
type Directory interface {
	Get(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, nu NewUser) (*User, error)
	Update(ctx context.Context, existing *User, cs Changeset) (*User, error)
	Delete(ctx context.Context, existing *User) (*User, error)
	DeleteByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	// GetOrCreateByEmail returns the user with email, creating it from nu
	// when absent. created is false when another writer won the race.
	GetOrCreateByEmail(ctx context.Context, email string, nu NewUser) (u *User, created bool, err error)
}

//go:embed migrations
var migrations embed.FS

// Migrations returns the schema migrations laid out per dialect.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
