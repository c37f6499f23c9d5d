package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kochabx/authkit/errors"
)

var _ Directory = (*MemoryDirectory)(nil)

// MemoryDirectory is an in-process Directory with the same contract as
// GormDirectory.
type MemoryDirectory struct {
	mu          sync.Mutex
	nextID      int64
	byID        map[int64]User
	byEmail     map[string]int64
	unavailable error
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:    make(map[int64]User),
		byEmail: make(map[string]int64),
	}
}

// SetUnavailable makes every operation fail with errors.ErrStoreUnavailable
// wrapping cause until called again with nil.
func (d *MemoryDirectory) SetUnavailable(cause error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable = cause
}

func (d *MemoryDirectory) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.StoreUnavailable(err)
	}
	if d.unavailable != nil {
		return errors.StoreUnavailable(d.unavailable)
	}
	return nil
}

// Get returns the user with id or errors.ErrUserNotFound.
func (d *MemoryDirectory) Get(ctx context.Context, id int64) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	u, ok := d.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail returns the user with email or errors.ErrUserNotFound.
func (d *MemoryDirectory) GetByEmail(ctx context.Context, email string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	id, ok := d.byEmail[email]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	u := d.byID[id]
	return &u, nil
}

// Create inserts nu. A taken email fails with errors.ErrEmailAlreadyExists.
func (d *MemoryDirectory) Create(ctx context.Context, nu NewUser) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	return d.create(nu)
}

func (d *MemoryDirectory) create(nu NewUser) (*User, error) {
	if _, ok := d.byEmail[nu.Email]; ok {
		return nil, errors.ErrEmailAlreadyExists
	}
	d.nextID++
	now := time.Now().UTC()
	u := User{
		ID:             d.nextID,
		Email:          nu.Email,
		HashedPassword: nu.HashedPassword,
		FullName:       nu.FullName,
		IsActive:       nu.IsActive,
		IsSuperuser:    nu.IsSuperuser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	d.byID[u.ID] = u
	d.byEmail[u.Email] = u.ID
	return &u, nil
}

// Update applies cs to existing and returns the stored row.
func (d *MemoryDirectory) Update(ctx context.Context, existing *User, cs Changeset) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	u, ok := d.byID[existing.ID]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	if cs.Email != nil && *cs.Email != u.Email {
		if _, taken := d.byEmail[*cs.Email]; taken {
			return nil, errors.ErrEmailAlreadyExists
		}
		delete(d.byEmail, u.Email)
		d.byEmail[*cs.Email] = u.ID
	}
	cs.apply(&u)
	if !cs.Empty() {
		u.UpdatedAt = time.Now().UTC()
	}
	d.byID[u.ID] = u
	return &u, nil
}

// Delete removes existing and returns it.
func (d *MemoryDirectory) Delete(ctx context.Context, existing *User) (*User, error) {
	return d.DeleteByID(ctx, existing.ID)
}

// DeleteByID removes the user with id and returns it.
func (d *MemoryDirectory) DeleteByID(ctx context.Context, id int64) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	u, ok := d.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	delete(d.byID, id)
	delete(d.byEmail, u.Email)
	return &u, nil
}

// List returns users ordered by id.
func (d *MemoryDirectory) List(ctx context.Context, offset, limit int) ([]*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, err
	}
	offset, limit = normalizePage(offset, limit)

	ids := make([]int64, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := []*User{}
	for i := offset; i < len(ids) && len(users) < limit; i++ {
		u := d.byID[ids[i]]
		users = append(users, &u)
	}
	return users, nil
}

// GetOrCreateByEmail returns the user with email, creating it from nu if
// absent. The bool reports whether it was created.
func (d *MemoryDirectory) GetOrCreateByEmail(ctx context.Context, email string, nu NewUser) (*User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(ctx); err != nil {
		return nil, false, err
	}
	if id, ok := d.byEmail[email]; ok {
		u := d.byID[id]
		return &u, false, nil
	}
	nu.Email = email
	u, err := d.create(nu)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
