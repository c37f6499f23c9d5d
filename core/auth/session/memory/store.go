// Package memory is an in-process session.Store.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/kochabx/authkit/core/auth/session"
	"github.com/kochabx/authkit/errors"
)

var _ session.Store = (*Store)(nil)

// Store keeps values and sets in maps guarded by one mutex.
type Store struct {
	mu          sync.Mutex
	values      map[string]string
	sets        map[string]map[string]struct{}
	unavailable error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		values: make(map[string]string),
		sets:   make(map[string]map[string]struct{}),
	}
}

// SetUnavailable makes every operation fail with errors.ErrStoreUnavailable
// wrapping cause until called again with nil.
func (s *Store) SetUnavailable(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = cause
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.StoreUnavailable(err)
	}
	if s.unavailable != nil {
		return errors.StoreUnavailable(s.unavailable)
	}
	return nil
}

// Put sets key to value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	s.values[key] = value
	return nil
}

// Get returns the value at key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Delete removes key. A missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

// SetAdd adds member to the set at key, creating the set if needed.
func (s *Store) SetAdd(ctx context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	set[member] = struct{}{}
	return nil
}

// SetContains reports whether member is in the set at key.
func (s *Store) SetContains(ctx context.Context, key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}
	_, ok := s.sets[key][member]
	return ok, nil
}

// SetRemove removes member and reports whether it was present.
func (s *Store) SetRemove(ctx context.Context, key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}
	set, ok := s.sets[key]
	if !ok {
		return false, nil
	}
	if _, ok := set[member]; !ok {
		return false, nil
	}
	delete(set, member)
	if len(set) == 0 {
		delete(s.sets, key)
	}
	return true, nil
}

// SetDelete removes the whole set at key.
func (s *Store) SetDelete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	delete(s.sets, key)
	return nil
}

// Incr increments the integer at key.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	n, err := s.counter(key)
	if err != nil {
		return 0, err
	}
	n++
	s.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// PutIfGeneration sets key to value if the counter at genKey equals gen.
func (s *Store) PutIfGeneration(ctx context.Context, key, value, genKey string, gen int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}
	n, err := s.counter(genKey)
	if err != nil {
		return false, err
	}
	if n != gen {
		return false, nil
	}
	s.values[key] = value
	return true, nil
}

func (s *Store) counter(key string) (int64, error) {
	v, ok := s.values[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.ErrInternal.WithCause(err)
	}
	return n, nil
}

// SetLen returns the size of the set at key.
func (s *Store) SetLen(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets[key])
}
