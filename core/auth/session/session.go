// Package session defines the key-value store the auth service keeps its
// user cache and refresh-token registry in.
package session

import (
	"context"
	"strconv"
)

// Store is a key-value store with string values and string sets.
// A missing key is never an error. Transport failures are reported as
// errors.ErrStoreUnavailable.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error

	SetAdd(ctx context.Context, key, member string) error
	SetContains(ctx context.Context, key, member string) (bool, error)
	// SetRemove reports whether member was present. It is atomic per key.
	SetRemove(ctx context.Context, key, member string) (bool, error)
	SetDelete(ctx context.Context, key string) error

	// Incr atomically increments the integer at key, treating a missing
	// key as 0, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// PutIfGeneration stores value at key only if the integer at genKey
	// still equals gen, a missing genKey counting as 0. The check and the
	// write are atomic. It reports whether value was stored.
	PutIfGeneration(ctx context.Context, key, value, genKey string, gen int64) (bool, error)
}

// Keyspace derives store keys for a user.
type Keyspace struct {
	Prefix string `json:"prefix" mapstructure:"prefix"`
}

// UserKey is the key of the cached user snapshot.
func (k Keyspace) UserKey(id int64) string {
	return k.key("Cache:User:", id)
}

// RefreshTokenKey is the key of the user's set of valid refresh tokens.
func (k Keyspace) RefreshTokenKey(id int64) string {
	return k.key("RefreshToken:", id)
}

// GenerationKey is the key of the counter bumped each time the user's
// cached snapshot is invalidated. It hashes to the same cluster slot as
// UserKey.
func (k Keyspace) GenerationKey(id int64) string {
	return "{" + k.UserKey(id) + "}:Gen"
}

func (k Keyspace) key(base string, id int64) string {
	s := base + strconv.FormatInt(id, 10)
	if k.Prefix != "" {
		return k.Prefix + ":" + s
	}
	return s
}
