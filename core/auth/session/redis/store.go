// Package redis is a session.Store backed by Redis.
package redis

import (
	"context"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kochabx/authkit/core/auth/session"
	"github.com/kochabx/authkit/errors"
	kitredis "github.com/kochabx/authkit/store/redis"
)

var _ session.Store = (*Store)(nil)

// KEYS[1] value key, KEYS[2] generation key, ARGV[1] value, ARGV[2] generation.
var putIfGeneration = goredis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[2] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

// Store maps the session operations onto GET/SET/DEL and SADD/SISMEMBER/SREM.
// Keys carry no TTL.
type Store struct {
	rdb goredis.UniversalClient
}

// New wraps a client created by store/redis.
func New(client *kitredis.Client) *Store {
	return &Store{rdb: client.UniversalClient()}
}

// NewFromUniversal wraps an existing go-redis client.
func NewFromUniversal(rdb goredis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

// Put sets key to value with no expiry.
func (s *Store) Put(ctx context.Context, key, value string) error {
	return wrap(s.rdb.Set(ctx, key, value, 0).Err())
}

// Get returns the value at key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == kitredis.ErrNil {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap(err)
	}
	return v, true, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return wrap(s.rdb.Del(ctx, key).Err())
}

// SetAdd adds member to the set at key.
func (s *Store) SetAdd(ctx context.Context, key, member string) error {
	return wrap(s.rdb.SAdd(ctx, key, member).Err())
}

// SetContains reports whether member is in the set at key.
func (s *Store) SetContains(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, wrap(err)
	}
	return ok, nil
}

// SetRemove removes member and reports whether it was present.
func (s *Store) SetRemove(ctx context.Context, key, member string) (bool, error) {
	n, err := s.rdb.SRem(ctx, key, member).Result()
	if err != nil {
		return false, wrap(err)
	}
	return n > 0, nil
}

// SetDelete removes the whole set at key.
func (s *Store) SetDelete(ctx context.Context, key string) error {
	return wrap(s.rdb.Del(ctx, key).Err())
}

// Incr increments the integer at key.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

// PutIfGeneration sets key to value if the counter at genKey equals gen.
// Both keys must hash to the same cluster slot.
func (s *Store) PutIfGeneration(ctx context.Context, key, value, genKey string, gen int64) (bool, error) {
	n, err := putIfGeneration.Run(ctx, s.rdb, []string{key, genKey}, value, strconv.FormatInt(gen, 10)).Int()
	if err != nil {
		return false, wrap(err)
	}
	return n == 1, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.StoreUnavailable(err)
}
