package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/log"
)

func testAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ApplyDefaults())
	assert.Equal(t, []string{"localhost:6379"}, cfg.Addrs)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3, cfg.Protocol)
	assert.Equal(t, "single", cfg.Mode())
}

func TestConfigMode(t *testing.T) {
	assert.Equal(t, "cluster", (&Config{Addrs: []string{"a:1", "b:1"}}).Mode())
	assert.Equal(t, "sentinel", Sentinel("mymaster", "s:26379").Mode())
	assert.ErrorIs(t, (&Config{DialTimeout: -1, Addrs: []string{"a"}}).Validate(), ErrInvalidTimeout)
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSingleMode(t *testing.T) {
	ctx := context.Background()

	client, err := New(ctx, Single(testAddr()), WithLogger(log.Nop()), WithDebug())
	if err != nil {
		t.Skipf("Skipping test (Redis not available): %v", err)
		return
	}
	defer client.Close()

	rdb := client.UniversalClient()
	key := "authkit:test:key"
	require.NoError(t, rdb.Set(ctx, key, "v", time.Minute).Err())

	got, err := rdb.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, rdb.Del(ctx, key).Err())
	_, err = rdb.Get(ctx, key).Result()
	assert.ErrorIs(t, err, ErrNil)
	assert.NotNil(t, client.Stats())
}
