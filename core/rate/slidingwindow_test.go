package rate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/log"
	kitredis "github.com/kochabx/authkit/store/redis"
)

func testClient(t *testing.T) *kitredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := kitredis.New(context.Background(), kitredis.Single(addr), kitredis.WithLogger(log.Nop()))
	if err != nil {
		t.Skipf("Skipping test (Redis not available): %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSlidingWindowLimiter(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	rdb := client.UniversalClient()

	key := "test:" + t.Name()
	lim := NewSlidingWindowLimiter(rdb, "authkit:rate:", time.Second, 2)
	t.Cleanup(func() { rdb.Del(context.Background(), "authkit:rate:"+key) })

	now := time.Now()
	for i := 0; i < 2; i++ {
		ok, err := lim.AllowN(ctx, key, now, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := lim.AllowN(ctx, key, now, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lim.AllowN(ctx, key, now.Add(1500*time.Millisecond), 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.AllowN(ctx, "other:"+key, now, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}
