package rate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 窗口内的请求以有序集合保存，score 为毫秒时间戳
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local n = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) + n > limit then
	return 0
end
for i = 1, n do
	redis.call('ZADD', key, now, member .. ':' .. i)
end
redis.call('PEXPIRE', key, window)
return 1
`)

var _ Limiter = (*SlidingWindowLimiter)(nil)

// SlidingWindowLimiter 基于 Redis 的滑动窗口限流，window 内最多放行 limit 个请求
type SlidingWindowLimiter struct {
	client redis.UniversalClient
	prefix string
	window time.Duration
	limit  int
}

func NewSlidingWindowLimiter(client redis.UniversalClient, prefix string, window time.Duration, limit int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		prefix: prefix,
		window: window,
		limit:  limit,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.AllowN(ctx, key, time.Now(), 1)
}

func (l *SlidingWindowLimiter) AllowN(ctx context.Context, key string, t time.Time, n int) (bool, error) {
	result, err := slidingWindowScript.Run(ctx, l.client, []string{l.prefix + key},
		l.window.Milliseconds(), l.limit, t.UnixMilli(), n, uuid.NewString()).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
