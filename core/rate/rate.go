package rate

import (
	"context"
	"time"
)

// Limiter 按 key 限流
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	AllowN(ctx context.Context, key string, t time.Time, n int) (bool, error)
}
