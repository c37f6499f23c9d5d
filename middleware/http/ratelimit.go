package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/transport/http/response"
)

// RateLimiter 按 key 判断是否放行，可由 core/rate 提供
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitConfig 限流中间件配置
type RateLimitConfig struct {
	Limiter RateLimiter               // 限流器，必填
	KeyFunc func(*gin.Context) string // 限流维度，默认客户端 IP
	Logger  *log.Logger               // 自定义日志记录器
}

// RateLimit 创建限流中间件。超限返回 429；限流器自身出错时放行并记录告警。
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		panic("middleware: RateLimit requires a Limiter")
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		key := cfg.KeyFunc(c)
		ok, err := cfg.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			cfg.Logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			response.Error(c, errors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
