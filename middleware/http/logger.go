package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
)

// LoggerConfig 访问日志配置。请求体与响应体含密码和令牌，不记录。
type LoggerConfig struct {
	Header      bool                    // 是否记录请求头，凭证会被遮盖
	HandlerName bool                    // 是否记录处理器名称
	SkipPaths   []string                // 跳过记录的路径
	SkipFunc    func(*gin.Context) bool // 动态跳过判断函数
	Logger      *log.Logger             // 自定义日志记录器
}

// Logger 创建访问日志中间件，4xx 记为 warn，5xx 记为 error
func Logger(cfgs ...LoggerConfig) gin.HandlerFunc {
	var cfg LoggerConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}
	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := cfg.Logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = cfg.Logger.Error()
		case status >= http.StatusBadRequest:
			event = cfg.Logger.Warn()
		}

		event = event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if query := c.Request.URL.RawQuery; query != "" {
			event = event.Str("query", query)
		}
		if id := c.GetHeader("X-Request-Id"); id != "" {
			event = event.Str("request_id", id)
		}
		if u, ok := UserFrom(c.Request.Context()); ok {
			event = event.Int64("user_id", u.ID)
		}
		if cfg.HandlerName {
			event = event.Str("handler", c.HandlerName())
		}
		if cfg.Header {
			event = event.Any("headers", redactHeaders(c.Request.Header))
		}
		if last := c.Errors.Last(); last != nil {
			event = event.Err(last.Err).Str("reason", errors.Reason(last.Err))
		}

		event.Send()
	}
}

// redactHeaders 复制请求头并遮盖凭证
func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range []string{"Authorization", "Cookie"} {
		if out.Get(name) != "" {
			out.Set(name, "******")
		}
	}
	return out
}
