package middleware

import (
	"fmt"
	"net/http/httputil"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/transport/http/response"
)

// RecoveryConfig Recovery 中间件配置
type RecoveryConfig struct {
	StackTrace bool        // 是否记录堆栈
	Logger     *log.Logger // 自定义日志记录器
}

// Recovery 捕获 panic 并返回 500 internal。
// 客户端断开导致的 panic 只记录告警，不再写响应。
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{StackTrace: true}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			dump, _ := httputil.DumpRequest(c.Request, false)
			dump = redactAuthorization(dump)

			if isBrokenPipe(err) {
				cfg.Logger.Warn().Err(err).Bytes("request", dump).Msg("client connection lost")
				_ = c.Error(err)
				c.Abort()
				return
			}

			event := cfg.Logger.Error().Err(err).Bytes("request", dump)
			if cfg.StackTrace {
				event = event.Bytes("stack", debug.Stack())
			}
			event.Msg("panic recovered")
			response.Error(c, errors.ErrInternal.WithCause(err))
		}()
		c.Next()
	}
}

// redactAuthorization 遮盖请求转储中的 Authorization 头
func redactAuthorization(dump []byte) []byte {
	lines := strings.Split(string(dump), "\r\n")
	for i, line := range lines {
		if name, _, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "Authorization") {
			lines[i] = name + ": ******"
		}
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
