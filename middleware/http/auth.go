package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/transport/http/response"
)

// Authenticator 由访问令牌解析出用户
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*user.User, error)
}

// AuthenticatorFunc 函数适配器
type AuthenticatorFunc func(ctx context.Context, accessToken string) (*user.User, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, accessToken string) (*user.User, error) {
	return f(ctx, accessToken)
}

// TokenExtractor 从请求中取出访问令牌
type TokenExtractor func(c *gin.Context) (string, bool)

// BearerExtractor 读取 "Authorization: Bearer <token>"，scheme 不区分大小写
func BearerExtractor() TokenExtractor {
	return func(c *gin.Context) (string, bool) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}
}

// AuthConfig 认证中间件配置
type AuthConfig struct {
	Authenticator Authenticator             // 必需
	Extractor     TokenExtractor            // 默认 BearerExtractor
	SkipPaths     []string                  // 跳过认证的路径
	SkipFunc      func(*gin.Context) bool   // 动态跳过判断函数
	ErrorHandler  func(*gin.Context, error) // 默认 response.Error
	Logger        *log.Logger
}

type userKey struct{}

// Auth 校验访问令牌并把用户写入请求上下文。
// 缺少令牌返回 errors.ErrInvalidToken。
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Authenticator == nil {
		panic("middleware: Authenticator is required")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = BearerExtractor()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = response.Error
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

		token, ok := cfg.Extractor(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			cfg.ErrorHandler(c, errors.ErrInvalidToken)
			c.Abort()
			return
		}

		u, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Code(err) == 401 {
				c.Header("WWW-Authenticate", "Bearer")
			}
			if errors.IsUnavailable(err) {
				cfg.Logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("authentication unavailable")
			} else {
				cfg.Logger.Debug().Str("reason", errors.Reason(err)).Str("path", c.Request.URL.Path).Msg("authentication failed")
			}
			cfg.ErrorHandler(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u))
		c.Next()
	}
}

// WithUser 把已认证用户写入 ctx
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom 读取 Auth 写入的用户
func UserFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey{}).(*user.User)
	return u, ok && u != nil
}

// CurrentUser 读取当前请求的用户，未认证时返回 errors.ErrInvalidToken
func CurrentUser(c *gin.Context) (*user.User, error) {
	u, ok := UserFrom(c.Request.Context())
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	return u, nil
}
