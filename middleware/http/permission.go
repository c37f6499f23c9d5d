package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/core/auth"
	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/transport/http/response"
)

// Checker 对已认证用户做授权检查
type Checker func(u *user.User) error

var (
	// Active 拒绝已停用账号
	Active Checker = auth.RequireActive
	// Superuser 只允许超级用户
	Superuser Checker = auth.RequireSuperuser
)

// Require 依次执行 checks，必须放在 Auth 之后
func Require(checks ...Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := CurrentUser(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		for _, check := range checks {
			if err := check(u); err != nil {
				response.Error(c, err)
				return
			}
		}
		c.Next()
	}
}
