package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CorsConfig CORS 中间件配置
type CorsConfig struct {
	AllowOrigins     []string                // "*" 放行所有源，"*.example.com" 放行子域
	AllowMethods     []string                // 允许的 HTTP 方法
	AllowHeaders     []string                // 允许的请求头
	AllowCredentials bool                    // AllowOrigins 为 "*" 时回写具体源
	ExposeHeaders    []string                // 暴露给客户端的响应头
	MaxAge           time.Duration           // 预检结果缓存时间
	SkipPaths        []string                // 跳过处理的路径
	SkipFunc         func(*gin.Context) bool // 动态跳过判断函数
}

// DefaultCorsConfig 放行所有源，方法与请求头覆盖 /api/v0 的全部路由
func DefaultCorsConfig() CorsConfig {
	return CorsConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", "Accept", "X-Request-Id"},
		MaxAge:       12 * time.Hour,
	}
}

// originSet 预处理后的允许源
type originSet struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string // 形如 ".example.com"
}

func newOriginSet(origins []string) originSet {
	set := originSet{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		switch {
		case o == "*":
			set.any = true
		case strings.HasPrefix(o, "*."):
			set.suffixes = append(set.suffixes, o[1:])
		default:
			set.exact[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	if s.any {
		return true
	}
	if _, ok := s.exact[origin]; ok {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// Cors 创建 CORS 中间件，预检请求直接返回 204
func Cors(cfgs ...CorsConfig) gin.HandlerFunc {
	cfg := DefaultCorsConfig()
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}

	origins := newOriginSet(cfg.AllowOrigins)
	wildcard := origins.any && !cfg.AllowCredentials
	static := map[string]string{
		"Access-Control-Allow-Methods":     strings.Join(cfg.AllowMethods, ", "),
		"Access-Control-Allow-Headers":     strings.Join(cfg.AllowHeaders, ", "),
		"Access-Control-Allow-Credentials": strconv.FormatBool(cfg.AllowCredentials),
		"Access-Control-Max-Age":           strconv.Itoa(int(cfg.MaxAge / time.Second)),
	}
	if len(cfg.ExposeHeaders) > 0 {
		static["Access-Control-Expose-Headers"] = strings.Join(cfg.ExposeHeaders, ", ")
	}
	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || shouldSkip(c, matcher, cfg.SkipFunc) || !origins.allows(origin) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		if wildcard {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		for k, v := range static {
			h.Set(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
