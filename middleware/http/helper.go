package middleware

import (
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher 匹配跳过路径，支持三种写法：
//   - "/health" 精确匹配
//   - "/api/v0/auth/**" 匹配该前缀本身及其子路径
//   - "/static/*.js" 按 path.Match 匹配
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
	globs    []string
}

// NewPathMatcher 创建路径匹配器
func NewPathMatcher(paths []string) *PathMatcher {
	m := &PathMatcher{exact: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			m.prefixes = append(m.prefixes, prefix)
			continue
		}
		if strings.ContainsAny(p, "*?[") {
			m.globs = append(m.globs, p)
			continue
		}
		m.exact[p] = struct{}{}
	}
	return m
}

// Match 检查路径是否匹配，nil 匹配器不匹配任何路径
func (m *PathMatcher) Match(urlPath string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.exact[urlPath]; ok {
		return true
	}
	for _, prefix := range m.prefixes {
		if rest, ok := strings.CutPrefix(urlPath, prefix); ok && (rest == "" || rest[0] == '/') {
			return true
		}
	}
	for _, g := range m.globs {
		if ok, _ := path.Match(g, urlPath); ok {
			return true
		}
	}
	return false
}

func shouldSkip(c *gin.Context, matcher *PathMatcher, skipFunc func(*gin.Context) bool) bool {
	if skipFunc != nil && skipFunc(c) {
		return true
	}
	return matcher.Match(c.Request.URL.Path)
}
