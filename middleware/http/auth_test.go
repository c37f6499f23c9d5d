package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var tokens = map[string]*user.User{
	"alice": {ID: 1, Email: "alice@x.com", IsActive: true},
	"root":  {ID: 2, Email: "root@x.com", IsActive: true, IsSuperuser: true},
	"off":   {ID: 3, Email: "off@x.com", IsActive: false},
}

var fakeAuth = AuthenticatorFunc(func(_ context.Context, token string) (*user.User, error) {
	switch token {
	case "expired":
		return nil, errors.ErrExpired
	case "down":
		return nil, errors.StoreUnavailable(nil)
	}
	u, ok := tokens[token]
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	return u, nil
})

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Auth(AuthConfig{Authenticator: fakeAuth, SkipPaths: []string{"/health"}, Logger: log.Nop()}))
	me := append(handlers, func(c *gin.Context) {
		u, err := CurrentUser(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	r.GET("/me", me...)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reason(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Reason
}

func TestBearerExtractor(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tt.header)

			token, ok := BearerExtractor()(c)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestAuth(t *testing.T) {
	r := setupRouter()

	w := do(r, "/me", "Bearer alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "invalid_token", reason(t, w))

	w = do(r, "/me", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", reason(t, w))

	w = do(r, "/me", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_expired", reason(t, w))

	w = do(r, "/me", "Bearer down")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))

	w = do(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthCustomErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Auth(AuthConfig{
		Authenticator: fakeAuth,
		Logger:        log.Nop(),
		ErrorHandler: func(c *gin.Context, err error) {
			c.String(http.StatusTeapot, errors.Reason(err))
		},
	}))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/me", "Bearer nope")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "invalid_token", w.Body.String())
}

func TestAuthRequiresAuthenticator(t *testing.T) {
	assert.Panics(t, func() { Auth(AuthConfig{}) })
}

func TestRequire(t *testing.T) {
	r := setupRouter(Require(Active, Superuser))

	w := do(r, "/me", "Bearer root")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/me", "Bearer alice")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_enough_privileges", reason(t, w))

	w = do(r, "/me", "Bearer off")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "inactive_user", reason(t, w))
}

func TestRequireWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", Require(Active), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserFrom(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), tokens["alice"])
	u, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), u.ID)
}

func TestLoggerRecordsUser(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(LoggerConfig{Logger: log.NewWriter(&buf), Header: true}))
	r.Use(Auth(AuthConfig{Authenticator: fakeAuth, Logger: log.Nop()}))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/me", "Bearer alice")
	assert.Contains(t, buf.String(), `"user_id":1`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.NotContains(t, buf.String(), "Bearer alice")

	buf.Reset()
	do(r, "/me", "Bearer nope")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Recovery(RecoveryConfig{Logger: log.NewWriter(&buf)}))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, "/panic", "Bearer secret-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", reason(t, w))
	assert.Contains(t, buf.String(), "panic recovered")
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestPathMatcher(t *testing.T) {
	m := NewPathMatcher([]string{"/health", "/api/v0/auth/**", "/static/*.js"})

	assert.True(t, m.Match("/health"))
	assert.True(t, m.Match("/api/v0/auth"))
	assert.True(t, m.Match("/api/v0/auth/sign-in"))
	assert.True(t, m.Match("/static/app.js"))
	assert.False(t, m.Match("/api/v0/authx"))
	assert.False(t, m.Match("/api/v0/users/me"))

	var nilMatcher *PathMatcher
	assert.False(t, nilMatcher.Match("/health"))
}

func TestCors(t *testing.T) {
	r := gin.New()
	r.Use(Cors(CorsConfig{
		AllowOrigins: []string{"*.example.com"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Authorization"},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
