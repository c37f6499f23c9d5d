package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/transport/http/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	healthy := true
	r := gin.New()
	NewServer(":0", r,
		WithLogger(log.Nop()),
		WithHealthOptions(HealthOption{Enabled: true}, map[string]HealthCheck{
			"redis": func(context.Context) error {
				if healthy {
					return nil
				}
				return fmt.Errorf("down")
			},
		}),
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, w.Body.String())

	healthy = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"redis":"unavailable"}}`, w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	prom := metrics.New("authkit")
	r := gin.New()
	r.Use(prom.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	NewServer(":0", r,
		WithLogger(log.Nop()),
		WithMetricsOptions(MetricsOption{Enabled: true, EnabledBuildInfoCollector: true}, prom),
	)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `authkit_http_requests_total{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "go_build_info")
}

func TestDisabledRoutes(t *testing.T) {
	r := gin.New()
	NewServer(":0", r, WithLogger(log.Nop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimeoutDefaults(t *testing.T) {
	s := NewServer(":0", gin.New(), WithLogger(log.Nop()))
	assert.Equal(t, 5*time.Second, s.server.ReadHeaderTimeout)
	assert.Equal(t, 60*time.Second, s.server.IdleTimeout)

	s = NewServer(":0", gin.New(), WithLogger(log.Nop()), WithTimeoutOptions(TimeoutOption{Read: time.Second}))
	assert.Equal(t, time.Second, s.server.ReadTimeout)
	assert.Equal(t, 15*time.Second, s.server.WriteTimeout)
}

func TestRunShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", gin.New(), WithLogger(log.Nop()), WithName("test"))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
