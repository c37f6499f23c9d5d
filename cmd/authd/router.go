package main

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/core/auth"
	"github.com/kochabx/authkit/log"
	middleware "github.com/kochabx/authkit/middleware/http"
	"github.com/kochabx/authkit/settings"
	"github.com/kochabx/authkit/transport/http/api"
	"github.com/kochabx/authkit/transport/http/metrics"
)

func newRouter(s *settings.Settings, svc *auth.Service, prom *metrics.Prometheus, logger *log.Logger, limiter middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(middleware.RecoveryConfig{StackTrace: true, Logger: logger}))
	r.Use(middleware.Logger(middleware.LoggerConfig{
		Logger:    logger,
		SkipPaths: []string{s.HTTP.Health.Path, s.HTTP.Metrics.Path},
	}))
	if len(s.App.CorsOrigins) > 0 {
		cors := middleware.DefaultCorsConfig()
		cors.AllowOrigins = s.App.CorsOrigins
		r.Use(middleware.Cors(cors))
	}
	r.Use(prom.Middleware())

	opts := []api.Option{api.WithLogger(logger)}
	if limiter != nil {
		opts = append(opts, api.WithSignInLimiter(limiter))
	}
	api.New(svc, opts...).Register(r)
	return r
}
