package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/transport"
	"github.com/kochabx/authkit/transport/http/metrics"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8080"
)

// HealthCheck 检查一个依赖，返回非 nil 表示不可用
type HealthCheck func(ctx context.Context) error

type Server struct {
	name    string
	options Options
	prom    *metrics.Prometheus
	checks  map[string]HealthCheck
	logger  *log.Logger
	server  *http.Server
}

type Option func(*Server)

// WithName 设置服务名，仅用于日志
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithLogger 设置日志记录器，默认 log.G
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsOptions 在 gin.Engine 上挂载 prom 的指标路由
func WithMetricsOptions(opt MetricsOption, prom *metrics.Prometheus) Option {
	return func(s *Server) {
		if err := opt.init(); err != nil {
			s.logger.Error().Err(err).Msg("metrics options")
			return
		}
		s.options.Metrics = opt
		s.prom = prom
	}
}

// WithHealthOptions 挂载健康检查路由，checks 按名称逐个执行
func WithHealthOptions(opt HealthOption, checks map[string]HealthCheck) Option {
	return func(s *Server) {
		if err := opt.init(); err != nil {
			s.logger.Error().Err(err).Msg("health options")
			return
		}
		s.options.Health = opt
		s.checks = checks
	}
}

// WithTimeoutOptions 设置 http.Server 超时
func WithTimeoutOptions(opt TimeoutOption) Option {
	return func(s *Server) {
		if err := opt.init(); err != nil {
			s.logger.Error().Err(err).Msg("timeout options")
			return
		}
		s.options.Timeouts = opt
	}
}

func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		name:   defaultName,
		logger: log.G,
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}
	_ = s.options.Timeouts.init()

	for _, opt := range opts {
		opt(s)
	}

	s.server.ReadHeaderTimeout = s.options.Timeouts.ReadHeader
	s.server.ReadTimeout = s.options.Timeouts.Read
	s.server.WriteTimeout = s.options.Timeouts.Write
	s.server.IdleTimeout = s.options.Timeouts.Idle

	if r, ok := handler.(*gin.Engine); ok {
		s.handleMetrics(r)
		s.handleHealth(r)
	}

	return s
}

// Addr 返回监听地址
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Run() error {
	if !transport.ValidateAddress(s.server.Addr) {
		s.logger.Warn().Msgf("invalid address %q, using default address %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	s.logger.Info().Msgf("%s server listening on %s", s.name, s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleMetrics(r *gin.Engine) {
	if !s.options.Metrics.Enabled || s.prom == nil {
		return
	}
	if s.options.Metrics.EnabledGoCollector {
		s.prom.WithGoCollectorRuntimeMetrics()
	}
	if s.options.Metrics.EnabledBuildInfoCollector {
		s.prom.WithBuildInfoCollector()
	}

	r.GET(s.options.Metrics.Path, gin.WrapH(promhttp.HandlerFor(s.prom.Registry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
}

func (s *Server) handleHealth(r *gin.Engine) {
	if !s.options.Health.Enabled {
		return
	}
	r.GET(s.options.Health.Path, func(c *gin.Context) {
		status := http.StatusOK
		result := make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(c.Request.Context()); err != nil {
				s.logger.Warn().Err(err).Str("check", name).Msg("health check failed")
				result[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		body := gin.H{"status": "ok", "checks": result}
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}
		c.JSON(status, body)
	})
}
