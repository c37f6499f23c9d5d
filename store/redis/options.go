package redis

import (
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/authkit/log"
)

// Option 客户端选项
type Option func(*clientOptions)

type clientOptions struct {
	hooks         []redis.Hook
	enableTracing bool
	enableMetrics bool
	tracingOpts   []redisotel.TracingOption
	metricsOpts   []redisotel.MetricsOption
	debug         bool
	skipPing      bool
	logger        *log.Logger
}

// WithHooks 添加自定义 Hook
func WithHooks(hooks ...redis.Hook) Option {
	return func(o *clientOptions) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithTracing 启用 OpenTelemetry tracing
func WithTracing(opts ...redisotel.TracingOption) Option {
	return func(o *clientOptions) {
		o.enableTracing = true
		o.tracingOpts = opts
	}
}

// WithMetrics 启用 OpenTelemetry metrics
func WithMetrics(opts ...redisotel.MetricsOption) Option {
	return func(o *clientOptions) {
		o.enableMetrics = true
		o.metricsOpts = opts
	}
}

// WithDebug 以 debug 级别记录每条命令
func WithDebug() Option {
	return func(o *clientOptions) {
		o.debug = true
	}
}

// WithoutPing 创建时不检查连通性
func WithoutPing() Option {
	return func(o *clientOptions) {
		o.skipPing = true
	}
}

// WithLogger 设置日志实例
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
