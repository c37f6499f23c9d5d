package redis

import (
	"context"
	"fmt"
	"runtime"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/authkit/log"
)

// Client Redis 客户端，按配置选择单机/集群/哨兵模式
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// New 创建客户端并检查连通性
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &clientOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = log.G
	}

	c := &Client{
		client: redis.NewUniversalClient(universalOptions(cfg)),
		config: cfg,
		logger: logger,
	}

	if err := c.setupHooks(o); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	if !o.skipPing {
		if err := c.Ping(ctx); err != nil {
			_ = c.client.Close()
			return nil, err
		}
	}

	c.logger.Debug().Str("mode", cfg.Mode()).Strs("addrs", cfg.Addrs).Msg("redis client created")
	return c, nil
}

func universalOptions(cfg *Config) *redis.UniversalOptions {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10 * runtime.GOMAXPROCS(0)
	}
	return &redis.UniversalOptions{
		Addrs:           cfg.Addrs,
		MasterName:      cfg.MasterName,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		Protocol:        cfg.Protocol,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        poolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.MaxIdleTime,
		ConnMaxLifetime: cfg.MaxLifetime,
		PoolTimeout:     cfg.PoolTimeout,
		MaxRetries:      cfg.MaxRetries,
	}
}

func (c *Client) setupHooks(o *clientOptions) error {
	for _, hook := range o.hooks {
		c.client.AddHook(hook)
	}
	if o.enableTracing {
		if err := redisotel.InstrumentTracing(c.client, o.tracingOpts...); err != nil {
			return fmt.Errorf("redis: instrument tracing: %w", err)
		}
	}
	if o.enableMetrics {
		if err := redisotel.InstrumentMetrics(c.client, o.metricsOpts...); err != nil {
			return fmt.Errorf("redis: instrument metrics: %w", err)
		}
	}
	c.client.AddHook(NewLogHook(c.logger, c.config.SlowThreshold, o.debug))
	return nil
}

// UniversalClient 返回底层客户端
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// Ping 检查连通性
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Client) Close() error {
	err := c.client.Close()
	c.logger.Debug().Msg("redis client closed")
	return err
}

// Stats 连接池统计
func (c *Client) Stats() *redis.PoolStats {
	return c.client.PoolStats()
}
