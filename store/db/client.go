package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kochabx/authkit/log"
)

// Client 数据库客户端
type Client struct {
	config *Config
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *log.Logger
}

// New 打开数据库并检查连通性。
// 开启 TranslateError，唯一约束冲突统一为 gorm.ErrDuplicatedKey；
// 开启 ParameterizedQueries，日志中的 SQL 不含参数值。
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	o := &clientOptions{connectTimeout: 10 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = log.G
	}

	dialector, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(o.logger, cfg.LogLevel, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", cfg.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	c := &Client{config: cfg, db: db, sqlDB: sqlDB, logger: o.logger}
	c.configurePool()

	for _, plugin := range o.plugins {
		if err := db.Use(plugin); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.Debug().Str("driver", string(cfg.Driver)).Msg("database client created")
	return c, nil
}

func dialector(cfg *Config) (gorm.Dialector, error) {
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func (c *Client) configurePool() {
	pool := c.config.Pool
	maxOpen := pool.MaxOpenConns
	maxIdle := pool.MaxIdleConns
	if c.config.Driver == DriverSQLite && maxOpen == 0 {
		maxOpen = 1
		maxIdle = 1
	}
	c.sqlDB.SetMaxIdleConns(maxIdle)
	c.sqlDB.SetMaxOpenConns(maxOpen)
	c.sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	c.sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
}

// DB 返回 GORM 实例
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Driver 返回驱动类型
func (c *Client) Driver() Driver {
	return c.config.Driver
}

// Ping 检查连通性
func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB == nil {
		return ErrNotInitialized
	}
	return c.sqlDB.PingContext(ctx)
}

// Close 关闭连接
func (c *Client) Close() error {
	if c.sqlDB == nil {
		return nil
	}
	err := c.sqlDB.Close()
	c.logger.Debug().Msg("database client closed")
	return err
}

// Stats 连接池统计
func (c *Client) Stats() sql.DBStats {
	if c.sqlDB == nil {
		return sql.DBStats{}
	}
	return c.sqlDB.Stats()
}
