package redis

import (
	"time"

	"github.com/kochabx/authkit/core/tag"
)

// Config Redis 配置，支持单机/集群/哨兵模式
type Config struct {
	// Addrs 单机一个地址；集群多个地址；哨兵模式为哨兵地址
	Addrs []string `json:"addrs" mapstructure:"addrs" default:"localhost:6379" validate:"min=1"`
	// MasterName 哨兵模式的主节点名称
	MasterName string `json:"master_name" mapstructure:"master_name"`
	Username   string `json:"username" mapstructure:"username"`
	Password   string `json:"password" mapstructure:"password"`
	// DB 集群模式忽略
	DB       int `json:"db" mapstructure:"db" validate:"gte=0,lte=15"`
	Protocol int `json:"protocol" mapstructure:"protocol" default:"3" validate:"oneof=2 3"`

	DialTimeout  time.Duration `json:"dial_timeout" mapstructure:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" default:"3s"`

	// PoolSize 0 表示 10 * GOMAXPROCS
	PoolSize     int           `json:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxIdleTime  time.Duration `json:"max_idle_time" mapstructure:"max_idle_time" default:"5m"`
	MaxLifetime  time.Duration `json:"max_lifetime" mapstructure:"max_lifetime"`
	PoolTimeout  time.Duration `json:"pool_timeout" mapstructure:"pool_timeout" default:"4s"`

	// MaxRetries -1 禁用重试
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// SlowThreshold 大于 0 时记录慢命令
	SlowThreshold time.Duration `json:"slow_threshold" mapstructure:"slow_threshold"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Single 单机模式配置
func Single(addr string) *Config {
	return &Config{Addrs: []string{addr}}
}

// Sentinel 哨兵模式配置
func Sentinel(masterName string, addrs ...string) *Config {
	return &Config{Addrs: addrs, MasterName: masterName}
}

// Mode 返回 single、cluster 或 sentinel
func (c *Config) Mode() string {
	switch {
	case c.MasterName != "":
		return "sentinel"
	case len(c.Addrs) > 1:
		return "cluster"
	default:
		return "single"
	}
}
