package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/authkit/core/validator"
	"github.com/kochabx/authkit/log"
)

// Config 管理配置的加载与热更新
type Config struct {
	mu        sync.RWMutex
	viper     *viper.Viper
	validate  *validator.Validator
	target    any
	loader    Loader
	file      string
	envPrefix string
	onChange  func()
	logger    *log.Logger
}

// New 创建 Config，未指定 Loader 时使用 FileLoader
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		logger:   log.G,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = NewFileLoader(c.file, c.envPrefix, c.viper, c.validate)
	}
	return c
}

// Load 加载配置
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// RLock 读取 target 前加读锁，与热更新互斥
func (c *Config) RLock() func() {
	c.mu.RLock()
	return c.mu.RUnlock
}

// Watch 监听配置文件变化并重新加载
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		c.logger.Info().Msg("config change detected")
		if err := c.Load(); err != nil {
			c.logger.Error().Err(err).Msg("failed to reload config")
			return
		}
		c.logger.Info().Msg("config reloaded")
		if c.onChange != nil {
			c.onChange()
		}
	})
}

// Viper 返回底层 viper 实例
func (c *Config) Viper() *viper.Viper {
	return c.viper
}
