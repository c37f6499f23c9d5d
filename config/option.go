package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/authkit/core/validator"
	"github.com/kochabx/authkit/log"
)

// Option 配置选项
type Option func(*Config)

// WithViper 使用自定义 viper 实例
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator 使用自定义校验器，nil 表示跳过校验
func WithValidator(v *validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader 使用自定义加载器
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile 指定配置文件
func WithFile(file string) Option {
	return func(c *Config) {
		c.file = file
	}
}

// WithEnvPrefix 指定环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOnChange 配置重新加载成功后回调
func WithOnChange(fn func()) Option {
	return func(c *Config) {
		c.onChange = fn
	}
}

// WithLogger 指定日志实例
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}
