package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/kochabx/authkit/log"
)

// Option 客户端选项
type Option func(*clientOptions)

type clientOptions struct {
	logger         *log.Logger
	plugins        []gorm.Plugin
	connectTimeout time.Duration
}

// WithLogger 设置日志实例
func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithPlugins 添加 GORM 插件
func WithPlugins(plugins ...gorm.Plugin) Option {
	return func(o *clientOptions) {
		o.plugins = append(o.plugins, plugins...)
	}
}

// WithConnectTimeout 设置建立连接时 Ping 的超时
func WithConnectTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}
