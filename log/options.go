package log

import (
	"github.com/rs/zerolog"

	"github.com/kochabx/authkit/log/desensitize"
)

// Option Logger 选项函数
type Option func(*options)

type options struct {
	level    zerolog.Level
	caller   bool
	hook     *desensitize.Hook
	fields   map[string]any
	hasLevel bool
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(o *options) {
		o.level = level
		o.hasLevel = true
	}
}

// WithCaller 记录调用位置
func WithCaller() Option {
	return func(o *options) {
		o.caller = true
	}
}

// WithDesensitize 写入前按 hook 的规则脱敏
func WithDesensitize(hook *desensitize.Hook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// WithField 为每条日志附加固定字段
func WithField(key string, value any) Option {
	return func(o *options) {
		if o.fields == nil {
			o.fields = make(map[string]any)
		}
		o.fields[key] = value
	}
}
