package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/kochabx/authkit/core/tag"
	"github.com/kochabx/authkit/log/desensitize"
	"github.com/kochabx/authkit/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
}

// Close 释放文件等底层资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Component 返回带 component 字段的子 Logger，共享底层 writer
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.With().Str("component", name).Logger()}
}

// NewWriter 以任意 writer 构造 Logger，主要用于测试
func NewWriter(w io.Writer, opts ...Option) *Logger {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.hook != nil {
		w = desensitize.NewWriter(w, o.hook)
	}

	ctx := zerolog.New(w).With().Timestamp()
	if o.caller {
		ctx = ctx.Caller()
	}
	for k, v := range o.fields {
		ctx = ctx.Interface(k, v)
	}

	zl := ctx.Logger()
	if o.hasLevel {
		zl = zl.Level(o.level)
	}

	return &Logger{Logger: zl}
}

// New 创建输出到控制台的 Logger
func New(opts ...Option) *Logger {
	return NewWriter(writer.Console(nil, false), opts...)
}

// Nop 丢弃所有输出
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// NewFromConfig 按配置创建 Logger
func NewFromConfig(c Config) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("log: apply defaults: %w", err)
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	opts := []Option{WithLevel(level)}
	if c.Caller {
		opts = append(opts, WithCaller())
	}
	if c.Desensitize {
		opts = append(opts, WithDesensitize(desensitize.NewHook(desensitize.BuiltinRules()...)))
	}

	console := writer.Console(nil, c.NoColor)
	if c.Output == "console" {
		return NewWriter(console, opts...), nil
	}

	fc := c.File
	if fc == nil {
		fc = &FileConfig{}
	}
	if err := tag.ApplyDefaults(fc); err != nil {
		return nil, fmt.Errorf("log: apply file defaults: %w", err)
	}
	fw, err := writer.File(fc.rotateConfig())
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	var w io.Writer = fw
	if c.Output == "multi" {
		w = zerolog.MultiLevelWriter(fw, console)
	}

	l := NewWriter(w, opts...)
	l.closer = fw
	return l, nil
}
