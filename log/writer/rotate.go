package writer

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode 日志轮转模式
type RotateMode string

const (
	// RotateModeTime 按时间轮转
	RotateModeTime RotateMode = "time"
	// RotateModeSize 按大小轮转
	RotateModeSize RotateMode = "size"
)

// RotateConfig 日志文件轮转配置
type RotateConfig struct {
	Mode     RotateMode
	Dir      string
	Filename string
	// 按时间轮转
	MaxAgeHours       int
	RotationTimeHours int
	// 按大小轮转
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c RotateConfig) path(pattern string) string {
	name := c.Filename
	if pattern != "" {
		ext := filepath.Ext(name)
		name = name[:len(name)-len(ext)] + "." + pattern + ext
	}
	return filepath.Join(c.Dir, name)
}

// File 创建带轮转的文件 writer，返回值同时实现 io.Closer
func File(c RotateConfig) (io.WriteCloser, error) {
	switch c.Mode {
	case RotateModeTime:
		w, err := rotatelogs.New(
			c.path("%Y%m%d%H"),
			rotatelogs.WithLinkName(c.path("")),
			rotatelogs.WithMaxAge(time.Duration(c.MaxAgeHours)*time.Hour),
			rotatelogs.WithRotationTime(time.Duration(c.RotationTimeHours)*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("writer: time rotate: %w", err)
		}
		return w, nil
	case RotateModeSize, "":
		return &lumberjack.Logger{
			Filename:   c.path(""),
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		}, nil
	default:
		return nil, fmt.Errorf("writer: unsupported rotate mode %q", c.Mode)
	}
}
