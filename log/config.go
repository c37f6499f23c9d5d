package log

import (
	"github.com/kochabx/authkit/log/writer"
)

// Config 日志配置
type Config struct {
	Level       string      `json:"level" mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Output      string      `json:"output" mapstructure:"output" default:"console" validate:"oneof=console file multi"`
	NoColor     bool        `json:"no_color" mapstructure:"no_color"`
	Caller      bool        `json:"caller" mapstructure:"caller"`
	Desensitize bool        `json:"desensitize" mapstructure:"desensitize"`
	File        *FileConfig `json:"file" mapstructure:"file"`
}

// FileConfig 日志文件配置
type FileConfig struct {
	Dir        string            `json:"dir" mapstructure:"dir" default:"log"`
	Filename   string            `json:"filename" mapstructure:"filename" default:"authkit.log"`
	RotateMode writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode" default:"size"`
	// 按时间轮转
	MaxAgeHours       int `json:"max_age_hours" mapstructure:"max_age_hours" default:"168"`
	RotationTimeHours int `json:"rotation_time_hours" mapstructure:"rotation_time_hours" default:"24"`
	// 按大小轮转
	MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) rotateConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Mode:              c.RotateMode,
		Dir:               c.Dir,
		Filename:          c.Filename,
		MaxAgeHours:       c.MaxAgeHours,
		RotationTimeHours: c.RotationTimeHours,
		MaxSizeMB:         c.MaxSizeMB,
		MaxBackups:        c.MaxBackups,
		MaxAgeDays:        c.MaxAgeDays,
		Compress:          c.Compress,
	}
}
