package http

import (
	"time"

	"github.com/kochabx/authkit/core/tag"
)

// Options 服务器附加路由与超时
type Options struct {
	Metrics  MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health   HealthOption  `json:"health" mapstructure:"health"`
	Timeouts TimeoutOption `json:"timeouts" mapstructure:"timeouts"`
}

// MetricsOption Prometheus 指标路由
type MetricsOption struct {
	Enabled                   bool   `json:"enabled" mapstructure:"enabled"`
	Path                      string `json:"path" mapstructure:"path" default:"/metrics"`
	EnabledGoCollector        bool   `json:"enabled_go_collector" mapstructure:"enabled_go_collector"`
	EnabledBuildInfoCollector bool   `json:"enabled_build_info_collector" mapstructure:"enabled_build_info_collector"`
}

func (m *MetricsOption) init() error {
	return tag.ApplyDefaults(m)
}

// HealthOption 健康检查路由
type HealthOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path" default:"/health"`
}

func (h *HealthOption) init() error {
	return tag.ApplyDefaults(h)
}

// TimeoutOption http.Server 超时
type TimeoutOption struct {
	ReadHeader time.Duration `json:"read_header" mapstructure:"read_header" default:"5s"`
	Read       time.Duration `json:"read" mapstructure:"read" default:"15s"`
	Write      time.Duration `json:"write" mapstructure:"write" default:"15s"`
	Idle       time.Duration `json:"idle" mapstructure:"idle" default:"60s"`
}

func (t *TimeoutOption) init() error {
	return tag.ApplyDefaults(t)
}
