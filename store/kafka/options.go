package kafka

import (
	"github.com/segmentio/kafka-go"

	"github.com/kochabx/authkit/log"
)

// Option 客户端选项
type Option func(*clientOptions)

type clientOptions struct {
	brokers   []string
	username  string
	password  string
	logger    *log.Logger
	transport kafka.RoundTripper
}

// WithBrokers 覆盖配置中的 Broker 地址
func WithBrokers(brokers ...string) Option {
	return func(o *clientOptions) {
		o.brokers = brokers
	}
}

// WithAuth 设置 SASL/PLAIN 认证信息
func WithAuth(username, password string) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = password
	}
}

// WithLogger 设置日志记录器，默认 log.G
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTransport 替换底层传输
func WithTransport(rt kafka.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

func applyOptions(cfg *Config, opts []Option) *clientOptions {
	o := &clientOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if len(o.brokers) > 0 {
		cfg.Brokers = o.brokers
	}
	if o.username != "" {
		cfg.Username = o.username
	}
	if o.password != "" {
		cfg.Password = o.password
	}
	return o
}
