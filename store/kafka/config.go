package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kochabx/authkit/core/tag"
)

// Config Kafka 生产者配置
type Config struct {
	// Brokers Broker 地址列表
	Brokers []string `json:"brokers" mapstructure:"brokers" default:"localhost:9092"`

	// Username SASL 用户名
	Username string `json:"username" mapstructure:"username"`

	// Password SASL 密码
	Password string `json:"password" mapstructure:"password"`

	// Balancer 分区策略
	// 0: LeastBytes (默认)
	// 1: Hash，同一 key 落在同一分区
	Balancer Balancer `json:"balancer" mapstructure:"balancer" default:"0"`

	// AllowAutoTopicCreation 是否允许自动创建 Topic
	AllowAutoTopicCreation bool `json:"allow_auto_topic_creation" mapstructure:"allow_auto_topic_creation"`

	// RequiredAcks 0: 不等待 1: 等待 leader -1: 等待全部副本
	RequiredAcks int `json:"required_acks" mapstructure:"required_acks" default:"1" validate:"oneof=-1 0 1"`

	// Timeout 写超时
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" default:"3s"`

	// BatchTimeout 攒批等待时间
	BatchTimeout time.Duration `json:"batch_timeout" mapstructure:"batch_timeout" default:"100ms"`

	// CloseTimeout 关闭超时时间
	CloseTimeout time.Duration `json:"close_timeout" mapstructure:"close_timeout" default:"5s"`
}

// Balancer 分区策略
type Balancer int

const (
	BalancerLeastBytes Balancer = iota
	BalancerHash
)

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrEmptyBrokers
	}
	for _, b := range c.Brokers {
		if b == "" {
			return ErrEmptyBrokers
		}
	}
	if c.RequiredAcks < -1 || c.RequiredAcks > 1 {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) balancer() kafka.Balancer {
	switch c.Balancer {
	case BalancerHash:
		return &kafka.Hash{}
	default:
		return &kafka.LeastBytes{}
	}
}
