package kafka

import "errors"

var (
	ErrClientClosed  = errors.New("kafka: client is closed")
	ErrInvalidConfig = errors.New("kafka: invalid config")
	ErrEmptyBrokers  = errors.New("kafka: empty brokers")
	// ErrEmptyTopic 生产者必须指定 topic
	ErrEmptyTopic = errors.New("kafka: empty topic")
)
