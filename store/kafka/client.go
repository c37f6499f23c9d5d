package kafka

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"golang.org/x/sync/errgroup"

	"github.com/kochabx/authkit/log"
)

// Client 管理按 Topic 复用的生产者
type Client struct {
	config    *Config
	transport kafka.RoundTripper
	logger    *log.Logger

	mu             sync.RWMutex
	closed         bool
	syncProducers  map[string]*kafka.Writer
	asyncProducers map[string]*kafka.Writer
}

// New 创建客户端。不会立即连接 Broker，首次写入时才建立连接。
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	c := *cfg

	o := applyOptions(&c, opts)
	if err := c.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		config:         &c,
		transport:      o.transport,
		logger:         o.logger,
		syncProducers:  make(map[string]*kafka.Writer),
		asyncProducers: make(map[string]*kafka.Writer),
	}
	if client.logger == nil {
		client.logger = log.G
	}
	client.logger = client.logger.Component("kafka")
	if client.transport == nil {
		client.transport = client.createTransport()
	}
	return client, nil
}

// Config 返回生效的配置
func (c *Client) Config() Config {
	return *c.config
}

func (c *Client) createTransport() *kafka.Transport {
	transport := &kafka.Transport{DialTimeout: c.config.Timeout}
	if c.config.Username != "" && c.config.Password != "" {
		transport.SASL = plain.Mechanism{
			Username: c.config.Username,
			Password: c.config.Password,
		}
	}
	return transport
}

func (c *Client) createWriter(topic string, async bool) *kafka.Writer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(c.config.Brokers...),
		Topic:                  topic,
		Balancer:               c.config.balancer(),
		Transport:              c.transport,
		AllowAutoTopicCreation: c.config.AllowAutoTopicCreation,
		RequiredAcks:           kafka.RequiredAcks(c.config.RequiredAcks),
		WriteTimeout:           c.config.Timeout,
		BatchTimeout:           c.config.BatchTimeout,
		Async:                  async,
	}
	if async {
		logger := c.logger
		w.Completion = func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Warn().Err(err).Str("topic", topic).Int("messages", len(msgs)).Msg("async write failed")
			}
		}
	}
	return w
}

// Producer 返回 topic 的同步生产者，不存在时创建
func (c *Client) Producer(topic string) (*kafka.Writer, error) {
	return c.producer(c.syncProducers, topic, false)
}

// AsyncProducer 返回 topic 的异步生产者，写入立即返回，失败只记录日志
func (c *Client) AsyncProducer(topic string) (*kafka.Writer, error) {
	return c.producer(c.asyncProducers, topic, true)
}

func (c *Client) producer(m map[string]*kafka.Writer, topic string, async bool) (*kafka.Writer, error) {
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrClientClosed
	}
	if w, ok := m[topic]; ok {
		c.mu.RUnlock()
		return w, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	if w, ok := m[topic]; ok {
		return w, nil
	}
	w := c.createWriter(topic, async)
	m[topic] = w
	return w, nil
}

// Close 刷出缓冲并关闭所有生产者，可重复调用
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), c.config.CloseTimeout)
	defer cancel()

	eg, _ := errgroup.WithContext(ctx)
	for _, m := range []map[string]*kafka.Writer{c.syncProducers, c.asyncProducers} {
		for _, w := range m {
			eg.Go(w.Close)
		}
	}

	done := make(chan error, 1)
	go func() { done <- eg.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
