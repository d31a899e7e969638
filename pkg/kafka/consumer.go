package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"Aletheia/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageHandler processes messages from a topic. Handlers must be
// idempotent: messages are committed after handling, so a crash between
// handle and commit redelivers.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, key, value []byte) error
}

// Consumer reads from a topic with a worker pool.
type Consumer struct {
	logger  *logger.Logger
	config  *ConsumerConfig
	handler MessageHandler
	reader  *kafka.Reader
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// NewConsumer creates a Kafka consumer.
func NewConsumer(lgr *logger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		Workers:  1,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("group id is required")
	}

	return &Consumer{
		logger: lgr,
		config: cfg,
	}, nil
}

// RegisterHandler sets the message handler. Must be called before Start.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	c.handler = h
}

// Start begins consuming. Non-blocking; workers run until Stop.
func (c *Consumer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("consumer already running")
	}
	if c.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	topic := c.config.Topic
	if topic == "" {
		topic = c.handler.Topic()
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.config.Brokers,
		GroupID:        c.config.GroupID,
		Topic:          topic,
		MinBytes:       c.config.MinBytes,
		MaxBytes:       c.config.MaxBytes,
		CommitInterval: 0, // explicit commits
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true

	for i := 0; i < c.config.Workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i)
	}

	c.logger.Info("kafka consumer started",
		logger.String("topic", topic),
		logger.String("group", c.config.GroupID),
		logger.Int("workers", c.config.Workers))
	return nil
}

// Stop shuts down workers and closes the reader.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return c.reader.Close()
}

func (c *Consumer) worker(ctx context.Context, id int) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Warn("kafka fetch error", logger.Error(err), logger.Int("worker", id))
			time.Sleep(time.Second)
			continue
		}

		if err := c.handler.Handle(ctx, msg.Key, msg.Value); err != nil {
			// handler inserts are idempotent; log and move on rather than
			// wedging the partition on a poison message
			c.logger.Error("kafka message handling failed",
				logger.Error(err),
				logger.String("topic", msg.Topic),
				logger.Int("partition", msg.Partition))
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("kafka commit failed", logger.Error(err))
		}
	}
}
