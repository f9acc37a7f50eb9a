package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"metasecure-core/pkg/logger"
)

// KafkaProducer implements Producer.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer bound to topic.
// brokers: kafka node addresses, e.g. ["localhost:9092"].
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // key hash keeps per-session events ordered
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	msg := kafka.Message{
		Value: payload,
		Key:   []byte(key),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error("kafka publish failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("kafka write error: %w", err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer implements Consumer.
type KafkaConsumer struct {
	brokers []string
	group   string
	reader  *kafka.Reader
}

func NewKafkaConsumer(brokers []string, group string) *KafkaConsumer {
	return &KafkaConsumer{brokers: brokers, group: group}
}

func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.brokers,
		GroupID: c.group,
		Topic:   topic,
	})

	logger.Info("kafka consumer listening", zap.String("topic", topic), zap.String("group", c.group))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka fetch error: %w", err)
		}

		msg := &Message{
			ID:      fmt.Sprintf("%d-%d", m.Partition, m.Offset),
			Topic:   m.Topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		if err := handler(msg); err != nil {
			logger.Error("kafka message handling failed", zap.Error(err))
			continue // not committed, redelivered on rebalance
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			logger.Error("kafka commit failed", zap.Error(err))
		}
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
