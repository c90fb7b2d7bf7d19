// Package kafka connects the monitor consumer and the alert batcher to Kafka: a consumer-group
// reader for canonical events, a dead-letter writer and a writer for flushed alert batches.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/consumer"
)

// messageReader is the part of kafka.Reader used by Reader
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader fetches canonical events as a consumer-group member and commits them explicitly.
type Reader struct {
	reader messageReader
	topic  string
	logger *zap.Logger
}

// NewReader creates a consumer-group reader for the events topic
func NewReader(cfg *config.KafkaConfig, logger *zap.Logger) (*Reader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.EventsTopic == "" || cfg.ConsumerGroup == "" {
		return nil, errors.New("kafka: events topic and consumer group are required")
	}

	startOffset := kafka.FirstOffset
	if cfg.StartOffset == "latest" {
		startOffset = kafka.LastOffset
	}

	sugar := logger.Sugar()
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.ConsumerGroup,
		Topic:             cfg.EventsTopic,
		Dialer:            &kafka.Dialer{Timeout: cfg.DialTimeout, DualStack: true},
		MinBytes:          cfg.MinBytes,
		MaxBytes:          cfg.MaxBytes,
		MaxWait:           cfg.MaxWait,
		StartOffset:       startOffset,
		HeartbeatInterval: cfg.HeartbeatInterval,
		SessionTimeout:    cfg.SessionTimeout,
		ReadBackoffMin:    100 * time.Millisecond,
		ReadBackoffMax:    time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			sugar.Debugw(fmt.Sprintf(msg, args...), "component", "kafka-reader")
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			sugar.Errorw(fmt.Sprintf(msg, args...), "component", "kafka-reader")
		}),
	})

	logger.Info("Kafka reader initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.EventsTopic),
		zap.String("group", cfg.ConsumerGroup),
		zap.String("start_offset", cfg.StartOffset))

	return newReader(reader, cfg.EventsTopic, logger), nil
}

func newReader(r messageReader, topic string, logger *zap.Logger) *Reader {
	return &Reader{reader: r, topic: topic, logger: logger}
}

// Fetch blocks until the next message is available or ctx is done
func (r *Reader) Fetch(ctx context.Context) (consumer.Message, error) {
	m, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return consumer.Message{}, fmt.Errorf("fetch from %s: %w", r.topic, err)
	}

	msg := consumer.Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
	}
	if len(m.Headers) > 0 {
		msg.Headers = make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg, nil
}

// Commit marks msg and everything before it on its partition as consumed
func (r *Reader) Commit(ctx context.Context, msg consumer.Message) error {
	err := r.reader.CommitMessages(ctx, kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
	if err != nil {
		return fmt.Errorf("commit %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	return nil
}

// Close leaves the consumer group
func (r *Reader) Close() error {
	r.logger.Info("Closing Kafka reader", zap.String("topic", r.topic))
	return r.reader.Close()
}
