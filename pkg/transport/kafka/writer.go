package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/consumer"
)

// Dead letter headers
const (
	HeaderReason          = "dlq-reason"
	HeaderError           = "dlq-error"
	HeaderSourceTopic     = "dlq-source-topic"
	HeaderSourcePartition = "dlq-source-partition"
	HeaderSourceOffset    = "dlq-source-offset"
	HeaderFailedAt        = "dlq-failed-at"
)

// messageWriter is the part of kafka.Writer used by the writers here
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func newWriter(cfg *config.KafkaConfig, topic string, balancer kafka.Balancer, logger *zap.Logger) *kafka.Writer {
	sugar := logger.Sugar()
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     balancer,
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		MaxAttempts:  3,
		Transport:    &kafka.Transport{DialTimeout: cfg.DialTimeout},
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			sugar.Debugw(fmt.Sprintf(msg, args...), "component", "kafka-writer", "topic", topic)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			sugar.Errorw(fmt.Sprintf(msg, args...), "component", "kafka-writer", "topic", topic)
		}),
	}
}

// DeadLetterWriter republishes unprocessable messages unchanged, with the failure in headers.
type DeadLetterWriter struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewDeadLetterWriter creates a writer for the dead-letter topic
func NewDeadLetterWriter(cfg *config.KafkaConfig, logger *zap.Logger) *DeadLetterWriter {
	return newDeadLetterWriter(newWriter(cfg, cfg.DeadLetterTopic, &kafka.Hash{}, logger), cfg.DeadLetterTopic)
}

func newDeadLetterWriter(w messageWriter, topic string) *DeadLetterWriter {
	return &DeadLetterWriter{writer: w, topic: topic, now: time.Now}
}

// Publish implements consumer.DeadLetterPublisher
func (w *DeadLetterWriter) Publish(ctx context.Context, msg consumer.Message, reason string, cause error) error {
	headers := make([]kafka.Header, 0, len(msg.Headers)+6)
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	headers = append(headers,
		kafka.Header{Key: HeaderReason, Value: []byte(reason)},
		kafka.Header{Key: HeaderError, Value: []byte(errText)},
		kafka.Header{Key: HeaderSourceTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderSourcePartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderSourceOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: HeaderFailedAt, Value: []byte(w.now().UTC().Format(time.RFC3339Nano))},
	)

	err := w.writer.WriteMessages(ctx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", w.topic, err)
	}
	return nil
}

// Close flushes pending writes
func (w *DeadLetterWriter) Close() error {
	return w.writer.Close()
}

// BatchSummary is the message published for each flushed alert batch
type BatchSummary struct {
	BatchID    string    `json:"batch_id"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	EntityType string    `json:"entity_type"`
	AlertCount int       `json:"alert_count"`
	AlertIDs   []string  `json:"alert_ids"`
	RuleIDs    []string  `json:"rule_ids"`
	EntityIDs  []string  `json:"entity_ids"`
	CreatedAt  time.Time `json:"created_at"`
	FlushedAt  time.Time `json:"flushed_at"`
	Reason     string    `json:"reason"`
}

// Summarize builds the published summary of a batch
func Summarize(batch *batching.AlertBatch) BatchSummary {
	s := BatchSummary{
		BatchID:    batch.ID,
		AlertType:  batch.AlertType,
		Severity:   string(batch.Severity),
		EntityType: batch.EntityType,
		AlertCount: batch.Size(),
		AlertIDs:   make([]string, 0, batch.Size()),
		EntityIDs:  batch.EntityIDs,
		CreatedAt:  batch.CreatedAt,
		FlushedAt:  batch.FlushedAt,
		Reason:     string(batch.Reason),
	}
	seen := make(map[string]struct{})
	for _, a := range batch.Alerts {
		s.AlertIDs = append(s.AlertIDs, a.ID)
		if _, ok := seen[a.RuleID]; !ok {
			seen[a.RuleID] = struct{}{}
			s.RuleIDs = append(s.RuleIDs, a.RuleID)
		}
	}
	return s
}

// BatchWriter publishes flushed alert batches, keyed by alert type
type BatchWriter struct {
	writer messageWriter
	topic  string
}

// NewBatchWriter creates a batching.Sink for the batches topic
func NewBatchWriter(cfg *config.KafkaConfig, logger *zap.Logger) *BatchWriter {
	return newBatchWriter(newWriter(cfg, cfg.BatchesTopic, &kafka.LeastBytes{}, logger), cfg.BatchesTopic)
}

func newBatchWriter(w messageWriter, topic string) *BatchWriter {
	return &BatchWriter{writer: w, topic: topic}
}

func (w *BatchWriter) Name() string { return "kafka" }

func (w *BatchWriter) Deliver(ctx context.Context, batch *batching.AlertBatch) error {
	value, err := json.Marshal(Summarize(batch))
	if err != nil {
		return fmt.Errorf("marshal batch %s: %w", batch.ID, err)
	}
	err = w.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(batch.AlertType),
		Value: value,
		Time:  batch.FlushedAt,
	})
	if err != nil {
		return fmt.Errorf("write batch %s to %s: %w", batch.ID, w.topic, err)
	}
	return nil
}

// Close flushes pending writes
func (w *BatchWriter) Close() error {
	return w.writer.Close()
}
