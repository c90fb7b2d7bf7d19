// Package consumer runs the monitor pipeline: receive an event, enrich it, evaluate the
// enabled rules, persist graph edges and alerts, then commit the message.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/internal/metrics"
	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/event"
)

const maxRetryInterval = 30 * time.Second

// Dead letter reasons
const (
	ReasonDecode           = "decode_failed"
	ReasonProcessing       = "processing_failed"
	ReasonRetriesExhausted = "retries_exhausted"
)

// Message is one delivery from the event queue
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Time      time.Time
}

// Source delivers messages and records their completion
type Source interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
}

// DeadLetterPublisher parks messages that cannot be processed
type DeadLetterPublisher interface {
	Publish(ctx context.Context, msg Message, reason string, cause error) error
}

// EventProcessor handles one decoded event
type EventProcessor interface {
	Process(ctx context.Context, ev *event.Event) (Result, error)
}

// Consumer reads the event queue with at-least-once semantics. A message is committed only
// after it was fully processed or parked on the dead letter queue.
type Consumer struct {
	config    *config.ConsumerConfig
	source    Source
	processor EventProcessor
	dlq       DeadLetterPublisher
	logger    *zap.Logger

	ready atomic.Bool
}

// NewConsumer creates a new consumer. dlq may be nil, in which case unprocessable
// messages are logged and committed.
func NewConsumer(
	cfg *config.ConsumerConfig,
	source Source,
	processor EventProcessor,
	dlq DeadLetterPublisher,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		config:    cfg,
		source:    source,
		processor: processor,
		dlq:       dlq,
		logger:    logger,
	}
}

// IsReady reports whether the consume loop is running
func (c *Consumer) IsReady() bool {
	return c.ready.Load()
}

// Run consumes until ctx is cancelled. A message being processed when ctx is cancelled
// is finished first. Run only returns an error when a message can neither be processed
// nor dead-lettered; that message stays uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Starting monitor consumer",
		zap.Int("max_retries", c.config.MaxRetries),
		zap.Duration("retry_backoff", c.config.RetryBackoff))
	c.ready.Store(true)
	defer c.ready.Store(false)

	for {
		if ctx.Err() != nil {
			c.logger.Info("Monitor consumer stopped")
			return nil
		}

		msg, err := c.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			metrics.ErrorsTotal.WithLabelValues("consumer", "fetch").Inc()
			c.logger.Error("Failed to fetch message", zap.Error(err))
			sleep(ctx, c.config.FetchErrorBackoff)
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			c.ready.Store(false)
			return err
		}
	}
}

// handle runs one message to completion. Processing is detached from ctx so a shutdown
// does not abort a half-persisted event; only retry waits observe cancellation.
func (c *Consumer) handle(ctx context.Context, msg Message) error {
	start := time.Now()
	defer func() { metrics.ProcessingDuration.Observe(time.Since(start).Seconds()) }()

	logger := c.logger.With(
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset))
	work := context.WithoutCancel(ctx)

	ev, err := event.Decode(msg.Value)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("consumer", "decode").Inc()
		logger.Warn("Failed to decode event", zap.Error(err))
		if err := c.deadLetter(ctx, work, logger, msg, ReasonDecode, err); err != nil {
			return err
		}
		c.commit(work, logger, msg)
		return nil
	}

	res, attempts, err := c.processWithRetry(ctx, work, logger, ev)
	switch {
	case err == nil:
		metrics.MessagesTotal.WithLabelValues("processed").Inc()
		logger.Debug("Event processed",
			zap.String("chain", ev.Chain),
			zap.String("tx_hash", ev.TxHash),
			zap.Bool("bridge", res.Bridge),
			zap.Int("rules_evaluated", res.Evaluated),
			zap.Int("rules_matched", res.Matched),
			zap.Int("alerts_created", res.Created))
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Stopped while waiting to retry; leave uncommitted for redelivery.
		metrics.MessagesTotal.WithLabelValues("abandoned").Inc()
		logger.Info("Shutdown during retry, message left for redelivery", zap.Int("attempts", attempts))
		return nil
	default:
		reason := ReasonProcessing
		if apperrors.IsTransient(err) {
			reason = ReasonRetriesExhausted
		}
		metrics.ErrorsTotal.WithLabelValues("consumer", reason).Inc()
		logger.Error("Failed to process event",
			zap.String("tx_hash", ev.TxHash),
			zap.Int("attempts", attempts),
			zap.Error(err))
		if err := c.deadLetter(ctx, work, logger, msg, reason, err); err != nil {
			return err
		}
	}

	c.commit(work, logger, msg)
	return nil
}

// processWithRetry retries transient failures with exponential backoff.
func (c *Consumer) processWithRetry(ctx, work context.Context, logger *zap.Logger, ev *event.Event) (Result, int, error) {
	var (
		res      Result
		attempts int
	)
	op := func() error {
		attempts++
		var err error
		res, err = c.processor.Process(work, ev)
		if err != nil && !apperrors.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		metrics.MessagesTotal.WithLabelValues("retried").Inc()
		logger.Warn("Transient processing failure, retrying",
			zap.Int("attempt", attempts),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	err := backoff.RetryNotify(op, c.retryPolicy(ctx), notify)
	return res, attempts, err
}

// deadLetter parks msg, retrying the publish itself. An error means the message must
// not be committed.
func (c *Consumer) deadLetter(ctx, work context.Context, logger *zap.Logger, msg Message, reason string, cause error) error {
	if c.dlq == nil {
		metrics.MessagesTotal.WithLabelValues("dropped").Inc()
		logger.Error("No dead letter queue configured, dropping message",
			zap.String("reason", reason),
			zap.Error(cause))
		return nil
	}

	err := backoff.RetryNotify(func() error {
		return c.dlq.Publish(work, msg, reason, cause)
	}, c.retryPolicy(ctx), func(err error, wait time.Duration) {
		logger.Warn("Dead letter publish failed, retrying", zap.Duration("backoff", wait), zap.Error(err))
	})
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("consumer", "dead_letter").Inc()
		return fmt.Errorf("failed to dead-letter message at offset %d: %w", msg.Offset, err)
	}

	metrics.MessagesTotal.WithLabelValues("dead_lettered").Inc()
	logger.Warn("Message dead-lettered", zap.String("reason", reason))
	return nil
}

func (c *Consumer) commit(work context.Context, logger *zap.Logger, msg Message) {
	ctx := work
	if c.config.CommitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(work, c.config.CommitTimeout)
		defer cancel()
	}
	if err := c.source.Commit(ctx, msg); err != nil {
		metrics.ErrorsTotal.WithLabelValues("consumer", "commit").Inc()
		logger.Error("Failed to commit message", zap.Error(err))
	}
}

func (c *Consumer) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryBackoff
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Millisecond
	}
	b.MaxInterval = maxRetryInterval
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(c.config.MaxRetries, 0))), ctx)
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
