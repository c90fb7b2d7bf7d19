package batching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/internal/metrics"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// LogSink writes a summary of each batch to the logger
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, batch *AlertBatch) error {
	s.logger.Info("Alert batch ready",
		zap.String("batch_id", batch.ID),
		zap.String("alert_type", batch.AlertType),
		zap.String("severity", string(batch.Severity)),
		zap.String("entity_type", batch.EntityType),
		zap.Int("alerts", batch.Size()),
		zap.Strings("entity_ids", batch.EntityIDs),
		zap.Time("created_at", batch.CreatedAt),
		zap.String("reason", string(batch.Reason)))
	return nil
}

// MultiSink delivers each batch to every sink. A failing sink does not stop the others.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiSink fans batches out to sinks
func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

func (m *MultiSink) Name() string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

func (m *MultiSink) Deliver(ctx context.Context, batch *AlertBatch) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Deliver(ctx, batch); err != nil {
			metrics.ErrorsTotal.WithLabelValues("batching", "sink_"+s.Name()).Inc()
			m.logger.Warn("Sink failed to deliver batch",
				zap.String("sink", s.Name()),
				zap.String("batch_id", batch.ID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// SlackPoster is the part of the Slack client used by SlackSink
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSink posts a summary of each batch to a Slack channel
type SlackSink struct {
	client  SlackPoster
	channel string
}

// NewSlackSink creates a Slack sink from a bot token
func NewSlackSink(token, channel string) *SlackSink {
	return NewSlackSinkWithClient(slack.New(token), channel)
}

// NewSlackSinkWithClient creates a Slack sink using client
func NewSlackSinkWithClient(client SlackPoster, channel string) *SlackSink {
	return &SlackSink{client: client, channel: channel}
}

func (s *SlackSink) Name() string { return "slack" }

func (s *SlackSink) Deliver(ctx context.Context, batch *AlertBatch) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(FormatSummary(batch), false))
	if err != nil {
		return fmt.Errorf("failed to post batch %s to slack: %w", batch.ID, err)
	}
	return nil
}

// maxListedEntities bounds the entity ids spelled out in a summary
const maxListedEntities = 10

// FormatSummary renders a batch as a short Slack message.
func FormatSummary(batch *AlertBatch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%d %s alert(s)* on %d %s entit%s\n",
		severityEmoji(batch.Severity),
		batch.Size(),
		batch.AlertType,
		len(batch.EntityIDs),
		batch.EntityType,
		plural(len(batch.EntityIDs), "y", "ies"))
	fmt.Fprintf(&sb, ":warning: *Severity:* %s\n", batch.Severity)

	rules := make(map[string]int)
	for _, a := range batch.Alerts {
		rules[a.RuleID]++
	}
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&sb, ":memo: rule `%s`: %d\n", id, rules[id])
	}

	listed := batch.EntityIDs
	if len(listed) > maxListedEntities {
		listed = listed[:maxListedEntities]
	}
	fmt.Fprintf(&sb, ":mag: *Entities:* %s", strings.Join(listed, ", "))
	if extra := len(batch.EntityIDs) - len(listed); extra > 0 {
		fmt.Fprintf(&sb, " and %d more", extra)
	}
	fmt.Fprintf(&sb, "\n_batch %s, flushed by %s_", batch.ID, batch.Reason)
	return sb.String()
}

func severityEmoji(s monitor.Severity) string {
	switch s {
	case monitor.SeverityCritical:
		return ":rotating_light:"
	case monitor.SeverityHigh:
		return ":red_circle:"
	case monitor.SeverityMedium:
		return ":large_orange_circle:"
	}
	return ":large_blue_circle:"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
