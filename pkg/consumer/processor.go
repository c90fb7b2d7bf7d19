package consumer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/internal/metrics"
	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/event"
	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// BridgeDetector recognizes bridge transfers
type BridgeDetector interface {
	DetectBridge(ev *event.Event) (bridge.Record, bool)
}

// GraphWriter persists detected bridge transfers as graph edges
type GraphWriter interface {
	SaveBridgeLink(ctx context.Context, from, to string, rec bridge.Record) (string, error)
}

// AlertRecorder upserts the alert for a rule hit
type AlertRecorder interface {
	RecordHit(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error)
}

// AlertBatcher receives newly created alerts
type AlertBatcher interface {
	AddAlert(alert *monitor.Alert) *batching.AlertBatch
}

// Result summarizes the processing of one event
type Result struct {
	Bridge      bool
	EdgeCreated bool
	Evaluated   int
	Failed      int
	Matched     int
	Created     int
}

// Processor runs one event through detect, enrich, evaluate and persist.
type Processor struct {
	detector     BridgeDetector
	graph        GraphWriter
	rules        *RuleCache
	alerts       AlertRecorder
	batcher      AlertBatcher
	graphTimeout time.Duration
	logger       *zap.Logger
}

// NewProcessor creates a new event processor
func NewProcessor(
	detector BridgeDetector,
	graph GraphWriter,
	rules *RuleCache,
	alerts AlertRecorder,
	batcher AlertBatcher,
	graphTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		detector:     detector,
		graph:        graph,
		rules:        rules,
		alerts:       alerts,
		batcher:      batcher,
		graphTimeout: graphTimeout,
		logger:       logger,
	}
}

// Process handles one event. A returned error means the event was not fully
// persisted and must not be committed; rule evaluation errors are not returned.
func (p *Processor) Process(ctx context.Context, ev *event.Event) (Result, error) {
	var res Result

	var rec *bridge.Record
	if r, ok := p.detector.DetectBridge(ev); ok {
		rec = &r
		res.Bridge = true
		metrics.BridgeTransfersDetected.WithLabelValues(r.BridgeName, string(r.DetectedVia)).Inc()

		created, err := p.saveLink(ctx, r)
		if err != nil {
			return res, err
		}
		res.EdgeCreated = created
	}

	enriched := Enrich(ev, rec)

	rules, err := p.rules.Rules(ctx)
	if err != nil {
		return res, apperrors.TransientStoreError(err, "rules unavailable")
	}

	for _, rule := range rules {
		res.Evaluated++
		matched, err := expr.Evaluate(rule.Expression.Root, enriched.Context)
		if err != nil {
			res.Failed++
			metrics.RuleEvaluations.WithLabelValues("error").Inc()
			p.logger.Warn("Rule evaluation failed",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Int("rule_version", rule.Version),
				zap.String("tx_hash", ev.TxHash),
				zap.Error(err))
			continue
		}
		if !matched {
			metrics.RuleEvaluations.WithLabelValues("no_match").Inc()
			continue
		}
		metrics.RuleEvaluations.WithLabelValues("match").Inc()
		res.Matched++

		alert, created, err := p.alerts.RecordHit(ctx, monitor.Hit{
			RuleID:     rule.ID,
			AlertType:  rule.AlertType,
			EntityType: enriched.Entity.Type,
			EntityID:   enriched.Entity.ID,
			Chain:      ev.Chain,
			Severity:   rule.Severity,
			Context:    alertContext(enriched, ev),
		})
		if err != nil {
			return res, fmt.Errorf("failed to record hit for rule %s: %w", rule.ID, err)
		}

		outcome := "updated"
		if created {
			outcome = "created"
			res.Created++
			if p.batcher != nil {
				p.batcher.AddAlert(alert)
			}
		}
		metrics.AlertsRecorded.WithLabelValues(string(rule.Severity), outcome).Inc()
	}

	return res, nil
}

// saveLink writes the detected transfer to the graph within the graph timeout.
// Records without both endpoints are not linked.
func (p *Processor) saveLink(ctx context.Context, rec bridge.Record) (bool, error) {
	if p.graph == nil || rec.FromAddress == "" || rec.ToAddress == "" {
		return false, nil
	}

	if p.graphTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.graphTimeout)
		defer cancel()
	}

	id, err := p.graph.SaveBridgeLink(ctx, rec.FromAddress, rec.ToAddress, rec)
	if err != nil {
		return false, apperrors.TransientStoreError(fmt.Errorf("failed to save bridge link: %w", err), "bridge graph unavailable")
	}
	if id != "" {
		p.logger.Debug("Bridge link created",
			zap.String("edge_id", id),
			zap.String("bridge", rec.BridgeName),
			zap.String("chain_from", rec.ChainFrom),
			zap.String("chain_to", rec.ChainTo))
	}
	return id != "", nil
}

// alertContext is the enriched alert context plus the event's own time. Hit windows use
// the time the hit is recorded, so the event time is kept only for analysts.
func alertContext(enriched *Enriched, ev *event.Event) map[string]any {
	out := enriched.AlertContext()
	if !ev.Timestamp.IsZero() {
		out["event_timestamp"] = ev.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}
