package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesTotal counts consumed queue messages by outcome
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_messages_total",
			Help: "Total number of consumed event messages",
		},
		[]string{"outcome"},
	)

	// ProcessingDuration tracks the time from fetch to commit of one message
	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridgewatch_message_processing_duration_seconds",
			Help:    "Message processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BridgeTransfersDetected counts detected bridge transfers
	BridgeTransfersDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_bridge_transfers_detected_total",
			Help: "Total number of bridge transfers detected",
		},
		[]string{"bridge", "detected_via"},
	)

	// RuleEvaluations counts rule evaluations by result
	RuleEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_rule_evaluations_total",
			Help: "Total number of rule evaluations",
		},
		[]string{"result"},
	)

	// AlertsRecorded counts rule hits by whether they opened a new alert
	AlertsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_alert_hits_total",
			Help: "Total number of rule hits recorded as alerts",
		},
		[]string{"severity", "outcome"},
	)

	// ActiveRules tracks the number of enabled rules in the consumer cache
	ActiveRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridgewatch_active_rules",
			Help: "Number of enabled rules evaluated per event",
		},
	)

	// BatchesFlushed counts flushed alert batches
	BatchesFlushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_batches_flushed_total",
			Help: "Total number of alert batches flushed",
		},
		[]string{"alert_type", "reason"},
	)

	// BatchSize tracks the number of alerts per flushed batch
	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridgewatch_batch_size",
			Help:    "Number of alerts in a flushed batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	// PendingAlerts tracks alerts waiting in open batches
	PendingAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridgewatch_pending_batched_alerts",
			Help: "Number of alerts waiting in open batches",
		},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgewatch_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
