// Package monitorstore persists monitor rules, alerts and alert audit events.
package monitorstore

import (
	"context"
	"errors"

	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

var (
	// ErrRuleNotFound is returned when a rule lookup finds no matching record.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrAlertNotFound is returned when an alert lookup finds no matching record.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrOpenAlertExists is returned when reopening an alert would create a second
	// open alert for the same rule and entity.
	ErrOpenAlertExists = errors.New("an open alert already exists for this rule and entity")
)

// Store is implemented by the postgres and in-memory stores.
type Store interface {
	ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error)
	GetRule(ctx context.Context, id string) (*monitor.Rule, error)
	CreateRule(ctx context.Context, rule *monitor.Rule) error
	ToggleRule(ctx context.Context, id string) (*monitor.Rule, error)
	ReplaceExpression(ctx context.Context, id string, expression expr.Expression) (*monitor.Rule, error)

	ListAlerts(ctx context.Context, filter monitor.AlertFilter) ([]*monitor.Alert, error)
	GetAlert(ctx context.Context, id string) (*monitor.Alert, error)
	UpdateAlert(ctx context.Context, alert *monitor.Alert, events []*monitor.AlertEvent) error
	AppendAlertEvents(ctx context.Context, events ...*monitor.AlertEvent) error
	ListAlertEvents(ctx context.Context, alertID string, limit int) ([]*monitor.AlertEvent, error)

	// UpsertAlert records a hit: it inserts a new open alert with hits=1 and a created
	// event, or bumps hits and last_seen_at of the existing open alert for the same
	// (rule, entity_type, entity_id). The boolean reports whether the alert was created.
	UpsertAlert(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error)
}

func limitOrDefault(limit int) int {
	switch {
	case limit <= 0:
		return monitor.DefaultListLimit
	case limit > monitor.MaxListLimit:
		return monitor.MaxListLimit
	}
	return limit
}

func createdEvent(alertID string, hit monitor.Hit) *monitor.AlertEvent {
	return &monitor.AlertEvent{
		AlertID: alertID,
		Kind:    monitor.EventCreated,
		Payload: map[string]any{
			"reason":  monitor.ReasonRuleHit,
			"rule_id": hit.RuleID,
		},
		CreatedAt: hit.At,
	}
}
