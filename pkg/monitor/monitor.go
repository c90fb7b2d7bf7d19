// Package monitor holds the domain model for monitor rules and the alerts they raise.
package monitor

import (
	"encoding/json"
	"time"

	"github.com/chainsafe/bridgewatch/pkg/expr"
)

// Severity of a rule and of the alerts it raises
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Status of an alert
type Status string

const (
	StatusOpen     Status = "open"
	StatusAck      Status = "ack"
	StatusResolved Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAck, StatusResolved:
		return true
	}
	return false
}

// CanTransition reports whether an alert may move from s to next.
// Statuses only move forward, except that a resolved alert may be reopened.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusOpen:
		return next == StatusAck || next == StatusResolved
	case StatusAck:
		return next == StatusResolved
	case StatusResolved:
		return next == StatusOpen
	}
	return false
}

// EventKind classifies an alert audit event
type EventKind string

const (
	EventCreated       EventKind = "created"
	EventNoteAdded     EventKind = "note_added"
	EventStatusChanged EventKind = "status_changed"
	EventAssigned      EventKind = "assigned"
)

// ReasonRuleHit tags the created event of an alert raised by the consumer.
const ReasonRuleHit = "rule_hit"

// DefaultAlertType is the batching type of rules created without one.
const DefaultAlertType = "monitor_rule"

const (
	// DefaultListLimit applies when a list request carries no limit.
	DefaultListLimit = 100
	// MaxListLimit caps any list request.
	MaxListLimit = 1000
	// MaxNoteLength bounds the note attached to an alert update.
	MaxNoteLength = 2000
)

// Rule is a compliance rule evaluated against every enriched event.
type Rule struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Version    int             `json:"version"`
	Enabled    bool            `json:"enabled"`
	Scope      string          `json:"scope,omitempty"`
	Severity   Severity        `json:"severity"`
	AlertType  string          `json:"alert_type"`
	Expression expr.Expression `json:"expression"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Alert is the hit-windowed result of a rule firing against one entity.
type Alert struct {
	ID          string         `json:"id"`
	RuleID      string         `json:"rule_id"`
	AlertType   string         `json:"alert_type"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Chain       string         `json:"chain,omitempty"`
	Severity    Severity       `json:"severity"`
	Status      Status         `json:"status"`
	Assignee    string         `json:"assignee,omitempty"`
	FirstSeenAt time.Time      `json:"first_seen_at"`
	LastSeenAt  time.Time      `json:"last_seen_at"`
	Hits        int            `json:"hits"`
	Context     map[string]any `json:"context,omitempty"`
}

// AlertEvent is one entry of an alert's append-only audit trail.
type AlertEvent struct {
	ID        string         `json:"id"`
	AlertID   string         `json:"alert_id"`
	Kind      EventKind      `json:"kind"`
	Actor     string         `json:"actor,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Hit is one match of a rule against an entity, as recorded by the consumer.
type Hit struct {
	RuleID     string
	AlertType  string
	EntityType string
	EntityID   string
	Chain      string
	Severity   Severity
	Context    map[string]any
	At         time.Time
}

// AgeBucket filters alerts by how long ago they were first seen
type AgeBucket string

const (
	AgeLast24h    AgeBucket = "24h"
	AgeLast3d     AgeBucket = "3d"
	AgeLast7d     AgeBucket = "7d"
	AgeOlderThan7 AgeBucket = ">7d"
)

// Valid reports whether b is empty or a known bucket.
func (b AgeBucket) Valid() bool {
	switch b {
	case "", AgeLast24h, AgeLast3d, AgeLast7d, AgeOlderThan7:
		return true
	}
	return false
}

// Bounds returns the first_seen_at window of the bucket relative to now.
// A zero time means the side is open.
func (b AgeBucket) Bounds(now time.Time) (since, before time.Time) {
	const day = 24 * time.Hour
	switch b {
	case AgeLast24h:
		return now.Add(-day), time.Time{}
	case AgeLast3d:
		return now.Add(-3 * day), time.Time{}
	case AgeLast7d:
		return now.Add(-7 * day), time.Time{}
	case AgeOlderThan7:
		return time.Time{}, now.Add(-7 * day)
	}
	return time.Time{}, time.Time{}
}

// AlertFilter selects alerts for ListAlerts. Empty fields do not filter.
// RuleID and EntityID match as substrings.
type AlertFilter struct {
	Status    Status
	Severity  Severity
	RuleID    string
	EntityID  string
	Chain     string
	AgeBucket AgeBucket
	Limit     int
}

// CreateRuleRequest creates a rule. Expression is either the tagged JSON tree
// or a JSON string in text form.
type CreateRuleRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Scope      string          `json:"scope,omitempty" validate:"max=64"`
	Severity   Severity        `json:"severity" validate:"required,oneof=low medium high critical"`
	AlertType  string          `json:"alert_type,omitempty" validate:"max=64"`
	Enabled    *bool           `json:"enabled,omitempty"`
	Expression json.RawMessage `json:"expression" validate:"required"`
}

// ExpressionRequest carries an expression to validate or to replace a rule's expression with.
type ExpressionRequest struct {
	Expression json.RawMessage `json:"expression" validate:"required"`
}

// UpdateAlertRequest changes an alert. At least one field must change.
type UpdateAlertRequest struct {
	Status   *Status `json:"status,omitempty"`
	Assignee *string `json:"assignee,omitempty"`
	Note     *string `json:"note,omitempty"`
	Actor    string  `json:"-"`
}

// ValidationResult is returned by expression validation.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Error      string `json:"error,omitempty"`
}
