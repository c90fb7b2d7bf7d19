package monitorstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// RuleDao maps to the 'monitor_rules' table.
type RuleDao struct {
	bun.BaseModel `bun:"table:monitor_rules,alias:mr"`
	ID            string          `bun:"id,pk,type:varchar(64)"`
	Name          string          `bun:"name,notnull,type:varchar(200)"`
	Version       int             `bun:"version,notnull,default:1"`
	Enabled       bool            `bun:"enabled,notnull"`
	Scope         *string         `bun:"scope,type:varchar(64)"`
	Severity      string          `bun:"severity,notnull,type:varchar(16)"`
	AlertType     string          `bun:"alert_type,notnull,type:varchar(64)"`
	Expression    json.RawMessage `bun:"expression,notnull,type:jsonb"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// AlertDao maps to the 'monitor_alerts' table.
type AlertDao struct {
	bun.BaseModel `bun:"table:monitor_alerts,alias:ma"`
	ID            string         `bun:"id,pk,type:varchar(64)"`
	RuleID        string         `bun:"rule_id,notnull,type:varchar(64)"`
	AlertType     string         `bun:"alert_type,notnull,type:varchar(64)"`
	EntityType    string         `bun:"entity_type,notnull,type:varchar(32)"`
	EntityID      string         `bun:"entity_id,notnull,type:varchar(256)"`
	Chain         *string        `bun:"chain,type:varchar(64)"`
	Severity      string         `bun:"severity,notnull,type:varchar(16)"`
	Status        string         `bun:"status,notnull,type:varchar(16)"`
	Assignee      *string        `bun:"assignee,type:varchar(128)"`
	FirstSeenAt   time.Time      `bun:"first_seen_at,notnull"`
	LastSeenAt    time.Time      `bun:"last_seen_at,notnull"`
	Hits          int            `bun:"hits,notnull,default:1"`
	Context       map[string]any `bun:"context,type:jsonb"`

	// Inserted is only read back from the upsert statement.
	Inserted bool `bun:"inserted,scanonly"`
}

// AlertEventDao maps to the 'monitor_alert_events' table.
type AlertEventDao struct {
	bun.BaseModel `bun:"table:monitor_alert_events,alias:mae"`
	ID            string         `bun:"id,pk,type:varchar(64)"`
	AlertID       string         `bun:"alert_id,notnull,type:varchar(64)"`
	Kind          string         `bun:"kind,notnull,type:varchar(32)"`
	Actor         *string        `bun:"actor,type:varchar(128)"`
	Payload       map[string]any `bun:"payload,type:jsonb"`
	CreatedAt     time.Time      `bun:"created_at,notnull,default:current_timestamp"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toRuleDao(r *monitor.Rule) (*RuleDao, error) {
	expression, err := json.Marshal(r.Expression)
	if err != nil {
		return nil, fmt.Errorf("encode expression: %w", err)
	}
	return &RuleDao{
		ID:         r.ID,
		Name:       r.Name,
		Version:    r.Version,
		Enabled:    r.Enabled,
		Scope:      optional(r.Scope),
		Severity:   string(r.Severity),
		AlertType:  r.AlertType,
		Expression: expression,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func toRule(dao *RuleDao) (*monitor.Rule, error) {
	var expression expr.Expression
	if err := json.Unmarshal(dao.Expression, &expression); err != nil {
		return nil, fmt.Errorf("decode expression of rule %s: %w", dao.ID, err)
	}
	return &monitor.Rule{
		ID:         dao.ID,
		Name:       dao.Name,
		Version:    dao.Version,
		Enabled:    dao.Enabled,
		Scope:      deref(dao.Scope),
		Severity:   monitor.Severity(dao.Severity),
		AlertType:  dao.AlertType,
		Expression: expression,
		CreatedAt:  dao.CreatedAt,
		UpdatedAt:  dao.UpdatedAt,
	}, nil
}

func toAlertDao(a *monitor.Alert) *AlertDao {
	return &AlertDao{
		ID:          a.ID,
		RuleID:      a.RuleID,
		AlertType:   a.AlertType,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Chain:       optional(a.Chain),
		Severity:    string(a.Severity),
		Status:      string(a.Status),
		Assignee:    optional(a.Assignee),
		FirstSeenAt: a.FirstSeenAt,
		LastSeenAt:  a.LastSeenAt,
		Hits:        a.Hits,
		Context:     a.Context,
	}
}

func toAlert(dao *AlertDao) *monitor.Alert {
	return &monitor.Alert{
		ID:          dao.ID,
		RuleID:      dao.RuleID,
		AlertType:   dao.AlertType,
		EntityType:  dao.EntityType,
		EntityID:    dao.EntityID,
		Chain:       deref(dao.Chain),
		Severity:    monitor.Severity(dao.Severity),
		Status:      monitor.Status(dao.Status),
		Assignee:    deref(dao.Assignee),
		FirstSeenAt: dao.FirstSeenAt,
		LastSeenAt:  dao.LastSeenAt,
		Hits:        dao.Hits,
		Context:     dao.Context,
	}
}

func toAlertEventDao(e *monitor.AlertEvent) *AlertEventDao {
	return &AlertEventDao{
		ID:        e.ID,
		AlertID:   e.AlertID,
		Kind:      string(e.Kind),
		Actor:     optional(e.Actor),
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

func toAlertEvent(dao *AlertEventDao) *monitor.AlertEvent {
	return &monitor.AlertEvent{
		ID:        dao.ID,
		AlertID:   dao.AlertID,
		Kind:      monitor.EventKind(dao.Kind),
		Actor:     deref(dao.Actor),
		Payload:   dao.Payload,
		CreatedAt: dao.CreatedAt,
	}
}
