package monitorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

type pgStore struct {
	db  *bun.DB
	now func() time.Time
}

// NewStore creates a new postgres implementation of the monitor store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db, now: time.Now}
}

func (s *pgStore) ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error) {
	var daos []RuleDao
	query := s.db.NewSelect().Model(&daos).Order("created_at ASC", "id ASC")
	if enabledOnly {
		query = query.Where("enabled = TRUE")
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]*monitor.Rule, 0, len(daos))
	for i := range daos {
		r, err := toRule(&daos[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (s *pgStore) GetRule(ctx context.Context, id string) (*monitor.Rule, error) {
	dao := new(RuleDao)
	err := s.db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return toRule(dao)
}

func (s *pgStore) CreateRule(ctx context.Context, rule *monitor.Rule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	dao, err := toRuleDao(rule)
	if err != nil {
		return err
	}
	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (s *pgStore) ToggleRule(ctx context.Context, id string) (*monitor.Rule, error) {
	dao := new(RuleDao)
	err := s.db.NewUpdate().
		Model(dao).
		Set("enabled = NOT enabled").
		Set("updated_at = ?", s.now().UTC()).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to toggle rule: %w", err)
	}
	return toRule(dao)
}

func (s *pgStore) ReplaceExpression(ctx context.Context, id string, expression expr.Expression) (*monitor.Rule, error) {
	encoded, err := json.Marshal(expression)
	if err != nil {
		return nil, fmt.Errorf("encode expression: %w", err)
	}

	dao := new(RuleDao)
	err = s.db.NewUpdate().
		Model(dao).
		Set("expression = ?", string(encoded)).
		Set("version = version + 1").
		Set("updated_at = ?", s.now().UTC()).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to replace rule expression: %w", err)
	}
	return toRule(dao)
}

func (s *pgStore) ListAlerts(ctx context.Context, filter monitor.AlertFilter) ([]*monitor.Alert, error) {
	var daos []AlertDao
	query := s.db.NewSelect().Model(&daos)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Chain != "" {
		query = query.Where("chain = ?", strings.ToLower(filter.Chain))
	}
	if filter.RuleID != "" {
		query = query.Where("rule_id ILIKE ?", likePattern(filter.RuleID))
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id ILIKE ?", likePattern(filter.EntityID))
	}
	since, before := filter.AgeBucket.Bounds(s.now().UTC())
	if !since.IsZero() {
		query = query.Where("first_seen_at >= ?", since)
	}
	if !before.IsZero() {
		query = query.Where("first_seen_at < ?", before)
	}

	err := query.
		Order("last_seen_at DESC", "id ASC").
		Limit(limitOrDefault(filter.Limit)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	alerts := make([]*monitor.Alert, len(daos))
	for i := range daos {
		alerts[i] = toAlert(&daos[i])
	}
	return alerts, nil
}

func (s *pgStore) GetAlert(ctx context.Context, id string) (*monitor.Alert, error) {
	dao := new(AlertDao)
	err := s.db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return toAlert(dao), nil
}

func (s *pgStore) UpdateAlert(ctx context.Context, alert *monitor.Alert, events []*monitor.AlertEvent) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(toAlertDao(alert)).
			Column("status", "assignee").
			WherePK().
			Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrOpenAlertExists
			}
			return fmt.Errorf("failed to update alert: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrAlertNotFound
		}
		return insertEvents(ctx, tx, events)
	})
}

func (s *pgStore) AppendAlertEvents(ctx context.Context, events ...*monitor.AlertEvent) error {
	return insertEvents(ctx, s.db, events)
}

func insertEvents(ctx context.Context, db bun.IDB, events []*monitor.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}
	daos := make([]*AlertEventDao, len(events))
	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		daos[i] = toAlertEventDao(e)
	}
	if _, err := db.NewInsert().Model(&daos).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert alert events: %w", err)
	}
	return nil
}

func (s *pgStore) ListAlertEvents(ctx context.Context, alertID string, limit int) ([]*monitor.AlertEvent, error) {
	var daos []AlertEventDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("alert_id = ?", alertID).
		Order("created_at DESC", "id ASC").
		Limit(limitOrDefault(limit)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert events: %w", err)
	}

	events := make([]*monitor.AlertEvent, len(daos))
	for i := range daos {
		events[i] = toAlertEvent(&daos[i])
	}
	return events, nil
}

// upsertAlertQuery relies on the partial unique index over open alerts.
// xmax is zero only for a row version created by this statement's insert.
const upsertAlertQuery = `
INSERT INTO monitor_alerts
	(id, rule_id, alert_type, entity_type, entity_id, chain, severity, status,
	 first_seen_at, last_seen_at, hits, context)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?::jsonb)
ON CONFLICT (rule_id, entity_type, entity_id) WHERE status = 'open'
DO UPDATE SET
	last_seen_at = GREATEST(monitor_alerts.last_seen_at, EXCLUDED.last_seen_at),
	hits = monitor_alerts.hits + 1
RETURNING *, (xmax = 0) AS inserted`

func (s *pgStore) UpsertAlert(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
	if hit.At.IsZero() {
		hit.At = s.now()
	}
	hit.At = hit.At.UTC()

	hitContext, err := json.Marshal(hit.Context)
	if err != nil {
		return nil, false, fmt.Errorf("encode alert context: %w", err)
	}

	dao := new(AlertDao)
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewRaw(upsertAlertQuery,
			uuid.NewString(), hit.RuleID, hit.AlertType, hit.EntityType, hit.EntityID,
			optional(hit.Chain), string(hit.Severity), string(monitor.StatusOpen),
			hit.At, hit.At, string(hitContext),
		).Scan(ctx, dao)
		if err != nil {
			return fmt.Errorf("failed to upsert alert: %w", err)
		}
		if !dao.Inserted {
			return nil
		}
		return insertEvents(ctx, tx, []*monitor.AlertEvent{createdEvent(dao.ID, hit)})
	})
	if err != nil {
		return nil, false, err
	}
	return toAlert(dao), dao.Inserted, nil
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}

var _ Store = (*pgStore)(nil)
