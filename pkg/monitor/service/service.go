// Package service implements rule and alert management on top of a monitor store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
	"github.com/chainsafe/bridgewatch/pkg/monitorstore"
)

const storeUnavailable = "monitor store unavailable"

var errNoChange = errors.New("at least one of status, assignee or note must be set")

// Store is the narrow data-access interface for the monitor service.
// Defined here to keep the monitor service decoupled from monitorstore implementation details.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
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
	UpsertAlert(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error)
}

// Service defines the interface for rule and alert management
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error)
	GetRule(ctx context.Context, id string) (*monitor.Rule, error)
	CreateRule(ctx context.Context, req *monitor.CreateRuleRequest) (*monitor.Rule, error)
	ToggleRule(ctx context.Context, id string) (*monitor.Rule, error)
	ReplaceExpression(ctx context.Context, id string, req *monitor.ExpressionRequest) (*monitor.Rule, error)
	ValidateExpression(ctx context.Context, req *monitor.ExpressionRequest) (*monitor.ValidationResult, error)

	ListAlerts(ctx context.Context, filter monitor.AlertFilter) ([]*monitor.Alert, error)
	GetAlert(ctx context.Context, id string) (*monitor.Alert, error)
	UpdateAlert(ctx context.Context, id string, req *monitor.UpdateAlertRequest) (*monitor.Alert, error)
	ListAlertEvents(ctx context.Context, alertID string, limit int) ([]*monitor.AlertEvent, error)

	// RecordHit upserts the open alert for the hit's rule and entity.
	// The boolean reports whether a new alert was created.
	RecordHit(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error)
}

type monitorService struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new monitor service
func NewService(store Store, logger *zap.Logger) Service {
	return &monitorService{
		store:    store,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *monitorService) ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error) {
	rules, err := s.store.ListRules(ctx, enabledOnly)
	if err != nil {
		return nil, storeError(err, "list rules")
	}
	return rules, nil
}

func (s *monitorService) GetRule(ctx context.Context, id string) (*monitor.Rule, error) {
	rule, err := s.store.GetRule(ctx, id)
	if err != nil {
		return nil, storeError(err, "get rule")
	}
	return rule, nil
}

// CreateRule validates the request and its expression before anything is stored.
func (s *monitorService) CreateRule(ctx context.Context, req *monitor.CreateRuleRequest) (*monitor.Rule, error) {
	if req == nil {
		return nil, apperrors.BadRequestError(nil, "request body is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError(errors.New("name must not be blank"))
	}
	root, err := parseExpression(req.Expression)
	if err != nil {
		return nil, apperrors.ValidationError(err)
	}

	alertType := strings.TrimSpace(req.AlertType)
	if alertType == "" {
		alertType = monitor.DefaultAlertType
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := s.now().UTC()
	rule := &monitor.Rule{
		ID:         uuid.NewString(),
		Name:       name,
		Version:    1,
		Enabled:    enabled,
		Scope:      strings.TrimSpace(req.Scope),
		Severity:   req.Severity,
		AlertType:  alertType,
		Expression: expr.Expression{Root: root},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateRule(ctx, rule); err != nil {
		return nil, storeError(err, "create rule")
	}
	return rule, nil
}

func (s *monitorService) ToggleRule(ctx context.Context, id string) (*monitor.Rule, error) {
	rule, err := s.store.ToggleRule(ctx, id)
	if err != nil {
		return nil, storeError(err, "toggle rule")
	}
	return rule, nil
}

func (s *monitorService) ReplaceExpression(ctx context.Context, id string, req *monitor.ExpressionRequest) (*monitor.Rule, error) {
	root, err := s.expressionFromRequest(req)
	if err != nil {
		return nil, err
	}
	rule, err := s.store.ReplaceExpression(ctx, id, expr.Expression{Root: root})
	if err != nil {
		return nil, storeError(err, "replace expression")
	}
	return rule, nil
}

// ValidateExpression reports a malformed expression in the result rather than as an error.
func (s *monitorService) ValidateExpression(_ context.Context, req *monitor.ExpressionRequest) (*monitor.ValidationResult, error) {
	if req == nil {
		return nil, apperrors.BadRequestError(nil, "request body is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	root, err := parseExpression(req.Expression)
	if err != nil {
		return &monitor.ValidationResult{Valid: false, Error: err.Error()}, nil
	}
	return &monitor.ValidationResult{Valid: true, Normalized: root.String()}, nil
}

func (s *monitorService) ListAlerts(ctx context.Context, filter monitor.AlertFilter) ([]*monitor.Alert, error) {
	if err := validateFilter(filter); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	alerts, err := s.store.ListAlerts(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list alerts")
	}
	return alerts, nil
}

func (s *monitorService) GetAlert(ctx context.Context, id string) (*monitor.Alert, error) {
	alert, err := s.store.GetAlert(ctx, id)
	if err != nil {
		return nil, storeError(err, "get alert")
	}
	return alert, nil
}

// UpdateAlert applies a status change, an assignment and a note in one call.
// Status and assignee changes rewrite the alert row together with their audit
// events; a note on its own only appends a note_added event.
func (s *monitorService) UpdateAlert(ctx context.Context, id string, req *monitor.UpdateAlertRequest) (*monitor.Alert, error) {
	if err := validateUpdate(req); err != nil {
		return nil, apperrors.ValidationError(err)
	}

	alert, err := s.store.GetAlert(ctx, id)
	if err != nil {
		return nil, storeError(err, "get alert")
	}

	now := s.now().UTC()
	newEvent := func(kind monitor.EventKind, payload map[string]any) *monitor.AlertEvent {
		return &monitor.AlertEvent{
			ID:        uuid.NewString(),
			AlertID:   alert.ID,
			Kind:      kind,
			Actor:     req.Actor,
			Payload:   payload,
			CreatedAt: now,
		}
	}

	var events []*monitor.AlertEvent
	rowChanged := false

	if req.Status != nil && *req.Status != alert.Status {
		if !alert.Status.CanTransition(*req.Status) {
			return nil, apperrors.ConflictError(nil,
				fmt.Sprintf("cannot move alert from %s to %s", alert.Status, *req.Status))
		}
		events = append(events, newEvent(monitor.EventStatusChanged, map[string]any{
			"from": string(alert.Status),
			"to":   string(*req.Status),
		}))
		alert.Status = *req.Status
		rowChanged = true
	}
	if req.Assignee != nil {
		assignee := strings.TrimSpace(*req.Assignee)
		if assignee != alert.Assignee {
			events = append(events, newEvent(monitor.EventAssigned, map[string]any{
				"from": alert.Assignee,
				"to":   assignee,
			}))
			alert.Assignee = assignee
			rowChanged = true
		}
	}
	if req.Note != nil {
		events = append(events, newEvent(monitor.EventNoteAdded, map[string]any{
			"note": strings.TrimSpace(*req.Note),
		}))
	}

	switch {
	case rowChanged:
		err = s.store.UpdateAlert(ctx, alert, events)
	case len(events) > 0:
		err = s.store.AppendAlertEvents(ctx, events...)
	}
	if err != nil {
		return nil, storeError(err, "update alert")
	}
	return alert, nil
}

func (s *monitorService) ListAlertEvents(ctx context.Context, alertID string, limit int) ([]*monitor.AlertEvent, error) {
	if limit < 0 {
		return nil, apperrors.ValidationError(errors.New("limit must not be negative"))
	}
	if _, err := s.store.GetAlert(ctx, alertID); err != nil {
		return nil, storeError(err, "get alert")
	}
	events, err := s.store.ListAlertEvents(ctx, alertID, limit)
	if err != nil {
		return nil, storeError(err, "list alert events")
	}
	return events, nil
}

func (s *monitorService) RecordHit(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
	if hit.RuleID == "" || hit.EntityType == "" || hit.EntityID == "" {
		return nil, false, apperrors.ValidationError(errors.New("hit requires rule_id, entity_type and entity_id"))
	}
	if hit.AlertType == "" {
		hit.AlertType = monitor.DefaultAlertType
	}
	// first_seen_at and last_seen_at track when hits are recorded, not event time
	hit.At = s.now().UTC()

	alert, created, err := s.store.UpsertAlert(ctx, hit)
	if err != nil {
		return nil, false, storeError(err, "record hit")
	}
	return alert, created, nil
}

func (s *monitorService) expressionFromRequest(req *monitor.ExpressionRequest) (expr.Node, error) {
	if req == nil {
		return nil, apperrors.BadRequestError(nil, "request body is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError(err)
	}
	root, err := parseExpression(req.Expression)
	if err != nil {
		return nil, apperrors.ValidationError(err)
	}
	return root, nil
}

// parseExpression accepts the tagged JSON tree or a JSON string in text form and
// rejects anything that fails structural checks or a dry run against an empty context.
func parseExpression(raw []byte) (expr.Node, error) {
	root, err := expr.ParseAny(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	if err := expr.Validate(root); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	return root, nil
}

func validateFilter(f monitor.AlertFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q", f.Status)
	}
	if f.Severity != "" && !f.Severity.Valid() {
		return fmt.Errorf("unknown severity %q", f.Severity)
	}
	if !f.AgeBucket.Valid() {
		return fmt.Errorf("unknown age bucket %q", f.AgeBucket)
	}
	if f.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func validateUpdate(req *monitor.UpdateAlertRequest) error {
	if req == nil || (req.Status == nil && req.Assignee == nil && req.Note == nil) {
		return errNoChange
	}
	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("unknown status %q", *req.Status)
	}
	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if note == "" {
			return errors.New("note must not be blank")
		}
		if len(note) > monitor.MaxNoteLength {
			return fmt.Errorf("note must be at most %d characters", monitor.MaxNoteLength)
		}
	}
	return nil
}

func storeError(err error, op string) error {
	switch {
	case errors.Is(err, monitorstore.ErrRuleNotFound):
		return apperrors.ResourceNotFoundError(err, "rule not found")
	case errors.Is(err, monitorstore.ErrAlertNotFound):
		return apperrors.ResourceNotFoundError(err, "alert not found")
	case errors.Is(err, monitorstore.ErrOpenAlertExists):
		return apperrors.ConflictError(err, err.Error())
	}
	return apperrors.TransientStoreError(fmt.Errorf("failed to %s: %w", op, err), storeUnavailable)
}
