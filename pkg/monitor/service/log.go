package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

const serviceName = "MonitorService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the monitor Service.
// It logs method entry/exit, duration and errors.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) started(method string, fields ...zap.Field) time.Time {
	ls.logger.Info(method+" started", append(ls.base(method), fields...)...)
	return time.Now()
}

func (ls *logService) finished(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(ls.base(method), append(fields, zap.Duration("duration", time.Since(start)))...)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (*logService) base(method string) []zap.Field {
	return []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
	}
}

// ListRules wraps the service method with logging
func (ls *logService) ListRules(ctx context.Context, enabledOnly bool) (rules []*monitor.Rule, err error) {
	start := ls.started("ListRules", zap.Bool("enabled_only", enabledOnly))
	defer func() {
		ls.finished("ListRules", start, err, zap.Int("count", len(rules)))
	}()
	return ls.svc.ListRules(ctx, enabledOnly)
}

// GetRule wraps the service method with logging
func (ls *logService) GetRule(ctx context.Context, id string) (rule *monitor.Rule, err error) {
	start := ls.started("GetRule", zap.String("rule_id", id))
	defer func() {
		ls.finished("GetRule", start, err, zap.String("rule_id", id))
	}()
	return ls.svc.GetRule(ctx, id)
}

// CreateRule wraps the service method with logging
func (ls *logService) CreateRule(ctx context.Context, req *monitor.CreateRuleRequest) (rule *monitor.Rule, err error) {
	var name string
	if req != nil {
		name = req.Name
	}
	start := ls.started("CreateRule", zap.String("name", name))
	defer func() {
		if err != nil {
			ls.finished("CreateRule", start, err, zap.String("name", name))
			return
		}
		ls.finished("CreateRule", start, nil,
			zap.String("rule_id", rule.ID),
			zap.String("severity", string(rule.Severity)),
			zap.Stringer("expression", rule.Expression),
		)
	}()
	return ls.svc.CreateRule(ctx, req)
}

// ToggleRule wraps the service method with logging
func (ls *logService) ToggleRule(ctx context.Context, id string) (rule *monitor.Rule, err error) {
	start := ls.started("ToggleRule", zap.String("rule_id", id))
	defer func() {
		if err != nil {
			ls.finished("ToggleRule", start, err, zap.String("rule_id", id))
			return
		}
		ls.finished("ToggleRule", start, nil, zap.String("rule_id", id), zap.Bool("enabled", rule.Enabled))
	}()
	return ls.svc.ToggleRule(ctx, id)
}

// ReplaceExpression wraps the service method with logging
func (ls *logService) ReplaceExpression(
	ctx context.Context,
	id string,
	req *monitor.ExpressionRequest,
) (rule *monitor.Rule, err error) {
	start := ls.started("ReplaceExpression", zap.String("rule_id", id))
	defer func() {
		if err != nil {
			ls.finished("ReplaceExpression", start, err, zap.String("rule_id", id))
			return
		}
		ls.finished("ReplaceExpression", start, nil,
			zap.String("rule_id", id),
			zap.Int("version", rule.Version),
			zap.Stringer("expression", rule.Expression),
		)
	}()
	return ls.svc.ReplaceExpression(ctx, id, req)
}

// ValidateExpression wraps the service method with logging
func (ls *logService) ValidateExpression(
	ctx context.Context,
	req *monitor.ExpressionRequest,
) (res *monitor.ValidationResult, err error) {
	start := ls.started("ValidateExpression")
	defer func() {
		if err != nil {
			ls.finished("ValidateExpression", start, err)
			return
		}
		ls.finished("ValidateExpression", start, nil, zap.Bool("valid", res.Valid))
	}()
	return ls.svc.ValidateExpression(ctx, req)
}

// ListAlerts wraps the service method with logging
func (ls *logService) ListAlerts(ctx context.Context, filter monitor.AlertFilter) (alerts []*monitor.Alert, err error) {
	start := ls.started("ListAlerts",
		zap.String("status", string(filter.Status)),
		zap.String("severity", string(filter.Severity)),
		zap.String("age_bucket", string(filter.AgeBucket)),
		zap.Int("limit", filter.Limit),
	)
	defer func() {
		ls.finished("ListAlerts", start, err, zap.Int("count", len(alerts)))
	}()
	return ls.svc.ListAlerts(ctx, filter)
}

// GetAlert wraps the service method with logging
func (ls *logService) GetAlert(ctx context.Context, id string) (alert *monitor.Alert, err error) {
	start := ls.started("GetAlert", zap.String("alert_id", id))
	defer func() {
		ls.finished("GetAlert", start, err, zap.String("alert_id", id))
	}()
	return ls.svc.GetAlert(ctx, id)
}

// UpdateAlert wraps the service method with logging
func (ls *logService) UpdateAlert(
	ctx context.Context,
	id string,
	req *monitor.UpdateAlertRequest,
) (alert *monitor.Alert, err error) {
	var actor string
	if req != nil {
		actor = req.Actor
	}
	start := ls.started("UpdateAlert", zap.String("alert_id", id), zap.String("actor", actor))
	defer func() {
		if err != nil {
			ls.finished("UpdateAlert", start, err, zap.String("alert_id", id))
			return
		}
		ls.finished("UpdateAlert", start, nil,
			zap.String("alert_id", id),
			zap.String("status", string(alert.Status)),
			zap.String("assignee", alert.Assignee),
		)
	}()
	return ls.svc.UpdateAlert(ctx, id, req)
}

// ListAlertEvents wraps the service method with logging
func (ls *logService) ListAlertEvents(
	ctx context.Context,
	alertID string,
	limit int,
) (events []*monitor.AlertEvent, err error) {
	start := ls.started("ListAlertEvents", zap.String("alert_id", alertID), zap.Int("limit", limit))
	defer func() {
		ls.finished("ListAlertEvents", start, err, zap.Int("count", len(events)))
	}()
	return ls.svc.ListAlertEvents(ctx, alertID, limit)
}

// RecordHit wraps the service method with logging. Hits arrive once per matching
// event, so success is logged at debug level.
func (ls *logService) RecordHit(ctx context.Context, hit monitor.Hit) (alert *monitor.Alert, created bool, err error) {
	start := time.Now()
	defer func() {
		fields := append(ls.base("RecordHit"),
			zap.String("rule_id", hit.RuleID),
			zap.String("entity_id", hit.EntityID),
			zap.Duration("duration", time.Since(start)),
		)
		if err != nil {
			ls.logger.Error("RecordHit failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Debug("RecordHit completed",
			append(fields, zap.String("alert_id", alert.ID), zap.Bool("created", created), zap.Int("hits", alert.Hits))...)
	}()
	return ls.svc.RecordHit(ctx, hit)
}
