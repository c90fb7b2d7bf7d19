package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	apphttp "github.com/chainsafe/bridgewatch/pkg/app/http"
	"github.com/chainsafe/bridgewatch/pkg/auth"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers rule and alert endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/rules", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.listRules))
		r.Post("/", apphttp.HandleError(h.createRule))
		r.Post("/validate", apphttp.HandleError(h.validateExpression))
		r.Get("/{id}", apphttp.HandleError(h.getRule))
		r.Post("/{id}/toggle", apphttp.HandleError(h.toggleRule))
		r.Put("/{id}/expression", apphttp.HandleError(h.replaceExpression))
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.listAlerts))
		r.Get("/{id}", apphttp.HandleError(h.getAlert))
		r.Patch("/{id}", apphttp.HandleError(h.updateAlert))
		r.Get("/{id}/events", apphttp.HandleError(h.listAlertEvents))
	})
}

func (h *HTTP) listRules(w http.ResponseWriter, r *http.Request) error {
	enabledOnly := false
	if raw := r.URL.Query().Get("enabled"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid enabled: must be a boolean")
		}
		enabledOnly = v
	}

	rules, err := h.service.ListRules(r.Context(), enabledOnly)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, rules)
	return nil
}

func (h *HTTP) createRule(w http.ResponseWriter, r *http.Request) error {
	var req monitor.CreateRuleRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	rule, err := h.service.CreateRule(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, rule)
	return nil
}

func (h *HTTP) validateExpression(w http.ResponseWriter, r *http.Request) error {
	var req monitor.ExpressionRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	res, err := h.service.ValidateExpression(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) getRule(w http.ResponseWriter, r *http.Request) error {
	rule, err := h.service.GetRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, rule)
	return nil
}

func (h *HTTP) toggleRule(w http.ResponseWriter, r *http.Request) error {
	rule, err := h.service.ToggleRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, rule)
	return nil
}

func (h *HTTP) replaceExpression(w http.ResponseWriter, r *http.Request) error {
	var req monitor.ExpressionRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	rule, err := h.service.ReplaceExpression(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, rule)
	return nil
}

func (h *HTTP) listAlerts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	limit, err := apphttp.QueryInt(r, "limit", 0)
	if err != nil {
		return err
	}

	alerts, err := h.service.ListAlerts(r.Context(), monitor.AlertFilter{
		Status:    monitor.Status(q.Get("status")),
		Severity:  monitor.Severity(q.Get("severity")),
		RuleID:    q.Get("rule_id"),
		EntityID:  q.Get("entity_id"),
		Chain:     q.Get("chain"),
		AgeBucket: monitor.AgeBucket(q.Get("age")),
		Limit:     limit,
	})
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, alerts)
	return nil
}

func (h *HTTP) getAlert(w http.ResponseWriter, r *http.Request) error {
	alert, err := h.service.GetAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, alert)
	return nil
}

func (h *HTTP) updateAlert(w http.ResponseWriter, r *http.Request) error {
	var req monitor.UpdateAlertRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	req.Actor = auth.ActorFromContext(r.Context())

	alert, err := h.service.UpdateAlert(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, alert)
	return nil
}

func (h *HTTP) listAlertEvents(w http.ResponseWriter, r *http.Request) error {
	limit, err := apphttp.QueryInt(r, "limit", 0)
	if err != nil {
		return err
	}

	events, err := h.service.ListAlertEvents(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, events)
	return nil
}
