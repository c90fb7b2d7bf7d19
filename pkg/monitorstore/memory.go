package monitorstore

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

type openKey struct {
	ruleID     string
	entityType string
	entityID   string
}

// memoryStore keeps rules and alerts in process memory.
// It enforces the same one-open-alert-per-(rule, entity) invariant as the postgres store.
type memoryStore struct {
	mu     sync.RWMutex
	rules  map[string]*monitor.Rule
	alerts map[string]*monitor.Alert
	open   map[openKey]string
	events map[string][]*monitor.AlertEvent
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory monitor store
func NewMemoryStore() *memoryStore {
	return &memoryStore{
		rules:  make(map[string]*monitor.Rule),
		alerts: make(map[string]*monitor.Alert),
		open:   make(map[openKey]string),
		events: make(map[string][]*monitor.AlertEvent),
		now:    time.Now,
	}
}

func copyRule(r *monitor.Rule) *monitor.Rule {
	c := *r
	return &c
}

func copyAlert(a *monitor.Alert) *monitor.Alert {
	c := *a
	c.Context = maps.Clone(a.Context)
	return &c
}

func (s *memoryStore) ListRules(_ context.Context, enabledOnly bool) ([]*monitor.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*monitor.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if enabledOnly && !r.Enabled {
			continue
		}
		out = append(out, copyRule(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) GetRule(_ context.Context, id string) (*monitor.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return copyRule(r), nil
}

func (s *memoryStore) CreateRule(_ context.Context, rule *monitor.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	s.rules[rule.ID] = copyRule(rule)
	return nil
}

func (s *memoryStore) ToggleRule(_ context.Context, id string) (*monitor.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	r.Enabled = !r.Enabled
	r.UpdatedAt = s.now().UTC()
	return copyRule(r), nil
}

func (s *memoryStore) ReplaceExpression(_ context.Context, id string, expression expr.Expression) (*monitor.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	r.Expression = expression
	r.Version++
	r.UpdatedAt = s.now().UTC()
	return copyRule(r), nil
}

func (s *memoryStore) ListAlerts(_ context.Context, filter monitor.AlertFilter) ([]*monitor.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since, before := filter.AgeBucket.Bounds(s.now().UTC())
	ruleID := strings.ToLower(filter.RuleID)
	entityID := strings.ToLower(filter.EntityID)

	out := make([]*monitor.Alert, 0)
	for _, a := range s.alerts {
		switch {
		case filter.Status != "" && a.Status != filter.Status,
			filter.Severity != "" && a.Severity != filter.Severity,
			filter.Chain != "" && !strings.EqualFold(a.Chain, filter.Chain),
			ruleID != "" && !strings.Contains(strings.ToLower(a.RuleID), ruleID),
			entityID != "" && !strings.Contains(strings.ToLower(a.EntityID), entityID),
			!since.IsZero() && a.FirstSeenAt.Before(since),
			!before.IsZero() && !a.FirstSeenAt.Before(before):
			continue
		}
		out = append(out, copyAlert(a))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].LastSeenAt.After(out[j].LastSeenAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit := limitOrDefault(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) GetAlert(_ context.Context, id string) (*monitor.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	return copyAlert(a), nil
}

func (s *memoryStore) UpdateAlert(_ context.Context, alert *monitor.Alert, events []*monitor.AlertEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.alerts[alert.ID]
	if !ok {
		return ErrAlertNotFound
	}

	key := openKey{ruleID: current.RuleID, entityType: current.EntityType, entityID: current.EntityID}
	if alert.Status == monitor.StatusOpen && current.Status != monitor.StatusOpen {
		if id, taken := s.open[key]; taken && id != current.ID {
			return ErrOpenAlertExists
		}
		s.open[key] = current.ID
	}
	if alert.Status != monitor.StatusOpen && s.open[key] == current.ID {
		delete(s.open, key)
	}

	current.Status = alert.Status
	current.Assignee = alert.Assignee
	s.appendEventsLocked(events)
	return nil
}

func (s *memoryStore) AppendAlertEvents(_ context.Context, events ...*monitor.AlertEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if _, ok := s.alerts[e.AlertID]; !ok {
			return ErrAlertNotFound
		}
	}
	s.appendEventsLocked(events)
	return nil
}

func (s *memoryStore) appendEventsLocked(events []*monitor.AlertEvent) {
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now().UTC()
		}
		c := *e
		s.events[e.AlertID] = append(s.events[e.AlertID], &c)
	}
}

func (s *memoryStore) ListAlertEvents(_ context.Context, alertID string, limit int) ([]*monitor.AlertEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.events[alertID]
	limit = limitOrDefault(limit)

	// newest first, matching the postgres ordering
	out := make([]*monitor.AlertEvent, 0, min(limit, len(stored)))
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		c := *stored[i]
		out = append(out, &c)
	}
	return out, nil
}

func (s *memoryStore) UpsertAlert(_ context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
	if hit.At.IsZero() {
		hit.At = s.now()
	}
	hit.At = hit.At.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := openKey{ruleID: hit.RuleID, entityType: hit.EntityType, entityID: hit.EntityID}
	if id, ok := s.open[key]; ok {
		a := s.alerts[id]
		a.Hits++
		if hit.At.After(a.LastSeenAt) {
			a.LastSeenAt = hit.At
		}
		return copyAlert(a), false, nil
	}

	a := &monitor.Alert{
		ID:          uuid.NewString(),
		RuleID:      hit.RuleID,
		AlertType:   hit.AlertType,
		EntityType:  hit.EntityType,
		EntityID:    hit.EntityID,
		Chain:       hit.Chain,
		Severity:    hit.Severity,
		Status:      monitor.StatusOpen,
		FirstSeenAt: hit.At,
		LastSeenAt:  hit.At,
		Hits:        1,
		Context:     maps.Clone(hit.Context),
	}
	s.alerts[a.ID] = a
	s.open[key] = a.ID
	s.appendEventsLocked([]*monitor.AlertEvent{createdEvent(a.ID, hit)})
	return copyAlert(a), true, nil
}

var _ Store = (*memoryStore)(nil)
