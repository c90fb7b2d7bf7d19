package monitorstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// The tests in this file run against every Store implementation.

func newTestRule(t *testing.T, id, text string) *monitor.Rule {
	t.Helper()
	root, err := expr.ParseText(text)
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &monitor.Rule{
		ID:         id,
		Name:       "rule " + id,
		Version:    1,
		Enabled:    true,
		Severity:   monitor.SeverityHigh,
		AlertType:  monitor.DefaultAlertType,
		Expression: expr.Expression{Root: root},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newTestHit(ruleID, entityID string, at time.Time) monitor.Hit {
	return monitor.Hit{
		RuleID:     ruleID,
		AlertType:  monitor.DefaultAlertType,
		EntityType: "tx",
		EntityID:   entityID,
		Chain:      "ethereum",
		Severity:   monitor.SeverityHigh,
		Context:    map[string]any{"bridge": "Wormhole"},
		At:         at.UTC().Truncate(time.Microsecond),
	}
}

func testRules(t *testing.T, ctx context.Context, s Store) {
	first := newTestRule(t, "rule-a", `bridge == "Wormhole"`)
	second := newTestRule(t, "rule-b", `chains_involved >= 2`)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.Scope = "ethereum"
	require.NoError(t, s.CreateRule(ctx, first))
	require.NoError(t, s.CreateRule(ctx, second))

	got, err := s.GetRule(ctx, "rule-b")
	require.NoError(t, err)
	assert.Equal(t, "ethereum", got.Scope)
	assert.Equal(t, second.Expression.String(), got.Expression.String())

	toggled, err := s.ToggleRule(ctx, "rule-a")
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	enabled, err := s.ListRules(ctx, true)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "rule-b", enabled[0].ID)

	all, err := s.ListRules(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rule-a", all[0].ID)

	root, err := expr.ParseText(`chains_involved >= 3`)
	require.NoError(t, err)
	replaced, err := s.ReplaceExpression(ctx, "rule-b", expr.Expression{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Version)
	assert.Equal(t, `chains_involved >= 3`, replaced.Expression.String())

	_, err = s.GetRule(ctx, "missing")
	assert.ErrorIs(t, err, ErrRuleNotFound)
	_, err = s.ToggleRule(ctx, "missing")
	assert.ErrorIs(t, err, ErrRuleNotFound)
	_, err = s.ReplaceExpression(ctx, "missing", expr.Expression{Root: root})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func testUpsertAlertIsHitWindowed(t *testing.T, ctx context.Context, s Store) {
	require.NoError(t, s.CreateRule(ctx, newTestRule(t, "rule-a", `bridge == "Wormhole"`)))

	first := time.Now().Add(-time.Minute)
	alert, created, err := s.UpsertAlert(ctx, newTestHit("rule-a", "0xabc", first))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, alert.Hits)
	assert.Equal(t, monitor.StatusOpen, alert.Status)

	second := first.Add(30 * time.Second)
	again, created, err := s.UpsertAlert(ctx, newTestHit("rule-a", "0xabc", second))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, alert.ID, again.ID)
	assert.Equal(t, 2, again.Hits)
	assert.True(t, again.LastSeenAt.Equal(second.UTC().Truncate(time.Microsecond)))
	assert.True(t, again.FirstSeenAt.Equal(alert.FirstSeenAt))

	// a hit stamped by a lagging clock never moves last_seen_at backwards
	late, _, err := s.UpsertAlert(ctx, newTestHit("rule-a", "0xabc", first))
	require.NoError(t, err)
	assert.Equal(t, 3, late.Hits)
	assert.True(t, late.LastSeenAt.Equal(again.LastSeenAt))

	alerts, err := s.ListAlerts(ctx, monitor.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Wormhole", alerts[0].Context["bridge"])

	events, err := s.ListAlertEvents(ctx, alert.ID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, monitor.EventCreated, events[0].Kind)
	assert.Equal(t, monitor.ReasonRuleHit, events[0].Payload["reason"])
	assert.Equal(t, "rule-a", events[0].Payload["rule_id"])
}

func testAlertLifecycle(t *testing.T, ctx context.Context, s Store) {
	require.NoError(t, s.CreateRule(ctx, newTestRule(t, "rule-a", `bridge == "Wormhole"`)))

	original, _, err := s.UpsertAlert(ctx, newTestHit("rule-a", "0xabc", time.Now()))
	require.NoError(t, err)

	original.Status = monitor.StatusResolved
	original.Assignee = "analyst@example.com"
	require.NoError(t, s.UpdateAlert(ctx, original, []*monitor.AlertEvent{{
		AlertID: original.ID,
		Kind:    monitor.EventStatusChanged,
		Actor:   "analyst@example.com",
		Payload: map[string]any{"from": "open", "to": "resolved"},
	}}))

	stored, err := s.GetAlert(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, monitor.StatusResolved, stored.Status)
	assert.Equal(t, "analyst@example.com", stored.Assignee)

	// a resolved alert no longer absorbs hits: the next one opens a fresh alert
	fresh, created, err := s.UpsertAlert(ctx, newTestHit("rule-a", "0xabc", time.Now()))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, original.ID, fresh.ID)

	stored.Status = monitor.StatusOpen
	err = s.UpdateAlert(ctx, stored, nil)
	assert.ErrorIs(t, err, ErrOpenAlertExists)

	require.NoError(t, s.AppendAlertEvents(ctx, &monitor.AlertEvent{
		AlertID: original.ID,
		Kind:    monitor.EventNoteAdded,
		Actor:   "analyst@example.com",
		Payload: map[string]any{"note": "false positive"},
	}))
	events, err := s.ListAlertEvents(ctx, original.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, monitor.EventCreated, events[2].Kind)

	err = s.UpdateAlert(ctx, &monitor.Alert{ID: "missing", Status: monitor.StatusAck}, nil)
	assert.ErrorIs(t, err, ErrAlertNotFound)
	_, err = s.GetAlert(ctx, "missing")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func testListAlertsFilters(t *testing.T, ctx context.Context, s Store) {
	require.NoError(t, s.CreateRule(ctx, newTestRule(t, "wormhole-volume", `bridge == "Wormhole"`)))
	require.NoError(t, s.CreateRule(ctx, newTestRule(t, "sanctions", `"sanctioned" in labels`)))

	now := time.Now()
	recent := newTestHit("wormhole-volume", "0xAAA111", now.Add(-2*time.Hour))
	older := newTestHit("wormhole-volume", "0xbbb222", now.Add(-2*24*time.Hour))
	ancient := newTestHit("sanctions", "0xccc333", now.Add(-10*24*time.Hour))
	ancient.Severity = monitor.SeverityCritical
	ancient.Chain = "base"
	for _, h := range []monitor.Hit{recent, older, ancient} {
		_, _, err := s.UpsertAlert(ctx, h)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter monitor.AlertFilter
		want   []string
	}{
		{"all newest first", monitor.AlertFilter{}, []string{"0xAAA111", "0xbbb222", "0xccc333"}},
		{"severity", monitor.AlertFilter{Severity: monitor.SeverityCritical}, []string{"0xccc333"}},
		{"chain", monitor.AlertFilter{Chain: "BASE"}, []string{"0xccc333"}},
		{"rule substring", monitor.AlertFilter{RuleID: "WORMHOLE"}, []string{"0xAAA111", "0xbbb222"}},
		{"entity substring", monitor.AlertFilter{EntityID: "aaa"}, []string{"0xAAA111"}},
		{"no match", monitor.AlertFilter{EntityID: "zzz"}, []string{}},
		{"24h", monitor.AlertFilter{AgeBucket: monitor.AgeLast24h}, []string{"0xAAA111"}},
		{"3d", monitor.AlertFilter{AgeBucket: monitor.AgeLast3d}, []string{"0xAAA111", "0xbbb222"}},
		{"older than 7d", monitor.AlertFilter{AgeBucket: monitor.AgeOlderThan7}, []string{"0xccc333"}},
		{"status", monitor.AlertFilter{Status: monitor.StatusAck}, []string{}},
		{"limit", monitor.AlertFilter{Limit: 1}, []string{"0xAAA111"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts, err := s.ListAlerts(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, len(alerts))
			for i, a := range alerts {
				got[i] = a.EntityID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
