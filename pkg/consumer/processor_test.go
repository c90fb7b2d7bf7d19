package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/bridgegraph"
	"github.com/chainsafe/bridgewatch/pkg/event"
	"github.com/chainsafe/bridgewatch/pkg/expr"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
	"github.com/chainsafe/bridgewatch/pkg/monitor/service"
	"github.com/chainsafe/bridgewatch/pkg/monitorstore"
)

func staticRules(rules ...*monitor.Rule) *RuleCache {
	lister := &MockRuleLister{ListRulesFunc: func(context.Context, bool) ([]*monitor.Rule, error) {
		return rules, nil
	}}
	return NewRuleCache(lister, time.Minute, zap.NewNop())
}

func detectedRecord() bridge.Record {
	return bridge.Record{
		ChainFrom:   "ethereum",
		ChainTo:     "arbitrum",
		BridgeName:  "Arbitrum Bridge",
		TxHash:      "0x1",
		FromAddress: "0xa",
		ToAddress:   "0xb",
		Value:       "10",
		DetectedVia: bridge.DetectedViaContractAddress,
		Confidence:  0.8,
	}
}

func TestProcessor_DetectsPersistsAndRecords(t *testing.T) {
	detector := &MockDetector{DetectBridgeFunc: func(*event.Event) (bridge.Record, bool) {
		return detectedRecord(), true
	}}
	var savedFrom, savedTo string
	graph := &MockGraphWriter{SaveBridgeLinkFunc: func(ctx context.Context, from, to string, _ bridge.Record) (string, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		savedFrom, savedTo = from, to
		return "edge-1", nil
	}}
	var hits []monitor.Hit
	recorder := &MockAlertRecorder{RecordHitFunc: func(_ context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
		hits = append(hits, hit)
		return &monitor.Alert{ID: "alert-1", RuleID: hit.RuleID, AlertType: hit.AlertType}, true, nil
	}}
	batcher := &MockBatcher{}
	rules := staticRules(
		mustRule(t, "cross-chain", `chains_involved == 2 and bridge == "Arbitrum Bridge"`, monitor.SeverityHigh),
		mustRule(t, "solana-only", `chain_to == "solana"`, monitor.SeverityLow),
	)

	p := NewProcessor(detector, graph, rules, recorder, batcher, time.Second, zap.NewNop())
	res, err := p.Process(context.Background(), &event.Event{
		Chain:       "ethereum",
		TxHash:      "0x1",
		FromAddress: "0xa",
		ToAddress:   "0xb",
		Timestamp:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600)),
	})

	require.NoError(t, err)
	assert.Equal(t, Result{Bridge: true, EdgeCreated: true, Evaluated: 2, Matched: 1, Created: 1}, res)
	assert.Equal(t, "0xa", savedFrom)
	assert.Equal(t, "0xb", savedTo)

	require.Len(t, hits, 1)
	assert.Equal(t, "cross-chain", hits[0].RuleID)
	assert.Equal(t, EntityTx, hits[0].EntityType)
	assert.Equal(t, "0x1", hits[0].EntityID)
	assert.Equal(t, monitor.SeverityHigh, hits[0].Severity)
	assert.Equal(t, time.UTC, hits[0].At.Location())
	assert.Equal(t, "Arbitrum Bridge", hits[0].Context["bridge"])

	require.Len(t, batcher.added, 1)
	assert.Equal(t, "alert-1", batcher.added[0].ID)
}

func TestProcessor_SkipsGraphWithoutEndpoints(t *testing.T) {
	rec := detectedRecord()
	rec.ToAddress = ""
	detector := &MockDetector{DetectBridgeFunc: func(*event.Event) (bridge.Record, bool) { return rec, true }}
	graph := &MockGraphWriter{SaveBridgeLinkFunc: func(context.Context, string, string, bridge.Record) (string, error) {
		t.Fatal("graph must not be written without both endpoints")
		return "", nil
	}}

	p := NewProcessor(detector, graph, staticRules(), &MockAlertRecorder{}, nil, time.Second, zap.NewNop())
	res, err := p.Process(context.Background(), &event.Event{Chain: "ethereum", FromAddress: "0xa"})

	require.NoError(t, err)
	assert.True(t, res.Bridge)
	assert.False(t, res.EdgeCreated)
}

func TestProcessor_GraphFailureIsTransient(t *testing.T) {
	detector := &MockDetector{DetectBridgeFunc: func(*event.Event) (bridge.Record, bool) { return detectedRecord(), true }}
	graph := &MockGraphWriter{SaveBridgeLinkFunc: func(context.Context, string, string, bridge.Record) (string, error) {
		return "", context.DeadlineExceeded
	}}
	recorder := &MockAlertRecorder{RecordHitFunc: func(context.Context, monitor.Hit) (*monitor.Alert, bool, error) {
		t.Fatal("rules must not run when the graph write failed")
		return nil, false, nil
	}}

	p := NewProcessor(detector, graph, staticRules(mustRule(t, "r", `chain == "ethereum"`, monitor.SeverityLow)), recorder, nil, time.Second, zap.NewNop())
	_, err := p.Process(context.Background(), &event.Event{Chain: "ethereum", TxHash: "0x1"})

	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessor_EvaluationErrorIsContained(t *testing.T) {
	broken := &monitor.Rule{ID: "broken", Enabled: true, Severity: monitor.SeverityLow, Expression: expr.Expression{Root: expr.And{}}}
	var recorded []string
	recorder := &MockAlertRecorder{RecordHitFunc: func(_ context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
		recorded = append(recorded, hit.RuleID)
		return &monitor.Alert{ID: "a"}, false, nil
	}}

	p := NewProcessor(&MockDetector{}, nil, staticRules(broken, mustRule(t, "ok", `chain == "base"`, monitor.SeverityLow)), recorder, nil, 0, zap.NewNop())
	res, err := p.Process(context.Background(), &event.Event{Chain: "base", ToAddress: "0xB"})

	require.NoError(t, err)
	assert.Equal(t, Result{Evaluated: 2, Failed: 1, Matched: 1}, res)
	assert.Equal(t, []string{"ok"}, recorded)
}

func TestProcessor_RecordHitFailureIsReturned(t *testing.T) {
	recorder := &MockAlertRecorder{RecordHitFunc: func(context.Context, monitor.Hit) (*monitor.Alert, bool, error) {
		return nil, false, apperrors.TransientStoreError(errors.New("connection reset"), "monitor store unavailable")
	}}

	p := NewProcessor(&MockDetector{}, nil, staticRules(mustRule(t, "r", `chain == "base"`, monitor.SeverityLow)), recorder, nil, 0, zap.NewNop())
	_, err := p.Process(context.Background(), &event.Event{Chain: "base"})

	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Contains(t, err.Error(), "rule r")
}

func TestProcessor_RulesUnavailableIsTransient(t *testing.T) {
	lister := &MockRuleLister{ListRulesFunc: func(context.Context, bool) ([]*monitor.Rule, error) {
		return nil, errors.New("connection refused")
	}}

	p := NewProcessor(&MockDetector{}, nil, NewRuleCache(lister, time.Minute, zap.NewNop()), &MockAlertRecorder{}, nil, 0, zap.NewNop())
	_, err := p.Process(context.Background(), &event.Event{Chain: "base"})

	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
}

// Wormhole transfer through the real detector, graph store and monitor service.
func TestProcessor_WormholeEndToEnd(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	topics := bridge.NewTopicTable()
	detector := bridge.NewDetector(bridge.NewRegistry(bridge.DefaultContracts()...), topics, bridge.NewDecoder(topics, nil), logger)
	graph := bridgegraph.NewMemoryStore()
	svc := service.NewService(monitorstore.NewMemoryStore(), logger)

	rule, err := svc.CreateRule(ctx, &monitor.CreateRuleRequest{
		Name:       "wormhole cross-chain",
		Severity:   monitor.SeverityHigh,
		AlertType:  batching.TypeLargeTransfer,
		Expression: json.RawMessage(`"bridge == \"Wormhole\" and chains_involved == 2"`),
	})
	require.NoError(t, err)

	batcher := &MockBatcher{}
	p := NewProcessor(detector, graph, NewRuleCache(svc, time.Minute, logger), svc, batcher, time.Second, logger)

	ev := &event.Event{
		Chain:       "ethereum",
		TxHash:      "0xfeed",
		FromAddress: "0xSender",
		ToAddress:   bridge.WormholeTokenBridgeEthereum,
		Value:       "2500000000",
		Timestamp:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Metadata:    event.Metadata{Recipient: "0xRecipient"},
	}

	res, err := p.Process(ctx, ev)
	require.NoError(t, err)
	assert.True(t, res.Bridge)
	assert.True(t, res.EdgeCreated)
	assert.Equal(t, 1, res.Created)

	links, err := graph.GetLinksForAddress(ctx, "0xsender", bridgegraph.DirectionOutgoing, 0)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Wormhole", links[0].Bridge)
	assert.Equal(t, "0xrecipient", links[0].ToAddress)
	assert.Equal(t, "ethereum", links[0].ChainFrom)
	assert.Equal(t, "solana", links[0].ChainTo)

	alerts, err := svc.ListAlerts(ctx, monitor.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, rule.ID, alerts[0].RuleID)
	assert.Equal(t, monitor.StatusOpen, alerts[0].Status)
	assert.Equal(t, 1, alerts[0].Hits)
	assert.Equal(t, "0xfeed", alerts[0].EntityID)
	require.Len(t, batcher.added, 1)

	// Redelivery merges the edge and counts a second hit on the same open alert.
	res, err = p.Process(ctx, ev)
	require.NoError(t, err)
	assert.False(t, res.EdgeCreated)
	assert.Equal(t, 0, res.Created)

	links, err = graph.GetLinksForAddress(ctx, "0xsender", bridgegraph.DirectionOutgoing, 0)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	alerts, err = svc.ListAlerts(ctx, monitor.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 2, alerts[0].Hits)
	assert.Len(t, batcher.added, 1)
}

func TestProcessor_BackfilledEventsUseRecordTime(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	topics := bridge.NewTopicTable()
	detector := bridge.NewDetector(bridge.NewRegistry(bridge.DefaultContracts()...), topics, bridge.NewDecoder(topics, nil), logger)
	svc := service.NewService(monitorstore.NewMemoryStore(), logger)

	_, err := svc.CreateRule(ctx, &monitor.CreateRuleRequest{
		Name:       "wormhole",
		Severity:   monitor.SeverityHigh,
		Expression: json.RawMessage(`"bridge == \"Wormhole\""`),
	})
	require.NoError(t, err)

	p := NewProcessor(detector, bridgegraph.NewMemoryStore(), NewRuleCache(svc, time.Minute, logger), svc, &MockBatcher{}, time.Second, logger)
	ev := &event.Event{
		Chain:       "ethereum",
		TxHash:      "0xold",
		FromAddress: "0xSender",
		ToAddress:   bridge.WormholeTokenBridgeEthereum,
		Timestamp:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	before := time.Now().UTC()
	_, err = p.Process(ctx, ev)
	require.NoError(t, err)

	recent, err := svc.ListAlerts(ctx, monitor.AlertFilter{AgeBucket: monitor.AgeLast24h})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	first := recent[0]
	assert.False(t, first.FirstSeenAt.Before(before.Truncate(time.Microsecond)))
	assert.Equal(t, "2020-01-01T00:00:00Z", first.Context["event_timestamp"])

	time.Sleep(5 * time.Millisecond)
	_, err = p.Process(ctx, ev)
	require.NoError(t, err)

	again, err := svc.GetAlert(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Hits)
	assert.True(t, again.LastSeenAt.After(first.LastSeenAt))
	assert.WithinDuration(t, time.Now(), again.LastSeenAt, 5*time.Second)
	assert.True(t, again.FirstSeenAt.Equal(first.FirstSeenAt))
}
