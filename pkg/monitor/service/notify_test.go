package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/monitor"
	"github.com/chainsafe/bridgewatch/pkg/monitorstore"
)

func TestRuleChangeNotifier_FiresOnSuccessfulMutations(t *testing.T) {
	ctx := context.Background()
	changes := 0
	svc := NewRuleChangeNotifier(NewService(monitorstore.NewMemoryStore(), zap.NewNop()), func() { changes++ })

	rule, err := svc.CreateRule(ctx, &monitor.CreateRuleRequest{
		Name:       "base transfers",
		Severity:   monitor.SeverityLow,
		Expression: json.RawMessage(`"chain == \"base\""`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changes)

	_, err = svc.ToggleRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changes)

	_, err = svc.ReplaceExpression(ctx, rule.ID, &monitor.ExpressionRequest{Expression: json.RawMessage(`"chain == \"ethereum\""`)})
	require.NoError(t, err)
	assert.Equal(t, 3, changes)

	// failures and reads leave the cache alone
	_, err = svc.ToggleRule(ctx, "missing")
	require.Error(t, err)
	_, err = svc.CreateRule(ctx, &monitor.CreateRuleRequest{Severity: monitor.SeverityLow, Expression: json.RawMessage(`"chain == \"base\""`)})
	require.Error(t, err)
	_, err = svc.ListRules(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, changes)
}
