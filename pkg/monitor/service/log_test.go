package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
	"github.com/chainsafe/bridgewatch/pkg/monitor/service/mocks"
)

func TestLogService_LogsCompletionAndFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	inner := mocks.NewService(t)
	svc := NewLog(inner, zap.New(core))
	ctx := context.Background()

	inner.EXPECT().ListRules(ctx, true).Return([]*monitor.Rule{{ID: "rule-1"}, {ID: "rule-2"}}, nil)
	rules, err := svc.ListRules(ctx, true)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	notFound := apperrors.ResourceNotFoundError(errors.New("no rows"), "rule not found")
	inner.EXPECT().GetRule(ctx, "missing").Return(nil, notFound)
	_, err = svc.GetRule(ctx, "missing")
	require.ErrorIs(t, err, notFound)

	completed := logs.FilterMessage("ListRules completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(2), completed[0].ContextMap()["count"])
	assert.Equal(t, "MonitorService", completed[0].ContextMap()["service"])

	failed := logs.FilterMessage("GetRule failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zap.ErrorLevel, failed[0].Level)
	assert.Equal(t, "missing", failed[0].ContextMap()["rule_id"])
}
