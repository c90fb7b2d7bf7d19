package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/event"
)

func testConsumerConfig() *config.ConsumerConfig {
	return &config.ConsumerConfig{
		MaxRetries:        3,
		RetryBackoff:      time.Millisecond,
		FetchErrorBackoff: time.Millisecond,
		CommitTimeout:     time.Second,
	}
}

func eventMessage(offset int64, payload string) Message {
	return Message{Topic: "canonical-events", Partition: 0, Offset: offset, Value: []byte(payload)}
}

func txMessage(offset int64) Message {
	return eventMessage(offset, fmt.Sprintf(`{"chain":"ethereum","tx_hash":"0x%02d"}`, offset))
}

func runConsumer(t *testing.T, c *Consumer, src *MockSource) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src.cancel = cancel

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
		return nil
	}
}

func offsets(msgs []Message) []int64 {
	out := make([]int64, len(msgs))
	for i, m := range msgs {
		out[i] = m.Offset
	}
	return out
}

func TestConsumer_ProcessesAndCommitsInOrder(t *testing.T) {
	src := &MockSource{messages: []Message{txMessage(1), txMessage(2), txMessage(3)}}
	var seen []string
	proc := &MockProcessor{ProcessFunc: func(_ context.Context, ev *event.Event) (Result, error) {
		seen = append(seen, ev.TxHash)
		return Result{Evaluated: 1}, nil
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(testConsumerConfig(), src, proc, dlq, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, []string{"0x01", "0x02", "0x03"}, seen)
	assert.Equal(t, []int64{1, 2, 3}, offsets(src.Committed()))
	assert.Empty(t, dlq.Published())
	assert.False(t, c.IsReady())
}

func TestConsumer_UndecodableMessageIsDeadLettered(t *testing.T) {
	src := &MockSource{messages: []Message{eventMessage(7, "{not json"), eventMessage(8, `{"tx_hash":"0x1"}`)}}
	proc := &MockProcessor{ProcessFunc: func(context.Context, *event.Event) (Result, error) {
		t.Fatal("processor must not see undecodable events")
		return Result{}, nil
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(testConsumerConfig(), src, proc, dlq, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	published := dlq.Published()
	require.Len(t, published, 2)
	assert.Equal(t, ReasonDecode, published[0].reason)
	assert.Equal(t, ReasonDecode, published[1].reason)
	assert.Equal(t, []int64{7, 8}, offsets(src.Committed()))
}

func TestConsumer_RetriesTransientFailures(t *testing.T) {
	src := &MockSource{messages: []Message{txMessage(1)}}
	var attempts int
	proc := &MockProcessor{ProcessFunc: func(context.Context, *event.Event) (Result, error) {
		attempts++
		if attempts < 3 {
			return Result{}, apperrors.TransientStoreError(errors.New("connection reset"), "monitor store unavailable")
		}
		return Result{}, nil
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(testConsumerConfig(), src, proc, dlq, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, 3, attempts)
	assert.Empty(t, dlq.Published())
	assert.Equal(t, []int64{1}, offsets(src.Committed()))
}

func TestConsumer_ExhaustedRetriesAreDeadLettered(t *testing.T) {
	src := &MockSource{messages: []Message{txMessage(1)}}
	var attempts int
	proc := &MockProcessor{ProcessFunc: func(context.Context, *event.Event) (Result, error) {
		attempts++
		return Result{}, apperrors.TransientStoreError(errors.New("timeout"), "bridge graph unavailable")
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(testConsumerConfig(), src, proc, dlq, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, 4, attempts)
	published := dlq.Published()
	require.Len(t, published, 1)
	assert.Equal(t, ReasonRetriesExhausted, published[0].reason)
	assert.True(t, apperrors.IsTransient(published[0].cause))
	assert.Equal(t, []int64{1}, offsets(src.Committed()))
}

func TestConsumer_PermanentFailureIsNotRetried(t *testing.T) {
	src := &MockSource{messages: []Message{txMessage(1)}}
	var attempts int
	proc := &MockProcessor{ProcessFunc: func(context.Context, *event.Event) (Result, error) {
		attempts++
		return Result{}, apperrors.ValidationError(errors.New("rule_id is required"))
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(testConsumerConfig(), src, proc, dlq, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, 1, attempts)
	published := dlq.Published()
	require.Len(t, published, 1)
	assert.Equal(t, ReasonProcessing, published[0].reason)
	assert.Equal(t, []int64{1}, offsets(src.Committed()))
}

func TestConsumer_DeadLetterFailureStopsWithoutCommit(t *testing.T) {
	src := &MockSource{messages: []Message{eventMessage(4, "garbage"), txMessage(5)}}
	var publishes int
	dlq := &MockDeadLetter{PublishFunc: func(context.Context, Message, string, error) error {
		publishes++
		return errors.New("broker unavailable")
	}}

	c := NewConsumer(testConsumerConfig(), src, &MockProcessor{}, dlq, zap.NewNop())
	err := runConsumer(t, c, src)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 4")
	assert.Equal(t, 4, publishes)
	assert.Empty(t, src.Committed())
	assert.False(t, c.IsReady())
}

func TestConsumer_NoDeadLetterQueueDropsAndCommits(t *testing.T) {
	src := &MockSource{messages: []Message{eventMessage(9, "garbage")}}

	c := NewConsumer(testConsumerConfig(), src, &MockProcessor{}, nil, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, []int64{9}, offsets(src.Committed()))
}

func TestConsumer_ShutdownDuringRetryLeavesMessageUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConsumerConfig()
	cfg.RetryBackoff = time.Hour

	var fetched atomic.Int32
	src := &MockSource{FetchFunc: func(ctx context.Context) (Message, error) {
		if fetched.Add(1) > 1 {
			<-ctx.Done()
			return Message{}, ctx.Err()
		}
		return txMessage(1), nil
	}}
	var detached bool
	proc := &MockProcessor{ProcessFunc: func(pctx context.Context, _ *event.Event) (Result, error) {
		cancel()
		detached = pctx.Err() == nil
		return Result{}, apperrors.TransientStoreError(errors.New("timeout"), "monitor store unavailable")
	}}
	dlq := &MockDeadLetter{}

	c := NewConsumer(cfg, src, proc, dlq, zap.NewNop())
	require.NoError(t, c.Run(ctx))

	assert.True(t, detached, "processing must not observe the run context")
	assert.Empty(t, src.Committed())
	assert.Empty(t, dlq.Published())
}

func TestConsumer_FetchErrorsBackOffAndContinue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	src := &MockSource{}
	src.FetchFunc = func(context.Context) (Message, error) {
		calls++
		switch calls {
		case 1:
			return Message{}, errors.New("coordinator not available")
		case 2:
			return txMessage(2), nil
		}
		cancel()
		return Message{}, context.Canceled
	}

	c := NewConsumer(testConsumerConfig(), src, &MockProcessor{}, &MockDeadLetter{}, zap.NewNop())
	require.NoError(t, c.Run(ctx))

	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{2}, offsets(src.Committed()))
}

func TestConsumer_IsReadyWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &MockSource{FetchFunc: func(ctx context.Context) (Message, error) {
		<-ctx.Done()
		return Message{}, ctx.Err()
	}}
	c := NewConsumer(testConsumerConfig(), src, &MockProcessor{}, nil, zap.NewNop())
	assert.False(t, c.IsReady())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	require.Eventually(t, c.IsReady, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.False(t, c.IsReady())
}

func TestConsumer_CommitFailureIsLogged(t *testing.T) {
	src := &MockSource{
		messages:   []Message{txMessage(1), txMessage(2)},
		CommitFunc: func(context.Context, Message) error { return errors.New("rebalance in progress") },
	}

	c := NewConsumer(testConsumerConfig(), src, &MockProcessor{}, &MockDeadLetter{}, zap.NewNop())
	require.NoError(t, runConsumer(t, c, src))

	assert.Equal(t, []int64{1, 2}, offsets(src.Committed()))
}
