package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/consumer"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

type fakeReader struct {
	messages  []kafka.Message
	fetchErr  error
	committed []kafka.Message
	closed    bool
}

func (f *fakeReader) FetchMessage(context.Context) (kafka.Message, error) {
	if f.fetchErr != nil {
		return kafka.Message{}, f.fetchErr
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

type fakeWriter struct {
	written []kafka.Message
	err     error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func headerMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestNewReader_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewReader(&config.KafkaConfig{EventsTopic: "events", ConsumerGroup: "g"}, zap.NewNop())
	require.Error(t, err)

	_, err = NewReader(&config.KafkaConfig{Brokers: []string{"localhost:9092"}, ConsumerGroup: "g"}, zap.NewNop())
	require.Error(t, err)
}

func TestReader_FetchAndCommit(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeReader{messages: []kafka.Message{{
		Topic:     "canonical-events",
		Partition: 2,
		Offset:    41,
		Key:       []byte("0xabc"),
		Value:     []byte(`{"chain":"ethereum"}`),
		Time:      at,
		Headers:   []kafka.Header{{Key: "source", Value: []byte("indexer")}},
	}}}
	r := newReader(fake, "canonical-events", zap.NewNop())

	msg, err := r.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, consumer.Message{
		Topic:     "canonical-events",
		Partition: 2,
		Offset:    41,
		Key:       []byte("0xabc"),
		Value:     []byte(`{"chain":"ethereum"}`),
		Headers:   map[string]string{"source": "indexer"},
		Time:      at,
	}, msg)

	require.NoError(t, r.Commit(context.Background(), msg))
	require.Len(t, fake.committed, 1)
	assert.Equal(t, int64(41), fake.committed[0].Offset)
	assert.Equal(t, 2, fake.committed[0].Partition)

	require.NoError(t, r.Close())
	assert.True(t, fake.closed)
}

func TestReader_FetchError(t *testing.T) {
	r := newReader(&fakeReader{fetchErr: context.Canceled}, "canonical-events", zap.NewNop())

	_, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeadLetterWriter_Publish(t *testing.T) {
	fake := &fakeWriter{}
	w := newDeadLetterWriter(fake, "canonical-events-dlq")
	w.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	msg := consumer.Message{
		Topic:     "canonical-events",
		Partition: 1,
		Offset:    7,
		Key:       []byte("k"),
		Value:     []byte("{broken"),
		Headers:   map[string]string{"source": "indexer"},
	}
	require.NoError(t, w.Publish(context.Background(), msg, consumer.ReasonDecode, errors.New("unexpected end of JSON input")))

	require.Len(t, fake.written, 1)
	out := fake.written[0]
	assert.Equal(t, []byte("{broken"), out.Value)
	assert.Equal(t, []byte("k"), out.Key)
	assert.Equal(t, map[string]string{
		"source":              "indexer",
		HeaderReason:          consumer.ReasonDecode,
		HeaderError:           "unexpected end of JSON input",
		HeaderSourceTopic:     "canonical-events",
		HeaderSourcePartition: "1",
		HeaderSourceOffset:    "7",
		HeaderFailedAt:        "2024-03-01T12:00:00Z",
	}, headerMap(out.Headers))
}

func TestDeadLetterWriter_PublishError(t *testing.T) {
	w := newDeadLetterWriter(&fakeWriter{err: errors.New("leader not available")}, "dlq")

	err := w.Publish(context.Background(), consumer.Message{}, consumer.ReasonProcessing, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write to dlq")
}

func TestBatchWriter_Deliver(t *testing.T) {
	fake := &fakeWriter{}
	w := newBatchWriter(fake, "alert-batches")
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	batch := &batching.AlertBatch{
		ID:         "batch-1",
		AlertType:  batching.TypeLargeTransfer,
		Severity:   monitor.SeverityHigh,
		EntityType: "tx",
		EntityIDs:  []string{"0x1", "0x2"},
		Alerts: []*monitor.Alert{
			{ID: "a1", RuleID: "r1", EntityID: "0x1"},
			{ID: "a2", RuleID: "r1", EntityID: "0x2"},
		},
		CreatedAt: created,
		FlushedAt: created.Add(time.Minute),
		Reason:    batching.FlushSize,
	}
	require.NoError(t, w.Deliver(context.Background(), batch))
	assert.Equal(t, "kafka", w.Name())

	require.Len(t, fake.written, 1)
	assert.Equal(t, []byte(batching.TypeLargeTransfer), fake.written[0].Key)

	var got BatchSummary
	require.NoError(t, json.Unmarshal(fake.written[0].Value, &got))
	assert.Equal(t, "batch-1", got.BatchID)
	assert.Equal(t, 2, got.AlertCount)
	assert.Equal(t, []string{"a1", "a2"}, got.AlertIDs)
	assert.Equal(t, []string{"r1"}, got.RuleIDs)
	assert.Equal(t, []string{"0x1", "0x2"}, got.EntityIDs)
	assert.Equal(t, "size", got.Reason)
	assert.True(t, got.FlushedAt.Equal(created.Add(time.Minute)))
}
