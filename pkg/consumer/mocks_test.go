package consumer

import (
	"context"
	"errors"
	"sync"

	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/event"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

var errSourceDrained = errors.New("source drained")

// MockSource is a mock implementation of Source that replays a fixed list of messages
// and cancels the run once they are exhausted.
type MockSource struct {
	mu        sync.Mutex
	messages  []Message
	committed []Message
	cancel    context.CancelFunc

	FetchFunc  func(ctx context.Context) (Message, error)
	CommitFunc func(ctx context.Context, msg Message) error
}

func (m *MockSource) Fetch(ctx context.Context) (Message, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		if m.cancel != nil {
			m.cancel()
		}
		return Message{}, errSourceDrained
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, nil
}

func (m *MockSource) Commit(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.committed = append(m.committed, msg)
	m.mu.Unlock()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, msg)
	}
	return nil
}

func (m *MockSource) Committed() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.committed...)
}

type deadLetter struct {
	msg    Message
	reason string
	cause  error
}

// MockDeadLetter is a mock implementation of DeadLetterPublisher
type MockDeadLetter struct {
	mu        sync.Mutex
	published []deadLetter

	PublishFunc func(ctx context.Context, msg Message, reason string, cause error) error
}

func (m *MockDeadLetter) Publish(ctx context.Context, msg Message, reason string, cause error) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, msg, reason, cause); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.published = append(m.published, deadLetter{msg: msg, reason: reason, cause: cause})
	m.mu.Unlock()
	return nil
}

func (m *MockDeadLetter) Published() []deadLetter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]deadLetter(nil), m.published...)
}

// MockProcessor is a mock implementation of EventProcessor
type MockProcessor struct {
	ProcessFunc func(ctx context.Context, ev *event.Event) (Result, error)
}

func (m *MockProcessor) Process(ctx context.Context, ev *event.Event) (Result, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, ev)
	}
	return Result{}, nil
}

// MockDetector is a mock implementation of BridgeDetector
type MockDetector struct {
	DetectBridgeFunc func(ev *event.Event) (bridge.Record, bool)
}

func (m *MockDetector) DetectBridge(ev *event.Event) (bridge.Record, bool) {
	if m.DetectBridgeFunc != nil {
		return m.DetectBridgeFunc(ev)
	}
	return bridge.Record{}, false
}

// MockGraphWriter is a mock implementation of GraphWriter
type MockGraphWriter struct {
	SaveBridgeLinkFunc func(ctx context.Context, from, to string, rec bridge.Record) (string, error)
}

func (m *MockGraphWriter) SaveBridgeLink(ctx context.Context, from, to string, rec bridge.Record) (string, error) {
	if m.SaveBridgeLinkFunc != nil {
		return m.SaveBridgeLinkFunc(ctx, from, to, rec)
	}
	return "", nil
}

// MockAlertRecorder is a mock implementation of AlertRecorder
type MockAlertRecorder struct {
	RecordHitFunc func(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error)
}

func (m *MockAlertRecorder) RecordHit(ctx context.Context, hit monitor.Hit) (*monitor.Alert, bool, error) {
	if m.RecordHitFunc != nil {
		return m.RecordHitFunc(ctx, hit)
	}
	return &monitor.Alert{RuleID: hit.RuleID}, false, nil
}

// MockRuleLister is a mock implementation of RuleLister
type MockRuleLister struct {
	calls int

	ListRulesFunc func(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error)
}

func (m *MockRuleLister) ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error) {
	m.calls++
	if m.ListRulesFunc != nil {
		return m.ListRulesFunc(ctx, enabledOnly)
	}
	return nil, nil
}

// MockBatcher is a mock implementation of AlertBatcher
type MockBatcher struct {
	added []*monitor.Alert
}

func (m *MockBatcher) AddAlert(alert *monitor.Alert) *batching.AlertBatch {
	m.added = append(m.added, alert)
	return nil
}
