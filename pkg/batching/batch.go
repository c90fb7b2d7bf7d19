// Package batching groups newly created alerts by (alert type, severity, entity type) and
// flushes each group once it reaches its size or age threshold.
package batching

import (
	"time"

	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// FlushReason records why a batch was flushed
type FlushReason string

const (
	FlushSize   FlushReason = "size"
	FlushAge    FlushReason = "age"
	FlushForced FlushReason = "forced"
)

// Key identifies the active batch an alert joins
type Key struct {
	AlertType  string
	Severity   monitor.Severity
	EntityType string
}

func keyOf(a *monitor.Alert) Key {
	return Key{AlertType: a.AlertType, Severity: a.Severity, EntityType: a.EntityType}
}

// AlertBatch is a group of alerts sharing type, severity and entity type.
// A flushed batch is never modified again.
type AlertBatch struct {
	ID         string           `json:"batch_id"`
	AlertType  string           `json:"alert_type"`
	Severity   monitor.Severity `json:"severity"`
	EntityType string           `json:"entity_type"`
	EntityIDs  []string         `json:"entity_ids"`
	Alerts     []*monitor.Alert `json:"alerts"`
	CreatedAt  time.Time        `json:"created_at"`
	FlushedAt  time.Time        `json:"flushed_at"`
	Reason     FlushReason      `json:"reason"`

	alertIDs  map[string]struct{}
	entitySet map[string]struct{}
}

func newBatch(id string, key Key, now time.Time) *AlertBatch {
	return &AlertBatch{
		ID:         id,
		AlertType:  key.AlertType,
		Severity:   key.Severity,
		EntityType: key.EntityType,
		CreatedAt:  now,
		alertIDs:   make(map[string]struct{}),
		entitySet:  make(map[string]struct{}),
	}
}

// add appends a and reports false when an alert with the same id is already batched.
func (b *AlertBatch) add(a *monitor.Alert) bool {
	if _, ok := b.alertIDs[a.ID]; ok {
		return false
	}
	b.alertIDs[a.ID] = struct{}{}
	b.Alerts = append(b.Alerts, a)
	if _, ok := b.entitySet[a.EntityID]; !ok {
		b.entitySet[a.EntityID] = struct{}{}
		b.EntityIDs = append(b.EntityIDs, a.EntityID)
	}
	return true
}

// Size returns the number of alerts in the batch
func (b *AlertBatch) Size() int { return len(b.Alerts) }

// Age returns how long the batch has been open at now
func (b *AlertBatch) Age(now time.Time) time.Duration { return now.Sub(b.CreatedAt) }

// Thresholds bound the size and age of a batch
type Thresholds struct {
	MaxSize int
	MaxAge  time.Duration
}

// Alert types with built-in thresholds
const (
	TypeLargeTransfer    = "large_transfer"
	TypeSanctionedEntity = "sanctioned_entity"
)

// Config holds the batching thresholds and timings
type Config struct {
	Default        Thresholds
	Types          map[string]Thresholds
	CheckInterval  time.Duration
	DispatchBuffer int
	SinkTimeout    time.Duration
}

// DefaultConfig returns the built-in thresholds
func DefaultConfig() Config {
	return Config{
		Default: Thresholds{MaxSize: 50, MaxAge: 60 * time.Second},
		Types: map[string]Thresholds{
			TypeLargeTransfer:    {MaxSize: 100, MaxAge: 120 * time.Second},
			TypeSanctionedEntity: {MaxSize: 25, MaxAge: 30 * time.Second},
		},
		CheckInterval:  30 * time.Second,
		DispatchBuffer: 64,
		SinkTimeout:    10 * time.Second,
	}
}

// ConfigFrom converts the batching section of the process configuration.
func ConfigFrom(cfg *config.BatchingConfig) Config {
	out := DefaultConfig()
	if cfg.DefaultMaxSize > 0 {
		out.Default.MaxSize = cfg.DefaultMaxSize
	}
	if cfg.DefaultMaxAge > 0 {
		out.Default.MaxAge = cfg.DefaultMaxAge
	}
	if cfg.CheckInterval > 0 {
		out.CheckInterval = cfg.CheckInterval
	}
	if cfg.DispatchBuffer > 0 {
		out.DispatchBuffer = cfg.DispatchBuffer
	}
	if cfg.SinkTimeout > 0 {
		out.SinkTimeout = cfg.SinkTimeout
	}
	for name, th := range cfg.Types {
		t := out.For(name)
		if th.MaxSize > 0 {
			t.MaxSize = th.MaxSize
		}
		if th.MaxAge > 0 {
			t.MaxAge = th.MaxAge
		}
		out.Types[name] = t
	}
	return out
}

// For returns the thresholds of an alert type, falling back to the defaults.
func (c Config) For(alertType string) Thresholds {
	if t, ok := c.Types[alertType]; ok {
		return t
	}
	return c.Default
}
