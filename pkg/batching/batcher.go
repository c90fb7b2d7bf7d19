package batching

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/internal/metrics"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// Sink receives flushed batches
type Sink interface {
	Name() string
	Deliver(ctx context.Context, batch *AlertBatch) error
}

// TypeStats counts the pending work of one alert type
type TypeStats struct {
	Batches int `json:"batches"`
	Alerts  int `json:"alerts"`
}

// Stats is a snapshot of the batcher
type Stats struct {
	PendingBatches        int                  `json:"pending_batches"`
	PendingAlerts         int                  `json:"pending_alerts"`
	ByType                map[string]TypeStats `json:"by_type"`
	OldestBatchAge        time.Duration        `json:"-"`
	OldestBatchAgeSeconds float64              `json:"oldest_batch_age_seconds"`
	FlushedBatches        int64                `json:"flushed_batches"`
	FlushedAlerts         int64                `json:"flushed_alerts"`
	DroppedBatches        int64                `json:"dropped_batches"`
}

// Batcher accumulates alerts into batches. AddAlert is safe for concurrent use; one mutex
// guards the active batches and sinks are called outside it by the dispatcher.
type Batcher struct {
	config Config
	sink   Sink
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	active  map[Key]*AlertBatch
	flushed int64
	alerts  int64
	dropped int64

	dispatchMu  sync.RWMutex
	dispatch    chan *AlertBatch
	dispatching bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBatcher creates a batcher delivering to sink. sink may be nil, in which case flushed
// batches are only returned to the caller.
func NewBatcher(cfg Config, sink Sink, logger *zap.Logger) *Batcher {
	return &Batcher{
		config: cfg,
		sink:   sink,
		logger: logger,
		now:    time.Now,
		active: make(map[Key]*AlertBatch),
		stopCh: make(chan struct{}),
	}
}

// Start runs the dispatcher and the aged-batch loop until Stop is called or ctx is done.
func (b *Batcher) Start(ctx context.Context) {
	b.logger.Info("Starting alert batcher",
		zap.Int("default_max_size", b.config.Default.MaxSize),
		zap.Duration("default_max_age", b.config.Default.MaxAge),
		zap.Duration("check_interval", b.config.CheckInterval))

	if b.sink != nil {
		b.dispatchMu.Lock()
		b.dispatch = make(chan *AlertBatch, max(b.config.DispatchBuffer, 1))
		b.dispatching = true
		b.dispatchMu.Unlock()

		b.wg.Add(1)
		go b.runDispatcher(b.dispatch)
	}

	b.wg.Add(1)
	go b.runAgeLoop(ctx)
}

// Stop ends the background loop, force-flushes every pending batch and waits until the
// dispatcher has delivered what it holds.
func (b *Batcher) Stop() {
	b.stopOnce.Do(func() {
		b.logger.Info("Stopping alert batcher")
		close(b.stopCh)

		flushed := b.ForceFlushAll()

		b.dispatchMu.Lock()
		if b.dispatching {
			b.dispatching = false
			close(b.dispatch)
		}
		b.dispatchMu.Unlock()

		b.wg.Wait()
		b.logger.Info("Alert batcher stopped", zap.Int("flushed_on_stop", len(flushed)))
	})
}

// AddAlert adds a newly created alert to its batch. It returns the batch when this alert
// brought it to its size or age threshold, and nil otherwise. An alert already present in
// its batch is ignored.
func (b *Batcher) AddAlert(alert *monitor.Alert) *AlertBatch {
	if alert == nil {
		return nil
	}
	key := keyOf(alert)
	limits := b.config.For(alert.AlertType)

	b.mu.Lock()
	now := b.now()
	batch, ok := b.active[key]
	if !ok {
		batch = newBatch(uuid.NewString(), key, now)
		b.active[key] = batch
	}
	if !batch.add(alert) {
		b.mu.Unlock()
		b.logger.Debug("Alert already batched", zap.String("alert_id", alert.ID), zap.String("batch_id", batch.ID))
		return nil
	}
	metrics.PendingAlerts.Inc()

	var reason FlushReason
	switch {
	case limits.MaxSize > 0 && batch.Size() >= limits.MaxSize:
		reason = FlushSize
	case limits.MaxAge > 0 && batch.Age(now) >= limits.MaxAge:
		reason = FlushAge
	}
	if reason == "" {
		b.mu.Unlock()
		return nil
	}
	b.closeLocked(key, batch, reason, now)
	b.mu.Unlock()

	b.emit(batch)
	return batch
}

// FlushAged flushes every batch older than its type's max age.
func (b *Batcher) FlushAged() []*AlertBatch {
	b.mu.Lock()
	now := b.now()
	var out []*AlertBatch
	for key, batch := range b.active {
		limits := b.config.For(key.AlertType)
		if limits.MaxAge > 0 && batch.Age(now) >= limits.MaxAge {
			b.closeLocked(key, batch, FlushAge, now)
			out = append(out, batch)
		}
	}
	b.mu.Unlock()

	sortBatches(out)
	for _, batch := range out {
		b.emit(batch)
	}
	return out
}

// ForceFlushAll flushes every pending batch regardless of thresholds.
func (b *Batcher) ForceFlushAll() []*AlertBatch {
	b.mu.Lock()
	now := b.now()
	out := make([]*AlertBatch, 0, len(b.active))
	for key, batch := range b.active {
		b.closeLocked(key, batch, FlushForced, now)
		out = append(out, batch)
	}
	b.mu.Unlock()

	sortBatches(out)
	for _, batch := range out {
		b.emit(batch)
	}
	return out
}

// GetStats reports pending batches and alerts by type and the age of the oldest batch.
func (b *Batcher) GetStats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	stats := Stats{
		ByType:         make(map[string]TypeStats),
		FlushedBatches: b.flushed,
		FlushedAlerts:  b.alerts,
		DroppedBatches: b.dropped,
	}
	for key, batch := range b.active {
		t := stats.ByType[key.AlertType]
		t.Batches++
		t.Alerts += batch.Size()
		stats.ByType[key.AlertType] = t

		stats.PendingBatches++
		stats.PendingAlerts += batch.Size()
		if age := batch.Age(now); age > stats.OldestBatchAge {
			stats.OldestBatchAge = age
		}
	}
	stats.OldestBatchAgeSeconds = stats.OldestBatchAge.Seconds()
	return stats
}

func (b *Batcher) closeLocked(key Key, batch *AlertBatch, reason FlushReason, now time.Time) {
	delete(b.active, key)
	batch.FlushedAt = now
	batch.Reason = reason
	b.flushed++
	b.alerts += int64(batch.Size())

	metrics.PendingAlerts.Sub(float64(batch.Size()))
	metrics.BatchesFlushed.WithLabelValues(batch.AlertType, string(reason)).Inc()
	metrics.BatchSize.Observe(float64(batch.Size()))
}

// emit hands a flushed batch to the dispatcher without blocking. Batches are dropped
// when the dispatch buffer is full; the alerts themselves are already stored.
func (b *Batcher) emit(batch *AlertBatch) {
	b.logger.Info("Alert batch flushed",
		zap.String("batch_id", batch.ID),
		zap.String("alert_type", batch.AlertType),
		zap.String("severity", string(batch.Severity)),
		zap.String("entity_type", batch.EntityType),
		zap.Int("alerts", batch.Size()),
		zap.Int("entities", len(batch.EntityIDs)),
		zap.String("reason", string(batch.Reason)))

	b.dispatchMu.RLock()
	defer b.dispatchMu.RUnlock()
	if !b.dispatching {
		return
	}
	select {
	case b.dispatch <- batch:
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
		metrics.ErrorsTotal.WithLabelValues("batching", "dispatch_full").Inc()
		b.logger.Error("Dispatch buffer full, dropping batch notification",
			zap.String("batch_id", batch.ID),
			zap.Int("alerts", batch.Size()))
	}
}

func (b *Batcher) runDispatcher(ch <-chan *AlertBatch) {
	defer b.wg.Done()
	for batch := range ch {
		b.deliver(batch)
	}
}

func (b *Batcher) deliver(batch *AlertBatch) {
	ctx := context.Background()
	if b.config.SinkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.SinkTimeout)
		defer cancel()
	}
	if err := b.sink.Deliver(ctx, batch); err != nil {
		metrics.ErrorsTotal.WithLabelValues("batching", "deliver").Inc()
		b.logger.Error("Failed to deliver alert batch",
			zap.String("sink", b.sink.Name()),
			zap.String("batch_id", batch.ID),
			zap.Error(err))
	}
}

func (b *Batcher) runAgeLoop(ctx context.Context) {
	defer b.wg.Done()

	interval := b.config.CheckInterval
	if interval <= 0 {
		interval = DefaultConfig().CheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
			if flushed := b.FlushAged(); len(flushed) > 0 {
				b.logger.Debug("Flushed aged batches", zap.Int("count", len(flushed)))
			}
		}
	}
}

func sortBatches(batches []*AlertBatch) {
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		return batches[i].ID < batches[j].ID
	})
}
