package consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/internal/metrics"
	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// RuleLister loads rules
type RuleLister interface {
	ListRules(ctx context.Context, enabledOnly bool) ([]*monitor.Rule, error)
}

// RuleCache holds the enabled rules and reloads them once they are older than ttl.
// A failed reload keeps serving the previous set.
type RuleCache struct {
	lister RuleLister
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	rules    []*monitor.Rule
	loadedAt time.Time
	loaded   bool
}

// NewRuleCache creates a rule cache refreshed every ttl
func NewRuleCache(lister RuleLister, ttl time.Duration, logger *zap.Logger) *RuleCache {
	return &RuleCache{
		lister: lister,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Rules returns the enabled rules, reloading them when stale.
func (c *RuleCache) Rules(ctx context.Context) ([]*monitor.Rule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.loadedAt) < c.ttl {
		return c.rules, nil
	}

	rules, err := c.lister.ListRules(ctx, true)
	if err != nil {
		if c.loaded {
			c.logger.Warn("Failed to refresh rules, using cached set",
				zap.Int("cached", len(c.rules)),
				zap.Error(err))
			return c.rules, nil
		}
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	usable := rules[:0:0]
	for _, r := range rules {
		if r.Enabled && r.Expression.Root != nil {
			usable = append(usable, r)
		}
	}
	c.rules = usable
	c.loadedAt = c.now()
	c.loaded = true
	metrics.ActiveRules.Set(float64(len(usable)))
	return usable, nil
}

// Invalidate forces the next Rules call to reload. The current set is still served if
// that reload fails.
func (c *RuleCache) Invalidate() {
	c.mu.Lock()
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
