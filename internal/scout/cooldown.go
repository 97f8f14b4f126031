package scout

import (
	"sync"
	"time"
)

// CooldownTracker owns the per-source "when did we last search" state.
// It is plain data held by the Scout, with an injectable clock, so cooldown
// decisions are testable without wall-clock waits.
type CooldownTracker struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval map[string]time.Duration
	now      func() time.Time
}

// NewCooldownTracker builds a tracker over the given per-source intervals.
func NewCooldownTracker(intervals map[string]time.Duration) *CooldownTracker {
	interval := make(map[string]time.Duration, len(intervals))
	for k, v := range intervals {
		interval[k] = v
	}
	return &CooldownTracker{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// Ready reports whether the source's cooldown has elapsed. A source that
// was never searched is always ready.
func (c *CooldownTracker) Ready(source string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.last[source]
	if !ok {
		return true
	}
	return c.now().Sub(last) > c.interval[source]
}

// MarkRun records that the source was just searched.
func (c *CooldownTracker) MarkRun(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[source] = c.now()
}
