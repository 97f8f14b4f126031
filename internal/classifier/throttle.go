package classifier

import (
	"context"
	"sync"
	"time"
)

// DefaultMinInterval is the mandatory spacing between classification calls.
// The collaborator is a quota-limited paid service; this throttle is a
// deliberate part of the ingestion design, not incidental serialization.
const DefaultMinInterval = 1 * time.Second

// Throttled wraps a Classifier so that at most one call is in flight and
// successive calls are spaced by at least a minimum interval.
type Throttled struct {
	inner       Classifier
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewThrottled wraps inner with the call-spacing discipline. A non-positive
// minInterval falls back to DefaultMinInterval.
func NewThrottled(inner Classifier, minInterval time.Duration) *Throttled {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Throttled{
		inner:       inner,
		minInterval: minInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Classify waits out the remaining spacing from the previous call, then
// forwards to the wrapped classifier. The mutex is held across the inner
// call so calls are strictly sequential even under concurrent callers.
func (t *Throttled) Classify(ctx context.Context, req Request) (Verdict, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastCall.IsZero() {
		if wait := t.minInterval - t.now().Sub(t.lastCall); wait > 0 {
			t.sleep(wait)
		}
	}
	t.lastCall = t.now()

	return t.inner.Classify(ctx, req)
}
