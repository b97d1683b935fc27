package rates

import (
	"context"
	"sync"
	"time"

	"shipping-optimizer/internal/common/metrics"
)

// SlidingWindowLimiter gates request admission against a per-window quota.
// Record must be called once per completed upstream attempt, success or
// failure; the call was made either way, so it counts against the quota.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	window     time.Duration
	max        int
	poll       time.Duration
	timestamps []time.Time
	now        func() time.Time
}

func NewSlidingWindowLimiter(max int, window, poll time.Duration) *SlidingWindowLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &SlidingWindowLimiter{
		window: window,
		max:    max,
		poll:   poll,
		now:    time.Now,
	}
}

// Admit prunes expired timestamps and reports whether a new request may
// proceed now. It does not reserve a slot; callers record on completion.
func (l *SlidingWindowLimiter) Admit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	return len(l.timestamps) < l.max
}

// Record registers one completed upstream attempt.
func (l *SlidingWindowLimiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = append(l.timestamps, l.now())
}

// WindowCount returns the number of attempts still inside the window.
func (l *SlidingWindowLimiter) WindowCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	return len(l.timestamps)
}

// Wait blocks until admission succeeds, polling at the configured interval,
// or until the context is done.
func (l *SlidingWindowLimiter) Wait(ctx context.Context) error {
	for {
		if l.Admit() {
			return nil
		}
		metrics.RateLimitWaitsTotal.Inc()
		select {
		case <-time.After(l.poll):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// prune drops timestamps older than the window. Callers hold l.mu.
func (l *SlidingWindowLimiter) prune() {
	cutoff := l.now().Add(-l.window)
	idx := 0
	for idx < len(l.timestamps) && !l.timestamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[idx:]...)
	}
}
