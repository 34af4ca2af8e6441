package watcher

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a minimum interval between successive fetches.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next slot or until ctx is done, and reports whether
// the caller may proceed.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return true
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
