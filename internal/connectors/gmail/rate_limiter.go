package gmail

import (
	"sync"
	"time"
)

// RateLimiter spaces Gmail API calls evenly to stay under the per-user quota.
// A nil limiter never waits.
type RateLimiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

func (r *RateLimiter) WaitTurn() {
	if r == nil {
		return
	}

	r.mu.Lock()
	slot := time.Now()
	if r.next.After(slot) {
		slot = r.next
	}
	r.next = slot.Add(r.interval)
	r.mu.Unlock()

	time.Sleep(time.Until(slot))
}
