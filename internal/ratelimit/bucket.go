package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a fixed-window token bucket: capacity tokens are available
// per interval, and the bucket refills to full once the window has
// completely elapsed. Check-and-decrement happens under one lock so
// concurrent callers can never over-admit.
type Bucket struct {
	mu          sync.Mutex
	capacity    int
	remaining   int
	interval    time.Duration
	windowStart time.Time
	now         func() time.Time
}

// NewBucket creates a full bucket with the given capacity and refill window.
func NewBucket(capacity int, interval time.Duration) *Bucket {
	return &Bucket{
		capacity:  capacity,
		remaining: capacity,
		interval:  interval,
		now:       time.Now,
	}
}

// TryAcquire takes one token if available. It never queues: exhaustion
// is an immediate rejection and the caller must back off.
func (b *Bucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining reports the tokens left in the current window.
func (b *Bucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	return b.remaining
}

// Capacity reports the configured window capacity.
func (b *Bucket) Capacity() int {
	return b.capacity
}

// RetryAfter reports how long until the current window resets.
func (b *Bucket) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	elapsed := b.now().Sub(b.windowStart)
	if elapsed >= b.interval {
		return 0
	}
	return b.interval - elapsed
}

func (b *Bucket) refillLocked() {
	now := b.now()
	if b.windowStart.IsZero() {
		b.windowStart = now
		return
	}
	if now.Sub(b.windowStart) >= b.interval {
		b.remaining = b.capacity
		b.windowStart = now
	}
}
