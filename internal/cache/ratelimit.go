package cache

import (
	"sync"
	"time"
)

// DefaultRateLimitWindow is the minimum interval between answered messages
// from one sender.
const DefaultRateLimitWindow = 2 * time.Second

// SenderLimiter throttles senders to at most one accepted message per
// window. Rejections do not slide the window: a burst of drops inside one
// window is all measured against the timestamp of the last accepted message.
type SenderLimiter struct {
	mu     sync.Mutex
	last   map[string]time.Time
	window time.Duration
}

// NewSenderLimiter creates a limiter with the given window and starts a
// background sweep that evicts senders idle for several windows, so the
// table stays bounded over the process lifetime.
func NewSenderLimiter(window time.Duration) *SenderLimiter {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	l := &SenderLimiter{
		last:   make(map[string]time.Time),
		window: window,
	}
	go l.cleanup()
	return l
}

// IsLimited reports whether a message from sender arriving at now should be
// dropped. Accepted calls record now as the sender's new timestamp.
func (l *SenderLimiter) IsLimited(sender string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.last[sender]
	if ok && now.Sub(last) < l.window {
		return true
	}
	l.last[sender] = now
	return false
}

// Len returns the number of tracked senders.
func (l *SenderLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}

func (l *SenderLimiter) cleanup() {
	interval := 5 * time.Minute
	stale := 10 * l.window
	if stale < interval {
		stale = interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-stale)
		for sender, last := range l.last {
			if last.Before(cutoff) {
				delete(l.last, sender)
			}
		}
		l.mu.Unlock()
	}
}
