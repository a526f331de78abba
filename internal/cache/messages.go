package cache

import "sync"

const (
	// DefaultMaxEntries is the cardinality threshold that triggers compaction.
	DefaultMaxEntries = 1000
	// DefaultKeepEntries is how many of the most recent ids survive compaction.
	DefaultKeepEntries = 500
)

// MessageCache remembers which webhook message ids have already been
// handled so redelivered messages are answered at most once.
//
// Membership lives in a set, but "most recently inserted" is tracked in a
// separate insertion log: a map alone cannot order its keys, so compaction
// would otherwise discard arbitrary ids.
type MessageCache struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string // insertion order, oldest first
	max   int
	keep  int
}

// NewMessageCache creates a cache that compacts down to keep entries once
// its size exceeds max. Non-positive bounds fall back to the defaults.
func NewMessageCache(max, keep int) *MessageCache {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	if keep <= 0 || keep > max {
		keep = DefaultKeepEntries
		if keep > max {
			keep = max
		}
	}
	return &MessageCache{
		seen: make(map[string]struct{}),
		max:  max,
		keep: keep,
	}
}

// HasProcessed reports whether id was marked processed and not yet evicted.
func (c *MessageCache) HasProcessed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[id]
	return ok
}

// MarkProcessed records id. Re-marking a present id is a no-op and does not
// refresh its position in the insertion log.
func (c *MessageCache) MarkProcessed(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markLocked(id)
}

// CheckAndMark atomically records id and reports whether it was new.
// Concurrent deliveries of the same id race on HasProcessed-then-
// MarkProcessed; this is the lookup the ingest flow uses instead.
func (c *MessageCache) CheckAndMark(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[id]; ok {
		return false
	}
	c.markLocked(id)
	return true
}

// MaybeCompact trims the cache to the keep most recent ids when its size
// exceeds the max bound. Called after every insertion.
func (c *MessageCache) MaybeCompact() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.seen) <= c.max {
		return
	}
	cut := len(c.order) - c.keep
	for _, id := range c.order[:cut] {
		delete(c.seen, id)
	}
	c.order = append(c.order[:0], c.order[cut:]...)
}

// Size returns the current number of cached ids.
func (c *MessageCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *MessageCache) markLocked(id string) {
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.order = append(c.order, id)
}
