// Package sequence provides the shared monotonic counters and duplicate
// detection sets used while numbering shabads and lines.
package sequence

import "sync"

// Counter hands out dense, 1-based order ids. It is safe for concurrent use.
type Counter struct {
	mu   sync.Mutex
	last int64
}

// NewCounter returns a counter whose first id is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns the next order id.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Issued returns how many ids have been handed out.
func (c *Counter) Issued() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// SeenSet is a type-safe concurrent set used to detect repeated ids.
type SeenSet[K comparable] struct {
	mu sync.RWMutex
	m  map[K]struct{}
}

// NewSeenSet creates an empty set.
func NewSeenSet[K comparable]() *SeenSet[K] {
	return &SeenSet[K]{m: make(map[K]struct{})}
}

// Add records key and reports whether it had already been seen.
func (s *SeenSet[K]) Add(key K) (seen bool) {
	s.mu.RLock()
	_, seen = s.m[key]
	s.mu.RUnlock()
	if seen {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check again in case another goroutine stored the key
	// between releasing RLock and acquiring Lock.
	if _, seen = s.m[key]; seen {
		return true
	}
	s.m[key] = struct{}{}
	return false
}
