// Package ratelimit provides a sliding-window request limiter for the
// service-to-service endpoints. In-memory only; counters are per process.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports one admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// SlidingWindow admits up to limit requests per key within a rolling window.
// The window slides per request timestamp, so bursts straddling a boundary
// cannot double the effective limit.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
}

// NewSlidingWindow builds a limiter admitting limit requests per window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow records one request against key and reports whether it is admitted.
func (s *SlidingWindow) Allow(key string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stamps := trimExpired(s.buckets[key], now.Add(-s.window))

	if len(stamps) >= s.limit {
		s.buckets[key] = stamps
		resetAt := stamps[0].Add(s.window)
		return Result{
			Allowed:    false,
			Limit:      s.limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt, now),
		}
	}

	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(stamps),
		ResetAt:   stamps[0].Add(s.window),
	}
}

// Reset clears the counter for a key.
func (s *SlidingWindow) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
}

// Count returns the live request count for a key.
func (s *SlidingWindow) Count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamps := trimExpired(s.buckets[key], time.Now().Add(-s.window))
	s.buckets[key] = stamps
	return len(stamps)
}

func trimExpired(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return secs
}
