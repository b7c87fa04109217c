package http

import "time"

// rateLimiter caps events per fixed window. Each read loop owns one, so it
// needs no locking.
type rateLimiter struct {
	limit  int
	window time.Duration
	count  int
	start  time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: time.Minute,
	}
}

func (r *rateLimiter) allow(now time.Time) bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	if r.start.IsZero() || now.Sub(r.start) >= r.window {
		r.start = now
		r.count = 0
	}
	r.count++
	return r.count <= r.limit
}
