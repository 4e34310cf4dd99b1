package http

import (
	"sync"

	"golang.org/x/time/rate"
)

// CallerLimiter rate-limits gateway traffic per caller, protecting the
// session store from a misbehaving handset or gateway retry storm.
type CallerLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.Mutex
	perSecond  float64
	burst      int
	maxEntries int
}

// NewCallerLimiter creates a limiter allowing perSecond requests with
// the given burst per caller.
func NewCallerLimiter(perSecond float64, burst int) *CallerLimiter {
	return &CallerLimiter{
		limiters:   make(map[string]*rate.Limiter),
		perSecond:  perSecond,
		burst:      burst,
		maxEntries: 100_000,
	}
}

// Allow reports whether a request from the caller may proceed.
func (cl *CallerLimiter) Allow(callerID string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[callerID]
	if !ok {
		// Bound the map: a full table resets rather than growing
		// without limit. Losing limiter state briefly over-admits,
		// which is harmless next to unbounded memory.
		if len(cl.limiters) >= cl.maxEntries {
			cl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Limit(cl.perSecond), cl.burst)
		cl.limiters[callerID] = limiter
	}
	return limiter.Allow()
}
