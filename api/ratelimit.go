package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"labshare_dao/sdk"
)

const (
	// staleLimiterTTL is how long a sender's bucket may sit idle before eviction.
	staleLimiterTTL = 10 * time.Minute

	sweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// senderLimiter is a token bucket per transaction sender. Stale buckets are
// swept lazily on the request path, so there is no goroutine to stop.
type senderLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	limiters  map[sdk.Address]*limiterEntry
	lastSweep time.Time
	nowFunc   func() time.Time
}

func newSenderLimiter(rps float64, burst int) *senderLimiter {
	return &senderLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[sdk.Address]*limiterEntry),
		nowFunc:  time.Now,
	}
}

func (s *senderLimiter) allow(sender sdk.Address) bool {
	now := s.nowFunc()
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > sweepInterval {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > staleLimiterTTL {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.limiters[sender]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.limiters[sender] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (s *senderLimiter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
