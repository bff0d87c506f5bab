// Package ratelimit keeps one token bucket per key, e.g. per chat sender or
// per API user.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupEvery = 5 * time.Minute

// Keyed rate limits events per key.
type Keyed struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// New allows perWindow events per window for every key, all of them
// available as a burst.
func New(perWindow int, window time.Duration) *Keyed {
	if perWindow <= 0 {
		perWindow = 1
	}
	return &Keyed{
		rate:        rate.Limit(float64(perWindow) / window.Seconds()),
		burst:       perWindow,
		lastCleanup: time.Now(),
	}
}

// Allow reports whether an event for key may happen now. When it may not,
// it also returns how long to wait before retrying.
func (k *Keyed) Allow(key string) (bool, time.Duration) {
	limiter := k.limiter(key)
	if limiter.Allow() {
		return true, 0
	}

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return false, max(delay, time.Second)
}

func (k *Keyed) limiter(key string) *rate.Limiter {
	if limiter, ok := k.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := k.limiters.LoadOrStore(key, rate.NewLimiter(k.rate, k.burst))
	k.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, i.e. idle keys.
func (k *Keyed) maybeCleanup() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if time.Since(k.lastCleanup) < cleanupEvery {
		return
	}
	k.lastCleanup = time.Now()

	k.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(k.burst) {
			k.limiters.Delete(key)
		}
		return true
	})
}
