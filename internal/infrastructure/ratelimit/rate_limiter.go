package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionCreateChat  = "create_chat"
	ActionCreateOrder = "create_order"
	ActionRequest     = "request"
)

// Policy is the token bucket applied to one action.
type Policy struct {
	Limit rate.Limit
	Burst int
}

// PerMinute builds a policy allowing n events per minute with the given burst.
func PerMinute(n, burst int) Policy {
	if n <= 0 {
		n = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return Policy{Limit: rate.Every(time.Minute / time.Duration(n)), Burst: burst}
}

// DefaultPolicies are used for actions the caller did not configure.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		ActionSendMessage: PerMinute(30, 10),
		ActionCreateChat:  {Limit: rate.Every(12 * time.Minute), Burst: 5},
		ActionCreateOrder: PerMinute(10, 5),
		ActionRequest:     PerMinute(600, 100),
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one limiter per (key, action) pair.
type RateLimiter struct {
	mu       sync.Mutex
	policies map[string]Policy
	fallback Policy
	entries  map[string]*limiterEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	merged := DefaultPolicies()
	for action, p := range policies {
		merged[action] = p
	}
	return &RateLimiter{
		policies: merged,
		fallback: PerMinute(20, 20),
		entries:  make(map[string]*limiterEntry),
		stopCh:   make(chan struct{}),
	}
}

func (rl *RateLimiter) limiterFor(key, action string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	id := key + ":" + action
	if e, ok := rl.entries[id]; ok {
		e.lastSeen = now
		return e.limiter
	}

	policy, ok := rl.policies[action]
	if !ok {
		policy = rl.fallback
	}
	l := rate.NewLimiter(policy.Limit, policy.Burst)
	rl.entries[id] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

// Allow consumes a token for key/action. When denied it returns how long to
// wait before the next token is available.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := time.Now()
	l := rl.limiterFor(key, action, now)

	r := l.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup forgets limiters idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for id, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, id)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until Stop is called.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-rl.stopCh:
				return
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}
