package signal

import (
	"slices"
	"sync"
	"time"
)

// RoomRateLimiter caps room creations per client token over a sliding
// window. A nil limiter or a non-positive limit lets everything through.
type RoomRateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRoomRateLimiter(limit int, window time.Duration) *RoomRateLimiter {
	return &RoomRateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records an attempt for key if it fits in the window.
func (rl *RoomRateLimiter) Allow(key string) bool {
	ok, _ := rl.Reserve(key)
	return ok
}

// Reserve is Allow that also reports how long until the oldest attempt in
// the window expires when the key is over its limit.
func (rl *RoomRateLimiter) Reserve(key string) (bool, time.Duration) {
	if rl == nil || rl.limit <= 0 {
		return true, 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	recent := slices.DeleteFunc(rl.attempts[key], func(at time.Time) bool {
		return !at.After(cutoff)
	})

	if len(recent) >= rl.limit {
		rl.attempts[key] = recent
		return false, recent[0].Sub(cutoff)
	}
	rl.attempts[key] = append(recent, now)
	rl.prune(cutoff)
	return true, 0
}

// prune drops keys whose attempts all fell out of the window.
func (rl *RoomRateLimiter) prune(cutoff time.Time) {
	for key, at := range rl.attempts {
		if len(at) == 0 || !at[len(at)-1].After(cutoff) {
			delete(rl.attempts, key)
		}
	}
}
