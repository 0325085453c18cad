package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomRateLimiterSlidingWindow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	rl := NewRoomRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("tok"))
	assert.True(t, rl.Allow("tok"))
	assert.False(t, rl.Allow("tok"))
	assert.True(t, rl.Allow("other"))

	now = now.Add(30 * time.Second)
	assert.False(t, rl.Allow("tok"))

	now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow("tok"))
	assert.False(t, rl.Allow("tok"))
}

func TestRoomRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	var nilLimiter *RoomRateLimiter
	assert.True(t, nilLimiter.Allow("x"))

	rl := NewRoomRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("x"))
	}
}

func TestRoomRateLimiterRetryAndPrune(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	rl := NewRoomRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Reserve("a")
	assert.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, retry := rl.Reserve("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	now = now.Add(2 * time.Minute)
	ok, _ = rl.Reserve("b")
	assert.True(t, ok)
	assert.NotContains(t, rl.attempts, "a")
	assert.Contains(t, rl.attempts, "b")
}
