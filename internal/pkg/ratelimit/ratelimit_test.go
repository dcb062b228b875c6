package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiter_Allow(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000000)
	clock := func() time.Time { return now }

	limiter := NewFixedWindowLimiter(2, time.Minute, clock)

	assert.True(t, limiter.Allow("client:1"))
	assert.True(t, limiter.Allow("client:1"))
	assert.False(t, limiter.Allow("client:1"))

	// key 之间互不影响
	assert.True(t, limiter.Allow("client:2"))
}

func TestFixedWindowLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000000)
	limiter := NewFixedWindowLimiter(1, time.Minute, func() time.Time { return now })

	assert.True(t, limiter.Allow("client:1"))
	assert.False(t, limiter.Allow("client:1"))

	// 窗口滚动后额度恢复
	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("client:1"))
	assert.False(t, limiter.Allow("client:1"))
}
