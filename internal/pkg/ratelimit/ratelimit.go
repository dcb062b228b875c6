package ratelimit

import (
	"sync"
	"time"

	gcache "github.com/patrickmn/go-cache"
)

// Limiter 限流器
type Limiter interface {
	Allow(key string) bool
}

var _ Limiter = (*FixedWindowLimiter)(nil)

// FixedWindowLimiter 固定窗口计数限流器
//
// 显式注入时钟，计数窗口由注入时钟判定，go-cache 的 TTL 只做冷 key 兜底清理。
type FixedWindowLimiter struct {
	mu    sync.Mutex
	cache *gcache.Cache

	limit  int
	window time.Duration
	now    func() time.Time
}

type windowCounter struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, window time.Duration, now func() time.Time) *FixedWindowLimiter {
	if now == nil {
		now = time.Now
	}
	return &FixedWindowLimiter{
		cache:  gcache.New(window, 2*window),
		limit:  limit,
		window: window,
		now:    now,
	}
}

func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	var wc *windowCounter
	if val, ok := l.cache.Get(key); ok {
		wc = val.(*windowCounter)
	}
	if wc == nil || now.Sub(wc.start) >= l.window {
		wc = &windowCounter{start: now}
		l.cache.Set(key, wc, gcache.DefaultExpiration)
	}

	if wc.count >= l.limit {
		return false
	}
	wc.count++
	return true
}
