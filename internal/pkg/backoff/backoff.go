package backoff

import (
	"math/rand/v2"
	"time"
)

const (
	maxBaseDelay = 60 * time.Second
	jitterRatio  = 0.1
)

// Backoff 指数退避计算器
//
// 基础延迟 = min(2^attempt, 60) 秒，在此之上叠加最多 10% 的随机抖动
// （只加不减），单次间隔上限约 66 秒。
type Backoff struct {
	randFloat func() float64
}

func New() *Backoff {
	return &Backoff{
		randFloat: rand.Float64,
	}
}

// NewWithRand 注入随机源，测试用。
func NewWithRand(randFloat func() float64) *Backoff {
	return &Backoff{
		randFloat: randFloat,
	}
}

// Delay 计算第 attempt 次（从 0 开始）失败后的重试间隔。
func (b *Backoff) Delay(attempt int32) time.Duration {
	base := maxBaseDelay
	if attempt < 6 {
		if attempt < 0 {
			attempt = 0
		}
		base = time.Duration(1<<uint(attempt)) * time.Second
	}
	jitter := time.Duration(b.randFloat() * jitterRatio * float64(base))
	return base + jitter
}

// NextRetryAt 以 now 为基准计算下次重试时间。
func (b *Backoff) NextRetryAt(now time.Time, attempt int32) time.Time {
	return now.Add(b.Delay(attempt))
}

// ShouldRetry 判断是否还有重试额度。
func ShouldRetry(attemptCount, maxAttempts int32) bool {
	return attemptCount < maxAttempts
}
