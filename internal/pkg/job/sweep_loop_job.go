package job

import (
	"context"
	"errors"
	"time"

	"github.com/JrMarcco/dlock"
	"go.uber.org/zap"
)

// SweepFunc 单轮扫描，返回本轮处理的记录数。
type SweepFunc func(ctx context.Context) (int, error)

// SweepLoopJob 到期重试扫描任务
//
// 固定间隔触发一轮扫描。配置了 dlock 时先抢分布式锁，
// 保证多实例部署下同一时刻只有一个实例在扫描；
// 未配置时退化为单实例裸跑模式。
//
// 单轮扫描预算（sweepTimeout）独立于触发间隔：
// 间隔只决定扫描频率，批内每条投递都要容得下完整的单次发送超时。
type SweepLoopJob struct {
	lockKey        string
	interval       time.Duration
	sweepTimeout   time.Duration
	defaultTimeout time.Duration

	dclient dlock.Dclient
	logger  *zap.Logger

	sweepFunc SweepFunc
}

func (sj *SweepLoopJob) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if sj.dclient == nil {
			sj.sweepOnce(ctx)
			sj.sleep(ctx)
			continue
		}

		// 锁 TTL 覆盖一轮扫描加一次休眠，到下次续约前不会过期
		dl, err := sj.dclient.NewDlock(ctx, sj.lockKey, sj.sweepTimeout+2*sj.interval)
		if err != nil {
			sj.logger.Error("[hookify] failed to create sweep lock", zap.Error(err))
			sj.sleep(ctx)
			continue
		}

		lockCtx, cancel := context.WithTimeout(ctx, sj.defaultTimeout)
		err = dl.TryLock(lockCtx)
		cancel()

		if err != nil {
			// 没抢到锁，本轮由别的实例扫描
			sj.sleep(ctx)
			continue
		}

		sj.lockedLoop(ctx, dl)
	}
}

// lockedLoop 持锁扫描，直到锁续约失败或 ctx 结束。
func (sj *SweepLoopJob) lockedLoop(ctx context.Context, dl dlock.Dlock) {
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), sj.defaultTimeout)
		defer cancel()
		if err := dl.Unlock(unlockCtx); err != nil {
			sj.logger.Error("[hookify] failed to release sweep lock", zap.Error(err))
		}
	}()

	for {
		sj.sweepOnce(ctx)
		sj.sleep(ctx)

		if ctx.Err() != nil {
			return
		}

		refreshCtx, cancel := context.WithTimeout(ctx, sj.defaultTimeout)
		err := dl.Refresh(refreshCtx)
		cancel()

		if err != nil {
			sj.logger.Error("[hookify] failed to refresh sweep lock", zap.Error(err))
			return
		}
	}
}

func (sj *SweepLoopJob) sweepOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, sj.sweepTimeout)
	defer cancel()

	cnt, err := sj.sweepFunc(sweepCtx)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			sj.logger.Info("[hookify] sweep canceled", zap.Error(err))
		default:
			sj.logger.Error("[hookify] sweep failed", zap.Error(err))
		}
		return
	}

	if cnt > 0 {
		sj.logger.Info("[hookify] sweep finished", zap.Int("due_count", cnt))
	}
}

func (sj *SweepLoopJob) sleep(ctx context.Context) {
	timer := time.NewTimer(sj.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func NewSweepLoopJob(
	lockKey string,
	interval time.Duration,
	sweepTimeout time.Duration,
	dclient dlock.Dclient,
	logger *zap.Logger,
	sweepFunc SweepFunc,
) *SweepLoopJob {
	const defaultTimeout = 3 * time.Second
	if sweepTimeout <= 0 {
		sweepTimeout = time.Minute
	}
	return &SweepLoopJob{
		lockKey:        lockKey,
		interval:       interval,
		sweepTimeout:   sweepTimeout,
		defaultTimeout: defaultTimeout,
		dclient:        dclient,
		logger:         logger,
		sweepFunc:      sweepFunc,
	}
}
