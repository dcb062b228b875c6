package webhook

import (
	"context"
	"time"

	"github.com/JrMarcco/hookify/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSweepBatchSize   = 50
	defaultSweepConcurrency = 8
)

// SweepService 到期重试扫描
type SweepService interface {
	// Sweep 执行一轮扫描，返回本轮捞出的到期记录数。
	Sweep(ctx context.Context) (int, error)
}

var _ SweepService = (*DefaultSweepService)(nil)

// DefaultSweepService 扫描 retrying 且 next_retry_at 已到期的记录，
// 有界并发地重新投递。单条失败只记日志，不影响同批其他记录。
type DefaultSweepService struct {
	deliveryRepo repository.DeliveryRepo
	orchestrator Service

	batchSize   int
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

func (s *DefaultSweepService) Sweep(ctx context.Context) (int, error) {
	due, err := s.deliveryRepo.FindDue(ctx, s.now(), s.batchSize)
	if err != nil {
		s.logger.Error("[hookify] failed to find due deliveries", zap.Error(err))
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for _, d := range due {
		eg.Go(func() error {
			if _, attemptErr := s.orchestrator.Attempt(ctx, d.Id); attemptErr != nil {
				s.logger.Error(
					"[hookify] failed to attempt due delivery",
					zap.Uint64("delivery_id", d.Id),
					zap.Uint64("client_id", d.ClientId),
					zap.Error(attemptErr),
				)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return len(due), nil
}

func NewDefaultSweepService(
	deliveryRepo repository.DeliveryRepo,
	orchestrator Service,
	batchSize int,
	concurrency int,
	logger *zap.Logger,
) *DefaultSweepService {
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	return &DefaultSweepService{
		deliveryRepo: deliveryRepo,
		orchestrator: orchestrator,
		batchSize:    batchSize,
		concurrency:  concurrency,
		now:          time.Now,
		logger:       logger,
	}
}
