package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/pkg/backoff"
	"github.com/JrMarcco/hookify/internal/pkg/dedupe"
	"github.com/JrMarcco/hookify/internal/pkg/signature"
	"github.com/JrMarcco/hookify/internal/repository"
	"github.com/JrMarcco/hookify/internal/service/secret"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 20

type Service interface {
	// Deliver 为指定订单事件创建投递记录并立即执行首次投递。
	Deliver(ctx context.Context, clientId, orderId uint64, event domain.EventType) (domain.Delivery, error)
	// Attempt 对指定记录执行一次投递，终态记录直接原样返回。
	Attempt(ctx context.Context, deliveryId uint64) (domain.Delivery, error)
	// TestEndpoint 用测试报文走完整签名发送链路，不落投递记录。
	TestEndpoint(ctx context.Context, clientId uint64) (Outcome, error)
	// GetDelivery 按 id 查询投递记录。
	GetDelivery(ctx context.Context, deliveryId uint64) (domain.Delivery, error)
	// Stats 统计滚动窗口内各状态的投递量。
	Stats(ctx context.Context, window time.Duration) (domain.DeliveryStats, error)
	// RecentByClient 查询客户最近的投递记录。
	RecentByClient(ctx context.Context, clientId uint64, limit int) ([]domain.Delivery, error)
}

var _ Service = (*DefaultService)(nil)

// DefaultService 回调投递编排
//
// 状态机：pending -> {success | retrying} -> {success | abandoned}。
// 记录内容（目标地址 / 报文 / 签名）创建时冻结，重试重发同样的字节。
type DefaultService struct {
	clientRepo   repository.ClientRepo
	orderRepo    repository.OrderRepo
	deliveryRepo repository.DeliveryRepo

	secretSvc secret.Service
	builder   *PayloadBuilder
	transport Transport
	backoff   *backoff.Backoff
	dedupe    dedupe.Strategy

	maxAttempts int32
	now         func() time.Time
	logger      *zap.Logger
}

func (s *DefaultService) Deliver(ctx context.Context, clientId, orderId uint64, event domain.EventType) (domain.Delivery, error) {
	if !event.Validate() {
		return domain.Delivery{}, fmt.Errorf("%w: %s", errs.ErrInvalidEventType, event)
	}

	client, err := s.clientRepo.GetById(ctx, clientId)
	if err != nil {
		return domain.Delivery{}, err
	}
	if !client.CallbackEnabled {
		return domain.Delivery{}, fmt.Errorf("%w: client id = %d", errs.ErrCallbackDisabled, clientId)
	}
	if err = validateCallbackUrl(client.CallbackUrl); err != nil {
		return domain.Delivery{}, err
	}

	// 上游事件可能重复触发，同一 (client, order, event) 在窗口内只建一条链路。
	// 去重组件故障时放行，宁可重复回调也不阻断投递。
	if s.dedupe != nil {
		exists, dedupeErr := s.dedupe.Exists(ctx, dedupe.TriggerKey(clientId, orderId, event.String()))
		if dedupeErr != nil {
			s.logger.Warn("[hookify] dedupe check failed, proceeding", zap.Uint64("client_id", clientId), zap.Error(dedupeErr))
		} else if exists {
			return domain.Delivery{}, fmt.Errorf("%w: client id = %d, order id = %d, event = %s",
				errs.ErrDuplicateTrigger, clientId, orderId, event)
		}
	}

	var order domain.Order
	var items []domain.OrderItem
	if orderId > 0 {
		if order, err = s.orderRepo.GetById(ctx, orderId); err != nil {
			return domain.Delivery{}, err
		}
		if items, err = s.orderRepo.FindItemsByOrderId(ctx, orderId); err != nil {
			return domain.Delivery{}, err
		}
	}

	payload := s.builder.Build(order, items, event)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("[hookify] failed to marshal callback payload: %w", err)
	}

	cs, err := s.secretSvc.GetOrCreate(ctx, clientId)
	if err != nil {
		return domain.Delivery{}, err
	}
	sig := signature.Sign(payloadBytes, []byte(cs.Value))

	created, err := s.deliveryRepo.Create(ctx, domain.Delivery{
		ClientId:     clientId,
		OrderId:      orderId,
		Event:        event,
		TargetUrl:    client.CallbackUrl,
		Payload:      string(payloadBytes),
		Signature:    sig,
		Status:       domain.DeliveryStatusPending,
		AttemptCount: 0,
		MaxAttempts:  s.maxAttempts,
	})
	if err != nil {
		return domain.Delivery{}, err
	}

	return s.Attempt(ctx, created.Id)
}

func (s *DefaultService) Attempt(ctx context.Context, deliveryId uint64) (domain.Delivery, error) {
	d, err := s.deliveryRepo.GetById(ctx, deliveryId)
	if err != nil {
		return domain.Delivery{}, err
	}

	// 终态幂等：已完成的链路不再触网
	if d.Status.IsTerminal() {
		return d, nil
	}

	outcome := s.transport.Send(ctx, d.TargetUrl, []byte(d.Payload), d.Signature)
	updated := s.applyOutcome(d, outcome)

	ok, err := s.deliveryRepo.UpdateResult(ctx, updated)
	if err != nil {
		return domain.Delivery{}, err
	}
	if !ok {
		// 另一个 worker 已推进了状态，让步并返回其结果
		return s.deliveryRepo.GetById(ctx, deliveryId)
	}

	if updated.Status == domain.DeliveryStatusAbandoned {
		s.logger.Error(
			"[hookify] delivery abandoned after retry ceiling",
			zap.Uint64("delivery_id", updated.Id),
			zap.Uint64("client_id", updated.ClientId),
			zap.Uint64("order_id", updated.OrderId),
			zap.String("event", updated.Event.String()),
			zap.Int32("attempt_count", updated.AttemptCount),
			zap.String("last_error", updated.LastError),
		)
	}
	return updated, nil
}

// applyOutcome 根据单次请求结果推进状态机。
func (s *DefaultService) applyOutcome(d domain.Delivery, outcome Outcome) domain.Delivery {
	attemptNum := d.AttemptCount
	d.AttemptCount = attemptNum + 1
	d.LastStatusCode = outcome.StatusCode
	d.LastResponseBody = outcome.ResponseBody
	d.LastError = outcome.ErrText

	now := s.now()
	switch {
	case outcome.Success:
		d.Status = domain.DeliveryStatusSuccess
		d.CompletedAt = now
		d.NextRetryAt = time.Time{}
	case backoff.ShouldRetry(d.AttemptCount, d.MaxAttempts):
		d.Status = domain.DeliveryStatusRetrying
		d.NextRetryAt = s.backoff.NextRetryAt(now, attemptNum)
	default:
		d.Status = domain.DeliveryStatusAbandoned
		d.CompletedAt = now
		d.NextRetryAt = time.Time{}
	}
	return d
}

func (s *DefaultService) TestEndpoint(ctx context.Context, clientId uint64) (Outcome, error) {
	client, err := s.clientRepo.GetById(ctx, clientId)
	if err != nil {
		return Outcome{}, err
	}
	if err = validateCallbackUrl(client.CallbackUrl); err != nil {
		return Outcome{}, err
	}

	payloadBytes, err := json.Marshal(s.builder.BuildTest())
	if err != nil {
		return Outcome{}, fmt.Errorf("[hookify] failed to marshal test payload: %w", err)
	}

	cs, err := s.secretSvc.GetOrCreate(ctx, clientId)
	if err != nil {
		return Outcome{}, err
	}

	return s.transport.Send(ctx, client.CallbackUrl, payloadBytes, signature.Sign(payloadBytes, []byte(cs.Value))), nil
}

func (s *DefaultService) GetDelivery(ctx context.Context, deliveryId uint64) (domain.Delivery, error) {
	return s.deliveryRepo.GetById(ctx, deliveryId)
}

func (s *DefaultService) Stats(ctx context.Context, window time.Duration) (domain.DeliveryStats, error) {
	since := s.now().Add(-window)
	counts, err := s.deliveryRepo.CountByStatusSince(ctx, since)
	if err != nil {
		return domain.DeliveryStats{}, err
	}

	stats := domain.DeliveryStats{
		WindowStart:  since,
		StatusCounts: counts,
	}
	for _, cnt := range counts {
		stats.Total += cnt
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(counts[domain.DeliveryStatusSuccess]) / float64(stats.Total)
	}
	return stats, nil
}

func (s *DefaultService) RecentByClient(ctx context.Context, clientId uint64, limit int) ([]domain.Delivery, error) {
	return s.deliveryRepo.FindRecentByClientId(ctx, clientId, limit)
}

func validateCallbackUrl(rawUrl string) error {
	u, err := url.Parse(rawUrl)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", errs.ErrInvalidCallbackUrl, rawUrl)
	}
	return nil
}

func NewDefaultService(
	clientRepo repository.ClientRepo,
	orderRepo repository.OrderRepo,
	deliveryRepo repository.DeliveryRepo,
	secretSvc secret.Service,
	builder *PayloadBuilder,
	transport Transport,
	bo *backoff.Backoff,
	dedupeStrategy dedupe.Strategy,
	maxAttempts int32,
	logger *zap.Logger,
) *DefaultService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &DefaultService{
		clientRepo:   clientRepo,
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		secretSvc:    secretSvc,
		builder:      builder,
		transport:    transport,
		backoff:      bo,
		dedupe:       dedupeStrategy,
		maxAttempts:  maxAttempts,
		now:          time.Now,
		logger:       logger,
	}
}
