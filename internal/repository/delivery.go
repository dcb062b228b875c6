package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JrMarcco/easy-kit/slice"
	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/repository/dao"
	"gorm.io/gorm"
)

type DeliveryRepo interface {
	Create(ctx context.Context, d domain.Delivery) (domain.Delivery, error)
	GetById(ctx context.Context, id uint64) (domain.Delivery, error)
	FindDue(ctx context.Context, now time.Time, batchSize int) ([]domain.Delivery, error)
	FindRecentByClientId(ctx context.Context, clientId uint64, limit int) ([]domain.Delivery, error)
	UpdateResult(ctx context.Context, d domain.Delivery) (bool, error)
	CountByStatusSince(ctx context.Context, since time.Time) (map[domain.DeliveryStatus]int64, error)
}

var _ DeliveryRepo = (*DefaultDeliveryRepo)(nil)

type DefaultDeliveryRepo struct {
	deliveryDAO dao.DeliveryDAO
}

func (r *DefaultDeliveryRepo) Create(ctx context.Context, d domain.Delivery) (domain.Delivery, error) {
	entity, err := r.deliveryDAO.Create(ctx, r.toEntity(d))
	if err != nil {
		return domain.Delivery{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultDeliveryRepo) GetById(ctx context.Context, id uint64) (domain.Delivery, error) {
	entity, err := r.deliveryDAO.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Delivery{}, fmt.Errorf("%w: id = %d", errs.ErrDeliveryNotFound, id)
		}
		return domain.Delivery{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultDeliveryRepo) FindDue(ctx context.Context, now time.Time, batchSize int) ([]domain.Delivery, error) {
	entities, err := r.deliveryDAO.FindDue(ctx, now.UnixMilli(), batchSize)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src dao.Delivery) domain.Delivery {
		return r.toDomain(src)
	}), nil
}

func (r *DefaultDeliveryRepo) FindRecentByClientId(ctx context.Context, clientId uint64, limit int) ([]domain.Delivery, error) {
	entities, err := r.deliveryDAO.FindRecentByClientId(ctx, clientId, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src dao.Delivery) domain.Delivery {
		return r.toDomain(src)
	}), nil
}

func (r *DefaultDeliveryRepo) UpdateResult(ctx context.Context, d domain.Delivery) (bool, error) {
	return r.deliveryDAO.UpdateResult(ctx, r.toEntity(d))
}

func (r *DefaultDeliveryRepo) CountByStatusSince(ctx context.Context, since time.Time) (map[domain.DeliveryStatus]int64, error) {
	counts, err := r.deliveryDAO.CountByStatusSince(ctx, since.UnixMilli())
	if err != nil {
		return nil, err
	}

	res := make(map[domain.DeliveryStatus]int64, len(counts))
	for status, cnt := range counts {
		res[domain.DeliveryStatus(status)] = cnt
	}
	return res, nil
}

func (r *DefaultDeliveryRepo) toDomain(entity dao.Delivery) domain.Delivery {
	d := domain.Delivery{
		Id:               entity.Id,
		ClientId:         entity.ClientId,
		OrderId:          entity.OrderId,
		Event:            domain.EventType(entity.EventType),
		TargetUrl:        entity.TargetUrl,
		Payload:          entity.Payload,
		Signature:        entity.Signature,
		Status:           domain.DeliveryStatus(entity.Status),
		AttemptCount:     entity.AttemptCount,
		MaxAttempts:      entity.MaxAttempts,
		LastStatusCode:   entity.LastStatusCode,
		LastResponseBody: entity.LastResponseBody,
		LastError:        entity.LastError,
		CreatedAt:        time.UnixMilli(entity.CreatedAt),
	}
	if entity.NextRetryAt > 0 {
		d.NextRetryAt = time.UnixMilli(entity.NextRetryAt)
	}
	if entity.CompletedAt > 0 {
		d.CompletedAt = time.UnixMilli(entity.CompletedAt)
	}
	return d
}

func (r *DefaultDeliveryRepo) toEntity(d domain.Delivery) dao.Delivery {
	entity := dao.Delivery{
		Id:               d.Id,
		ClientId:         d.ClientId,
		OrderId:          d.OrderId,
		EventType:        d.Event.String(),
		TargetUrl:        d.TargetUrl,
		Payload:          d.Payload,
		Signature:        d.Signature,
		Status:           d.Status.String(),
		AttemptCount:     d.AttemptCount,
		MaxAttempts:      d.MaxAttempts,
		LastStatusCode:   d.LastStatusCode,
		LastResponseBody: d.LastResponseBody,
		LastError:        d.LastError,
	}
	if !d.NextRetryAt.IsZero() {
		entity.NextRetryAt = d.NextRetryAt.UnixMilli()
	}
	if !d.CompletedAt.IsZero() {
		entity.CompletedAt = d.CompletedAt.UnixMilli()
	}
	return entity
}

func NewDefaultDeliveryRepo(deliveryDAO dao.DeliveryDAO) *DefaultDeliveryRepo {
	return &DefaultDeliveryRepo{
		deliveryDAO: deliveryDAO,
	}
}
