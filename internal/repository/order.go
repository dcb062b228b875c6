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

type OrderRepo interface {
	GetById(ctx context.Context, id uint64) (domain.Order, error)
	FindItemsByOrderId(ctx context.Context, orderId uint64) ([]domain.OrderItem, error)
}

var _ OrderRepo = (*DefaultOrderRepo)(nil)

type DefaultOrderRepo struct {
	orderDAO dao.OrderDAO
}

func (r *DefaultOrderRepo) GetById(ctx context.Context, id uint64) (domain.Order, error) {
	entity, err := r.orderDAO.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, fmt.Errorf("%w: id = %d", errs.ErrOrderNotFound, id)
		}
		return domain.Order{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultOrderRepo) FindItemsByOrderId(ctx context.Context, orderId uint64) ([]domain.OrderItem, error) {
	entities, err := r.orderDAO.FindItemsByOrderId(ctx, orderId)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src dao.OrderItem) domain.OrderItem {
		return r.toDomainItem(src)
	}), nil
}

func (r *DefaultOrderRepo) toDomain(entity dao.Order) domain.Order {
	o := domain.Order{
		Id:             entity.Id,
		ClientId:       entity.ClientId,
		ExternalSn:     entity.ExternalSn,
		Status:         entity.Status,
		OriginalTotal:  entity.OriginalTotal,
		ProcessedTotal: entity.ProcessedTotal,
		ProcessNotes:   entity.ProcessNotes,
	}
	if entity.ProcessedAt > 0 {
		o.ProcessedAt = time.UnixMilli(entity.ProcessedAt)
	}
	return o
}

func (r *DefaultOrderRepo) toDomainItem(entity dao.OrderItem) domain.OrderItem {
	item := domain.OrderItem{
		Id:             entity.Id,
		OrderId:        entity.OrderId,
		OriginalPrice:  entity.OriginalPrice,
		ProcessedPrice: entity.ProcessedPrice,
		Quantity:       entity.Quantity,
		Status:         entity.Status,
	}
	if entity.Verification.Valid {
		verification := entity.Verification.Val
		item.Verification = &verification
	}
	return item
}

func NewDefaultOrderRepo(orderDAO dao.OrderDAO) *DefaultOrderRepo {
	return &DefaultOrderRepo{
		orderDAO: orderDAO,
	}
}
