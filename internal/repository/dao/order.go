package dao

import (
	"context"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/pkg/xsql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order 订单快照实体（只读）
type Order struct {
	Id             uint64 `gorm:"primaryKey"`
	ClientId       uint64
	ExternalSn     string
	Status         string
	OriginalTotal  decimal.Decimal
	ProcessedTotal decimal.NullDecimal
	ProcessNotes   string
	ProcessedAt    int64
	CreatedAt      int64
	UpdatedAt      int64
}

func (Order) TableName() string {
	return "client_order"
}

// OrderItem 订单条目实体（只读）
type OrderItem struct {
	Id             uint64 `gorm:"primaryKey"`
	OrderId        uint64
	OriginalPrice  decimal.Decimal
	ProcessedPrice decimal.NullDecimal
	Quantity       int32
	Status         string
	Verification   xsql.JsonColumn[domain.ItemVerification]
}

func (OrderItem) TableName() string {
	return "client_order_item"
}

type OrderDAO interface {
	GetById(ctx context.Context, id uint64) (Order, error)
	FindItemsByOrderId(ctx context.Context, orderId uint64) ([]OrderItem, error)
}

var _ OrderDAO = (*DefaultOrderDAO)(nil)

type DefaultOrderDAO struct {
	db *gorm.DB
}

func (d *DefaultOrderDAO) GetById(ctx context.Context, id uint64) (Order, error) {
	var entity Order
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return Order{}, err
	}
	return entity, nil
}

func (d *DefaultOrderDAO) FindItemsByOrderId(ctx context.Context, orderId uint64) ([]OrderItem, error) {
	var entities []OrderItem
	err := d.db.WithContext(ctx).Where("order_id = ?", orderId).Order("id ASC").Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func NewDefaultOrderDAO(db *gorm.DB) *DefaultOrderDAO {
	return &DefaultOrderDAO{
		db: db,
	}
}
