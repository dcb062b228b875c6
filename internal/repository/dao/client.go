package dao

import (
	"context"

	"gorm.io/gorm"
)

// Client 客户实体（只读）
//
// 客户主数据由管理后台的 CRUD 层维护，这里只消费回调相关字段。
type Client struct {
	Id              uint64 `gorm:"primaryKey"`
	CompanyName     string
	CallbackUrl     string
	CallbackEnabled bool
	CreatedAt       int64
	UpdatedAt       int64
}

func (Client) TableName() string {
	return "client"
}

type ClientDAO interface {
	GetById(ctx context.Context, id uint64) (Client, error)
}

var _ ClientDAO = (*DefaultClientDAO)(nil)

type DefaultClientDAO struct {
	db *gorm.DB
}

func (d *DefaultClientDAO) GetById(ctx context.Context, id uint64) (Client, error) {
	var entity Client
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return Client{}, err
	}
	return entity, nil
}

func NewDefaultClientDAO(db *gorm.DB) *DefaultClientDAO {
	return &DefaultClientDAO{
		db: db,
	}
}
