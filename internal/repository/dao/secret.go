package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ClientSecret 客户签名密钥实体
//
// client_id 上的唯一约束保证并发首次创建只会落库一条，
// 冲突方重新读取胜者写入的值。
type ClientSecret struct {
	Id          uint64 `gorm:"primaryKey;autoIncrement"`
	ClientId    uint64 `gorm:"uniqueIndex"`
	SecretValue string
	CreatedAt   int64
	UpdatedAt   int64
}

func (ClientSecret) TableName() string {
	return "client_secret"
}

type ClientSecretDAO interface {
	GetByClientId(ctx context.Context, clientId uint64) (ClientSecret, error)
	Insert(ctx context.Context, entity ClientSecret) (ClientSecret, error)
	Replace(ctx context.Context, entity ClientSecret) (ClientSecret, error)
}

var _ ClientSecretDAO = (*DefaultClientSecretDAO)(nil)

type DefaultClientSecretDAO struct {
	db *gorm.DB
}

func (d *DefaultClientSecretDAO) GetByClientId(ctx context.Context, clientId uint64) (ClientSecret, error) {
	var entity ClientSecret
	err := d.db.WithContext(ctx).Where("client_id = ?", clientId).First(&entity).Error
	if err != nil {
		return ClientSecret{}, err
	}
	return entity, nil
}

func (d *DefaultClientSecretDAO) Insert(ctx context.Context, entity ClientSecret) (ClientSecret, error) {
	now := time.Now().UnixMilli()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	err := d.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return ClientSecret{}, err
	}
	return entity, nil
}

// Replace 轮换密钥，删旧插新在同一事务内完成。
func (d *DefaultClientSecretDAO) Replace(ctx context.Context, entity ClientSecret) (ClientSecret, error) {
	now := time.Now().UnixMilli()
	entity.Id = 0
	entity.CreatedAt = now
	entity.UpdatedAt = now

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", entity.ClientId).Delete(&ClientSecret{}).Error; err != nil {
			return err
		}
		return tx.Create(&entity).Error
	})
	if err != nil {
		return ClientSecret{}, err
	}
	return entity, nil
}

func NewDefaultClientSecretDAO(db *gorm.DB) *DefaultClientSecretDAO {
	return &DefaultClientSecretDAO{
		db: db,
	}
}
