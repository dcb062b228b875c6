package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Delivery 回调投递记录实体
type Delivery struct {
	Id               uint64 `gorm:"primaryKey;autoIncrement"`
	ClientId         uint64
	OrderId          uint64
	EventType        string
	TargetUrl        string
	Payload          string
	Signature        string
	Status           string
	AttemptCount     int32
	MaxAttempts      int32
	NextRetryAt      int64
	LastStatusCode   int32
	LastResponseBody string
	LastError        string
	CreatedAt        int64
	UpdatedAt        int64
	CompletedAt      int64
}

func (Delivery) TableName() string {
	return "webhook_delivery"
}

type DeliveryDAO interface {
	Create(ctx context.Context, entity Delivery) (Delivery, error)
	GetById(ctx context.Context, id uint64) (Delivery, error)
	FindDue(ctx context.Context, now int64, batchSize int) ([]Delivery, error)
	FindRecentByClientId(ctx context.Context, clientId uint64, limit int) ([]Delivery, error)
	UpdateResult(ctx context.Context, entity Delivery) (bool, error)
	CountByStatusSince(ctx context.Context, since int64) (map[string]int64, error)
}

var _ DeliveryDAO = (*DefaultDeliveryDAO)(nil)

type DefaultDeliveryDAO struct {
	db *gorm.DB
}

func (d *DefaultDeliveryDAO) Create(ctx context.Context, entity Delivery) (Delivery, error) {
	now := time.Now().UnixMilli()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	err := d.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return Delivery{}, err
	}
	return entity, nil
}

func (d *DefaultDeliveryDAO) GetById(ctx context.Context, id uint64) (Delivery, error) {
	var entity Delivery
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return Delivery{}, err
	}
	return entity, nil
}

func (d *DefaultDeliveryDAO) FindDue(ctx context.Context, now int64, batchSize int) ([]Delivery, error) {
	var entities []Delivery
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", "retrying", now).
		Order("next_retry_at ASC").
		Limit(batchSize).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (d *DefaultDeliveryDAO) FindRecentByClientId(ctx context.Context, clientId uint64, limit int) ([]Delivery, error) {
	var entities []Delivery
	err := d.db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Order("id DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateResult 条件更新投递结果。
//
// 只允许从非终态（pending / retrying）出发迁移，竞态时后到的更新
// 影响行数为 0，调用方视为让步而不是错误。
func (d *DefaultDeliveryDAO) UpdateResult(ctx context.Context, entity Delivery) (bool, error) {
	res := d.db.WithContext(ctx).
		Model(&Delivery{}).
		Where("id = ? AND status IN ?", entity.Id, []string{"pending", "retrying"}).
		Updates(map[string]any{
			"status":             entity.Status,
			"attempt_count":      entity.AttemptCount,
			"next_retry_at":      entity.NextRetryAt,
			"last_status_code":   entity.LastStatusCode,
			"last_response_body": entity.LastResponseBody,
			"last_error":         entity.LastError,
			"completed_at":       entity.CompletedAt,
			"updated_at":         time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *DefaultDeliveryDAO) CountByStatusSince(ctx context.Context, since int64) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Cnt    int64
	}

	var rows []statusCount
	err := d.db.WithContext(ctx).
		Model(&Delivery{}).
		Select("status, COUNT(*) AS cnt").
		Where("created_at >= ?", since).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make(map[string]int64, len(rows))
	for _, row := range rows {
		res[row.Status] = row.Cnt
	}
	return res, nil
}

func NewDefaultDeliveryDAO(db *gorm.DB) *DefaultDeliveryDAO {
	return &DefaultDeliveryDAO{
		db: db,
	}
}
