package domain

import (
	"time"
)

// DeliveryStatus 回调投递状态
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusSuccess   DeliveryStatus = "success"
	DeliveryStatusRetrying  DeliveryStatus = "retrying"
	DeliveryStatusAbandoned DeliveryStatus = "abandoned"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

// IsTerminal 终态记录不可再变更。
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusSuccess || s == DeliveryStatusAbandoned
}

// EventType 触发回调的订单事件类型
type EventType string

const (
	EventTypeCompleted     EventType = "completed"
	EventTypeFailed        EventType = "failed"
	EventTypeStatusChanged EventType = "status_changed"
)

func (e EventType) String() string {
	return string(e)
}

func (e EventType) Validate() bool {
	switch e {
	case EventTypeCompleted, EventTypeFailed, EventTypeStatusChanged:
		return true
	default:
		return false
	}
}

// CallbackEventName 回调报文中的事件名。
func (e EventType) CallbackEventName() string {
	return "order." + string(e)
}

// Delivery 回调投递记录领域对象
//
// 一条记录对应 (client, order, event) 的一次完整投递链路。
// Payload / Signature 创建后不再变更，重试时重发完全相同的内容。
type Delivery struct {
	Id       uint64
	ClientId uint64
	OrderId  uint64
	Event    EventType

	TargetUrl string
	Payload   string
	Signature string

	Status       DeliveryStatus
	AttemptCount int32
	MaxAttempts  int32
	NextRetryAt  time.Time

	LastStatusCode   int32
	LastResponseBody string
	LastError        string

	CreatedAt   time.Time
	CompletedAt time.Time
}
