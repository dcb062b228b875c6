package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单快照读模型
//
// 订单由 CRUD 层维护，本服务只读取构建回调报文所需的字段。
type Order struct {
	Id             uint64
	ClientId       uint64
	ExternalSn     string
	Status         string
	OriginalTotal  decimal.Decimal
	ProcessedTotal decimal.NullDecimal
	ProcessNotes   string
	ProcessedAt    time.Time
}

// OrderItem 订单条目读模型
type OrderItem struct {
	Id             uint64
	OrderId        uint64
	OriginalPrice  decimal.Decimal
	ProcessedPrice decimal.NullDecimal
	Quantity       int32
	Status         string
	Verification   *ItemVerification
}

// ItemVerification 条目级核价结果
//
// 由外部比价组件产出，存在时才随回调下发。
type ItemVerification struct {
	Verified    bool                `json:"verified"`
	ActualPrice decimal.NullDecimal `json:"actual_price"`
	InStock     bool                `json:"in_stock"`
	CheckedAt   int64               `json:"checked_at"`
	Note        string              `json:"note,omitempty"`
}
