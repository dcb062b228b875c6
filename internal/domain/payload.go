package domain

import (
	"github.com/shopspring/decimal"
)

// PayloadVersion 回调报文结构版本号
const PayloadVersion = "1.0"

// CallbackPayload 版本化回调报文
//
// 每条投递记录只构建一次并冻结，重试不会重新构建，
// 保证实际签名内容与下发内容始终一致。
type CallbackPayload struct {
	Event       string        `json:"event"`
	OrderSn     string        `json:"order_sn,omitempty"`
	OrderId     uint64        `json:"order_id,omitempty"`
	OrderStatus string        `json:"order_status,omitempty"`
	ProcessedAt int64         `json:"processed_at"`
	Pricing     *PricingBlock `json:"pricing,omitempty"`
	Items       []PayloadItem `json:"items,omitempty"`
	Meta        PayloadMeta   `json:"meta"`
}

// PricingBlock 报文价格区块
//
// ProcessingFee = ProcessedTotal - OriginalTotal，
// 仅在两者同时存在时计算并下发。
type PricingBlock struct {
	OriginalTotal  decimal.Decimal  `json:"original_total"`
	ProcessedTotal *decimal.Decimal `json:"processed_total,omitempty"`
	ProcessingFee  *decimal.Decimal `json:"processing_fee,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// PayloadItem 报文订单条目
type PayloadItem struct {
	Id             uint64            `json:"id"`
	OriginalPrice  decimal.Decimal   `json:"original_price"`
	ProcessedPrice *decimal.Decimal  `json:"processed_price,omitempty"`
	Quantity       int32             `json:"quantity"`
	Status         string            `json:"status"`
	Verification   *ItemVerification `json:"verification,omitempty"`
}

// PayloadMeta 报文元信息
//
// DeliveryId 在整条投递链路内唯一，不随重试变化。
type PayloadMeta struct {
	DeliveryId string `json:"delivery_id"`
	Timestamp  int64  `json:"timestamp"`
	Version    string `json:"version"`
	Test       bool   `json:"test,omitempty"`
}
