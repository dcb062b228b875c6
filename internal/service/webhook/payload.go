package webhook

import (
	"time"

	"github.com/JrMarcco/easy-kit/slice"
	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/google/uuid"
)

// PayloadBuilder 回调报文构建器
//
// 每条投递记录只构建一次，构建结果随记录冻结。
type PayloadBuilder struct {
	now func() time.Time
}

func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{
		now: time.Now,
	}
}

// NewPayloadBuilderWithNow 注入时钟，测试用。
func NewPayloadBuilderWithNow(now func() time.Time) *PayloadBuilder {
	return &PayloadBuilder{
		now: now,
	}
}

// Build 从订单快照构建版本化回调报文。
func (b *PayloadBuilder) Build(order domain.Order, items []domain.OrderItem, event domain.EventType) domain.CallbackPayload {
	now := b.now()

	// 无订单触发（如纯状态通知）只下发事件与元信息
	if order.Id == 0 {
		return domain.CallbackPayload{
			Event:       event.CallbackEventName(),
			ProcessedAt: now.Unix(),
			Meta:        b.buildMeta(now, false),
		}
	}

	// 订单尚未处理完成时回退为当前时间，保证报文始终携带时间戳
	processedAt := order.ProcessedAt
	if processedAt.IsZero() {
		processedAt = now
	}

	return domain.CallbackPayload{
		Event:       event.CallbackEventName(),
		OrderSn:     order.ExternalSn,
		OrderId:     order.Id,
		OrderStatus: order.Status,
		ProcessedAt: processedAt.Unix(),
		Pricing:     b.buildPricing(order),
		Items: slice.Map(items, func(_ int, src domain.OrderItem) domain.PayloadItem {
			return b.buildItem(src)
		}),
		Meta: b.buildMeta(now, false),
	}
}

// BuildTest 构建连通性探测用报文，明确标记为测试。
func (b *PayloadBuilder) BuildTest() domain.CallbackPayload {
	now := b.now()
	return domain.CallbackPayload{
		Event:       "test",
		ProcessedAt: now.Unix(),
		Meta:        b.buildMeta(now, true),
	}
}

func (b *PayloadBuilder) buildPricing(order domain.Order) *domain.PricingBlock {
	block := &domain.PricingBlock{
		OriginalTotal: order.OriginalTotal,
		Notes:         order.ProcessNotes,
	}
	if order.ProcessedTotal.Valid {
		processed := order.ProcessedTotal.Decimal
		block.ProcessedTotal = &processed

		// 手续费 = 实付 - 原价，只在两边都有值时派生
		fee := processed.Sub(order.OriginalTotal)
		block.ProcessingFee = &fee
	}
	return block
}

func (b *PayloadBuilder) buildItem(item domain.OrderItem) domain.PayloadItem {
	pi := domain.PayloadItem{
		Id:            item.Id,
		OriginalPrice: item.OriginalPrice,
		Quantity:      item.Quantity,
		Status:        item.Status,
		Verification:  item.Verification,
	}
	if item.ProcessedPrice.Valid {
		processed := item.ProcessedPrice.Decimal
		pi.ProcessedPrice = &processed
	}
	return pi
}

func (b *PayloadBuilder) buildMeta(now time.Time, test bool) domain.PayloadMeta {
	return domain.PayloadMeta{
		DeliveryId: uuid.NewString(),
		Timestamp:  now.Unix(),
		Version:    domain.PayloadVersion,
		Test:       test,
	}
}
