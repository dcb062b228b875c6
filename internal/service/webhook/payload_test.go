package webhook

import (
	"testing"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadBuilder_Build(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700002000, 0)
	processedAt := time.Unix(1700000000, 0)

	newBuilder := func() *PayloadBuilder {
		return NewPayloadBuilderWithNow(func() time.Time { return now })
	}

	baseOrder := func() domain.Order {
		return domain.Order{
			Id:             100,
			ClientId:       1,
			ExternalSn:     "SN-100",
			Status:         "completed",
			OriginalTotal:  decimal.NewFromInt(120),
			ProcessedTotal: decimal.NewNullDecimal(decimal.NewFromInt(125)),
			ProcessNotes:   "substituted one item",
			ProcessedAt:    processedAt,
		}
	}

	t.Run("full order snapshot", func(t *testing.T) {
		t.Parallel()

		verification := &domain.ItemVerification{
			Verified:    true,
			ActualPrice: decimal.NewNullDecimal(decimal.NewFromInt(58)),
			InStock:     true,
			CheckedAt:   processedAt.Unix(),
		}
		items := []domain.OrderItem{
			{
				Id:             1001,
				OrderId:        100,
				OriginalPrice:  decimal.NewFromInt(60),
				ProcessedPrice: decimal.NewNullDecimal(decimal.NewFromInt(58)),
				Quantity:       2,
				Status:         "verified",
				Verification:   verification,
			},
			{
				Id:            1002,
				OrderId:       100,
				OriginalPrice: decimal.NewFromInt(5),
				Quantity:      1,
				Status:        "pending",
			},
		}

		payload := newBuilder().Build(baseOrder(), items, domain.EventTypeCompleted)

		assert.Equal(t, "order.completed", payload.Event)
		assert.Equal(t, "SN-100", payload.OrderSn)
		assert.Equal(t, uint64(100), payload.OrderId)
		assert.Equal(t, "completed", payload.OrderStatus)
		assert.Equal(t, processedAt.Unix(), payload.ProcessedAt)

		require.NotNil(t, payload.Pricing)
		assert.True(t, payload.Pricing.OriginalTotal.Equal(decimal.NewFromInt(120)))
		require.NotNil(t, payload.Pricing.ProcessedTotal)
		assert.True(t, payload.Pricing.ProcessedTotal.Equal(decimal.NewFromInt(125)))
		require.NotNil(t, payload.Pricing.ProcessingFee)
		assert.True(t, payload.Pricing.ProcessingFee.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "substituted one item", payload.Pricing.Notes)

		require.Len(t, payload.Items, 2)
		require.NotNil(t, payload.Items[0].ProcessedPrice)
		assert.True(t, payload.Items[0].ProcessedPrice.Equal(decimal.NewFromInt(58)))
		assert.Equal(t, verification, payload.Items[0].Verification)
		assert.Nil(t, payload.Items[1].ProcessedPrice)
		assert.Nil(t, payload.Items[1].Verification)

		assert.NotEmpty(t, payload.Meta.DeliveryId)
		assert.Equal(t, now.Unix(), payload.Meta.Timestamp)
		assert.Equal(t, domain.PayloadVersion, payload.Meta.Version)
		assert.False(t, payload.Meta.Test)
	})

	t.Run("fee omitted without processed total", func(t *testing.T) {
		t.Parallel()

		order := baseOrder()
		order.ProcessedTotal = decimal.NullDecimal{}

		payload := newBuilder().Build(order, nil, domain.EventTypeFailed)

		assert.Equal(t, "order.failed", payload.Event)
		require.NotNil(t, payload.Pricing)
		assert.Nil(t, payload.Pricing.ProcessedTotal)
		assert.Nil(t, payload.Pricing.ProcessingFee)
	})

	t.Run("processed_at falls back to now", func(t *testing.T) {
		t.Parallel()

		order := baseOrder()
		order.ProcessedAt = time.Time{}

		payload := newBuilder().Build(order, nil, domain.EventTypeStatusChanged)

		assert.Equal(t, now.Unix(), payload.ProcessedAt)
	})

	t.Run("missing order yields minimal payload", func(t *testing.T) {
		t.Parallel()

		payload := newBuilder().Build(domain.Order{}, nil, domain.EventTypeStatusChanged)

		assert.Equal(t, "order.status_changed", payload.Event)
		assert.Zero(t, payload.OrderId)
		assert.Empty(t, payload.OrderSn)
		assert.Nil(t, payload.Pricing)
		assert.Empty(t, payload.Items)
		assert.Equal(t, now.Unix(), payload.ProcessedAt)
		assert.NotEmpty(t, payload.Meta.DeliveryId)
	})

	t.Run("delivery id unique per build", func(t *testing.T) {
		t.Parallel()

		builder := newBuilder()
		first := builder.Build(baseOrder(), nil, domain.EventTypeCompleted)
		second := builder.Build(baseOrder(), nil, domain.EventTypeCompleted)

		assert.NotEqual(t, first.Meta.DeliveryId, second.Meta.DeliveryId)
	})
}

func TestPayloadBuilder_BuildTest(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700002000, 0)
	payload := NewPayloadBuilderWithNow(func() time.Time { return now }).BuildTest()

	assert.Equal(t, "test", payload.Event)
	assert.True(t, payload.Meta.Test)
	assert.Equal(t, now.Unix(), payload.ProcessedAt)
	assert.Zero(t, payload.OrderId)
	assert.Nil(t, payload.Pricing)
	assert.Equal(t, domain.PayloadVersion, payload.Meta.Version)
}
