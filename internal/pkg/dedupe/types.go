package dedupe

import (
	"context"
	"fmt"
)

// Strategy 触发去重策略
//
// 上游订单事件可能重复触发，同一 (client, order, event) 在去重窗口内
// 只允许创建一条投递链路。
type Strategy interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// TriggerKey 构造触发去重 key。
func TriggerKey(clientId, orderId uint64, event string) string {
	return fmt.Sprintf("%d:%d:%s", clientId, orderId, event)
}
