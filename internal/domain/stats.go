package domain

import (
	"time"
)

// DeliveryStats 投递统计
//
// 按状态统计滚动窗口内的投递记录，供运营侧查看。
type DeliveryStats struct {
	WindowStart  time.Time                `json:"window_start"`
	Total        int64                    `json:"total"`
	StatusCounts map[DeliveryStatus]int64 `json:"status_counts"`
	SuccessRate  float64                  `json:"success_rate"`
}
