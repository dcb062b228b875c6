package webhook

import (
	"context"
	"time"
)

// Outcome 一次回调请求的归一化结果
//
// Transport 不向上抛网络异常，统一折叠成结构化结果。
type Outcome struct {
	Success      bool          `json:"success"`
	StatusCode   int32         `json:"status_code,omitempty"`
	ResponseBody string        `json:"response_body,omitempty"`
	ErrText      string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Transport 回调出站传输
type Transport interface {
	Send(ctx context.Context, url string, payload []byte, sig string) Outcome
}
