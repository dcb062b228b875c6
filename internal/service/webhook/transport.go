package webhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// maxResponseBodyLen 诊断用响应体截断长度
	maxResponseBodyLen = 1000

	defaultSendTimeout = 30 * time.Second

	signatureHeader = "X-Webhook-Signature"
	userAgent       = "hookify-webhook/1.0"
)

var _ Transport = (*HttpTransport)(nil)

// HttpTransport 回调出站传输的 HTTP 实现
//
// POST JSON 报文，签名头格式 sha256=<hex>，强制超时，
// 2xx 视为成功，其余状态码与网络错误一律折叠为失败结果。
type HttpTransport struct {
	client  *http.Client
	timeout time.Duration
}

func (t *HttpTransport) Send(ctx context.Context, url string, payload []byte, sig string) Outcome {
	start := time.Now()

	sendCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Outcome{ErrText: "create request: " + err.Error(), Duration: time.Since(start)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, "sha256="+sig)
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return Outcome{ErrText: sendErrText(err), Duration: time.Since(start)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLen))
	outcome := Outcome{
		StatusCode:   int32(resp.StatusCode),
		ResponseBody: string(body),
		Duration:     time.Since(start),
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		outcome.Success = true
		return outcome
	}
	outcome.ErrText = "unexpected status: " + resp.Status
	return outcome
}

// sendErrText 把网络层错误归一化成诊断文本，超时统一报 "timeout"。
func sendErrText(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return err.Error()
}

func NewHttpTransport(timeout time.Duration) *HttpTransport {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &HttpTransport{
		client:  &http.Client{},
		timeout: timeout,
	}
}
