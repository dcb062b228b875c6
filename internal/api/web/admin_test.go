package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/service/webhook"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWebhookSvc struct {
	deliverFn func(ctx context.Context, clientId, orderId uint64, event domain.EventType) (domain.Delivery, error)
	attemptFn func(ctx context.Context, deliveryId uint64) (domain.Delivery, error)
	testFn    func(ctx context.Context, clientId uint64) (webhook.Outcome, error)
	getFn     func(ctx context.Context, deliveryId uint64) (domain.Delivery, error)
}

func (s *stubWebhookSvc) Deliver(ctx context.Context, clientId, orderId uint64, event domain.EventType) (domain.Delivery, error) {
	return s.deliverFn(ctx, clientId, orderId, event)
}

func (s *stubWebhookSvc) Attempt(ctx context.Context, deliveryId uint64) (domain.Delivery, error) {
	return s.attemptFn(ctx, deliveryId)
}

func (s *stubWebhookSvc) TestEndpoint(ctx context.Context, clientId uint64) (webhook.Outcome, error) {
	return s.testFn(ctx, clientId)
}

func (s *stubWebhookSvc) GetDelivery(ctx context.Context, deliveryId uint64) (domain.Delivery, error) {
	return s.getFn(ctx, deliveryId)
}

func (s *stubWebhookSvc) Stats(_ context.Context, _ time.Duration) (domain.DeliveryStats, error) {
	return domain.DeliveryStats{Total: 2, SuccessRate: 0.5}, nil
}

func (s *stubWebhookSvc) RecentByClient(_ context.Context, clientId uint64, _ int) ([]domain.Delivery, error) {
	return []domain.Delivery{{Id: 1, ClientId: clientId}}, nil
}

type stubSweepSvc struct {
	cnt int
	err error
}

func (s *stubSweepSvc) Sweep(_ context.Context) (int, error) {
	return s.cnt, s.err
}

type stubSecretSvc struct{}

func (s *stubSecretSvc) GetOrCreate(_ context.Context, clientId uint64) (domain.ClientSecret, error) {
	return domain.ClientSecret{ClientId: clientId, Value: "secret"}, nil
}

func (s *stubSecretSvc) Regenerate(_ context.Context, clientId uint64) (domain.ClientSecret, error) {
	return domain.ClientSecret{ClientId: clientId, Value: "rotated", CreatedAt: time.Now()}, nil
}

type stubLimiter struct {
	allow bool
}

func (l *stubLimiter) Allow(_ string) bool {
	return l.allow
}

func newTestEngine(webhookSvc webhook.Service, sweepSvc webhook.SweepService, allow bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	handler := NewAdminHandler(webhookSvc, sweepSvc, &stubSecretSvc{}, &stubLimiter{allow: allow}, zap.NewNop())
	handler.RegisterRoutes(engine)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestAdminHandler_TriggerDelivery(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		body     any
		svcErr   error
		allow    bool
		wantCode int
	}{
		{
			name:     "ok",
			body:     gin.H{"client_id": 1, "order_id": 100, "event": "completed"},
			allow:    true,
			wantCode: http.StatusOK,
		},
		{
			name:     "missing client_id",
			body:     gin.H{"event": "completed"},
			allow:    true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rate limited",
			body:     gin.H{"client_id": 1, "event": "completed"},
			allow:    false,
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:     "client not found",
			body:     gin.H{"client_id": 404, "event": "completed"},
			svcErr:   errs.ErrClientNotFound,
			allow:    true,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "callback disabled",
			body:     gin.H{"client_id": 2, "event": "completed"},
			svcErr:   errs.ErrCallbackDisabled,
			allow:    true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "duplicate trigger",
			body:     gin.H{"client_id": 1, "event": "completed"},
			svcErr:   errs.ErrDuplicateTrigger,
			allow:    true,
			wantCode: http.StatusConflict,
		},
		{
			name:     "internal error",
			body:     gin.H{"client_id": 1, "event": "completed"},
			svcErr:   fmt.Errorf("db down"),
			allow:    true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubWebhookSvc{
				deliverFn: func(_ context.Context, clientId, orderId uint64, event domain.EventType) (domain.Delivery, error) {
					if tc.svcErr != nil {
						return domain.Delivery{}, fmt.Errorf("wrapped: %w", tc.svcErr)
					}
					return domain.Delivery{Id: 1, ClientId: clientId, OrderId: orderId, Event: event, Status: domain.DeliveryStatusSuccess}, nil
				},
			}
			engine := newTestEngine(svc, &stubSweepSvc{}, tc.allow)

			recorder := doRequest(t, engine, http.MethodPost, "/api/v1/deliveries", tc.body)
			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}

func TestAdminHandler_GetDelivery(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		svc := &stubWebhookSvc{
			getFn: func(_ context.Context, deliveryId uint64) (domain.Delivery, error) {
				return domain.Delivery{Id: deliveryId, Status: domain.DeliveryStatusSuccess}, nil
			},
		}
		engine := newTestEngine(svc, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries/7", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var res Result
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		assert.Zero(t, res.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc := &stubWebhookSvc{
			getFn: func(_ context.Context, deliveryId uint64) (domain.Delivery, error) {
				return domain.Delivery{}, fmt.Errorf("%w: id = %d", errs.ErrDeliveryNotFound, deliveryId)
			},
		}
		engine := newTestEngine(svc, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries/404", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries/abc", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAdminHandler_RetryDelivery(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookSvc{
		attemptFn: func(_ context.Context, deliveryId uint64) (domain.Delivery, error) {
			return domain.Delivery{Id: deliveryId, Status: domain.DeliveryStatusSuccess, AttemptCount: 2}, nil
		},
	}
	engine := newTestEngine(svc, &stubSweepSvc{}, true)

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/deliveries/7/retry", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAdminHandler_RunSweep(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{cnt: 5}, true)

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/sweep", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"due_count":5`)
}

func TestAdminHandler_DeliveryStats(t *testing.T) {
	t.Parallel()

	t.Run("default window", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries/stats", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("invalid window", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries/stats?window=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAdminHandler_RegenerateSecret(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/clients/1/secret/regenerate", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "rotated")
}

func TestAdminHandler_TestEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		svc := &stubWebhookSvc{
			testFn: func(_ context.Context, _ uint64) (webhook.Outcome, error) {
				return webhook.Outcome{Success: true, StatusCode: 200}, nil
			},
		}
		engine := newTestEngine(svc, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodPost, "/api/v1/clients/1/test", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, false)

		recorder := doRequest(t, engine, http.MethodPost, "/api/v1/clients/1/test", nil)
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	})
}

func TestAdminHandler_ListDeliveries(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries?client_id=1&limit=5", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing client_id", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(&stubWebhookSvc{}, &stubSweepSvc{}, true)

		recorder := doRequest(t, engine, http.MethodGet, "/api/v1/deliveries", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
