package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/pkg/ratelimit"
	"github.com/JrMarcco/hookify/internal/service/secret"
	"github.com/JrMarcco/hookify/internal/service/webhook"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRecentLimit = 20

// AdminHandler 运维操作接口
//
// 面向内部运营后台：手动触发投递、按 id 立即重试、跑一轮扫描、
// 查询投递统计、轮换客户密钥、探测客户回调地址。
// 鉴权由上游网关处理，这里不做。
type AdminHandler struct {
	webhookSvc webhook.Service
	sweepSvc   webhook.SweepService
	secretSvc  secret.Service
	limiter    ratelimit.Limiter
	logger     *zap.Logger
}

func (h *AdminHandler) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/v1")

	group.POST("/deliveries", h.TriggerDelivery)
	group.GET("/deliveries", h.ListDeliveries)
	group.GET("/deliveries/stats", h.DeliveryStats)
	group.GET("/deliveries/:id", h.GetDelivery)
	group.POST("/deliveries/:id/retry", h.RetryDelivery)
	group.POST("/sweep", h.RunSweep)
	group.POST("/clients/:id/secret/regenerate", h.RegenerateSecret)
	group.POST("/clients/:id/test", h.TestEndpoint)
}

type triggerDeliveryReq struct {
	ClientId uint64 `json:"client_id" binding:"required"`
	OrderId  uint64 `json:"order_id"`
	Event    string `json:"event" binding:"required"`
}

func (h *AdminHandler) TriggerDelivery(c *gin.Context) {
	var req triggerDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResult(http.StatusBadRequest, err.Error()))
		return
	}

	if !h.allow(c, fmt.Sprintf("trigger:%d", req.ClientId)) {
		return
	}

	d, err := h.webhookSvc.Deliver(c.Request.Context(), req.ClientId, req.OrderId, domain.EventType(req.Event))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(d))
}

func (h *AdminHandler) GetDelivery(c *gin.Context) {
	id, ok := h.pathId(c)
	if !ok {
		return
	}

	d, err := h.webhookSvc.GetDelivery(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(d))
}

func (h *AdminHandler) RetryDelivery(c *gin.Context) {
	id, ok := h.pathId(c)
	if !ok {
		return
	}

	if !h.allow(c, fmt.Sprintf("retry:%d", id)) {
		return
	}

	d, err := h.webhookSvc.Attempt(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(d))
}

func (h *AdminHandler) ListDeliveries(c *gin.Context) {
	clientId, err := strconv.ParseUint(c.Query("client_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResult(http.StatusBadRequest, "invalid client_id"))
		return
	}

	limit := defaultRecentLimit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, parseErr := strconv.Atoi(rawLimit); parseErr == nil && parsed > 0 {
			limit = parsed
		}
	}

	ds, err := h.webhookSvc.RecentByClient(c.Request.Context(), clientId, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(ds))
}

func (h *AdminHandler) DeliveryStats(c *gin.Context) {
	window := 24 * time.Hour
	if rawWindow := c.Query("window"); rawWindow != "" {
		parsed, err := time.ParseDuration(rawWindow)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorResult(http.StatusBadRequest, "invalid window"))
			return
		}
		window = parsed
	}

	stats, err := h.webhookSvc.Stats(c.Request.Context(), window)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(stats))
}

func (h *AdminHandler) RunSweep(c *gin.Context) {
	cnt, err := h.sweepSvc.Sweep(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(gin.H{"due_count": cnt}))
}

func (h *AdminHandler) RegenerateSecret(c *gin.Context) {
	clientId, ok := h.pathId(c)
	if !ok {
		return
	}

	cs, err := h.secretSvc.Regenerate(c.Request.Context(), clientId)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// 密钥值只在轮换响应中出现一次，用于客户侧换签
	c.JSON(http.StatusOK, successResult(gin.H{
		"client_id":  cs.ClientId,
		"secret":     cs.Value,
		"created_at": cs.CreatedAt.UnixMilli(),
	}))
}

func (h *AdminHandler) TestEndpoint(c *gin.Context) {
	clientId, ok := h.pathId(c)
	if !ok {
		return
	}

	if !h.allow(c, fmt.Sprintf("test:%d", clientId)) {
		return
	}

	outcome, err := h.webhookSvc.TestEndpoint(c.Request.Context(), clientId)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResult(gin.H{
		"success":       outcome.Success,
		"status_code":   outcome.StatusCode,
		"response_body": outcome.ResponseBody,
		"error":         outcome.ErrText,
		"duration_ms":   outcome.Duration.Milliseconds(),
	}))
}

func (h *AdminHandler) pathId(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResult(http.StatusBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) allow(c *gin.Context, key string) bool {
	if h.limiter.Allow(key) {
		return true
	}
	c.JSON(http.StatusTooManyRequests, errorResult(http.StatusTooManyRequests, errs.ErrRateLimited.Error()))
	return false
}

func (h *AdminHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrClientNotFound),
		errors.Is(err, errs.ErrOrderNotFound),
		errors.Is(err, errs.ErrDeliveryNotFound):
		c.JSON(http.StatusNotFound, errorResult(http.StatusNotFound, err.Error()))
	case errors.Is(err, errs.ErrCallbackDisabled),
		errors.Is(err, errs.ErrInvalidCallbackUrl),
		errors.Is(err, errs.ErrInvalidEventType),
		errors.Is(err, errs.ErrInvalidParam):
		c.JSON(http.StatusBadRequest, errorResult(http.StatusBadRequest, err.Error()))
	case errors.Is(err, errs.ErrDuplicateTrigger):
		c.JSON(http.StatusConflict, errorResult(http.StatusConflict, err.Error()))
	default:
		h.logger.Error("[hookify] admin api internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResult(http.StatusInternalServerError, "internal error"))
	}
}

func NewAdminHandler(
	webhookSvc webhook.Service,
	sweepSvc webhook.SweepService,
	secretSvc secret.Service,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		webhookSvc: webhookSvc,
		sweepSvc:   sweepSvc,
		secretSvc:  secretSvc,
		limiter:    limiter,
		logger:     logger,
	}
}
