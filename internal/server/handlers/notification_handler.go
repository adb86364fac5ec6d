package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// Notifier sends report summaries.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// NotificationHandler pushes report summaries on demand.
type NotificationHandler struct {
	svc    Notifier
	logger *zap.Logger
}

// NewNotificationHandler constructs the HTTP handler adapter. A nil svc
// answers 503: the WhatsApp integration is not configured.
func NewNotificationHandler(svc Notifier, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{svc: svc, logger: logger}
}

// SendReport computes a balance and sends its summary over WhatsApp.
func (h *NotificationHandler) SendReport(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "notifications are disabled"})
		return
	}

	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		if models.IsDomainError(err) {
			writeError(c, h.logger, err)
			return
		}
		h.logger.Error("failed sending report summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "unable to send message", RequestID: c.GetString(RequestIDKey)})
		return
	}

	c.Status(http.StatusAccepted)
}
