package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/service/bookkeeping"
)

// Bookkeeping records services and expenses.
type Bookkeeping interface {
	CreateService(ctx context.Context, draft models.ServiceDraft) (bookkeeping.ServiceResult, error)
	UpdateService(ctx context.Context, id int64, draft models.ServiceDraft) (bookkeeping.ServiceResult, error)
	DeleteServices(ctx context.Context, ids []int64) (int64, error)

	CreateExpense(ctx context.Context, rec models.ExpenseRecord) (models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, rec models.ExpenseRecord) (models.Expense, error)
	BulkUpdateExpenses(ctx context.Context, ids []int64, field, value string) (int64, error)
	DeleteExpenses(ctx context.Context, ids []int64) (int64, error)
}

// BookkeepingHandler exposes the write paths over HTTP.
type BookkeepingHandler struct {
	svc    Bookkeeping
	logger *zap.Logger
}

// NewBookkeepingHandler constructs the HTTP handler adapter.
func NewBookkeepingHandler(svc Bookkeeping, logger *zap.Logger) *BookkeepingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookkeepingHandler{svc: svc, logger: logger}
}

type serviceResponse struct {
	Service     models.Service         `json:"service"`
	Commissions []models.ExpenseRecord `json:"commissions"`
}

func newServiceResponse(res bookkeeping.ServiceResult) serviceResponse {
	out := serviceResponse{Service: finance.RoundService(res.Service), Commissions: make([]models.ExpenseRecord, 0, len(res.Commissions))}
	for _, c := range res.Commissions {
		out.Commissions = append(out.Commissions, finance.RoundExpenseRecord(models.FlattenExpense(c)))
	}
	return out
}

func (h *BookkeepingHandler) CreateService(c *gin.Context) {
	var draft models.ServiceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	res, err := h.svc.CreateService(c.Request.Context(), draft)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newServiceResponse(res))
}

func (h *BookkeepingHandler) UpdateService(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var draft models.ServiceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	res, err := h.svc.UpdateService(c.Request.Context(), id, draft)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newServiceResponse(res))
}

// DeleteServices removes the services in the body and their expenses.
func (h *BookkeepingHandler) DeleteServices(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	n, err := h.svc.DeleteServices(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, affectedResponse{Affected: n})
}

func (h *BookkeepingHandler) CreateExpense(c *gin.Context) {
	var rec models.ExpenseRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	e, err := h.svc.CreateExpense(c.Request.Context(), rec)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, finance.RoundExpenseRecord(models.FlattenExpense(e)))
}

func (h *BookkeepingHandler) UpdateExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var rec models.ExpenseRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	e, err := h.svc.UpdateExpense(c.Request.Context(), id, rec)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, finance.RoundExpenseRecord(models.FlattenExpense(e)))
}

// BulkUpdateExpenses sets one field on every expense in the body.
func (h *BookkeepingHandler) BulkUpdateExpenses(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	n, err := h.svc.BulkUpdateExpenses(c.Request.Context(), req.IDs, req.Field, req.Value)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, affectedResponse{Affected: n})
}

func (h *BookkeepingHandler) DeleteExpenses(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	n, err := h.svc.DeleteExpenses(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, affectedResponse{Affected: n})
}
