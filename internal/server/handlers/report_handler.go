package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/service/reporting"
)

// Reports serves the read side.
type Reports interface {
	ResolveRange(ctx context.Context, start, end string, safraID *int64) (models.DateRange, error)
	Balance(ctx context.Context, r models.DateRange, aircraftID *int64) (finance.BalanceReport, error)
	AircraftReport(ctx context.Context, aircraftID int64, r models.DateRange) (finance.AircraftReport, error)
	CategoryBreakdown(ctx context.Context, r models.DateRange) (finance.CategoryBreakdown, error)
	CommissionsByEmployee(ctx context.Context, r models.DateRange) ([]finance.EmployeeTotal, error)
	Dashboard(ctx context.Context, r models.DateRange) (reporting.Dashboard, error)
	CurrentMonth(ctx context.Context) (finance.PeriodResult, error)
	Snapshots(ctx context.Context, limit int64) ([]models.ReportSnapshot, error)
	ListServices(ctx context.Context, q reporting.ListQuery) (reporting.Page[reporting.ServiceView], error)
	ListExpenses(ctx context.Context, q reporting.ListQuery) (reporting.Page[reporting.ExpenseView], error)
}

// ReportHandler exposes reports and listings over HTTP.
type ReportHandler struct {
	svc    Reports
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc Reports, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// queryRange reads start/end or safra_id from the query string.
func (h *ReportHandler) queryRange(c *gin.Context) (models.DateRange, error) {
	safraID, err := queryID(c, "safra_id")
	if err != nil {
		return models.DateRange{}, err
	}
	return h.svc.ResolveRange(c.Request.Context(), c.Query("start"), c.Query("end"), safraID)
}

// optionalRange is queryRange for listings, where the window is optional.
func (h *ReportHandler) optionalRange(c *gin.Context) (*models.DateRange, error) {
	if c.Query("start") == "" && c.Query("end") == "" && c.Query("safra_id") == "" {
		return nil, nil
	}
	r, err := h.queryRange(c)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (h *ReportHandler) writeBalance(c *gin.Context, r models.DateRange) {
	aircraftID, err := queryID(c, "aircraft_id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	report, err := h.svc.Balance(c.Request.Context(), r, aircraftID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report.Rounded())
}

// Balance serves GET /reports/balance?start=&end=[&aircraft_id=].
func (h *ReportHandler) Balance(c *gin.Context) {
	r, err := h.queryRange(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.writeBalance(c, r)
}

// BalanceByPath serves the legacy GET /reports/balance/:start/:end form with
// dd_MM_yyyy segments.
func (h *ReportHandler) BalanceByPath(c *gin.Context) {
	r, err := models.ParseDateRange(c.Param("start"), c.Param("end"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.writeBalance(c, r)
}

func (h *ReportHandler) AircraftReport(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	r, err := h.queryRange(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	report, err := h.svc.AircraftReport(c.Request.Context(), id, r)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report.Rounded())
}

func (h *ReportHandler) CategoryBreakdown(c *gin.Context) {
	r, err := h.queryRange(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	breakdown, err := h.svc.CategoryBreakdown(c.Request.Context(), r)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown.Rounded())
}

func (h *ReportHandler) CommissionsByEmployee(c *gin.Context) {
	r, err := h.queryRange(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	totals, err := h.svc.CommissionsByEmployee(c.Request.Context(), r)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, finance.RoundEmployeeTotals(totals))
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	r, err := h.queryRange(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	dash, err := h.svc.Dashboard(c.Request.Context(), r)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash.Rounded())
}

func (h *ReportHandler) CurrentMonth(c *gin.Context) {
	result, err := h.svc.CurrentMonth(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result.Rounded())
}

func (h *ReportHandler) Snapshots(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if limit == 0 {
		limit = 20
	}
	snaps, err := h.svc.Snapshots(c.Request.Context(), int64(limit))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

func (h *ReportHandler) listQuery(c *gin.Context) (reporting.ListQuery, error) {
	var (
		q   reporting.ListQuery
		err error
	)
	if q.Range, err = h.optionalRange(c); err != nil {
		return q, err
	}
	if q.AircraftID, err = queryID(c, "aircraft_id"); err != nil {
		return q, err
	}
	if q.EmployeeID, err = queryID(c, "employee_id"); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(c, "offset"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}
	q.Origin = models.Origin(c.Query("origin"))
	q.Search = c.Query("q")
	q.Filters = fieldFilters(c.Request.URL.Query())
	return q, nil
}

// ListServices serves GET /services with field filters as query parameters.
func (h *ReportHandler) ListServices(c *gin.Context) {
	q, err := h.listQuery(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListServices(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	for i := range page.Items {
		page.Items[i].Service = finance.RoundService(page.Items[i].Service)
	}
	c.JSON(http.StatusOK, page)
}

// ListExpenses serves GET /expenses; ?origin= narrows to one expense list.
func (h *ReportHandler) ListExpenses(c *gin.Context) {
	q, err := h.listQuery(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListExpenses(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	for i := range page.Items {
		page.Items[i].ExpenseRecord = finance.RoundExpenseRecord(page.Items[i].ExpenseRecord)
	}
	c.JSON(http.StatusOK, page)
}
