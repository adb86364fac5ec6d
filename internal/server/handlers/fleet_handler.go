package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// Registry manages aircraft, employees and safras.
type Registry interface {
	RegisterAircraft(ctx context.Context, a models.Aircraft) (models.Aircraft, error)
	Aircraft(ctx context.Context, id int64) (models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
	UpdateAircraft(ctx context.Context, id int64, a models.Aircraft) (models.Aircraft, error)
	DeleteAircraft(ctx context.Context, id int64) error

	RegisterEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	Employee(ctx context.Context, id int64) (models.Employee, error)
	ListEmployees(ctx context.Context, role models.EmployeeRole) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, e models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error

	CreateSafra(ctx context.Context, sf models.Safra) (models.Safra, error)
	Safra(ctx context.Context, id int64) (models.Safra, error)
	ListSafras(ctx context.Context) ([]models.Safra, error)
	UpdateSafra(ctx context.Context, id int64, sf models.Safra) (models.Safra, error)
	DeleteSafra(ctx context.Context, id int64) error
}

// FleetHandler exposes the registry over HTTP.
type FleetHandler struct {
	svc    Registry
	logger *zap.Logger
}

// NewFleetHandler constructs the HTTP handler adapter.
func NewFleetHandler(svc Registry, logger *zap.Logger) *FleetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetHandler{svc: svc, logger: logger}
}

func (h *FleetHandler) CreateAircraft(c *gin.Context) {
	var req models.Aircraft
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	created, err := h.svc.RegisterAircraft(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FleetHandler) GetAircraft(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	a, err := h.svc.Aircraft(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *FleetHandler) ListAircraft(c *gin.Context) {
	list, err := h.svc.ListAircraft(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FleetHandler) UpdateAircraft(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req models.Aircraft
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateAircraft(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FleetHandler) DeleteAircraft(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteAircraft(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) CreateEmployee(c *gin.Context) {
	var req models.Employee
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	created, err := h.svc.RegisterEmployee(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FleetHandler) GetEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	e, err := h.svc.Employee(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListEmployees lists every employee, or those of ?role= only.
func (h *FleetHandler) ListEmployees(c *gin.Context) {
	list, err := h.svc.ListEmployees(c.Request.Context(), models.EmployeeRole(c.Query("role")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FleetHandler) UpdateEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req models.Employee
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FleetHandler) DeleteEmployee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) CreateSafra(c *gin.Context) {
	var req models.Safra
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateSafra(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FleetHandler) GetSafra(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	sf, err := h.svc.Safra(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sf)
}

func (h *FleetHandler) ListSafras(c *gin.Context) {
	list, err := h.svc.ListSafras(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FleetHandler) UpdateSafra(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req models.Safra
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateSafra(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FleetHandler) DeleteSafra(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteSafra(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
