package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Fleet         *handlers.FleetHandler
	Bookkeeping   *handlers.BookkeepingHandler
	Reports       *handlers.ReportHandler
	Notifications *handlers.NotificationHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, mode string, logger *zap.Logger) *gin.Engine {
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	handlers.SetupValidator()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	aircraft := r.Group("/aircraft")
	aircraft.GET("", h.Fleet.ListAircraft)
	aircraft.POST("", h.Fleet.CreateAircraft)
	aircraft.GET("/:id", h.Fleet.GetAircraft)
	aircraft.PUT("/:id", h.Fleet.UpdateAircraft)
	aircraft.DELETE("/:id", h.Fleet.DeleteAircraft)

	employees := r.Group("/employees")
	employees.GET("", h.Fleet.ListEmployees)
	employees.POST("", h.Fleet.CreateEmployee)
	employees.GET("/:id", h.Fleet.GetEmployee)
	employees.PUT("/:id", h.Fleet.UpdateEmployee)
	employees.DELETE("/:id", h.Fleet.DeleteEmployee)

	safras := r.Group("/safras")
	safras.GET("", h.Fleet.ListSafras)
	safras.POST("", h.Fleet.CreateSafra)
	safras.GET("/:id", h.Fleet.GetSafra)
	safras.PUT("/:id", h.Fleet.UpdateSafra)
	safras.DELETE("/:id", h.Fleet.DeleteSafra)

	services := r.Group("/services")
	services.GET("", h.Reports.ListServices)
	services.POST("", h.Bookkeeping.CreateService)
	services.PUT("/:id", h.Bookkeeping.UpdateService)
	services.DELETE("", h.Bookkeeping.DeleteServices)

	expenses := r.Group("/expenses")
	expenses.GET("", h.Reports.ListExpenses)
	expenses.POST("", h.Bookkeeping.CreateExpense)
	expenses.PUT("/:id", h.Bookkeeping.UpdateExpense)
	expenses.DELETE("", h.Bookkeeping.DeleteExpenses)
	expenses.POST("/bulk-update", h.Bookkeeping.BulkUpdateExpenses)

	reports := r.Group("/reports")
	reports.GET("/balance", h.Reports.Balance)
	reports.GET("/balance/:start/:end", h.Reports.BalanceByPath)
	reports.GET("/aircraft/:id", h.Reports.AircraftReport)
	reports.GET("/breakdown", h.Reports.CategoryBreakdown)
	reports.GET("/commissions", h.Reports.CommissionsByEmployee)
	reports.GET("/dashboard", h.Reports.Dashboard)
	reports.GET("/current-month", h.Reports.CurrentMonth)
	reports.GET("/snapshots", h.Reports.Snapshots)

	r.POST("/notifications/report", h.Notifications.SendReport)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(handlers.RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, id)
		c.Header(handlers.RequestIDKey, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(handlers.RequestIDKey)))
	}
}
