package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/repository/memory"
	"github.com/mamadbah2/aeroagri/internal/server/handlers"
	"github.com/mamadbah2/aeroagri/internal/service/bookkeeping"
	"github.com/mamadbah2/aeroagri/internal/service/registry"
	"github.com/mamadbah2/aeroagri/internal/service/reporting"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := memory.New()
	return New(Handlers{
		Fleet:         handlers.NewFleetHandler(registry.NewService(store, nil), nil),
		Bookkeeping:   handlers.NewBookkeepingHandler(bookkeeping.NewService(store, nil), nil),
		Reports:       handlers.NewReportHandler(reporting.NewService(store, nil), nil),
		Notifications: handlers.NewNotificationHandler(nil, nil),
	}, gin.TestMode, nil)
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func seed(t *testing.T, engine *gin.Engine) {
	t.Helper()
	w := do(t, engine, http.MethodPost, "/aircraft", map[string]any{"registration": "pr-abc", "brand": "Cessna", "model": "188"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, engine, http.MethodPost, "/employees", map[string]any{"name": "Ana", "role": "Piloto"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, engine, http.MethodPost, "/services", map[string]any{
		"start_date":           "2024-03-05",
		"requester":            "Fazenda Boa Vista",
		"area_name":            "Talhão 4",
		"hectares":             "100",
		"total_price":          "50000",
		"flight_time":          "10:00",
		"aircraft_id":          1,
		"pilot_id":             1,
		"pilot_commission_pct": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthzAndRequestID(t *testing.T) {
	engine := newEngine(t)

	w := do(t, engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(handlers.RequestIDKey))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(handlers.RequestIDKey, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(handlers.RequestIDKey))
}

func TestCreateAircraftNormalizesRegistration(t *testing.T) {
	engine := newEngine(t)

	w := do(t, engine, http.MethodPost, "/aircraft", map[string]any{"registration": " pr-abc ", "brand": "Cessna", "model": "188"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "PR-ABC", decode[models.Aircraft](t, w).Registration)

	w = do(t, engine, http.MethodPost, "/aircraft", map[string]any{"registration": "PR-ABC", "brand": "Cessna", "model": "188"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBindingErrorsNameJSONFields(t *testing.T) {
	engine := newEngine(t)

	w := do(t, engine, http.MethodPost, "/aircraft", map[string]any{"registration": "PR-ABC", "model": "188"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Fields []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"fields"`
	}](t, w)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "brand", body.Fields[0].Field)
	assert.Equal(t, "required", body.Fields[0].Rule)
}

func TestServiceLifecycleThroughReports(t *testing.T) {
	engine := newEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodGet, "/reports/balance?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	balance := decode[finance.BalanceReport](t, w)
	assert.True(t, balance.GrossRevenue.Equal(decimal.NewFromInt(50000)))
	assert.True(t, balance.TotalExpenses.Equal(decimal.NewFromInt(5000)))
	assert.True(t, balance.NetProfit.Equal(decimal.NewFromInt(45000)))

	w = do(t, engine, http.MethodGet, "/reports/balance/01_03_2024/31_03_2024?aircraft_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[finance.BalanceReport](t, w).NetProfit.Equal(decimal.NewFromInt(45000)))

	w = do(t, engine, http.MethodGet, "/reports/aircraft/1?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[finance.AircraftReport](t, w)
	assert.Equal(t, "PR-ABC-188-Cessna", report.AircraftName)
	assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(45000)))

	w = do(t, engine, http.MethodGet, "/services?requester=boa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[reporting.Page[reporting.ServiceView]](t, w).Total)

	w = do(t, engine, http.MethodGet, "/services?requester=santa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[reporting.Page[reporting.ServiceView]](t, w).Total)

	w = do(t, engine, http.MethodGet, "/expenses?origin=Comiss%C3%A3o%20do%20Funcion%C3%A1rio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	expenses := decode[reporting.Page[reporting.ExpenseView]](t, w)
	require.Len(t, expenses.Items, 1)
	assert.Equal(t, "Ana - Piloto", expenses.Items[0].EmployeeName)

	w = do(t, engine, http.MethodPost, "/expenses/bulk-update", map[string]any{"ids": []int64{expenses.Items[0].ID}, "field": "payment_status", "value": "Pago"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(1), decode[struct {
		Affected int64 `json:"affected"`
	}](t, w).Affected)

	w = do(t, engine, http.MethodDelete, "/aircraft/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, engine, http.MethodDelete, "/services", map[string]any{"ids": []int64{1}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/expenses", nil)
	assert.Zero(t, decode[reporting.Page[reporting.ExpenseView]](t, w).Total)

	w = do(t, engine, http.MethodDelete, "/aircraft/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNumericFlightTimeAndRoundedOutput(t *testing.T) {
	engine := newEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodPost, "/services", map[string]any{
		"start_date":           "2024-03-06",
		"hectares":             3,
		"total_price":          10000,
		"flight_time":          1.5,
		"aircraft_id":          1,
		"pilot_id":             1,
		"pilot_commission_pct": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "0.6198")
	created := decode[struct {
		Service models.Service `json:"service"`
	}](t, w).Service
	assert.True(t, created.FlightHours.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, created.Financials.Alqueires.Equal(decimal.RequireFromString("0.62")))
	assert.True(t, created.Financials.AvgPricePerFlightHour.Decimal.Equal(decimal.RequireFromString("6666.67")))
	assert.True(t, created.Financials.PricePerAlqueire.Decimal.Equal(decimal.RequireFromString("16133.33")))

	w = do(t, engine, http.MethodPut, "/services/2", map[string]any{
		"start_date":           "2024-03-06",
		"hectares":             3,
		"total_price":          10000,
		"flight_time":          2,
		"aircraft_id":          1,
		"pilot_id":             1,
		"pilot_commission_pct": 10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Service models.Service `json:"service"`
	}](t, w).Service
	assert.True(t, updated.Financials.AvgPricePerFlightHour.Decimal.Equal(decimal.NewFromInt(5000)))

	w = do(t, engine, http.MethodGet, "/services?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "0.6198")
	page := decode[reporting.Page[reporting.ServiceView]](t, w)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.True(t, item.Financials.Alqueires.Equal(item.Financials.Alqueires.Round(2)), item.Financials.Alqueires.String())
	}

	w = do(t, engine, http.MethodPost, "/expenses", map[string]any{"date": "2024-03-07", "origin": string(models.OriginSpecific), "description": "Lona", "amount": "10.005"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, engine, http.MethodGet, "/reports/dashboard?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decode[reporting.Dashboard](t, w)
	assert.True(t, dash.Categories.Specific.Equal(decimal.RequireFromString("10.01")), dash.Categories.Specific.String())
	assert.True(t, dash.Categories.Total.Equal(decimal.RequireFromString("6010.01")), dash.Categories.Total.String())
	assert.True(t, dash.Balance.TotalExpenses.Equal(decimal.RequireFromString("6010.01")))
}

func TestErrorStatuses(t *testing.T) {
	engine := newEngine(t)
	seed(t, engine)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown aircraft", http.MethodGet, "/aircraft/99", nil, http.StatusNotFound},
		{"malformed id", http.MethodGet, "/aircraft/abc", nil, http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/reports/balance?start=2024-03-31&end=2024-03-01", nil, http.StatusBadRequest},
		{"missing range", http.MethodGet, "/reports/breakdown", nil, http.StatusBadRequest},
		{"unknown safra", http.MethodGet, "/reports/dashboard?safra_id=9", nil, http.StatusNotFound},
		{"report of unknown aircraft", http.MethodGet, "/reports/aircraft/7?start=2024-03-01&end=2024-03-31", nil, http.StatusNotFound},
		{"bulk update of other field", http.MethodPost, "/expenses/bulk-update", map[string]any{"ids": []int64{1}, "field": "amount", "value": "1"}, http.StatusBadRequest},
		{"delete without ids", http.MethodDelete, "/expenses", map[string]any{}, http.StatusBadRequest},
		{"service with zero hectares", http.MethodPost, "/services", map[string]any{"start_date": "2024-03-05", "hectares": "0", "total_price": "10", "flight_time": "1", "aircraft_id": 1, "pilot_id": 1}, http.StatusBadRequest},
		{"notifications disabled", http.MethodPost, "/notifications/report", map[string]any{"start": "2024-03-01", "end": "2024-03-31"}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, engine, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestSafraDrivesReportRange(t *testing.T) {
	engine := newEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodPost, "/safras", map[string]any{"label": "2023/2024", "start_date": "2023-09-01", "end_date": "2024-08-31"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, engine, http.MethodGet, "/reports/breakdown?safra_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	breakdown := decode[finance.CategoryBreakdown](t, w)
	assert.True(t, breakdown.Commission.Equal(decimal.NewFromInt(5000)))
}
