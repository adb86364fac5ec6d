package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&models.ValidationError{Field: "hectares", Reason: "must be greater than zero"}, http.StatusBadRequest},
		{fmt.Errorf("load: %w", &models.NotFoundError{Entity: "aircraft", ID: 3}), http.StatusNotFound},
		{&models.ConflictError{Entity: "employee", Key: "Ana"}, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(RequestIDKey, "req-1")

		writeError(c, zap.NewNop(), tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"request_id":"req-1"`)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, zap.NewNop(), errors.New("mongo: password rejected"))
	assert.NotContains(t, w.Body.String(), "password")
}

type fakeNotifier struct {
	got models.OutboundMessageRequest
	err error
}

func (f *fakeNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.got = req
	return f.err
}

func sendReport(h *NotificationHandler, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/notifications/report", h.SendReport)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notifications/report", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSendReport(t *testing.T) {
	n := &fakeNotifier{}
	w := sendReport(NewNotificationHandler(n, nil), `{"to":"5566","start":"2024-03-01","end":"2024-03-31","aircraft_id":2}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "5566", n.got.To)
	require.NotNil(t, n.got.Aircraft)
	assert.Equal(t, int64(2), *n.got.Aircraft)
}

func TestSendReportStatuses(t *testing.T) {
	w := sendReport(NewNotificationHandler(&fakeNotifier{}, nil), `{"start":"2024-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendReport(NewNotificationHandler(&fakeNotifier{err: &models.ValidationError{Field: "to"}}, nil), `{"start":"2024-03-01","end":"2024-03-31"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendReport(NewNotificationHandler(&fakeNotifier{err: errors.New("whatsapp down")}, nil), `{"start":"2024-03-01","end":"2024-03-31"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = sendReport(NewNotificationHandler(nil, nil), `{"start":"2024-03-01","end":"2024-03-31"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
