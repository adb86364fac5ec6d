package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/config"
	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	client "github.com/mamadbah2/aeroagri/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type fakeReports struct {
	gotRange    models.DateRange
	gotAircraft *int64
	report      finance.BalanceReport
}

func (f *fakeReports) Balance(_ context.Context, r models.DateRange, aircraftID *int64) (finance.BalanceReport, error) {
	f.gotRange, f.gotAircraft = r, aircraftID
	return f.report, nil
}

func sampleBalance() finance.BalanceReport {
	return finance.BalanceReport{
		GrossRevenue:  decimal.NewFromInt(70000),
		TotalExpenses: decimal.RequireFromString("12200.5"),
		FuelCost:      decimal.NewFromInt(3000),
		OilCost:       decimal.NewFromInt(500),
		NetProfit:     decimal.RequireFromString("57799.5"),
	}
}

func TestSendOutboundDefaultsToManager(t *testing.T) {
	fc := &fakeClient{}
	reports := &fakeReports{report: sampleBalance()}
	svc := NewService(config.WhatsAppConfig{ManagerNumber: "5566999990000"}, fc, reports, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Start: "2024-03-01", End: "2024-03-31"})
	require.NoError(t, err)

	require.Len(t, fc.sent, 1)
	assert.Equal(t, "5566999990000", fc.sent[0].To)
	assert.Contains(t, fc.sent[0].Body, "Período: 01/03/2024 a 31/03/2024")
	assert.Contains(t, fc.sent[0].Body, "Lucro líquido: R$ 57.799,50")
	assert.Nil(t, reports.gotAircraft)
}

func TestSendOutboundForAircraft(t *testing.T) {
	fc := &fakeClient{}
	reports := &fakeReports{report: sampleBalance()}
	svc := NewService(config.WhatsAppConfig{}, fc, reports, nil)
	id := int64(3)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "55119", Start: "2024-03-01", End: "2024-03-31", Aircraft: &id})
	require.NoError(t, err)
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "55119", fc.sent[0].To)
	assert.Contains(t, fc.sent[0].Body, "*Balanço da aeronave 3*")
	assert.Equal(t, &id, reports.gotAircraft)
}

func TestSendOutboundRejections(t *testing.T) {
	svc := NewService(config.WhatsAppConfig{}, &fakeClient{}, &fakeReports{}, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Start: "2024-03-01", End: "2024-03-31"})
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Start: "2024-03-31", End: "2024-03-01"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNotifySnapshotPropagatesClientErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(config.WhatsAppConfig{ManagerNumber: "1"}, &fakeClient{err: boom}, &fakeReports{}, nil)

	err := svc.NotifySnapshot(context.Background(), models.ReportSnapshot{
		Label:       "Semana",
		PeriodStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, boom)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", Money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", Money(decimal.Zero))
	assert.Equal(t, "R$ 10,01", Money(decimal.RequireFromString("10.005")))
}
