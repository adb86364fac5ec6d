package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func TestDeriveServiceFinancials(t *testing.T) {
	got, err := DeriveServiceFinancials(ServiceInputs{
		Hectares:           d("100"),
		TotalPrice:         d("50000"),
		FlightHours:        d("10"),
		PilotCommissionPct: d("10"),
	})
	require.NoError(t, err)

	assertDecimal(t, "20.66", got.Alqueires.Round(2))
	require.True(t, got.PricePerHectare.Valid)
	assertDecimal(t, "500", got.PricePerHectare.Decimal)
	require.True(t, got.PricePerAlqueire.Valid)
	assertDecimal(t, "2420", got.PricePerAlqueire.Decimal)
	require.True(t, got.AvgPricePerFlightHour.Valid)
	assertDecimal(t, "5000", got.AvgPricePerFlightHour.Decimal)
	assertDecimal(t, "5000", got.PilotCommission)
	assertDecimal(t, "0", got.SecondaryCommission)
	assertDecimal(t, "45000", got.NetProfit)
	require.True(t, got.NetProfitPct.Valid)
	assertDecimal(t, "90", got.NetProfitPct.Decimal)
}

func TestDeriveServiceFinancialsInvariants(t *testing.T) {
	inputs := []ServiceInputs{
		{Hectares: d("37.5"), TotalPrice: d("18333.33"), FlightHours: d("2.3333"), PilotCommissionPct: d("7.5"), SecondaryCommissionPct: d("2")},
		{Hectares: d("0.4"), TotalPrice: d("99.99"), FlightHours: d("0.25"), PilotCommissionPct: d("0")},
		{Hectares: d("1200"), TotalPrice: d("960000"), FlightHours: d("41.75"), PilotCommissionPct: d("100")},
	}
	for _, in := range inputs {
		got, err := DeriveServiceFinancials(in)
		require.NoError(t, err)

		assert.True(t, got.PricePerAlqueire.Decimal.Equal(got.PricePerHectare.Decimal.Mul(HectaresPerAlqueire)))
		sum := got.NetProfit.Add(got.PilotCommission).Add(got.SecondaryCommission)
		assert.Truef(t, sum.Equal(in.TotalPrice), "net+commissions %s != total %s", sum, in.TotalPrice)
	}
}

func TestDeriveServiceFinancialsValidation(t *testing.T) {
	valid := ServiceInputs{Hectares: d("10"), TotalPrice: d("1000"), FlightHours: d("1"), PilotCommissionPct: d("10")}

	cases := map[string]func(*ServiceInputs){
		"zero hectares":        func(in *ServiceInputs) { in.Hectares = d("0") },
		"negative price":       func(in *ServiceInputs) { in.TotalPrice = d("-1") },
		"zero flight time":     func(in *ServiceInputs) { in.FlightHours = d("0") },
		"pilot pct above 100":  func(in *ServiceInputs) { in.PilotCommissionPct = d("100.01") },
		"pilot pct negative":   func(in *ServiceInputs) { in.PilotCommissionPct = d("-5") },
		"secondary pct to 150": func(in *ServiceInputs) { in.SecondaryCommissionPct = d("150") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := DeriveServiceFinancials(in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestMintCommissions(t *testing.T) {
	svc := service(7, 1, 3, day(2024, time.March, 5), "100", "50000", "10")
	svc.PilotCommissionPct = d("10")
	fin, err := DeriveServiceFinancials(InputsOf(svc))
	require.NoError(t, err)
	svc.Financials = fin

	minted := MintCommissions(svc, models.PaymentOpen, models.PaymentOpen)
	require.Len(t, minted, 1)

	c := minted[0]
	assert.Equal(t, models.OriginCommission, c.Origin())
	assertDecimal(t, "5000", c.Amount)
	assertDecimal(t, "10", c.Percentage)
	assert.Equal(t, int64(7), c.ServiceID)
	assert.Equal(t, int64(3), c.EmployeeID)
	assert.Equal(t, models.PaymentOpen, c.PaymentStatus)
	assert.Equal(t, svc.StartDate, c.Date)
}

func TestMintCommissionsWithSecondaryEmployee(t *testing.T) {
	svc := service(8, 1, 3, day(2024, time.March, 5), "50", "20000", "4")
	svc.SecondaryEmployeeID = ptr(int64(9))
	svc.PilotCommissionPct = d("8")
	svc.SecondaryCommissionPct = d("2")
	fin, err := DeriveServiceFinancials(InputsOf(svc))
	require.NoError(t, err)
	svc.Financials = fin

	minted := MintCommissions(svc, models.PaymentPaid, models.PaymentOpen)
	require.Len(t, minted, 2)
	second := minted[1]
	assert.Equal(t, int64(9), second.EmployeeID)
	assertDecimal(t, "400", second.Amount)
	assert.Equal(t, models.PaymentOpen, second.PaymentStatus)
	assertDecimal(t, "18000", svc.Financials.NetProfit)
}
