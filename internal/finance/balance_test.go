package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func TestComputeBalanceFleetWide(t *testing.T) {
	services := []models.Service{
		service(1, 1, 5, day(2024, time.March, 4), "10", "6000", "1"),
		service(2, 2, 5, day(2024, time.March, 20), "10", "4000", "1"),
		service(3, 2, 5, day(2024, time.April, 2), "10", "99999", "1"),
	}
	expenses := []models.Expense{
		aircraftCost(1, ptr(int64(1)), day(2024, time.March, 5), models.TypeFuel, "1500"),
		aircraftCost(2, ptr(int64(2)), day(2024, time.March, 6), models.TypeOil, "250"),
		aircraftCost(3, ptr(int64(2)), day(2024, time.March, 6), models.TypeParts, "750"),
		commission(4, 5, 1, day(2024, time.March, 4), "600"),
		aircraftCost(5, ptr(int64(1)), day(2024, time.April, 5), models.TypeFuel, "5000"),
	}

	got, err := ComputeBalance(services, expenses, nil, march())
	require.NoError(t, err)

	assertDecimal(t, "10000", got.GrossRevenue)
	assertDecimal(t, "3100", got.TotalExpenses)
	assertDecimal(t, "1500", got.FuelCost)
	assertDecimal(t, "250", got.OilCost)
	assertDecimal(t, "6900", got.NetProfit)
}

func TestComputeBalanceFloorsProfitAtZero(t *testing.T) {
	services := []models.Service{service(1, 1, 5, day(2024, time.March, 4), "10", "10000", "1")}
	expenses := []models.Expense{aircraftCost(1, ptr(int64(1)), day(2024, time.March, 5), models.TypeParts, "15000")}

	got, err := ComputeBalance(services, expenses, nil, march())
	require.NoError(t, err)
	assertDecimal(t, "10000", got.GrossRevenue)
	assertDecimal(t, "15000", got.TotalExpenses)
	assertDecimal(t, "0", got.NetProfit)
}

func TestComputeBalanceScopedToAircraft(t *testing.T) {
	services := []models.Service{
		service(1, 1, 5, day(2024, time.March, 4), "10", "6000", "1"),
		service(2, 2, 5, day(2024, time.March, 20), "10", "4000", "1"),
	}
	expenses := []models.Expense{
		aircraftCost(1, ptr(int64(1)), day(2024, time.March, 5), models.TypeFuel, "1500"),
		aircraftCost(2, ptr(int64(2)), day(2024, time.March, 6), models.TypeFuel, "900"),
		commission(3, 5, 1, day(2024, time.March, 4), "600"),
		commission(4, 5, 2, day(2024, time.March, 20), "400"),
		aircraftCost(5, nil, day(2024, time.March, 6), models.TypeOil, "80"),
	}

	got, err := ComputeBalance(services, expenses, ptr(int64(1)), march())
	require.NoError(t, err)
	assertDecimal(t, "6000", got.GrossRevenue)
	assertDecimal(t, "2100", got.TotalExpenses)
	assertDecimal(t, "1500", got.FuelCost)
	assertDecimal(t, "0", got.OilCost)
	assertDecimal(t, "3900", got.NetProfit)
}

func TestComputeBalanceEmptyDefaultsToZero(t *testing.T) {
	got, err := ComputeBalance(nil, nil, nil, march())
	require.NoError(t, err)
	for _, v := range []string{got.GrossRevenue.String(), got.TotalExpenses.String(), got.FuelCost.String(), got.OilCost.String(), got.NetProfit.String()} {
		assert.Equal(t, "0", v)
	}
}

func TestComputeBalanceRejectsInvalidRange(t *testing.T) {
	_, err := ComputeBalance(nil, nil, nil, models.DateRange{Start: day(2024, time.April, 1), End: day(2024, time.March, 1)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ComputeBalance(nil, nil, nil, models.DateRange{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestComputePeriodResultIsNotFloored(t *testing.T) {
	services := []models.Service{service(1, 1, 5, day(2024, time.March, 4), "10", "1000", "1")}
	expenses := []models.Expense{aircraftCost(1, nil, day(2024, time.March, 5), "", "1500")}

	got, err := ComputePeriodResult(services, expenses, march())
	require.NoError(t, err)
	assertDecimal(t, "-500", got.Profit)
}

func TestBalanceRounded(t *testing.T) {
	b := BalanceReport{GrossRevenue: d("10.005"), NetProfit: d("3.333333")}
	r := b.Rounded()
	assertDecimal(t, "10.01", r.GrossRevenue)
	assertDecimal(t, "3.33", r.NetProfit)
}
