package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func TestBreakdownByCategory(t *testing.T) {
	expenses := []models.Expense{
		aircraftCost(1, nil, day(2024, time.March, 2), "Peças", "100"),
		commission(2, 4, 1, day(2024, time.March, 2), "50"),
	}

	got := BreakdownByCategory(expenses, nil)

	assertDecimal(t, "100", got.Aircraft)
	assertDecimal(t, "50", got.Commission)
	assertDecimal(t, "0", got.Vehicle)
	assertDecimal(t, "0", got.Specific)
	assertDecimal(t, "150", got.Total)
}

func TestBreakdownTotalsMatchFold(t *testing.T) {
	expenses := []models.Expense{
		aircraftCost(1, ptr(int64(1)), day(2024, time.March, 1), models.TypeFuel, "1200.40"),
		aircraftCost(2, ptr(int64(2)), day(2024, time.March, 3), models.TypeOil, "310"),
		models.VehicleExpense{ExpenseBase: models.ExpenseBase{ID: 3, Date: day(2024, time.March, 9), Amount: d("89.90")}},
		models.SpecificExpense{ExpenseBase: models.ExpenseBase{ID: 4, Date: day(2024, time.March, 10), Amount: d("45")}},
		commission(5, 4, 1, day(2024, time.March, 11), "700"),
		commission(6, 5, 2, day(2024, time.April, 1), "999"),
	}

	pred := InRange(march())
	got := BreakdownByCategory(expenses, pred)

	assertDecimal(t, "2345.30", got.Total)
	assert.True(t, got.Total.Equal(Sum(expenses, pred)))

	byOrigin := Aggregate(expenses, ByOrigin, pred)
	sum := d("0")
	for _, v := range byOrigin {
		sum = sum.Add(v)
	}
	assert.True(t, got.Total.Equal(sum))
}

func TestAggregateByType(t *testing.T) {
	expenses := []models.Expense{
		aircraftCost(1, ptr(int64(1)), day(2024, time.March, 1), models.TypeFuel, "100"),
		aircraftCost(2, ptr(int64(1)), day(2024, time.March, 2), "combustível ", "50"),
		aircraftCost(3, ptr(int64(2)), day(2024, time.March, 2), models.TypeFuel, "25"),
		aircraftCost(4, ptr(int64(1)), day(2024, time.March, 3), models.TypeOil, "10"),
	}

	got := Aggregate(expenses, ByType, OfType(models.TypeFuel))
	assert.Len(t, got, 2)
	assertDecimal(t, "175", Sum(expenses, OfType(models.TypeFuel)))
	assertDecimal(t, "150", Sum(expenses, All(OfType(models.TypeFuel), ForAircraft(1, nil))))
}

func TestInRangeIsInclusive(t *testing.T) {
	r := march()
	expenses := []models.Expense{
		aircraftCost(1, nil, day(2024, time.March, 1), "", "1"),
		aircraftCost(2, nil, day(2024, time.March, 31).Add(23*time.Hour), "", "2"),
		aircraftCost(3, nil, day(2024, time.February, 29), "", "4"),
		aircraftCost(4, nil, day(2024, time.April, 1), "", "8"),
	}
	assertDecimal(t, "3", Sum(expenses, InRange(r)))
}

func TestForAircraftFollowsCommissionService(t *testing.T) {
	services := IndexServices([]models.Service{
		service(10, 1, 4, day(2024, time.March, 4), "10", "1000", "1"),
		service(11, 2, 4, day(2024, time.March, 4), "10", "1000", "1"),
	})
	expenses := []models.Expense{
		commission(1, 4, 10, day(2024, time.March, 4), "100"),
		commission(2, 4, 11, day(2024, time.March, 4), "200"),
		commission(3, 4, 99, day(2024, time.March, 4), "400"),
		aircraftCost(4, ptr(int64(1)), day(2024, time.March, 4), "", "800"),
	}
	assertDecimal(t, "900", Sum(expenses, ForAircraft(1, services)))
}

func TestCommissionsByEmployee(t *testing.T) {
	employees := []models.Employee{{ID: 1, Name: "João", Role: models.RolePilot}, {ID: 2, Name: "Pedro", Role: models.RoleGroundCrew}}
	expenses := []models.Expense{
		commission(1, 1, 10, day(2024, time.March, 1), "100"),
		commission(2, 1, 11, day(2024, time.March, 2), "150"),
		commission(3, 2, 11, day(2024, time.March, 2), "20"),
		commission(4, 77, 12, day(2024, time.March, 2), "30"),
		aircraftCost(5, nil, day(2024, time.March, 2), "", "5000"),
	}

	got := CommissionsByEmployee(expenses, employees, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "João", got[0].Name)
	assertDecimal(t, "250", got[0].Total)
	assert.Equal(t, UnknownEmployee, got[1].Name)
	assert.Equal(t, int64(77), got[1].EmployeeID)
	assert.Equal(t, "Pedro", got[2].Name)
}

func TestServiceFolds(t *testing.T) {
	aircraft := []models.Aircraft{{ID: 1, Registration: "PR-ABC"}, {ID: 2, Registration: "PT-XYZ"}, {ID: 3, Registration: "PP-IDLE"}}
	services := []models.Service{
		service(1, 1, 5, day(2024, time.March, 4), "10", "1000", "1"),
		service(2, 1, 6, day(2024, time.March, 4).Add(5*time.Hour), "10", "500", "1"),
		service(3, 2, 5, day(2024, time.March, 9), "10", "300", "1"),
		service(4, 2, 5, day(2024, time.May, 9), "10", "7000", "1"),
	}
	services[1].Financials.NetProfit = d("450")
	inMarch := StartedIn(march())

	revenue := RevenueByAircraft(services, aircraft, inMarch)
	require.Len(t, revenue, 2)
	assertDecimal(t, "1500", revenue[0].Total)
	assert.Equal(t, 2, revenue[0].Services)
	assertDecimal(t, "300", revenue[1].Total)

	profit := ProfitByAircraft(services, aircraft, inMarch)
	assertDecimal(t, "1450", profit[0].Total)

	employees := []models.Employee{{ID: 5, Name: "Ana"}, {ID: 6, Name: "Rui"}, {ID: 7, Name: "Idle"}}
	counts := ServicesByEmployee(services, employees, inMarch)
	require.Len(t, counts, 2)
	assert.Equal(t, 2, counts[0].Services)

	daily := DailyRevenue(services, inMarch)
	require.Len(t, daily, 2)
	assertDecimal(t, "1500", daily[0].Total)
	assert.Equal(t, day(2024, time.March, 9), daily[1].Day)

	assertDecimal(t, "1800", Revenue(services, inMarch))
}

func TestExpensesByAircraftReportsEveryAircraft(t *testing.T) {
	aircraft := []models.Aircraft{{ID: 1, Registration: "PR-ABC"}, {ID: 2, Registration: "PT-XYZ"}}
	expenses := []models.Expense{
		aircraftCost(1, ptr(int64(1)), day(2024, time.March, 1), models.TypeFuel, "100"),
		aircraftCost(2, nil, day(2024, time.March, 1), models.TypeFuel, "900"),
	}
	got := ExpensesByAircraft(expenses, aircraft, nil, nil)
	require.Len(t, got, 2)
	assertDecimal(t, "100", got[0].Total)
	assertDecimal(t, "0", got[1].Total)
}
