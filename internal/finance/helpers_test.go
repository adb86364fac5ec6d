package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s got %s %v", want, got.String(), msgAndArgs)
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func march() models.DateRange {
	return models.DayRange(day(2024, time.March, 1), day(2024, time.March, 31))
}

func service(id, aircraftID, pilotID int64, start time.Time, hectares, total, hours string) models.Service {
	s := models.Service{
		ID:          id,
		StartDate:   start,
		EndDate:     start,
		Hectares:    d(hectares),
		TotalPrice:  d(total),
		FlightHours: d(hours),
		AircraftID:  aircraftID,
		PilotID:     pilotID,
	}
	s.Financials.NetProfit = s.TotalPrice
	return s
}

func aircraftCost(id int64, aircraftID *int64, date time.Time, kind, amount string) models.Expense {
	return models.AircraftExpense{
		ExpenseBase: models.ExpenseBase{ID: id, Date: date, Amount: d(amount)},
		CostDetails: models.CostDetails{AircraftID: aircraftID, Type: kind},
	}
}

func commission(id, employeeID, serviceID int64, date time.Time, amount string) models.Expense {
	return models.CommissionExpense{
		ExpenseBase: models.ExpenseBase{ID: id, Date: date, Amount: d(amount)},
		EmployeeID:  employeeID,
		ServiceID:   serviceID,
		Percentage:  d("10"),
	}
}
