package finance

import "github.com/mamadbah2/aeroagri/internal/domain/models"

// Rounded returns the breakdown rounded to cents.
func (b CategoryBreakdown) Rounded() CategoryBreakdown {
	return CategoryBreakdown{
		Aircraft:   RoundMoney(b.Aircraft),
		Commission: RoundMoney(b.Commission),
		Vehicle:    RoundMoney(b.Vehicle),
		Specific:   RoundMoney(b.Specific),
		Total:      RoundMoney(b.Total),
	}
}

// Rounded returns the result rounded to cents.
func (p PeriodResult) Rounded() PeriodResult {
	return PeriodResult{
		Revenue:  RoundMoney(p.Revenue),
		Expenses: RoundMoney(p.Expenses),
		Profit:   RoundMoney(p.Profit),
	}
}

// RoundEmployeeTotals rounds every total to cents in a new slice.
func RoundEmployeeTotals(in []EmployeeTotal) []EmployeeTotal {
	out := make([]EmployeeTotal, len(in))
	for i, t := range in {
		t.Total = RoundMoney(t.Total)
		out[i] = t
	}
	return out
}

// RoundAircraftTotals rounds every total to cents in a new slice.
func RoundAircraftTotals(in []AircraftTotal) []AircraftTotal {
	out := make([]AircraftTotal, len(in))
	for i, t := range in {
		t.Total = RoundMoney(t.Total)
		out[i] = t
	}
	return out
}

// RoundDayTotals rounds every total to cents in a new slice.
func RoundDayTotals(in []DayTotal) []DayTotal {
	out := make([]DayTotal, len(in))
	for i, t := range in {
		t.Total = RoundMoney(t.Total)
		out[i] = t
	}
	return out
}

// RoundFinancials rounds derived amounts, rates and areas to two decimals.
func RoundFinancials(f models.Financials) models.Financials {
	return models.Financials{
		Alqueires:             RoundMoney(f.Alqueires),
		PricePerHectare:       RoundNullMoney(f.PricePerHectare),
		PricePerAlqueire:      RoundNullMoney(f.PricePerAlqueire),
		AvgPricePerFlightHour: RoundNullMoney(f.AvgPricePerFlightHour),
		PilotCommission:       RoundMoney(f.PilotCommission),
		SecondaryCommission:   RoundMoney(f.SecondaryCommission),
		NetProfit:             RoundMoney(f.NetProfit),
		NetProfitPct:          RoundNullMoney(f.NetProfitPct),
	}
}

// RoundService returns s with its flight hours and financials rounded for
// display.
func RoundService(s models.Service) models.Service {
	s.FlightHours = RoundMoney(s.FlightHours)
	s.Financials = RoundFinancials(s.Financials)
	return s
}

// RoundExpenseRecord returns r with its amount rounded to cents.
func RoundExpenseRecord(r models.ExpenseRecord) models.ExpenseRecord {
	r.Amount = RoundMoney(r.Amount)
	return r
}
