package finance

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// BalanceReport summarizes revenue, expenses and profit over a date range.
type BalanceReport struct {
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	FuelCost      decimal.Decimal `json:"fuel_cost"`
	OilCost       decimal.Decimal `json:"oil_cost"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

// Rounded returns the report with every amount rounded to cents.
func (b BalanceReport) Rounded() BalanceReport {
	return BalanceReport{
		GrossRevenue:  RoundMoney(b.GrossRevenue),
		TotalExpenses: RoundMoney(b.TotalExpenses),
		FuelCost:      RoundMoney(b.FuelCost),
		OilCost:       RoundMoney(b.OilCost),
		NetProfit:     RoundMoney(b.NetProfit),
	}
}

// ComputeBalance folds services started in r and expenses dated in r into a
// balance, optionally scoped to one aircraft. Net profit never goes below
// zero: a loss-making period reports zero.
//
// services must include every service referenced by commission expenses when
// aircraftID is set, so commissions can be attributed.
func ComputeBalance(services []models.Service, expenses []models.Expense, aircraftID *int64, r models.DateRange) (BalanceReport, error) {
	if err := r.Validate(); err != nil {
		return BalanceReport{}, err
	}

	servicePred := StartedIn(r)
	expensePred := InRange(r)
	if aircraftID != nil {
		servicePred = AllServices(servicePred, FlownBy(*aircraftID))
		expensePred = All(expensePred, ForAircraft(*aircraftID, IndexServices(services)))
	}

	report := BalanceReport{
		GrossRevenue:  Revenue(services, servicePred),
		TotalExpenses: Sum(expenses, expensePred),
		FuelCost:      Sum(expenses, All(expensePred, OfType(models.TypeFuel))),
		OilCost:       Sum(expenses, All(expensePred, OfType(models.TypeOil))),
	}
	report.NetProfit = decimal.Max(decimal.Zero, report.GrossRevenue.Sub(report.TotalExpenses))
	return report, nil
}

// PeriodResult is the unclamped revenue/expense/profit of a period, as shown
// by the current-month dashboard cards.
type PeriodResult struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// ComputePeriodResult folds services and expenses of r without flooring the
// profit.
func ComputePeriodResult(services []models.Service, expenses []models.Expense, r models.DateRange) (PeriodResult, error) {
	if err := r.Validate(); err != nil {
		return PeriodResult{}, err
	}
	revenue := Revenue(services, StartedIn(r))
	spent := Sum(expenses, InRange(r))
	return PeriodResult{Revenue: revenue, Expenses: spent, Profit: revenue.Sub(spent)}, nil
}

// IndexServices maps services by id.
func IndexServices(services []models.Service) map[int64]models.Service {
	out := make(map[int64]models.Service, len(services))
	for _, s := range services {
		out[s.ID] = s
	}
	return out
}
