package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSnapshot is a periodic balance persisted by the scheduler.
type ReportSnapshot struct {
	Label         string          `json:"label"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	FuelCost      decimal.Decimal `json:"fuel_cost"`
	OilCost       decimal.Decimal `json:"oil_cost"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	CreatedAt     time.Time       `json:"created_at"`
}
