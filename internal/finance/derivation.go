package finance

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// ServiceInputs are the raw numbers the derived service fields depend on.
type ServiceInputs struct {
	Hectares               decimal.Decimal
	TotalPrice             decimal.Decimal
	FlightHours            decimal.Decimal
	PilotCommissionPct     decimal.Decimal
	SecondaryCommissionPct decimal.Decimal
}

// InputsOf extracts the derivation inputs of a stored service.
func InputsOf(svc models.Service) ServiceInputs {
	return ServiceInputs{
		Hectares:               svc.Hectares,
		TotalPrice:             svc.TotalPrice,
		FlightHours:            svc.FlightHours,
		PilotCommissionPct:     svc.PilotCommissionPct,
		SecondaryCommissionPct: svc.SecondaryCommissionPct,
	}
}

// Validate checks the numeric invariants of a service.
func (in ServiceInputs) Validate() error {
	switch {
	case !in.Hectares.IsPositive():
		return &models.ValidationError{Field: "hectares", Reason: "must be greater than zero"}
	case !in.TotalPrice.IsPositive():
		return &models.ValidationError{Field: "total_price", Reason: "must be greater than zero"}
	case !in.FlightHours.IsPositive():
		return &models.ValidationError{Field: "flight_time", Reason: "must be greater than zero"}
	}
	if err := models.ValidatePercentage("pilot_commission_pct", in.PilotCommissionPct); err != nil {
		return err
	}
	return models.ValidatePercentage("secondary_commission_pct", in.SecondaryCommissionPct)
}

// DeriveServiceFinancials computes every derived field of a service. Create
// and update paths both go through it.
func DeriveServiceFinancials(in ServiceInputs) (models.Financials, error) {
	if err := in.Validate(); err != nil {
		return models.Financials{}, err
	}

	pricePerHectare := RatePerUnit(in.TotalPrice, in.Hectares)
	pricePerAlqueire := decimal.NullDecimal{}
	if pricePerHectare.Valid {
		pricePerAlqueire = decimal.NewNullDecimal(pricePerHectare.Decimal.Mul(HectaresPerAlqueire))
	}

	pilot := CommissionAmount(in.PilotCommissionPct, in.TotalPrice)
	secondary := CommissionAmount(in.SecondaryCommissionPct, in.TotalPrice)
	netProfit := in.TotalPrice.Sub(pilot).Sub(secondary)

	return models.Financials{
		Alqueires:             HectaresToAlqueires(in.Hectares),
		PricePerHectare:       pricePerHectare,
		PricePerAlqueire:      pricePerAlqueire,
		AvgPricePerFlightHour: RatePerUnit(in.TotalPrice, in.FlightHours),
		PilotCommission:       pilot,
		SecondaryCommission:   secondary,
		NetProfit:             netProfit,
		NetProfitPct:          RatePerUnit(netProfit.Mul(hundred), in.TotalPrice),
	}, nil
}

// CommissionAmount is pct percent of total.
func CommissionAmount(pct, total decimal.Decimal) decimal.Decimal {
	return pct.Mul(total).Div(hundred)
}

// MintCommissions builds the commission expenses owned by svc from the same
// snapshot its financials were derived from: one for the pilot, and one for
// the secondary employee when assigned with a non-zero percentage. The
// expenses are dated at the service start.
func MintCommissions(svc models.Service, pilotStatus, secondaryStatus models.PaymentStatus) []models.CommissionExpense {
	out := []models.CommissionExpense{
		{
			ExpenseBase: models.ExpenseBase{
				Date:          svc.StartDate,
				Amount:        svc.Financials.PilotCommission,
				PaymentStatus: pilotStatus,
			},
			EmployeeID: svc.PilotID,
			ServiceID:  svc.ID,
			Percentage: svc.PilotCommissionPct,
		},
	}

	if svc.SecondaryEmployeeID != nil && svc.SecondaryCommissionPct.IsPositive() {
		out = append(out, models.CommissionExpense{
			ExpenseBase: models.ExpenseBase{
				Date:          svc.StartDate,
				Amount:        svc.Financials.SecondaryCommission,
				PaymentStatus: secondaryStatus,
			},
			EmployeeID: *svc.SecondaryEmployeeID,
			ServiceID:  svc.ID,
			Percentage: svc.SecondaryCommissionPct,
		})
	}
	return out
}
