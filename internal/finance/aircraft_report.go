package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// NoServicesLabel names the report of an aircraft with no services in range.
const NoServicesLabel = "Nenhum serviço encontrado para essa aeronave nas datas especificadas."

// AircraftReport is the performance summary of one aircraft over a range.
//
// Expense buckets are disjoint: fuel and oil are selected by type, vehicle and
// specific by origin among the rest, and other holds the remaining aircraft
// costs plus every commission. Pilot and ground-crew commissions are an
// informational split of the commissions already counted in other.
type AircraftReport struct {
	AircraftName          string              `json:"aircraft_name"`
	ServiceCount          int                 `json:"service_count"`
	HectaresApplied       decimal.Decimal     `json:"hectares_applied"`
	AlqueiresApplied      decimal.Decimal     `json:"alqueires_applied"`
	GrossRevenue          decimal.Decimal     `json:"gross_revenue"`
	AvgPricePerHectare    decimal.NullDecimal `json:"avg_price_per_hectare"`
	AvgPricePerAlqueire   decimal.NullDecimal `json:"avg_price_per_alqueire"`
	FlightHours           decimal.Decimal     `json:"flight_hours"`
	AvgPricePerFlightHour decimal.NullDecimal `json:"avg_price_per_flight_hour"`
	FuelCost              decimal.Decimal     `json:"fuel_cost"`
	OilCost               decimal.Decimal     `json:"oil_cost"`
	OtherExpenses         decimal.Decimal     `json:"other_expenses"`
	VehicleExpenses       decimal.Decimal     `json:"vehicle_expenses"`
	SpecificExpenses      decimal.Decimal     `json:"specific_expenses"`
	PilotCommissions      decimal.Decimal     `json:"pilot_commissions"`
	GroundCrewCommissions decimal.Decimal     `json:"ground_crew_commissions"`
	NetProfit             decimal.Decimal     `json:"net_profit"`
}

// TotalDeductions is everything subtracted from gross revenue.
func (r AircraftReport) TotalDeductions() decimal.Decimal {
	return r.FuelCost.Add(r.OilCost).Add(r.OtherExpenses).Add(r.VehicleExpenses).Add(r.SpecificExpenses)
}

// Rounded returns the report with amounts, areas and hours rounded to two
// decimals.
func (r AircraftReport) Rounded() AircraftReport {
	out := r
	out.HectaresApplied = RoundMoney(r.HectaresApplied)
	out.AlqueiresApplied = RoundMoney(r.AlqueiresApplied)
	out.GrossRevenue = RoundMoney(r.GrossRevenue)
	out.AvgPricePerHectare = RoundNullMoney(r.AvgPricePerHectare)
	out.AvgPricePerAlqueire = RoundNullMoney(r.AvgPricePerAlqueire)
	out.FlightHours = RoundMoney(r.FlightHours)
	out.AvgPricePerFlightHour = RoundNullMoney(r.AvgPricePerFlightHour)
	out.FuelCost = RoundMoney(r.FuelCost)
	out.OilCost = RoundMoney(r.OilCost)
	out.OtherExpenses = RoundMoney(r.OtherExpenses)
	out.VehicleExpenses = RoundMoney(r.VehicleExpenses)
	out.SpecificExpenses = RoundMoney(r.SpecificExpenses)
	out.PilotCommissions = RoundMoney(r.PilotCommissions)
	out.GroundCrewCommissions = RoundMoney(r.GroundCrewCommissions)
	out.NetProfit = RoundMoney(r.NetProfit)
	return out
}

// EmptyAircraftReport is the zero-filled report returned when no service
// matches.
func EmptyAircraftReport() AircraftReport {
	zero := decimal.NewNullDecimal(decimal.Zero)
	return AircraftReport{
		AircraftName:          NoServicesLabel,
		AvgPricePerHectare:    zero,
		AvgPricePerAlqueire:   zero,
		AvgPricePerFlightHour: zero,
	}
}

// ComputeAircraftReport folds the services the aircraft started in r, the
// cost expenses linked to it and dated in r, and the commissions of those
// services. Averages are recomputed from the aggregate totals. Net profit is
// not floored.
func ComputeAircraftReport(aircraft models.Aircraft, employees []models.Employee, services []models.Service, expenses []models.Expense, r models.DateRange) (AircraftReport, error) {
	if err := r.Validate(); err != nil {
		return AircraftReport{}, err
	}

	flown := SelectServices(services, AllServices(FlownBy(aircraft.ID), StartedIn(r)))
	if len(flown) == 0 {
		return EmptyAircraftReport(), nil
	}

	report := AircraftReport{
		AircraftName: fmt.Sprintf("%s-%s-%s", aircraft.Registration, aircraft.Model, aircraft.Brand),
		ServiceCount: len(flown),
	}

	owned := make(map[int64]struct{}, len(flown))
	for _, s := range flown {
		owned[s.ID] = struct{}{}
		report.HectaresApplied = report.HectaresApplied.Add(s.Hectares)
		report.GrossRevenue = report.GrossRevenue.Add(s.TotalPrice)
		report.FlightHours = report.FlightHours.Add(s.FlightHours)
	}
	report.AlqueiresApplied = HectaresToAlqueires(report.HectaresApplied)
	report.AvgPricePerHectare = RatePerUnit(report.GrossRevenue, report.HectaresApplied)
	if report.AvgPricePerHectare.Valid {
		report.AvgPricePerAlqueire = decimal.NewNullDecimal(report.AvgPricePerHectare.Decimal.Mul(HectaresPerAlqueire))
	}
	report.AvgPricePerFlightHour = RatePerUnit(report.GrossRevenue, report.FlightHours)

	roles := make(map[int64]models.EmployeeRole, len(employees))
	for _, emp := range employees {
		roles[emp.ID] = emp.Role
	}

	for _, e := range expenses {
		amount := e.Common().Amount

		if c, ok := e.(models.CommissionExpense); ok {
			if _, mine := owned[c.ServiceID]; !mine {
				continue
			}
			report.OtherExpenses = report.OtherExpenses.Add(amount)
			switch roles[c.EmployeeID] {
			case models.RolePilot:
				report.PilotCommissions = report.PilotCommissions.Add(amount)
			case models.RoleGroundCrew:
				report.GroundCrewCommissions = report.GroundCrewCommissions.Add(amount)
			}
			continue
		}

		cost, _ := models.Cost(e)
		if cost.AircraftID == nil || *cost.AircraftID != aircraft.ID || !r.Contains(e.Common().Date) {
			continue
		}
		switch {
		case models.IsType(e, models.TypeFuel):
			report.FuelCost = report.FuelCost.Add(amount)
		case models.IsType(e, models.TypeOil):
			report.OilCost = report.OilCost.Add(amount)
		case e.Origin() == models.OriginVehicle:
			report.VehicleExpenses = report.VehicleExpenses.Add(amount)
		case e.Origin() == models.OriginSpecific:
			report.SpecificExpenses = report.SpecificExpenses.Add(amount)
		default:
			report.OtherExpenses = report.OtherExpenses.Add(amount)
		}
	}

	report.NetProfit = report.GrossRevenue.Sub(report.TotalDeductions())
	return report, nil
}
