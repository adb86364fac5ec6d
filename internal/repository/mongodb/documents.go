package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// storedPlaces bounds the scale of values that overflow Decimal128's 34
// significant digits.
const storedPlaces = 10

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err == nil {
		return v, nil
	}
	v, err = primitive.ParseDecimal128(d.Round(storedPlaces).String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal128 %s: %w", d, err)
	}
	return v, nil
}

// encoder collects the first conversion error so the field list stays flat.
type encoder struct{ err error }

func (ec *encoder) dec(d decimal.Decimal) primitive.Decimal128 {
	v, err := toDecimal128(d)
	if err != nil && ec.err == nil {
		ec.err = err
	}
	return v
}

func (ec *encoder) null(d decimal.NullDecimal) *primitive.Decimal128 {
	if !d.Valid {
		return nil
	}
	v := ec.dec(d.Decimal)
	return &v
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal128 %s: %w", v, err)
	}
	return d, nil
}

func fromNullDecimal128(v *primitive.Decimal128) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := fromDecimal128(*v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

type aircraftDoc struct {
	ID           int64  `bson:"_id"`
	Registration string `bson:"registration"`
	Brand        string `bson:"brand"`
	Model        string `bson:"model"`
}

func newAircraftDoc(a models.Aircraft) aircraftDoc {
	return aircraftDoc{ID: a.ID, Registration: a.Registration, Brand: a.Brand, Model: a.Model}
}

func (d aircraftDoc) model() models.Aircraft {
	return models.Aircraft{ID: d.ID, Registration: d.Registration, Brand: d.Brand, Model: d.Model}
}

type employeeDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
	Role string `bson:"role"`
}

func newEmployeeDoc(e models.Employee) employeeDoc {
	return employeeDoc{ID: e.ID, Name: e.Name, Role: string(e.Role)}
}

func (d employeeDoc) model() models.Employee {
	return models.Employee{ID: d.ID, Name: d.Name, Role: models.EmployeeRole(d.Role)}
}

type safraDoc struct {
	ID        int64     `bson:"_id"`
	Label     string    `bson:"label"`
	StartDate time.Time `bson:"start_date"`
	EndDate   time.Time `bson:"end_date"`
}

func newSafraDoc(s models.Safra) safraDoc {
	return safraDoc{ID: s.ID, Label: s.Label, StartDate: s.StartDate.Time, EndDate: s.EndDate.Time}
}

func (d safraDoc) model() models.Safra {
	return models.Safra{
		ID:        d.ID,
		Label:     d.Label,
		StartDate: models.Date{Time: d.StartDate.UTC()},
		EndDate:   models.Date{Time: d.EndDate.UTC()},
	}
}

type serviceDoc struct {
	ID                      int64                 `bson:"_id"`
	StartDate               time.Time             `bson:"start_date"`
	EndDate                 time.Time             `bson:"end_date"`
	Requester               string                `bson:"requester"`
	AreaName                string                `bson:"area_name"`
	Hectares                primitive.Decimal128  `bson:"hectares"`
	ApplicationType         string                `bson:"application_type"`
	FlowRateType            string                `bson:"flow_rate_type"`
	HopperQuantityPerFlight string                `bson:"hopper_quantity_per_flight"`
	Flights                 int                   `bson:"flights"`
	TotalPrice              primitive.Decimal128  `bson:"total_price"`
	FlightHours             primitive.Decimal128  `bson:"flight_hours"`
	PaymentStatus           string                `bson:"payment_status"`
	AircraftID              int64                 `bson:"aircraft_id"`
	PilotID                 int64                 `bson:"pilot_id"`
	SecondaryEmployeeID     *int64                `bson:"secondary_employee_id,omitempty"`
	PilotCommissionPct      primitive.Decimal128  `bson:"pilot_commission_pct"`
	SecondaryCommissionPct  primitive.Decimal128  `bson:"secondary_commission_pct"`
	Alqueires               primitive.Decimal128  `bson:"alqueires"`
	PricePerHectare         *primitive.Decimal128 `bson:"price_per_hectare,omitempty"`
	PricePerAlqueire        *primitive.Decimal128 `bson:"price_per_alqueire,omitempty"`
	AvgPricePerFlightHour   *primitive.Decimal128 `bson:"avg_price_per_flight_hour,omitempty"`
	PilotCommission         primitive.Decimal128  `bson:"pilot_commission"`
	SecondaryCommission     primitive.Decimal128  `bson:"secondary_commission"`
	NetProfit               primitive.Decimal128  `bson:"net_profit"`
	NetProfitPct            *primitive.Decimal128 `bson:"net_profit_pct,omitempty"`
	CreatedBy               int64                 `bson:"created_by"`
	CreatedAt               time.Time             `bson:"created_at"`
}

func newServiceDoc(s models.Service) (serviceDoc, error) {
	var ec encoder
	doc := serviceDoc{
		ID:                      s.ID,
		StartDate:               s.StartDate,
		EndDate:                 s.EndDate,
		Requester:               s.Requester,
		AreaName:                s.AreaName,
		Hectares:                ec.dec(s.Hectares),
		ApplicationType:         string(s.ApplicationType),
		FlowRateType:            s.FlowRateType,
		HopperQuantityPerFlight: s.HopperQuantityPerFlight,
		Flights:                 s.Flights,
		TotalPrice:              ec.dec(s.TotalPrice),
		FlightHours:             ec.dec(s.FlightHours),
		PaymentStatus:           string(s.PaymentStatus),
		AircraftID:              s.AircraftID,
		PilotID:                 s.PilotID,
		SecondaryEmployeeID:     s.SecondaryEmployeeID,
		PilotCommissionPct:      ec.dec(s.PilotCommissionPct),
		SecondaryCommissionPct:  ec.dec(s.SecondaryCommissionPct),
		Alqueires:               ec.dec(s.Financials.Alqueires),
		PricePerHectare:         ec.null(s.Financials.PricePerHectare),
		PricePerAlqueire:        ec.null(s.Financials.PricePerAlqueire),
		AvgPricePerFlightHour:   ec.null(s.Financials.AvgPricePerFlightHour),
		PilotCommission:         ec.dec(s.Financials.PilotCommission),
		SecondaryCommission:     ec.dec(s.Financials.SecondaryCommission),
		NetProfit:               ec.dec(s.Financials.NetProfit),
		NetProfitPct:            ec.null(s.Financials.NetProfitPct),
		CreatedBy:               s.CreatedBy,
		CreatedAt:               s.CreatedAt,
	}
	if ec.err != nil {
		return serviceDoc{}, fmt.Errorf("service %d: %w", s.ID, ec.err)
	}
	return doc, nil
}

// decoder collects the first conversion error so the field list stays flat.
type decoder struct{ err error }

func (dc *decoder) dec(v primitive.Decimal128) decimal.Decimal {
	d, err := fromDecimal128(v)
	if err != nil && dc.err == nil {
		dc.err = err
	}
	return d
}

func (dc *decoder) null(v *primitive.Decimal128) decimal.NullDecimal {
	d, err := fromNullDecimal128(v)
	if err != nil && dc.err == nil {
		dc.err = err
	}
	return d
}

func (d serviceDoc) model() (models.Service, error) {
	var dc decoder
	s := models.Service{
		ID:                      d.ID,
		StartDate:               d.StartDate.UTC(),
		EndDate:                 d.EndDate.UTC(),
		Requester:               d.Requester,
		AreaName:                d.AreaName,
		Hectares:                dc.dec(d.Hectares),
		ApplicationType:         models.ApplicationType(d.ApplicationType),
		FlowRateType:            d.FlowRateType,
		HopperQuantityPerFlight: d.HopperQuantityPerFlight,
		Flights:                 d.Flights,
		TotalPrice:              dc.dec(d.TotalPrice),
		FlightHours:             dc.dec(d.FlightHours),
		PaymentStatus:           models.PaymentStatus(d.PaymentStatus),
		AircraftID:              d.AircraftID,
		PilotID:                 d.PilotID,
		SecondaryEmployeeID:     d.SecondaryEmployeeID,
		PilotCommissionPct:      dc.dec(d.PilotCommissionPct),
		SecondaryCommissionPct:  dc.dec(d.SecondaryCommissionPct),
		Financials: models.Financials{
			Alqueires:             dc.dec(d.Alqueires),
			PricePerHectare:       dc.null(d.PricePerHectare),
			PricePerAlqueire:      dc.null(d.PricePerAlqueire),
			AvgPricePerFlightHour: dc.null(d.AvgPricePerFlightHour),
			PilotCommission:       dc.dec(d.PilotCommission),
			SecondaryCommission:   dc.dec(d.SecondaryCommission),
			NetProfit:             dc.dec(d.NetProfit),
			NetProfitPct:          dc.null(d.NetProfitPct),
		},
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if dc.err != nil {
		return models.Service{}, fmt.Errorf("service %d: %w", d.ID, dc.err)
	}
	return s, nil
}

type expenseDoc struct {
	ID            int64                 `bson:"_id"`
	Date          time.Time             `bson:"date"`
	Origin        string                `bson:"origin"`
	Type          string                `bson:"type,omitempty"`
	Description   string                `bson:"description,omitempty"`
	Amount        primitive.Decimal128  `bson:"amount"`
	PaymentStatus string                `bson:"payment_status"`
	AircraftID    *int64                `bson:"aircraft_id,omitempty"`
	EmployeeID    *int64                `bson:"employee_id,omitempty"`
	ServiceID     *int64                `bson:"service_id,omitempty"`
	Percentage    *primitive.Decimal128 `bson:"percentage,omitempty"`
}

func newExpenseDoc(e models.Expense) (expenseDoc, error) {
	var ec encoder
	rec := models.FlattenExpense(e)
	doc := expenseDoc{
		ID:            rec.ID,
		Date:          rec.Date.Time,
		Origin:        string(rec.Origin),
		Type:          rec.Type,
		Description:   rec.Description,
		Amount:        ec.dec(rec.Amount),
		PaymentStatus: string(rec.PaymentStatus),
		AircraftID:    rec.AircraftID,
		EmployeeID:    rec.EmployeeID,
		ServiceID:     rec.ServiceID,
		Percentage:    ec.null(rec.Percentage),
	}
	if ec.err != nil {
		return expenseDoc{}, fmt.Errorf("expense %d: %w", rec.ID, ec.err)
	}
	return doc, nil
}

func (d expenseDoc) model() (models.Expense, error) {
	var dc decoder
	rec := models.ExpenseRecord{
		ID:            d.ID,
		Date:          models.Date{Time: d.Date.UTC()},
		Origin:        models.Origin(d.Origin),
		Type:          d.Type,
		Description:   d.Description,
		Amount:        dc.dec(d.Amount),
		PaymentStatus: models.PaymentStatus(d.PaymentStatus),
		AircraftID:    d.AircraftID,
		EmployeeID:    d.EmployeeID,
		ServiceID:     d.ServiceID,
		Percentage:    dc.null(d.Percentage),
	}
	if dc.err != nil {
		return nil, fmt.Errorf("expense %d: %w", d.ID, dc.err)
	}
	e, err := rec.ToExpense()
	if err != nil {
		return nil, fmt.Errorf("expense %d: %w", d.ID, err)
	}
	return e, nil
}

type snapshotDoc struct {
	Label         string               `bson:"label"`
	PeriodStart   time.Time            `bson:"period_start"`
	PeriodEnd     time.Time            `bson:"period_end"`
	GrossRevenue  primitive.Decimal128 `bson:"gross_revenue"`
	TotalExpenses primitive.Decimal128 `bson:"total_expenses"`
	FuelCost      primitive.Decimal128 `bson:"fuel_cost"`
	OilCost       primitive.Decimal128 `bson:"oil_cost"`
	NetProfit     primitive.Decimal128 `bson:"net_profit"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func newSnapshotDoc(s models.ReportSnapshot) (snapshotDoc, error) {
	var ec encoder
	doc := snapshotDoc{
		Label:         s.Label,
		PeriodStart:   s.PeriodStart,
		PeriodEnd:     s.PeriodEnd,
		GrossRevenue:  ec.dec(s.GrossRevenue),
		TotalExpenses: ec.dec(s.TotalExpenses),
		FuelCost:      ec.dec(s.FuelCost),
		OilCost:       ec.dec(s.OilCost),
		NetProfit:     ec.dec(s.NetProfit),
		CreatedAt:     s.CreatedAt,
	}
	if ec.err != nil {
		return snapshotDoc{}, fmt.Errorf("snapshot %q: %w", s.Label, ec.err)
	}
	return doc, nil
}

func (d snapshotDoc) model() (models.ReportSnapshot, error) {
	var dc decoder
	s := models.ReportSnapshot{
		Label:         d.Label,
		PeriodStart:   d.PeriodStart.UTC(),
		PeriodEnd:     d.PeriodEnd.UTC(),
		GrossRevenue:  dc.dec(d.GrossRevenue),
		TotalExpenses: dc.dec(d.TotalExpenses),
		FuelCost:      dc.dec(d.FuelCost),
		OilCost:       dc.dec(d.OilCost),
		NetProfit:     dc.dec(d.NetProfit),
		CreatedAt:     d.CreatedAt.UTC(),
	}
	if dc.err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("snapshot %s: %w", d.Label, dc.err)
	}
	return s, nil
}
