package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Origin is the fixed category tag of an expense.
type Origin string

const (
	OriginAircraft   Origin = "Despesa do Avião"
	OriginVehicle    Origin = "Despesa do Veículo"
	OriginSpecific   Origin = "Despesa Específica"
	OriginCommission Origin = "Comissão do Funcionário"
)

// Origins lists every origin in dashboard order.
var Origins = []Origin{OriginAircraft, OriginCommission, OriginVehicle, OriginSpecific}

// Valid reports whether o is one of the four fixed origins.
func (o Origin) Valid() bool {
	switch o {
	case OriginAircraft, OriginVehicle, OriginSpecific, OriginCommission:
		return true
	}
	return false
}

// Well known expense types.
const (
	TypeFuel  = "Combustível"
	TypeOil   = "Óleo"
	TypeParts = "Peças"
)

var hundred = decimal.NewFromInt(100)

// ExpenseBase carries the fields every expense variant has.
type ExpenseBase struct {
	ID            int64
	Date          time.Time
	Amount        decimal.Decimal
	PaymentStatus PaymentStatus
	Description   string
}

// Expense is a cost or a commission payout. The concrete type is one of
// AircraftExpense, VehicleExpense, SpecificExpense or CommissionExpense.
type Expense interface {
	Origin() Origin
	Common() ExpenseBase
	sealed()
}

// CostDetails are the fields of the three non-commission variants.
type CostDetails struct {
	AircraftID *int64
	Type       string
}

// AircraftExpense is a cost incurred by an aircraft (fuel, oil, parts...).
type AircraftExpense struct {
	ExpenseBase
	CostDetails
}

// VehicleExpense is a cost incurred by a ground support vehicle.
type VehicleExpense struct {
	ExpenseBase
	CostDetails
}

// SpecificExpense is any other operating cost.
type SpecificExpense struct {
	ExpenseBase
	CostDetails
}

// CommissionExpense is an employee payout tied to one service.
type CommissionExpense struct {
	ExpenseBase
	EmployeeID int64
	ServiceID  int64
	Percentage decimal.Decimal
}

func (AircraftExpense) Origin() Origin   { return OriginAircraft }
func (VehicleExpense) Origin() Origin    { return OriginVehicle }
func (SpecificExpense) Origin() Origin   { return OriginSpecific }
func (CommissionExpense) Origin() Origin { return OriginCommission }

func (e AircraftExpense) Common() ExpenseBase   { return e.ExpenseBase }
func (e VehicleExpense) Common() ExpenseBase    { return e.ExpenseBase }
func (e SpecificExpense) Common() ExpenseBase   { return e.ExpenseBase }
func (e CommissionExpense) Common() ExpenseBase { return e.ExpenseBase }

func (AircraftExpense) sealed()   {}
func (VehicleExpense) sealed()    {}
func (SpecificExpense) sealed()   {}
func (CommissionExpense) sealed() {}

// Cost returns the cost details of a non-commission expense.
func Cost(e Expense) (CostDetails, bool) {
	switch v := e.(type) {
	case AircraftExpense:
		return v.CostDetails, true
	case VehicleExpense:
		return v.CostDetails, true
	case SpecificExpense:
		return v.CostDetails, true
	}
	return CostDetails{}, false
}

// ExpenseType returns the free-text subcategory, empty for commissions.
func ExpenseType(e Expense) string {
	cost, _ := Cost(e)
	return cost.Type
}

// IsType compares expense types ignoring case and surrounding spaces.
func IsType(e Expense, kind string) bool {
	return strings.EqualFold(strings.TrimSpace(ExpenseType(e)), kind)
}

// ExpenseRecord is the flat shape expenses take at the HTTP and storage
// boundaries.
type ExpenseRecord struct {
	ID            int64               `json:"id"`
	Date          Date                `json:"date"`
	Origin        Origin              `json:"origin" binding:"required"`
	Type          string              `json:"type,omitempty"`
	Description   string              `json:"description,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentStatus PaymentStatus       `json:"payment_status"`
	AircraftID    *int64              `json:"aircraft_id,omitempty"`
	EmployeeID    *int64              `json:"employee_id,omitempty"`
	ServiceID     *int64              `json:"service_id,omitempty"`
	Percentage    decimal.NullDecimal `json:"percentage"`
}

// ToExpense validates the record shape against its origin and builds the
// matching variant.
func (r ExpenseRecord) ToExpense() (Expense, error) {
	if !r.Origin.Valid() {
		return nil, &ValidationError{Field: "origin", Reason: "unknown origin " + string(r.Origin)}
	}
	if r.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "must be provided"}
	}
	if r.Amount.IsNegative() {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	base := ExpenseBase{
		ID:            r.ID,
		Date:          r.Date.Time,
		Amount:        r.Amount,
		PaymentStatus: r.PaymentStatus,
		Description:   r.Description,
	}

	if r.Origin == OriginCommission {
		switch {
		case r.EmployeeID == nil:
			return nil, &ValidationError{Field: "employee_id", Reason: "required for commissions"}
		case r.ServiceID == nil:
			return nil, &ValidationError{Field: "service_id", Reason: "required for commissions"}
		case !r.Percentage.Valid:
			return nil, &ValidationError{Field: "percentage", Reason: "required for commissions"}
		case r.AircraftID != nil || r.Type != "":
			return nil, &ValidationError{Field: "origin", Reason: "commissions carry no aircraft or type"}
		}
		if err := ValidatePercentage("percentage", r.Percentage.Decimal); err != nil {
			return nil, err
		}
		return CommissionExpense{
			ExpenseBase: base,
			EmployeeID:  *r.EmployeeID,
			ServiceID:   *r.ServiceID,
			Percentage:  r.Percentage.Decimal,
		}, nil
	}

	if r.EmployeeID != nil || r.ServiceID != nil || r.Percentage.Valid {
		return nil, &ValidationError{Field: "origin", Reason: "only commissions link employees, services and percentages"}
	}
	if !r.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	cost := CostDetails{AircraftID: r.AircraftID, Type: strings.TrimSpace(r.Type)}
	switch r.Origin {
	case OriginAircraft:
		return AircraftExpense{ExpenseBase: base, CostDetails: cost}, nil
	case OriginVehicle:
		return VehicleExpense{ExpenseBase: base, CostDetails: cost}, nil
	default:
		return SpecificExpense{ExpenseBase: base, CostDetails: cost}, nil
	}
}

// FlattenExpense collapses a variant into its flat record.
func FlattenExpense(e Expense) ExpenseRecord {
	base := e.Common()
	rec := ExpenseRecord{
		ID:            base.ID,
		Date:          Date{Time: base.Date},
		Origin:        e.Origin(),
		Description:   base.Description,
		Amount:        base.Amount,
		PaymentStatus: base.PaymentStatus,
	}
	if cost, ok := Cost(e); ok {
		rec.Type = cost.Type
		rec.AircraftID = cost.AircraftID
		return rec
	}
	if c, ok := e.(CommissionExpense); ok {
		employeeID, serviceID := c.EmployeeID, c.ServiceID
		rec.EmployeeID = &employeeID
		rec.ServiceID = &serviceID
		rec.Percentage = decimal.NewNullDecimal(c.Percentage)
	}
	return rec
}

// ValidatePercentage checks that pct lies in [0, 100].
func ValidatePercentage(field string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return &ValidationError{Field: field, Reason: "must be between 0 and 100"}
	}
	return nil
}

// WithBase returns a copy of e whose common fields were modified by fn.
func WithBase(e Expense, fn func(*ExpenseBase)) Expense {
	switch v := e.(type) {
	case AircraftExpense:
		fn(&v.ExpenseBase)
		return v
	case VehicleExpense:
		fn(&v.ExpenseBase)
		return v
	case SpecificExpense:
		fn(&v.ExpenseBase)
		return v
	case CommissionExpense:
		fn(&v.ExpenseBase)
		return v
	}
	return e
}

// WithExpenseID returns a copy of e carrying id.
func WithExpenseID(e Expense, id int64) Expense {
	return WithBase(e, func(b *ExpenseBase) { b.ID = id })
}
