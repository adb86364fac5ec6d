package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationType describes what the aircraft spreads over the area.
type ApplicationType string

const (
	ApplicationSeed   ApplicationType = "Sólido"
	ApplicationLiquid ApplicationType = "Líquido"
	ApplicationNone   ApplicationType = "Nenhum"
)

// PaymentStatus is the payment confirmation of a service or expense.
type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "Pago"
	PaymentOpen PaymentStatus = "Em aberto"
)

// Financials holds the fields derived from a service's raw inputs. Rates are
// null when their divisor is zero.
type Financials struct {
	Alqueires             decimal.Decimal     `json:"alqueires"`
	PricePerHectare       decimal.NullDecimal `json:"price_per_hectare"`
	PricePerAlqueire      decimal.NullDecimal `json:"price_per_alqueire"`
	AvgPricePerFlightHour decimal.NullDecimal `json:"avg_price_per_flight_hour"`
	PilotCommission       decimal.Decimal     `json:"pilot_commission"`
	SecondaryCommission   decimal.Decimal     `json:"secondary_commission"`
	NetProfit             decimal.Decimal     `json:"net_profit"`
	NetProfitPct          decimal.NullDecimal `json:"net_profit_pct"`
}

// Service is one billable flight job over a farm area.
type Service struct {
	ID                      int64           `json:"id"`
	StartDate               time.Time       `json:"start_date"`
	EndDate                 time.Time       `json:"end_date"`
	Requester               string          `json:"requester"`
	AreaName                string          `json:"area_name"`
	Hectares                decimal.Decimal `json:"hectares"`
	ApplicationType         ApplicationType `json:"application_type"`
	FlowRateType            string          `json:"flow_rate_type"`
	HopperQuantityPerFlight string          `json:"hopper_quantity_per_flight"`
	Flights                 int             `json:"flights"`
	TotalPrice              decimal.Decimal `json:"total_price"`
	FlightHours             decimal.Decimal `json:"flight_hours"`
	PaymentStatus           PaymentStatus   `json:"payment_status"`
	AircraftID              int64           `json:"aircraft_id"`
	PilotID                 int64           `json:"pilot_id"`
	SecondaryEmployeeID     *int64          `json:"secondary_employee_id,omitempty"`
	PilotCommissionPct      decimal.Decimal `json:"pilot_commission_pct"`
	SecondaryCommissionPct  decimal.Decimal `json:"secondary_commission_pct"`
	Financials              Financials      `json:"financials"`
	CreatedBy               int64           `json:"created_by"`
	CreatedAt               time.Time       `json:"created_at"`
}

// FlightTime is flight time as entered: "HH:MM", or decimal hours sent
// either as a JSON number or as a string.
type FlightTime string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlightTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*f = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*f = FlightTime(raw)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlightTime(n.String())
	return nil
}

// ServiceDraft is the raw input of the service registration and edit forms.
type ServiceDraft struct {
	StartDate               Date            `json:"start_date" binding:"required"`
	EndDate                 Date            `json:"end_date"`
	Requester               string          `json:"requester"`
	AreaName                string          `json:"area_name"`
	Hectares                decimal.Decimal `json:"hectares"`
	ApplicationType         ApplicationType `json:"application_type"`
	FlowRateType            string          `json:"flow_rate_type"`
	HopperQuantityPerFlight string          `json:"hopper_quantity_per_flight"`
	Flights                 int             `json:"flights" binding:"gte=0"`
	TotalPrice              decimal.Decimal `json:"total_price"`
	FlightTime              FlightTime      `json:"flight_time" binding:"required"`
	PaymentStatus           PaymentStatus   `json:"payment_status"`
	AircraftID              int64           `json:"aircraft_id"`
	PilotID                 int64           `json:"pilot_id"`
	SecondaryEmployeeID     *int64          `json:"secondary_employee_id"`
	PilotCommissionPct      decimal.Decimal `json:"pilot_commission_pct"`
	SecondaryCommissionPct  decimal.Decimal `json:"secondary_commission_pct"`
	PilotPaymentStatus      PaymentStatus   `json:"pilot_payment_status"`
	SecondaryPaymentStatus  PaymentStatus   `json:"secondary_payment_status"`
	CreatedBy               int64           `json:"created_by"`
}
