// Package finance derives per-service financial fields and folds services and
// expenses into reports. Every function is pure: callers pass immutable
// snapshots and receive new values.
package finance

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// HectaresPerAlqueire is the fixed regional conversion factor.
var HectaresPerAlqueire = decimal.RequireFromString("4.84")

var (
	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
)

// HectaresToAlqueires converts an area in hectares to alqueires.
func HectaresToAlqueires(h decimal.Decimal) decimal.Decimal {
	return h.Div(HectaresPerAlqueire)
}

// AlqueiresToHectares converts an area in alqueires to hectares.
func AlqueiresToHectares(a decimal.Decimal) decimal.Decimal {
	return a.Mul(HectaresPerAlqueire)
}

// RatePerUnit divides total by quantity. The result is null when quantity is
// not positive.
func RatePerUnit(total, quantity decimal.Decimal) decimal.NullDecimal {
	if !quantity.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(total.Div(quantity))
}

// RoundMoney rounds to cents. Only presentation code calls it.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundNullMoney is RoundMoney for optional values.
func RoundNullMoney(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2))
}

// ParseFlightTime reads flight time either as HH:MM or as decimal hours
// ("1.5" or "1,5") and returns decimal hours.
func ParseFlightTime(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, &models.ValidationError{Field: "flight_time", Reason: "must be provided"}
	}

	if hh, mm, ok := strings.Cut(value, ":"); ok {
		hh, mm = strings.TrimSpace(hh), strings.TrimSpace(mm)
		hours, err := strconv.Atoi(hh)
		if err != nil || hours < 0 || signed(hh) {
			return decimal.Zero, &models.ValidationError{Field: "flight_time", Reason: "invalid hours in " + value}
		}
		minutes, err := strconv.Atoi(mm)
		if err != nil || minutes < 0 || minutes >= 60 || signed(mm) {
			return decimal.Zero, &models.ValidationError{Field: "flight_time", Reason: "invalid minutes in " + value}
		}
		return decimal.NewFromInt(int64(hours)).Add(decimal.NewFromInt(int64(minutes)).Div(sixty)), nil
	}

	hours, err := decimal.NewFromString(strings.Replace(value, ",", ".", 1))
	if err != nil {
		return decimal.Zero, &models.ValidationError{Field: "flight_time", Reason: "expected HH:MM or decimal hours, got " + value}
	}
	return hours, nil
}

func signed(s string) bool {
	return strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+")
}
