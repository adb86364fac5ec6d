package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

func TestHectaresAlqueiresRoundTrip(t *testing.T) {
	epsilon := d("0.000000001")
	for _, h := range []string{"0.01", "1", "4.84", "100", "123.456", "98765.4321"} {
		back := AlqueiresToHectares(HectaresToAlqueires(d(h)))
		assert.Truef(t, back.Sub(d(h)).Abs().LessThan(epsilon), "round trip of %s gave %s", h, back)
	}
}

func TestHectaresToAlqueires(t *testing.T) {
	assertDecimal(t, "1", HectaresToAlqueires(d("4.84")))
	assertDecimal(t, "20.66", HectaresToAlqueires(d("100")).Round(2))
	assertDecimal(t, "24.2", AlqueiresToHectares(d("5")))
}

func TestRatePerUnit(t *testing.T) {
	rate := RatePerUnit(d("50000"), d("100"))
	require.True(t, rate.Valid)
	assertDecimal(t, "500", rate.Decimal)

	assert.False(t, RatePerUnit(d("50000"), d("0")).Valid)
	assert.False(t, RatePerUnit(d("50000"), d("-1")).Valid)
}

func TestParseFlightTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1:30", "1.5"},
		{"10:00", "10"},
		{"0:45", "0.75"},
		{"2", "2"},
		{"1,25", "1.25"},
		{" 3.5 ", "3.5"},
	}
	for _, tc := range cases {
		got, err := ParseFlightTime(tc.in)
		require.NoError(t, err, tc.in)
		assertDecimal(t, tc.want, got, tc.in)
	}
}

func TestParseFlightTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1:75", "x:10", "1:-5", "-0:30", "-1:00", "0:-0", "+1:30"} {
		_, err := ParseFlightTime(in)
		assert.ErrorIs(t, err, models.ErrValidation, in)
	}
}

func TestRoundNullMoneyKeepsNull(t *testing.T) {
	assert.False(t, RoundNullMoney(RatePerUnit(d("1"), d("0"))).Valid)
	assertDecimal(t, "3.33", RoundNullMoney(RatePerUnit(d("10"), d("3"))).Decimal)
}
