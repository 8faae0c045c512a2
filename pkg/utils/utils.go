package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places between a whole
// currency unit and its minor unit (rupee -> paise, dollar -> cents).
const MinorUnitExponent = 2

// ToMinorUnits converts a whole-unit amount to integer minor units.
// Amounts with more precision than the minor unit are rejected rather than
// rounded.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(MinorUnitExponent)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, MinorUnitExponent)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s is out of range", amount)
	}
	return minor.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a whole-unit decimal
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// FormatMinorUnits renders minor units as a fixed two-decimal string
func FormatMinorUnits(minor int64) string {
	return FromMinorUnits(minor).StringFixed(MinorUnitExponent)
}

// BillingPeriod returns the (month, year) that now falls in, evaluated in loc
func BillingPeriod(now time.Time, loc *time.Location) (int, int) {
	local := now.In(loc)
	return int(local.Month()), local.Year()
}

// CalculateDueDate returns midnight of dueDay in the given month, in loc
func CalculateDueDate(month, year, dueDay int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, loc)
}

// PeriodLabel formats a billing period as MM/YYYY
func PeriodLabel(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}
