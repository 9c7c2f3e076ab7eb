package payment

import "github.com/shopspring/decimal"

// MinorUnits converts a major-unit amount to the provider's smallest currency
// unit. exponent is the currency's decimal exponent: 2 for cent currencies
// (100.00 -> 10000), 0 for zero-decimal currencies like IDR or JPY
// (100.00 -> 100). Rounding is half away from zero on the shifted value.
func MinorUnits(amount decimal.Decimal, exponent int32) int64 {
	return amount.Shift(exponent).Round(0).IntPart()
}
