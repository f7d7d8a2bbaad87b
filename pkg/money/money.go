package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a decimal price to integer minor units (e.g. dollars
// to cents), rounding half away from zero. Going through decimal avoids the
// binary-float artifacts of multiplying the raw float by 100.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}
