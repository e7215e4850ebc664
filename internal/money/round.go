// Package money normalizes monetary amounts.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on every emitted amount.
const Places = 2

// Round2 rounds x to two decimal places, half away from zero.
//
// The float is first converted to its shortest decimal representation, so
// 1.005 rounds to 1.01 rather than to whatever the binary expansion implies.
// NaN and infinities are returned unchanged.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(Places).InexactFloat64()
}
