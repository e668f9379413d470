// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/purchase-compare/pkg/constants"
)

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToDecimal converts a percentage (3.5) into its decimal rate (0.035).
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * PercentToDecimal(percentage)
}

// CompoundGrowth returns the growth factor earned over the given number of
// periods at a per-period percentage rate, i.e. (1 + rate/100)^periods - 1.
func CompoundGrowth(ratePercent float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	return math.Pow(1+PercentToDecimal(ratePercent), float64(periods)) - 1
}
