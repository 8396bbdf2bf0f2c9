package performance

import (
	"math"
	"strconv"
)

// Formatting policy for metric tables. Ratios are shown with two decimals and
// percentages with one decimal after scaling by 100. Non-finite values render
// as nan, inf and -inf, with the percent sign kept for percentages.

// FormatRatio renders v with two decimals, e.g. 1.2345 -> "1.23".
func FormatRatio(v float64) string {
	return formatFixed(v, 2)
}

// FormatPercent renders v as a percentage with one decimal, e.g. 0.1234 -> "12.3%".
func FormatPercent(v float64) string {
	return formatFixed(v*100, 1) + "%"
}

func formatFixed(v float64, decimals int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
