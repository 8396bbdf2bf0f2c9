package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Missing observations are carried as NaN throughout this package.

// IsMissing reports whether an observation is missing.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// DropMissing returns the observations that are not missing, preserving order.
func DropMissing(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean calculates the arithmetic mean of the non-missing values.
// Returns NaN when there is nothing to average.
func Mean(data []float64) float64 {
	values := DropMissing(data)
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// StdDev calculates the sample standard deviation (n-1 denominator) of the
// non-missing values. Returns NaN with fewer than two observations.
func StdDev(data []float64) float64 {
	values := DropMissing(data)
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

// Skewness calculates the bias-corrected sample skewness of the non-missing values.
// Returns NaN with fewer than three observations and 0 for a constant series.
func Skewness(data []float64) float64 {
	values := DropMissing(data)
	if len(values) < 3 {
		return math.NaN()
	}
	if negligibleDispersion(values) {
		return 0
	}
	return stat.Skew(values, nil)
}

// Kurtosis calculates the bias-corrected sample excess kurtosis of the non-missing values.
// Returns NaN with fewer than four observations and 0 for a constant series.
func Kurtosis(data []float64) float64 {
	values := DropMissing(data)
	if len(values) < 4 {
		return math.NaN()
	}
	if negligibleDispersion(values) {
		return 0
	}
	return stat.ExKurtosis(values, nil)
}

// negligibleDispersion reports whether the sum of squared deviations from the
// mean is below floating point noise, in which case higher moments are 0.
func negligibleDispersion(values []float64) bool {
	dev := make([]float64, len(values))
	copy(dev, values)
	floats.AddConst(-stat.Mean(values, nil), dev)
	return floats.Dot(dev, dev) < 1e-14
}

// argMin returns the index of the first smallest non-missing value in data[:limit].
func argMin(data []float64, limit int) (int, bool) {
	idx, found := 0, false
	for i := 0; i < limit && i < len(data); i++ {
		v := data[i]
		if IsMissing(v) {
			continue
		}
		if !found || v < data[idx] {
			idx, found = i, true
		}
	}
	return idx, found
}

// argMax returns the index of the first largest non-missing value in data[:limit].
func argMax(data []float64, limit int) (int, bool) {
	idx, found := 0, false
	for i := 0; i < limit && i < len(data); i++ {
		v := data[i]
		if IsMissing(v) {
			continue
		}
		if !found || v > data[idx] {
			idx, found = i, true
		}
	}
	return idx, found
}
