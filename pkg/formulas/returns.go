package formulas

import "math"

// ReturnsFromNAV converts a net asset value series into simple period returns.
// Missing NAV values are forward-filled first. The first element is always
// missing, as is every element before the first observed NAV.
func ReturnsFromNAV(nav []float64) []float64 {
	returns := make([]float64, len(nav))
	prev := math.NaN()
	for i, v := range nav {
		if IsMissing(v) {
			v = prev
		}
		returns[i] = v/prev - 1
		prev = v
	}
	if len(returns) > 0 {
		returns[0] = math.NaN()
	}
	return returns
}

// AnnualReturn calculates the compounded annual return of a return series.
//
// Formula: (Π(1+r))^(factor/n) - 1
//
// n counts every observation, missing ones included, while missing values
// are skipped in the product. Returns NaN for an empty series.
func AnnualReturn(returns []float64, period Period) (float64, error) {
	factor, err := AnnualizationFactor(period)
	if err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return math.NaN(), nil
	}

	cumulative := 1.0
	for _, r := range returns {
		if IsMissing(r) {
			continue
		}
		cumulative *= 1 + r
	}

	return math.Pow(cumulative, factor/float64(len(returns))) - 1, nil
}

// AnnualStd calculates annualized volatility: sample std × sqrt(factor).
// Returns NaN with fewer than two observations.
func AnnualStd(returns []float64, period Period) (float64, error) {
	factor, err := AnnualizationFactor(period)
	if err != nil {
		return 0, err
	}
	if len(returns) < 2 {
		return math.NaN(), nil
	}
	return StdDev(returns) * math.Sqrt(factor), nil
}

// AnnualDownsideStd calculates the annualized semi-deviation of returns
// against target.
//
// Only strictly positive deviations (r - target > 0) are squared and summed;
// the sum is divided by the full series length and scaled by the
// annualization factor before taking the square root.
// Returns NaN with fewer than two observations.
func AnnualDownsideStd(returns []float64, period Period, target float64) (float64, error) {
	factor, err := AnnualizationFactor(period)
	if err != nil {
		return 0, err
	}
	if len(returns) < 2 {
		return math.NaN(), nil
	}

	var sumSquares float64
	for _, r := range returns {
		deviation := r - target
		if deviation > 0 {
			sumSquares += deviation * deviation
		}
	}

	return math.Sqrt(sumSquares / float64(len(returns)) * factor), nil
}

// SharpeRatio calculates (annual return - rf) / annual std.
// rf is an annual rate. Returns NaN unless the annual std is positive.
func SharpeRatio(returns []float64, period Period, rf float64) (float64, error) {
	vol, err := AnnualStd(returns, period)
	if err != nil {
		return 0, err
	}
	if !(vol > 0) {
		return math.NaN(), nil
	}
	annual, err := AnnualReturn(returns, period)
	if err != nil {
		return 0, err
	}
	return (annual - rf) / vol, nil
}

// SharpeOmega calculates the mean excess return over threshold divided by the
// expected shortfall below threshold.
//
// The shortfall sums (threshold - r) over every period where it is >= 0 and
// divides by the full series length, not by the number of losing periods.
// Returns NaN for an empty series.
func SharpeOmega(returns []float64, threshold float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}

	var shortfall float64
	for _, r := range returns {
		if gap := threshold - r; gap >= 0 {
			shortfall += gap
		}
	}
	shortfall /= float64(len(returns))

	return (Mean(returns) - threshold) / shortfall
}

// WinRate returns the fraction of observations that are >= 0.
// Missing observations count towards the denominator. NaN for an empty series.
func WinRate(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	wins := 0
	for _, r := range returns {
		if r >= 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// PnLRatio returns the average winning return divided by the magnitude of the
// average losing return: -mean(r >= 0) / mean(r < 0).
func PnLRatio(returns []float64) float64 {
	var wins, losses []float64
	for _, r := range returns {
		switch {
		case r >= 0:
			wins = append(wins, r)
		case r < 0:
			losses = append(losses, r)
		}
	}
	return -Mean(wins) / Mean(losses)
}
