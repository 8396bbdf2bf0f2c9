package formulas

import "math"

// CumulativeReturns compounds a return series into a growth path: Π(1+r).
// Missing returns are skipped by the product and stay missing in the output.
func CumulativeReturns(returns []float64) []float64 {
	path := make([]float64, len(returns))
	cumulative := 1.0
	for i, r := range returns {
		if IsMissing(r) {
			path[i] = math.NaN()
			continue
		}
		cumulative *= 1 + r
		path[i] = cumulative
	}
	return path
}

// DailyDrawdown calculates the drawdown from the running peak at every point:
// cum/max(cum so far) - 1.
//
// No fill is applied: a missing return yields a missing drawdown at that point,
// and the running peak ignores it.
func DailyDrawdown(returns []float64) []float64 {
	path := CumulativeReturns(returns)
	drawdowns := make([]float64, len(path))
	peak := math.NaN()
	for i, v := range path {
		if IsMissing(v) {
			drawdowns[i] = math.NaN()
			continue
		}
		if IsMissing(peak) || v > peak {
			peak = v
		}
		drawdowns[i] = (v - peak) / peak
	}
	return drawdowns
}

// MaxDrawdown returns the deepest daily drawdown (a value <= 0).
// Returns NaN when no drawdown can be computed.
func MaxDrawdown(returns []float64) float64 {
	drawdowns := DailyDrawdown(returns)
	idx, ok := argMin(drawdowns, len(drawdowns))
	if !ok {
		return math.NaN()
	}
	return drawdowns[idx]
}

// MaxDrawdownWindow locates the worst drawdown as indices into returns.
//
// end is the trough: the first index of the minimum daily drawdown.
// start is the first index of the maximum of the running sum of returns
// over [0, end]. The running sum treats returns as additive, so for large
// returns start can differ from the multiplicative peak.
//
// ok is false when the series has no observed returns.
func MaxDrawdownWindow(returns []float64) (start, end int, ok bool) {
	drawdowns := DailyDrawdown(returns)
	end, ok = argMin(drawdowns, len(drawdowns))
	if !ok {
		return 0, 0, false
	}

	runningSum := make([]float64, len(returns))
	var sum float64
	for i, r := range returns {
		if IsMissing(r) {
			runningSum[i] = math.NaN()
			continue
		}
		sum += r
		runningSum[i] = sum
	}

	start, ok = argMax(runningSum, end+1)
	return start, end, ok
}

type drawdownState int

const (
	atHighWaterMark drawdownState = iota
	inDrawdown
)

// LongestDrawdownWindow finds the drawdown episode spanning the most periods,
// as indices into returns.
//
// Missing returns are treated as 0. The growth path is scanned once against a
// running high-water mark. An episode opens one index before the path first
// drops below the mark and closes one index before the path sets a new high.
// An episode still open at the end of the series wins only when strictly
// longer than the best closed one. With no drawdown at all both indices are 0.
//
// ok is false for an empty series.
func LongestDrawdownWindow(returns []float64) (start, end int, ok bool) {
	if len(returns) == 0 {
		return 0, 0, false
	}

	filled := make([]float64, len(returns))
	for i, r := range returns {
		if !IsMissing(r) {
			filled[i] = r
		}
	}
	path := CumulativeReturns(filled)

	state := atHighWaterMark
	highWater := path[0]
	episodeStart := 0
	bestSpan, bestStart, bestEnd := 0, 0, 0

	for i, v := range path {
		switch {
		case v > highWater:
			if state == inDrawdown {
				state = atHighWaterMark
				if span := i - episodeStart; span > bestSpan {
					bestSpan, bestStart, bestEnd = span, episodeStart, i-1
				}
			}
			highWater = v
		case v < highWater:
			if state == atHighWaterMark {
				state = inDrawdown
				episodeStart = i - 1
			}
		}
	}

	last := len(path) - 1
	if path[last] < highWater && last-episodeStart > bestSpan {
		return episodeStart, last, true
	}
	return bestStart, bestEnd, true
}
