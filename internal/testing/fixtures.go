// Package testing provides request fixtures shared by the HTTP, server and
// command line tests.
package testing

import (
	"encoding/json"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/internal/modules/performance"
	"github.com/aristath/portattr/internal/modules/risk"
)

// StrategyDates are eight business days of January 2023.
var StrategyDates = []string{
	"2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05",
	"2023-01-06", "2023-01-09", "2023-01-10", "2023-01-11",
}

// Observations zips dates and values into wire observations.
func Observations(dates []string, values []float64) []domain.Observation {
	out := make([]domain.Observation, len(dates))
	for i, d := range dates {
		out[i] = domain.Observation{Date: d, Value: domain.Float(values[i])}
	}
	return out
}

// StrategyReturns is a daily strategy return series with a Sharpe ratio of 8.74.
func StrategyReturns() []domain.Observation {
	return Observations(StrategyDates, []float64{0.01, -0.02, 0.015, -0.005, 0.03, -0.01, 0.0, 0.02})
}

// BenchmarkReturns is a daily benchmark on the strategy dates.
func BenchmarkReturns() []domain.Observation {
	return Observations(StrategyDates, []float64{0.005, -0.01, 0.01, 0.0, 0.01, -0.005, 0.002, 0.01})
}

// StrategyRequest asks for statistics of StrategyReturns.
func StrategyRequest() performance.SeriesRequest {
	return performance.SeriesRequest{Returns: StrategyReturns(), Period: "daily"}
}

// ThreeSecurityModel is a two-factor model over three securities. CCC is not
// held and ZZZ is held but has no exposure, so a contribution decomposition
// keeps AAA and BBB only, with a total std of 0.26657081610709.
func ThreeSecurityModel() risk.ModelRequest {
	return risk.ModelRequest{
		Holding: map[string]float64{"AAA": 0.6, "BBB": 0.4, "ZZZ": 0.1},
		Exposure: risk.ExposureTable{
			Securities: []string{"AAA", "BBB", "CCC"},
			Factors:    []string{"market", "size"},
			Loadings:   [][]float64{{1.0, 0.5}, {0.8, -0.2}, {1.2, 0.3}},
		},
		FactorCovariance: [][]float64{{0.04, 0.01}, {0.01, 0.09}},
		SpecificRisk:     map[string]float64{"AAA": 0.2, "BBB": 0.3, "CCC": 0.25},
	}
}

// MustJSON encodes v, panicking on failure.
func MustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
