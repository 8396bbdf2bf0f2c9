package performance

import (
	"errors"
	"fmt"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/pkg/formulas"
)

// ErrInvalidRequest is returned when a request carries neither or both of
// returns and nav.
var ErrInvalidRequest = errors.New("invalid request")

// SeriesRequest is the input shared by every performance operation, over HTTP
// and on the command line. Exactly one of Returns or NAV must be given.
type SeriesRequest struct {
	Returns   []domain.Observation `json:"returns,omitempty" yaml:"returns,omitempty" msgpack:"returns,omitempty"`
	NAV       []domain.Observation `json:"nav,omitempty" yaml:"nav,omitempty" msgpack:"nav,omitempty"`
	Benchmark []domain.Observation `json:"benchmark,omitempty" yaml:"benchmark,omitempty" msgpack:"benchmark,omitempty"`
	Period    string               `json:"period,omitempty" yaml:"period,omitempty" msgpack:"period,omitempty"`
	RiskFree  float64              `json:"risk_free,omitempty" yaml:"risk_free,omitempty" msgpack:"risk_free,omitempty"`
}

// StrategyReturns returns the strategy return series, deriving it from the
// NAV when only that was given.
func (r SeriesRequest) StrategyReturns() (domain.Series, error) {
	switch {
	case len(r.Returns) > 0 && len(r.NAV) > 0:
		return domain.Series{}, fmt.Errorf("%w: give either returns or nav, not both", ErrInvalidRequest)
	case len(r.Returns) > 0:
		return domain.SeriesFromObservations(r.Returns)
	case len(r.NAV) > 0:
		nav, err := domain.SeriesFromObservations(r.NAV)
		if err != nil {
			return domain.Series{}, err
		}
		return nav.WithValues(formulas.ReturnsFromNAV(nav.Values()))
	default:
		return domain.Series{}, fmt.Errorf("%w: returns or nav is required", ErrInvalidRequest)
	}
}

// NAVSeries returns the NAV series of the request.
func (r SeriesRequest) NAVSeries() (domain.Series, error) {
	if len(r.NAV) == 0 {
		return domain.Series{}, fmt.Errorf("%w: nav is required", ErrInvalidRequest)
	}
	return domain.SeriesFromObservations(r.NAV)
}

// BenchmarkReturns returns the benchmark return series, or nil when none was given.
func (r SeriesRequest) BenchmarkReturns() (*domain.Series, error) {
	if len(r.Benchmark) == 0 {
		return nil, nil
	}
	b, err := domain.SeriesFromObservations(r.Benchmark)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SamplingPeriod parses the sampling period. The period is required.
func (r SeriesRequest) SamplingPeriod() (formulas.Period, error) {
	if r.Period == "" {
		return "", fmt.Errorf("%w: period is required", ErrInvalidRequest)
	}
	return formulas.ParsePeriod(r.Period)
}

// ReturnsResponse carries a return series.
type ReturnsResponse struct {
	Returns []domain.Observation `json:"returns" yaml:"returns" msgpack:"returns"`
}

// DrawdownResponse is the wire form of a DrawdownReport. Dates of windows that
// do not exist are empty.
type DrawdownResponse struct {
	Daily        []domain.Observation `json:"daily_drawdown" yaml:"daily_drawdown" msgpack:"daily_drawdown"`
	MaxDrawdown  *float64             `json:"max_drawdown" yaml:"max_drawdown" msgpack:"max_drawdown"`
	MaxStart     string               `json:"max_drawdown_start" yaml:"max_drawdown_start" msgpack:"max_drawdown_start"`
	MaxEnd       string               `json:"max_drawdown_end" yaml:"max_drawdown_end" msgpack:"max_drawdown_end"`
	LongestStart string               `json:"longest_drawdown_start" yaml:"longest_drawdown_start" msgpack:"longest_drawdown_start"`
	LongestEnd   string               `json:"longest_drawdown_end" yaml:"longest_drawdown_end" msgpack:"longest_drawdown_end"`
}

// Response converts the report into its wire form.
func (d DrawdownReport) Response() DrawdownResponse {
	return DrawdownResponse{
		Daily:        d.Daily.Observations(),
		MaxDrawdown:  domain.Float(d.MaxDrawdown),
		MaxStart:     d.Max.StartDate(),
		MaxEnd:       d.Max.EndDate(),
		LongestStart: d.Longest.StartDate(),
		LongestEnd:   d.Longest.EndDate(),
	}
}
