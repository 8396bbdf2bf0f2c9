package performance

import (
	"fmt"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/pkg/formulas"
)

// Metric names, in table row order.
const (
	MetricSharpeRatio          = "sharpe_ratio"
	MetricSharpeOmega          = "sharpe_omega"
	MetricAnnualReturn         = "annual_return"
	MetricAnnualStd            = "annual_std"
	MetricAnnualDownsideStd    = "annual_downside_std"
	MetricMaxDrawdownValue     = "max_drawdown_value"
	MetricMaxDrawdownStart     = "max_drawdown_start"
	MetricMaxDrawdownEnd       = "max_drawdown_end"
	MetricLongestDrawdownStart = "longest_drawdown_start"
	MetricLongestDrawdownEnd   = "longest_drawdown_end"
	MetricWinRate              = "win_rate"
	MetricPnLRatio             = "pnl_ratio"
	MetricSkewness             = "skewness"
	MetricKurtosis             = "kurtosis"
)

// MetricNames returns the fixed, ordered list of summary metrics.
func MetricNames() []string {
	return []string{
		MetricSharpeRatio,
		MetricSharpeOmega,
		MetricAnnualReturn,
		MetricAnnualStd,
		MetricAnnualDownsideStd,
		MetricMaxDrawdownValue,
		MetricMaxDrawdownStart,
		MetricMaxDrawdownEnd,
		MetricLongestDrawdownStart,
		MetricLongestDrawdownEnd,
		MetricWinRate,
		MetricPnLRatio,
		MetricSkewness,
		MetricKurtosis,
	}
}

// Metrics holds the raw summary statistics of one return series.
type Metrics struct {
	SharpeRatio       float64
	SharpeOmega       float64
	AnnualReturn      float64
	AnnualStd         float64
	AnnualDownsideStd float64
	MaxDrawdown       float64
	MaxDrawdownWindow DrawdownWindow
	LongestDrawdown   DrawdownWindow
	WinRate           float64
	PnLRatio          float64
	Skewness          float64
	Kurtosis          float64
}

// ComputeMetrics calculates every summary statistic of ret.
// rf is the annual risk-free rate; it also serves as the Sharpe-Omega
// threshold and the downside deviation target.
func ComputeMetrics(ret domain.Series, period formulas.Period, rf float64) (Metrics, error) {
	values := ret.Values()

	var m Metrics
	var err error
	if m.SharpeRatio, err = formulas.SharpeRatio(values, period, rf); err != nil {
		return Metrics{}, fmt.Errorf("sharpe ratio: %w", err)
	}
	if m.AnnualReturn, err = formulas.AnnualReturn(values, period); err != nil {
		return Metrics{}, fmt.Errorf("annual return: %w", err)
	}
	if m.AnnualStd, err = formulas.AnnualStd(values, period); err != nil {
		return Metrics{}, fmt.Errorf("annual std: %w", err)
	}
	if m.AnnualDownsideStd, err = formulas.AnnualDownsideStd(values, period, rf); err != nil {
		return Metrics{}, fmt.Errorf("annual downside std: %w", err)
	}

	m.SharpeOmega = formulas.SharpeOmega(values, rf)
	m.MaxDrawdown = formulas.MaxDrawdown(values)
	m.MaxDrawdownWindow = MaxDrawdownWindow(ret)
	m.LongestDrawdown = LongestDrawdownWindow(ret)
	m.WinRate = formulas.WinRate(values)
	m.PnLRatio = formulas.PnLRatio(values)
	m.Skewness = formulas.Skewness(values)
	m.Kurtosis = formulas.Kurtosis(values)

	return m, nil
}

// Formatted renders the metrics as table cells, in MetricNames order.
func (m Metrics) Formatted() []string {
	return []string{
		FormatRatio(m.SharpeRatio),
		FormatRatio(m.SharpeOmega),
		FormatPercent(m.AnnualReturn),
		FormatPercent(m.AnnualStd),
		FormatPercent(m.AnnualDownsideStd),
		FormatPercent(m.MaxDrawdown),
		m.MaxDrawdownWindow.StartDate(),
		m.MaxDrawdownWindow.EndDate(),
		m.LongestDrawdown.StartDate(),
		m.LongestDrawdown.EndDate(),
		FormatPercent(m.WinRate),
		FormatPercent(m.PnLRatio),
		FormatRatio(m.Skewness),
		FormatRatio(m.Kurtosis),
	}
}
