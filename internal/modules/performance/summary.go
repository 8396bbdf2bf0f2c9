package performance

import (
	"fmt"
	"strconv"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/pkg/formulas"
)

// Column names of a summary table.
const (
	ColumnStrategy  = "Strategy"
	ColumnBenchmark = "Benchmark"
	ColumnActive    = "Active"
)

type namedSeries struct {
	name   string
	series domain.Series
}

// MetricsTable summarizes ret. Without a benchmark the table has a single
// Strategy column. With one it has Strategy, Benchmark and Active columns,
// the active series being ret - benchmark aligned on dates.
func MetricsTable(ret domain.Series, period formulas.Period, rf float64, benchmark *domain.Series) (*Table, error) {
	if _, err := formulas.AnnualizationFactor(period); err != nil {
		return nil, err
	}

	columns := []namedSeries{{ColumnStrategy, ret}}
	if benchmark != nil {
		columns = append(columns,
			namedSeries{ColumnBenchmark, *benchmark},
			namedSeries{ColumnActive, ret.Sub(*benchmark)},
		)
	}

	table := NewTable(MetricNames())
	for _, col := range columns {
		m, err := ComputeMetrics(col.series, period, rf)
		if err != nil {
			return nil, fmt.Errorf("%s metrics: %w", col.name, err)
		}
		if err := table.AddColumn(col.name, m.Formatted()); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// YearlyMetricsTable summarizes each calendar year of ret independently, one
// column per year. Every year is annualized with the full-period factor.
func YearlyMetricsTable(ret domain.Series, period formulas.Period, rf float64) (*Table, error) {
	if _, err := formulas.AnnualizationFactor(period); err != nil {
		return nil, err
	}

	table := NewTable(MetricNames())
	for _, group := range ret.GroupByYear() {
		m, err := ComputeMetrics(group.Series, period, rf)
		if err != nil {
			return nil, fmt.Errorf("%d metrics: %w", group.Year, err)
		}
		if err := table.AddColumn(strconv.Itoa(group.Year), m.Formatted()); err != nil {
			return nil, err
		}
	}
	return table, nil
}
