// Package performance computes return and drawdown statistics of strategy,
// benchmark and active return series and assembles them into metric tables.
package performance

import (
	"github.com/rs/zerolog"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/pkg/formulas"
	"github.com/aristath/portattr/pkg/logger"
)

// DrawdownReport bundles the drawdown analysis of one return series.
type DrawdownReport struct {
	Daily       domain.Series
	MaxDrawdown float64
	Max         DrawdownWindow
	Longest     DrawdownWindow
}

// Service is the entry point used by the HTTP handlers and the CLI.
// It holds no state beyond its logger.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new performance service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: logger.Component(log, "performance"),
	}
}

// Returns converts a NAV series into simple returns on the same dates.
func (s *Service) Returns(nav domain.Series) domain.Series {
	return domain.MustSeries(nav.Dates(), formulas.ReturnsFromNAV(nav.Values()))
}

// Summary builds the metrics table of ret, with benchmark and active columns
// when benchmark is not nil.
func (s *Service) Summary(ret domain.Series, period formulas.Period, rf float64, benchmark *domain.Series) (*Table, error) {
	table, err := MetricsTable(ret, period, rf, benchmark)
	if err != nil {
		s.log.Warn().Err(err).Str("period", string(period)).Msg("Rejected summary request")
		return nil, err
	}

	s.log.Debug().
		Int("observations", ret.Len()).
		Str("period", string(period)).
		Bool("benchmark", benchmark != nil).
		Msg("Computed metrics table")
	return table, nil
}

// Yearly builds the per-calendar-year metrics table of ret.
func (s *Service) Yearly(ret domain.Series, period formulas.Period, rf float64) (*Table, error) {
	table, err := YearlyMetricsTable(ret, period, rf)
	if err != nil {
		s.log.Warn().Err(err).Str("period", string(period)).Msg("Rejected yearly summary request")
		return nil, err
	}

	s.log.Debug().
		Int("observations", ret.Len()).
		Int("years", len(table.Columns)).
		Msg("Computed yearly metrics table")
	return table, nil
}

// Drawdown analyzes the drawdowns of ret.
func (s *Service) Drawdown(ret domain.Series) DrawdownReport {
	report := DrawdownReport{
		Daily:       DailyDrawdown(ret),
		MaxDrawdown: formulas.MaxDrawdown(ret.Values()),
		Max:         MaxDrawdownWindow(ret),
		Longest:     LongestDrawdownWindow(ret),
	}

	s.log.Debug().
		Int("observations", ret.Len()).
		Str("max_start", report.Max.StartDate()).
		Str("max_end", report.Max.EndDate()).
		Str("longest_start", report.Longest.StartDate()).
		Str("longest_end", report.Longest.EndDate()).
		Msg("Computed drawdowns")
	return report
}
