package formulas

import (
	"errors"
	"fmt"
)

// Period identifies the sampling frequency of a return series.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Periods per year for each supported sampling frequency.
const (
	BusinessDaysPerYear = 244
	WeeksPerYear        = 52
	MonthsPerYear       = 12
	YearsPerYear        = 1
)

// ErrInvalidPeriod is returned when a period is not one of daily, weekly, monthly or yearly.
var ErrInvalidPeriod = errors.New("invalid period")

var annualizationFactors = map[Period]float64{
	Daily:   BusinessDaysPerYear,
	Weekly:  WeeksPerYear,
	Monthly: MonthsPerYear,
	Yearly:  YearsPerYear,
}

// AnnualizationFactor returns the number of periods per year for the given period.
func AnnualizationFactor(period Period) (float64, error) {
	factor, ok := annualizationFactors[period]
	if !ok {
		return 0, fmt.Errorf("%w: %q (expected daily, weekly, monthly or yearly)", ErrInvalidPeriod, string(period))
	}
	return factor, nil
}

// ParsePeriod converts a period identifier into a Period, rejecting unknown values.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if _, err := AnnualizationFactor(p); err != nil {
		return "", err
	}
	return p, nil
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return string(p)
}
