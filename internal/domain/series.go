package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrUnorderedDates is returned when series dates are not strictly increasing.
	ErrUnorderedDates = errors.New("series dates must be strictly increasing")
	// ErrLengthMismatch is returned when dates and values differ in length.
	ErrLengthMismatch = errors.New("series dates and values differ in length")
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// Series is a date-indexed sequence of values with strictly increasing dates.
// Missing observations are NaN.
type Series struct {
	dates  []time.Time
	values []float64
}

// NewSeries builds a Series, copying its inputs.
func NewSeries(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, fmt.Errorf("%w: %d dates, %d values", ErrLengthMismatch, len(dates), len(values))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Series{}, fmt.Errorf("%w: %s follows %s",
				ErrUnorderedDates, FormatDate(dates[i]), FormatDate(dates[i-1]))
		}
	}

	s := Series{
		dates:  make([]time.Time, len(dates)),
		values: make([]float64, len(values)),
	}
	copy(s.dates, dates)
	copy(s.values, values)
	return s, nil
}

// MustSeries is NewSeries for literals known to be valid. It panics on error.
func MustSeries(dates []time.Time, values []float64) Series {
	s, err := NewSeries(dates, values)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of observations, missing ones included.
func (s Series) Len() int {
	return len(s.values)
}

// Dates returns a copy of the date index.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Values returns a copy of the values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Date returns the i-th date.
func (s Series) Date(i int) time.Time {
	return s.dates[i]
}

// Value returns the i-th value.
func (s Series) Value(i int) float64 {
	return s.values[i]
}

// Slice returns the observations in [i, j).
func (s Series) Slice(i, j int) Series {
	return MustSeries(s.dates[i:j], s.values[i:j])
}

// WithValues returns a series on the same date index carrying new values.
func (s Series) WithValues(values []float64) (Series, error) {
	return NewSeries(s.dates, values)
}

// DropMissing returns the series without NaN observations.
func (s Series) DropMissing() Series {
	var dates []time.Time
	var values []float64
	for i, v := range s.values {
		if math.IsNaN(v) {
			continue
		}
		dates = append(dates, s.dates[i])
		values = append(values, v)
	}
	return MustSeries(dates, values)
}

// Sub returns s - other aligned on the union of both date indexes.
// A date present in only one series yields a missing value.
func (s Series) Sub(other Series) Series {
	index := make(map[int64]int, len(s.dates)+len(other.dates))
	var union []time.Time
	for _, d := range append(s.Dates(), other.dates...) {
		key := d.Unix()
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = 0
		union = append(union, d)
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })
	for i, d := range union {
		index[d.Unix()] = i
	}

	left := filled(len(union))
	right := filled(len(union))
	for i, d := range s.dates {
		left[index[d.Unix()]] = s.values[i]
	}
	for i, d := range other.dates {
		right[index[d.Unix()]] = other.values[i]
	}

	values := make([]float64, len(union))
	for i := range values {
		values[i] = left[i] - right[i]
	}
	return MustSeries(union, values)
}

// YearSlice is the part of a series falling in one calendar year.
type YearSlice struct {
	Year   int
	Series Series
}

// GroupByYear splits the series into consecutive calendar-year slices,
// in ascending year order.
func (s Series) GroupByYear() []YearSlice {
	var groups []YearSlice
	start := 0
	for i := 1; i <= len(s.dates); i++ {
		if i < len(s.dates) && s.dates[i].Year() == s.dates[start].Year() {
			continue
		}
		groups = append(groups, YearSlice{
			Year:   s.dates[start].Year(),
			Series: s.Slice(start, i),
		})
		start = i
	}
	return groups
}

func filled(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
