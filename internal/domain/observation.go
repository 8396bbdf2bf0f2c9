package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO calendar date layout used for every date on the wire.
const DateLayout = "2006-01-02"

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// Observation is the wire form of one series point. A null value is missing.
type Observation struct {
	Date  string   `json:"date" yaml:"date" msgpack:"date"`
	Value *float64 `json:"value" yaml:"value" msgpack:"value"`
}

// Observations converts a series into its wire form.
func (s Series) Observations() []Observation {
	out := make([]Observation, len(s.values))
	for i, v := range s.values {
		out[i] = Observation{Date: FormatDate(s.dates[i]), Value: Float(v)}
	}
	return out
}

// SeriesFromObservations builds a series from its wire form.
func SeriesFromObservations(obs []Observation) (Series, error) {
	dates := make([]time.Time, len(obs))
	values := make([]float64, len(obs))
	for i, o := range obs {
		d, err := ParseDate(o.Date)
		if err != nil {
			return Series{}, err
		}
		dates[i] = d
		values[i] = math.NaN()
		if o.Value != nil {
			values[i] = *o.Value
		}
	}
	return NewSeries(dates, values)
}

// MarshalJSON encodes the series as a list of observations.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Observations())
}

// UnmarshalJSON decodes a list of observations.
func (s *Series) UnmarshalJSON(data []byte) error {
	var obs []Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return err
	}
	parsed, err := SeriesFromObservations(obs)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Float returns a pointer to v, or nil when v is NaN or infinite so that
// the value can be carried by JSON.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
