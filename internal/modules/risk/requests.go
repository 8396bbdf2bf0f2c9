package risk

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/portattr/internal/domain"
)

// ErrInvalidRequest is returned for structurally incomplete requests.
var ErrInvalidRequest = errors.New("invalid request")

// ExposureTable is the wire form of an Exposure.
type ExposureTable struct {
	Securities []string    `json:"securities" yaml:"securities" msgpack:"securities"`
	Factors    []string    `json:"factors" yaml:"factors" msgpack:"factors"`
	Loadings   [][]float64 `json:"loadings" yaml:"loadings" msgpack:"loadings"`
}

// ModelRequest carries the risk model inputs of one portfolio date.
type ModelRequest struct {
	Holding          map[string]float64 `json:"holding" yaml:"holding" msgpack:"holding"`
	Exposure         ExposureTable      `json:"exposure" yaml:"exposure" msgpack:"exposure"`
	FactorCovariance [][]float64        `json:"factor_covariance,omitempty" yaml:"factor_covariance,omitempty" msgpack:"factor_covariance,omitempty"`
	SpecificRisk     map[string]float64 `json:"specific_risk,omitempty" yaml:"specific_risk,omitempty" msgpack:"specific_risk,omitempty"`
}

// Input validates the request and converts it into model inputs.
func (m ModelRequest) Input(date time.Time) (DatedInput, error) {
	exposure, err := NewExposure(m.Exposure.Securities, m.Exposure.Factors, m.Exposure.Loadings)
	if err != nil {
		return DatedInput{}, err
	}
	cov, err := NewFactorCovariance(m.FactorCovariance)
	if err != nil {
		return DatedInput{}, err
	}
	return DatedInput{
		Date:         date,
		Holding:      Holding(m.Holding),
		Exposure:     exposure,
		FactorCov:    cov,
		SpecificRisk: SpecificRisk(m.SpecificRisk),
	}, nil
}

// ExposureInput converts the holding and exposure table, ignoring the
// covariance and specific risk.
func (m ModelRequest) ExposureInput() (Holding, Exposure, error) {
	exposure, err := NewExposure(m.Exposure.Securities, m.Exposure.Factors, m.Exposure.Loadings)
	if err != nil {
		return nil, Exposure{}, err
	}
	return Holding(m.Holding), exposure, nil
}

// DecomposeRequest asks for the decomposition of one portfolio date.
// ReturnContribution defaults to true.
type DecomposeRequest struct {
	ModelRequest       `yaml:",inline" msgpack:",inline"`
	ReturnContribution *bool `json:"return_contribution,omitempty" yaml:"return_contribution,omitempty" msgpack:"return_contribution,omitempty"`
}

// Contribution reports whether contributions rather than marginal
// contributions were requested.
func (r DecomposeRequest) Contribution() bool {
	return r.ReturnContribution == nil || *r.ReturnContribution
}

// DatedModel is one date of a batch request.
type DatedModel struct {
	Date         string `json:"date" yaml:"date" msgpack:"date"`
	ModelRequest `yaml:",inline" msgpack:",inline"`
}

// BatchRequest asks for the decomposition of several portfolio dates.
type BatchRequest struct {
	Dates              []DatedModel `json:"dates" yaml:"dates" msgpack:"dates"`
	ReturnContribution *bool        `json:"return_contribution,omitempty" yaml:"return_contribution,omitempty" msgpack:"return_contribution,omitempty"`
}

// Contribution reports whether contributions rather than marginal
// contributions were requested.
func (r BatchRequest) Contribution() bool {
	return r.ReturnContribution == nil || *r.ReturnContribution
}

// Inputs converts every date of the batch, in order.
func (r BatchRequest) Inputs() ([]DatedInput, error) {
	if len(r.Dates) == 0 {
		return nil, fmt.Errorf("%w: dates is required", ErrInvalidRequest)
	}
	inputs := make([]DatedInput, len(r.Dates))
	for i, dm := range r.Dates {
		date, err := domain.ParseDate(dm.Date)
		if err != nil {
			return nil, err
		}
		in, err := dm.Input(date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dm.Date, err)
		}
		inputs[i] = in
	}
	return inputs, nil
}

// ContributionRow is the wire form of a Contribution. Non-finite values are null.
type ContributionRow struct {
	Security   string   `json:"security" yaml:"security" msgpack:"security"`
	Systematic *float64 `json:"systematic_risk" yaml:"systematic_risk" msgpack:"systematic_risk"`
	Specific   *float64 `json:"specific_risk" yaml:"specific_risk" msgpack:"specific_risk"`
	Total      *float64 `json:"total_risk" yaml:"total_risk" msgpack:"total_risk"`
}

// DecompositionResponse is the wire form of a Decomposition.
type DecompositionResponse struct {
	Measure       Measure           `json:"measure" yaml:"measure" msgpack:"measure"`
	SystematicStd *float64          `json:"systematic_std" yaml:"systematic_std" msgpack:"systematic_std"`
	SpecificStd   *float64          `json:"specific_std" yaml:"specific_std" msgpack:"specific_std"`
	TotalStd      *float64          `json:"total_std" yaml:"total_std" msgpack:"total_std"`
	Contributions []ContributionRow `json:"contributions" yaml:"contributions" msgpack:"contributions"`
}

// Response converts the decomposition into its wire form.
func (d *Decomposition) Response() DecompositionResponse {
	rows := make([]ContributionRow, len(d.Contributions))
	for i, c := range d.Contributions {
		rows[i] = ContributionRow{
			Security:   c.Security,
			Systematic: domain.Float(c.Systematic),
			Specific:   domain.Float(c.Specific),
			Total:      domain.Float(c.Total),
		}
	}
	return DecompositionResponse{
		Measure:       d.Measure,
		SystematicStd: domain.Float(d.SystematicStd),
		SpecificStd:   domain.Float(d.SpecificStd),
		TotalStd:      domain.Float(d.TotalStd),
		Contributions: rows,
	}
}

// DatedDecompositionResponse is one date of a batch response.
type DatedDecompositionResponse struct {
	Date                  string `json:"date" yaml:"date" msgpack:"date"`
	DecompositionResponse `yaml:",inline" msgpack:",inline"`
}

// BatchResponse converts batch results into their wire form.
func BatchResponse(results []DatedDecomposition) []DatedDecompositionResponse {
	out := make([]DatedDecompositionResponse, len(results))
	for i, r := range results {
		out[i] = DatedDecompositionResponse{
			Date:                  domain.FormatDate(r.Date),
			DecompositionResponse: r.Decomposition.Response(),
		}
	}
	return out
}

// ExposureRow is the wire form of a FactorExposure.
type ExposureRow struct {
	Factor string   `json:"factor" yaml:"factor" msgpack:"factor"`
	Value  *float64 `json:"value" yaml:"value" msgpack:"value"`
}

// ExposureResponse converts factor exposures into their wire form.
func ExposureResponse(exposures []FactorExposure) []ExposureRow {
	out := make([]ExposureRow, len(exposures))
	for i, e := range exposures {
		out[i] = ExposureRow{Factor: e.Factor, Value: domain.Float(e.Value)}
	}
	return out
}
