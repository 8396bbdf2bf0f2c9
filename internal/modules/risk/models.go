package risk

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when the factor covariance, the exposure
// table and its labels disagree in shape.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrDuplicateSecurity is returned when an exposure table lists a security twice.
var ErrDuplicateSecurity = errors.New("duplicate security")

// Holding maps a security id to its portfolio weight on one date.
// Securities absent from the map have zero weight.
type Holding map[string]float64

// SpecificRisk maps a security id to its idiosyncratic volatility.
type SpecificRisk map[string]float64

// Exposure holds the factor loadings of a set of securities on one date.
// Loadings has one row per security and one column per factor.
type Exposure struct {
	Securities []string
	Factors    []string
	Loadings   *mat.Dense
}

// NewExposure builds an Exposure from row-major loadings.
func NewExposure(securities, factors []string, loadings [][]float64) (Exposure, error) {
	if len(factors) == 0 {
		return Exposure{}, fmt.Errorf("%w: exposure has no factors", ErrDimensionMismatch)
	}
	if len(loadings) != len(securities) {
		return Exposure{}, fmt.Errorf("%w: %d loading rows for %d securities",
			ErrDimensionMismatch, len(loadings), len(securities))
	}

	seen := make(map[string]struct{}, len(securities))
	for _, s := range securities {
		if _, dup := seen[s]; dup {
			return Exposure{}, fmt.Errorf("%w %q in exposure", ErrDuplicateSecurity, s)
		}
		seen[s] = struct{}{}
	}

	e := Exposure{
		Securities: append([]string(nil), securities...),
		Factors:    append([]string(nil), factors...),
	}
	if len(securities) == 0 {
		return e, nil
	}

	data := make([]float64, 0, len(securities)*len(factors))
	for i, row := range loadings {
		if len(row) != len(factors) {
			return Exposure{}, fmt.Errorf("%w: security %q has %d loadings for %d factors",
				ErrDimensionMismatch, securities[i], len(row), len(factors))
		}
		data = append(data, row...)
	}
	e.Loadings = mat.NewDense(len(securities), len(factors), data)
	return e, nil
}

// validate checks that the loadings agree with the labels.
func (e Exposure) validate() error {
	if len(e.Factors) == 0 {
		return fmt.Errorf("%w: exposure has no factors", ErrDimensionMismatch)
	}
	if len(e.Securities) == 0 {
		return nil
	}
	if e.Loadings == nil {
		return fmt.Errorf("%w: exposure has no loadings", ErrDimensionMismatch)
	}
	r, c := e.Loadings.Dims()
	if r != len(e.Securities) || c != len(e.Factors) {
		return fmt.Errorf("%w: loadings are %dx%d for %d securities and %d factors",
			ErrDimensionMismatch, r, c, len(e.Securities), len(e.Factors))
	}
	return nil
}

// NewFactorCovariance builds a factor covariance matrix from row-major rows.
// Non-square input yields ErrDimensionMismatch.
func NewFactorCovariance(rows [][]float64) (*mat.Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty factor covariance", ErrDimensionMismatch)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: factor covariance row %d has %d columns, want %d",
				ErrDimensionMismatch, i, len(row), n)
		}
		data = append(data, row...)
	}
	return mat.NewDense(n, n, data), nil
}

// Contribution is the risk attributed to one security.
type Contribution struct {
	Security   string
	Systematic float64
	Specific   float64
	Total      float64
}

// Measure identifies what the contributions of a Decomposition hold.
type Measure string

const (
	// ContributionToRisk is wᵢ·∂σ/∂wᵢ expressed as a share of σ, so each
	// column of contributions sums to 1.
	ContributionToRisk Measure = "contribution_to_risk"
	// MarginalContribution is ∂σ/∂wᵢ.
	MarginalContribution Measure = "marginal_contribution_to_risk"
)

// Decomposition is the ex-ante risk split of a portfolio.
type Decomposition struct {
	Measure       Measure
	SystematicStd float64
	SpecificStd   float64
	TotalStd      float64
	Contributions []Contribution
}

// FactorExposure is the holding-weighted exposure of a portfolio to one factor.
type FactorExposure struct {
	Factor string
	Value  float64
}

// DatedInput carries the risk model inputs of one portfolio date.
type DatedInput struct {
	Date         time.Time
	Holding      Holding
	Exposure     Exposure
	FactorCov    mat.Matrix
	SpecificRisk SpecificRisk
}

// DatedDecomposition is the decomposition of one portfolio date.
type DatedDecomposition struct {
	Date          time.Time
	Decomposition *Decomposition
}
