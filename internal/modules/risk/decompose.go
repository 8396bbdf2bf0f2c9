package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DecomposeVariance splits the ex-ante risk of a portfolio into systematic,
// specific and total parts per security (Qian 2005).
//
//	σ² = wᵀBΣfBᵀw + wᵀSw
//	MCR = (BΣfBᵀw + Sw) / σ
//	CR  = w ⊙ MCR / σ
//
// The holding is reindexed onto the exposure's securities with missing weights
// set to zero; missing specific risks are zero as well. With
// returnContribution the contributions are CR, otherwise MCR. Only securities
// whose three values sum to a positive number are kept, ignoring NaN terms.
//
// Degenerate inputs are not guarded: a zero or negative variance produces NaN
// or ±Inf through ordinary float division.
func DecomposeVariance(
	holding Holding,
	exposure Exposure,
	factorCov mat.Matrix,
	specificRisk SpecificRisk,
	returnContribution bool,
) (*Decomposition, error) {
	if err := exposure.validate(); err != nil {
		return nil, err
	}
	if factorCov == nil {
		return nil, fmt.Errorf("%w: missing factor covariance", ErrDimensionMismatch)
	}
	r, c := factorCov.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: factor covariance is %dx%d, not square", ErrDimensionMismatch, r, c)
	}
	if r != len(exposure.Factors) {
		return nil, fmt.Errorf("%w: factor covariance is %dx%d, exposure has %d factors",
			ErrDimensionMismatch, r, c, len(exposure.Factors))
	}

	measure := MarginalContribution
	if returnContribution {
		measure = ContributionToRisk
	}

	n := len(exposure.Securities)
	if n == 0 {
		return &Decomposition{Measure: measure, Contributions: []Contribution{}}, nil
	}

	weights := mat.NewVecDense(n, nil)
	specific := mat.NewVecDense(n, nil)
	for i, sec := range exposure.Securities {
		w := holding[sec]
		weights.SetVec(i, w)
		sr := specificRisk[sec]
		specific.SetVec(i, sr*sr*w)
	}

	// BΣfBᵀw
	var bf, bfb mat.Dense
	bf.Mul(exposure.Loadings, factorCov)
	bfb.Mul(&bf, exposure.Loadings.T())
	systematic := mat.NewVecDense(n, nil)
	systematic.MulVec(&bfb, weights)

	total := mat.NewVecDense(n, nil)
	total.AddVec(systematic, specific)

	sysStd := math.Sqrt(mat.Dot(weights, systematic))
	specStd := math.Sqrt(mat.Dot(weights, specific))
	totalStd := math.Sqrt(mat.Dot(weights, total))

	d := &Decomposition{
		Measure:       measure,
		SystematicStd: sysStd,
		SpecificStd:   specStd,
		TotalStd:      totalStd,
		Contributions: make([]Contribution, 0, n),
	}

	for i, sec := range exposure.Securities {
		row := Contribution{
			Security:   sec,
			Systematic: systematic.AtVec(i) / sysStd,
			Specific:   specific.AtVec(i) / specStd,
			Total:      total.AtVec(i) / totalStd,
		}
		if returnContribution {
			w := weights.AtVec(i)
			row.Systematic = row.Systematic * w / sysStd
			row.Specific = row.Specific * w / specStd
			row.Total = row.Total * w / totalStd
		}
		if nanSum(row.Systematic, row.Specific, row.Total) > 0 {
			d.Contributions = append(d.Contributions, row)
		}
	}

	return d, nil
}

// nanSum adds the values, skipping NaN.
func nanSum(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// Sum returns the column sums of the contributions.
func (d *Decomposition) Sum() Contribution {
	var s Contribution
	for _, c := range d.Contributions {
		s.Systematic += c.Systematic
		s.Specific += c.Specific
		s.Total += c.Total
	}
	return s
}
