package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func threeSecurityModel(t *testing.T) (Holding, Exposure, *mat.Dense, SpecificRisk) {
	t.Helper()
	exposure, err := NewExposure(
		[]string{"AAA", "BBB", "CCC"},
		[]string{"market", "size"},
		[][]float64{
			{1.0, 0.5},
			{0.8, -0.2},
			{1.2, 0.3},
		},
	)
	require.NoError(t, err)

	cov, err := NewFactorCovariance([][]float64{
		{0.04, 0.01},
		{0.01, 0.09},
	})
	require.NoError(t, err)

	holding := Holding{"AAA": 0.6, "BBB": 0.4, "ZZZ": 0.1}
	specific := SpecificRisk{"AAA": 0.2, "BBB": 0.3, "CCC": 0.25}
	return holding, exposure, cov, specific
}

func TestDecomposeVariance_ContributionToRisk(t *testing.T) {
	holding, exposure, cov, specific := threeSecurityModel(t)

	d, err := DecomposeVariance(holding, exposure, cov, specific, true)
	require.NoError(t, err)

	assert.Equal(t, ContributionToRisk, d.Measure)
	assert.InDelta(t, 0.2055723716845238, d.SystematicStd, 1e-12)
	assert.InDelta(t, 0.16970562748477142, d.SpecificStd, 1e-12)
	assert.InDelta(t, 0.26657081610709, d.TotalStd, 1e-12)

	// CCC has zero weight and is dropped; ZZZ is not in the exposure table.
	require.Len(t, d.Contributions, 2)
	assert.Equal(t, "AAA", d.Contributions[0].Security)
	assert.InDelta(t, 0.7595835305253192, d.Contributions[0].Systematic, 1e-12)
	assert.InDelta(t, 0.5, d.Contributions[0].Specific, 1e-12)
	assert.InDelta(t, 0.6543765831691529, d.Contributions[0].Total, 1e-12)
	assert.Equal(t, "BBB", d.Contributions[1].Security)
	assert.InDelta(t, 0.24041646947468054, d.Contributions[1].Systematic, 1e-12)
	assert.InDelta(t, 0.34562341683084724, d.Contributions[1].Total, 1e-12)

	sum := d.Sum()
	assert.InDelta(t, 1.0, sum.Systematic, 1e-12)
	assert.InDelta(t, 1.0, sum.Specific, 1e-12)
	assert.InDelta(t, 1.0, sum.Total, 1e-12)
}

func TestDecomposeVariance_MarginalContribution(t *testing.T) {
	holding, exposure, cov, specific := threeSecurityModel(t)

	d, err := DecomposeVariance(holding, exposure, cov, specific, false)
	require.NoError(t, err)

	assert.Equal(t, MarginalContribution, d.Measure)
	// CCC is not held but still has a positive marginal contribution.
	require.Len(t, d.Contributions, 3)
	assert.InDelta(t, 0.2602489797709896, d.Contributions[0].Systematic, 1e-12)
	assert.InDelta(t, 0.14142135623730953, d.Contributions[0].Specific, 1e-12)
	assert.InDelta(t, 0.2907294996946169, d.Contributions[0].Total, 1e-12)
	assert.InDelta(t, 0.26997791359420426, d.Contributions[2].Systematic, 1e-12)
	assert.Equal(t, 0.0, d.Contributions[2].Specific)
	assert.InDelta(t, 0.2081998352651773, d.Contributions[2].Total, 1e-12)
}

func TestDecomposeVariance_SingleSecuritySingleFactor(t *testing.T) {
	const factorVar, specificVol = 0.04, 0.3

	exposure, err := NewExposure([]string{"AAA"}, []string{"market"}, [][]float64{{1.0}})
	require.NoError(t, err)
	cov, err := NewFactorCovariance([][]float64{{factorVar}})
	require.NoError(t, err)

	d, err := DecomposeVariance(Holding{"AAA": 1.0}, exposure, cov, SpecificRisk{"AAA": specificVol}, true)
	require.NoError(t, err)

	assert.InDelta(t, factorVar+specificVol*specificVol, d.TotalStd*d.TotalStd, 1e-12)
	assert.InDelta(t, d.TotalStd*d.TotalStd, d.SystematicStd*d.SystematicStd+d.SpecificStd*d.SpecificStd, 1e-12)

	require.Len(t, d.Contributions, 1)
	row := d.Contributions[0]
	assert.InDelta(t, 1.0, row.Systematic, 1e-12)
	assert.InDelta(t, 1.0, row.Specific, 1e-12)
	assert.InDelta(t, 1.0, row.Total, 1e-12)
}

func TestDecomposeVariance_DimensionMismatch(t *testing.T) {
	_, exposure, _, specific := threeSecurityModel(t)
	holding := Holding{"AAA": 1}

	nonSquare := mat.NewDense(2, 3, []float64{1, 0, 0, 0, 1, 0})
	_, err := DecomposeVariance(holding, exposure, nonSquare, specific, true)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	wrongWidth := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	_, err = DecomposeVariance(holding, exposure, wrongWidth, specific, true)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = DecomposeVariance(holding, exposure, nil, specific, true)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	broken := exposure
	broken.Factors = []string{"market"}
	_, err = DecomposeVariance(holding, broken, mat.NewDense(1, 1, []float64{1}), specific, true)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewExposure_Validation(t *testing.T) {
	_, err := NewExposure([]string{"AAA"}, nil, [][]float64{{}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewExposure([]string{"AAA", "BBB"}, []string{"m"}, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewExposure([]string{"AAA"}, []string{"m", "s"}, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewExposure([]string{"AAA", "AAA"}, []string{"m"}, [][]float64{{1}, {1}})
	assert.ErrorIs(t, err, ErrDuplicateSecurity)

	e, err := NewExposure(nil, []string{"m"}, nil)
	require.NoError(t, err)
	assert.Nil(t, e.Loadings)
}

func TestNewFactorCovariance_Validation(t *testing.T) {
	_, err := NewFactorCovariance(nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewFactorCovariance([][]float64{{1, 0}, {0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDecomposeVariance_EmptyUniverse(t *testing.T) {
	exposure, err := NewExposure(nil, []string{"m"}, nil)
	require.NoError(t, err)
	cov, err := NewFactorCovariance([][]float64{{0.04}})
	require.NoError(t, err)

	d, err := DecomposeVariance(Holding{"AAA": 1}, exposure, cov, nil, true)
	require.NoError(t, err)
	assert.Empty(t, d.Contributions)
}

func TestDecomposeVariance_DegenerateCovariancePropagatesNaN(t *testing.T) {
	exposure, err := NewExposure([]string{"AAA", "BBB"}, []string{"m"}, [][]float64{{1}, {1}})
	require.NoError(t, err)
	// Negative factor variance makes the systematic variance negative.
	cov, err := NewFactorCovariance([][]float64{{-0.04}})
	require.NoError(t, err)

	d, err := DecomposeVariance(Holding{"AAA": 0.5, "BBB": 0.5}, exposure, cov,
		SpecificRisk{"AAA": 0.3, "BBB": 0.3}, true)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(d.SystematicStd))
	// Systematic terms are NaN and skipped by the row filter; the specific
	// share keeps both rows.
	require.Len(t, d.Contributions, 2)
	assert.True(t, math.IsNaN(d.Contributions[0].Systematic))
	assert.InDelta(t, 0.5, d.Contributions[0].Specific, 1e-12)
}

func TestDecomposeVariance_NoFactorRisk(t *testing.T) {
	exposure, err := NewExposure([]string{"AAA"}, []string{"m"}, [][]float64{{0}})
	require.NoError(t, err)
	cov, err := NewFactorCovariance([][]float64{{0.04}})
	require.NoError(t, err)

	d, err := DecomposeVariance(Holding{"AAA": 1}, exposure, cov, SpecificRisk{"AAA": 0.2}, true)
	require.NoError(t, err)

	assert.Equal(t, 0.0, d.SystematicStd)
	require.Len(t, d.Contributions, 1)
	assert.True(t, math.IsNaN(d.Contributions[0].Systematic), "0/0")
	assert.InDelta(t, 1.0, d.Contributions[0].Total, 1e-12)
}

func TestDecomposeVariance_DoesNotMutateInputs(t *testing.T) {
	holding, exposure, cov, specific := threeSecurityModel(t)
	before := mat.DenseCopyOf(exposure.Loadings)
	covBefore := mat.DenseCopyOf(cov)

	first, err := DecomposeVariance(holding, exposure, cov, specific, true)
	require.NoError(t, err)
	second, err := DecomposeVariance(holding, exposure, cov, specific, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, mat.Equal(before, exposure.Loadings))
	assert.True(t, mat.Equal(covBefore, cov))
	assert.Len(t, holding, 3)
}
