package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/portattr/internal/domain"
)

// PortfolioExposure returns the holding-weighted factor exposure Σᵢ wᵢ·Bᵢ over
// the securities present in both the holding and the exposure table, in the
// exposure's factor order. Missing weights and loadings are skipped.
func PortfolioExposure(holding Holding, exposure Exposure) ([]FactorExposure, error) {
	if err := exposure.validate(); err != nil {
		return nil, err
	}

	out := make([]FactorExposure, len(exposure.Factors))
	for j, f := range exposure.Factors {
		out[j] = FactorExposure{Factor: f}
	}

	for i, sec := range exposure.Securities {
		w, ok := holding[sec]
		if !ok || math.IsNaN(w) {
			continue
		}
		for j := range out {
			if term := w * exposure.Loadings.At(i, j); !math.IsNaN(term) {
				out[j].Value += term
			}
		}
	}
	return out, nil
}

// DatedExposure is the portfolio factor exposure of one date.
type DatedExposure struct {
	Date      time.Time
	Exposures []FactorExposure
}

// PortfolioExposureByDate applies PortfolioExposure to every date of a panel,
// keeping input order. The factor covariance and specific risk of the inputs
// are not used.
func PortfolioExposureByDate(inputs []DatedInput) ([]DatedExposure, error) {
	out := make([]DatedExposure, len(inputs))
	for i, in := range inputs {
		exposures, err := PortfolioExposure(in.Holding, in.Exposure)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", domain.FormatDate(in.Date), err)
		}
		out[i] = DatedExposure{Date: in.Date, Exposures: exposures}
	}
	return out, nil
}
