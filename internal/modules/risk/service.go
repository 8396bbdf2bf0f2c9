// Package risk decomposes the ex-ante variance of factor-model portfolios into
// systematic and specific contributions per security.
package risk

import (
	"context"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/portattr/internal/utils"
	"github.com/aristath/portattr/pkg/logger"
)

// Service wraps the decomposition routines with logging and a worker pool for
// multi-date batches.
type Service struct {
	pool *WorkerPool
	log  zerolog.Logger
}

// NewService creates a new risk service. workers bounds batch parallelism.
func NewService(workers int, log zerolog.Logger) *Service {
	return &Service{
		pool: NewWorkerPool(workers),
		log:  logger.Component(log, "risk"),
	}
}

// Decompose decomposes the risk of a single portfolio date.
func (s *Service) Decompose(holding Holding, exposure Exposure, factorCov mat.Matrix, specificRisk SpecificRisk, returnContribution bool) (*Decomposition, error) {
	d, err := DecomposeVariance(holding, exposure, factorCov, specificRisk, returnContribution)
	if err != nil {
		s.log.Warn().Err(err).Msg("Rejected variance decomposition")
		return nil, err
	}

	s.log.Debug().
		Int("securities", len(exposure.Securities)).
		Int("factors", len(exposure.Factors)).
		Int("contributors", len(d.Contributions)).
		Float64("total_std", d.TotalStd).
		Msg("Decomposed portfolio variance")
	return d, nil
}

// DecomposeBatch decomposes several portfolio dates in parallel, keeping input order.
func (s *Service) DecomposeBatch(ctx context.Context, inputs []DatedInput, returnContribution bool) ([]DatedDecomposition, error) {
	defer utils.OperationTimer("decompose_batch", s.log)()

	results, err := s.pool.DecomposeBatch(ctx, inputs, returnContribution)
	if err != nil {
		s.log.Warn().Err(err).Int("dates", len(inputs)).Msg("Batch decomposition failed")
		return nil, err
	}

	s.log.Debug().
		Int("dates", len(inputs)).
		Int("workers", s.pool.Size()).
		Msg("Decomposed portfolio variance batch")
	return results, nil
}

// Exposure computes the holding-weighted factor exposure of a portfolio.
func (s *Service) Exposure(holding Holding, exposure Exposure) ([]FactorExposure, error) {
	out, err := PortfolioExposure(holding, exposure)
	if err != nil {
		s.log.Warn().Err(err).Msg("Rejected exposure request")
		return nil, err
	}
	return out, nil
}
