package risk

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/portattr/internal/domain"
)

// WorkerPool decomposes independent portfolio dates in parallel.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool with the given number of workers.
// Non-positive values default to the number of CPUs.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int {
	return wp.numWorkers
}

// DecomposeBatch runs DecomposeVariance for every input and returns the
// results in input order. The first failure cancels the remaining work and is
// returned, as is a cancelled context.
func (wp *WorkerPool) DecomposeBatch(ctx context.Context, inputs []DatedInput, returnContribution bool) ([]DatedDecomposition, error) {
	if len(inputs) == 0 {
		return []DatedDecomposition{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	out := make([]DatedDecomposition, len(inputs))
	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := DecomposeVariance(input.Holding, input.Exposure,
				input.FactorCov, input.SpecificRisk, returnContribution)
			if err != nil {
				return fmt.Errorf("%s: %w", domain.FormatDate(input.Date), err)
			}
			out[i] = DatedDecomposition{Date: input.Date, Decomposition: d}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
