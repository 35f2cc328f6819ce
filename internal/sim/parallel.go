package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds the i-th member of an ensemble. Each member gets its own
// node, stimulus and metrics.
type Factory func(i int) (*Simulator, error)

// Ensemble runs independent simulations concurrently.
type Ensemble struct {
	factory Factory
	numRuns int
	limit   int
}

func NewEnsemble(numRuns int, factory Factory) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

// SetLimit bounds the number of runs in flight. Zero or less means no bound.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns results in member order. The first failure cancels the
// remaining members.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble size must be positive, got %d", e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			s, err := e.factory(i)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
