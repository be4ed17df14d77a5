package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Ensemble runs independent parameter sets concurrently. Every run gets a
// fresh Simulator from the factory so metrics and observers are never shared.
type Ensemble struct {
	factory func() *Simulator
	limit   int
}

func NewEnsemble(factory func() *Simulator, limit int) *Ensemble {
	if factory == nil {
		factory = func() *Simulator { return New() }
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Ensemble{factory: factory, limit: limit}
}

// Run returns one result per parameter set, in input order. The first failure
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, params []dynamo.Params, cfg dynamo.SolverConfig) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(params))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, p := range params {
		g.Go(func() error {
			res, err := e.factory().Run(ctx, p, cfg)
			if err != nil {
				return err
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
