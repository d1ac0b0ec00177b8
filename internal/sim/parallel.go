package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

type job struct {
	name   string
	sim    *Simulator
	bodies dynamo.BodySet
	cfg    dynamo.Config
}

// Ensemble runs independent simulations concurrently. Each run gets its own
// Simulator and a private copy of its bodies; nothing is parallelised inside a
// single run.
type Ensemble struct {
	jobs  []job
	limit int
}

// NewEnsemble returns an ensemble running at most limit simulations at once.
// A limit of zero or less means no limit.
func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{limit: limit}
}

// Add queues a run. The bodies are cloned, so the caller's set is left
// untouched and may be reused for other runs.
func (e *Ensemble) Add(name string, s *Simulator, bodies dynamo.BodySet, cfg dynamo.Config) {
	e.jobs = append(e.jobs, job{name: name, sim: s, bodies: bodies.Clone(), cfg: cfg})
}

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run executes every queued run and returns results in the order they were
// added. The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, j := range e.jobs {
		i, j := i, j
		g.Go(func() error {
			res, err := j.sim.Run(ctx, j.bodies, j.cfg)
			if err != nil {
				return fmt.Errorf("run %s: %w", j.name, err)
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
