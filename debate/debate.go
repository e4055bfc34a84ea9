// Package debate implements the concurrent fan-out executor: the same
// request is sent to a set of interchangeable workers in parallel and their
// answers are collected as candidates for judging.
package debate

import (
	"context"
	"fmt"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/worker"
	"golang.org/x/sync/errgroup"
)

// Options configures an Executor.
type Options struct {
	// Logger used for per-call results (defaults to NoOp).
	Logger logging.Logger
}

// Executor fans a shared request out to named workers. Invocations are
// independent and share no mutable state; results are returned in the
// caller-specified order irrespective of completion timing. There are no
// retries and no per-worker error isolation: the first failure aborts the
// whole fan-out.
type Executor struct {
	workers map[string]worker.Worker
	logger  logging.Logger
}

// NewExecutor creates an Executor over the given worker registry.
func NewExecutor(workers map[string]worker.Worker, optFns ...func(o *Options)) *Executor {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{workers: workers, logger: opts.Logger}
}

// Run invokes every named worker concurrently with the same request. The
// returned candidates match the order of names. A name that is not in the
// registry, or any failing invocation, fails the entire call.
func (e *Executor) Run(ctx context.Context, names []string, req worker.Request) ([]core.Candidate, error) {
	for _, name := range names {
		if _, ok := e.workers[name]; !ok {
			return nil, fmt.Errorf("%w: worker %q not registered", core.ErrWorkerInvocation, name)
		}
	}

	candidates := make([]core.Candidate, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		w := e.workers[name]
		g.Go(func() error {
			res, err := w.Complete(gctx, req)
			if err != nil {
				e.logger.Error("worker invocation failed", "worker", name, "error", err)
				return fmt.Errorf("worker %q: %w", name, err)
			}
			e.logger.Debug("worker answered", "worker", name, "latency", res.Latency, "cost_usd", res.CostUSD)
			candidates[i] = core.Candidate{
				Worker:    name,
				Text:      res.Text,
				Latency:   res.Latency,
				CostUSD:   res.CostUSD,
				TokensIn:  res.TokensIn,
				TokensOut: res.TokensOut,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return candidates, nil
}
