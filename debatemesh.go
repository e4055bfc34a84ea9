// Package debatemesh provides a high-level façade over the orchestration
// engine and its collaborators, enabling rapid construction of budgeted
// multi-worker debate pipelines. Most applications interact with this package
// by:
//  1. Creating a DebateMesh via New() with a worker set, planner, judge and verifier
//  2. Calling Run() with a task and a hard budget (and optional latency ceiling)
//  3. Inspecting the returned RunTrace
//
// The façade delegates all control flow to engine.Engine while keeping setup
// ergonomics concise. Workers, judge, verifier and planner are injected at
// construction and never looked up by name inside the loop.
package debatemesh

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/engine"
	"github.com/hupe1980/debatemesh/judge"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/plan"
	"github.com/hupe1980/debatemesh/router"
	"github.com/hupe1980/debatemesh/trace"
	"github.com/hupe1980/debatemesh/verify"
	"github.com/hupe1980/debatemesh/worker"
)

// Options configures the DebateMesh instance.
type Options struct {
	// Workers is the pool of interchangeable workers the router selects from.
	Workers []worker.Worker

	// Planner turns a task into a step plan. Optional when only RunWithPlan
	// is used.
	Planner plan.Planner

	// Judge picks the best candidate of a debate round.
	Judge judge.Judge

	// Verifier accepts or rejects a chosen answer.
	Verifier verify.Verifier

	// RouterConfig tunes the bandit policy.
	RouterConfig router.Config

	// EngineConfig tunes step execution (temperature, token caps).
	EngineConfig engine.Config

	// Seed seeds the router's exploration draws for reproducible runs.
	Seed int64

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// DebateMesh is the high-level façade aggregating the engine, router and
// worker registry for a series of runs.
type DebateMesh struct {
	opts    Options
	planner plan.Planner
	router  *router.Router
	engine  *engine.Engine
}

// New creates a new DebateMesh instance. At least one worker plus a judge and
// a verifier are required.
func New(optFns ...func(o *Options)) (*DebateMesh, error) {
	opts := Options{
		RouterConfig: router.DefaultConfig,
		EngineConfig: engine.DefaultConfig,
		Seed:         123,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(opts.Workers) == 0 {
		return nil, fmt.Errorf("%w: at least one worker is required", core.ErrEmptyWorkerSet)
	}
	if opts.Judge == nil {
		return nil, fmt.Errorf("judge is required")
	}
	if opts.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}

	registry := make(map[string]worker.Worker, len(opts.Workers))
	specs := make([]worker.Spec, 0, len(opts.Workers))
	for _, w := range opts.Workers {
		name := w.Spec().Name
		if _, exists := registry[name]; exists {
			return nil, fmt.Errorf("duplicate worker name %q", name)
		}
		registry[name] = w
		specs = append(specs, w.Spec())
	}

	rt := router.New(specs, func(o *router.Options) {
		o.Config = opts.RouterConfig
		o.Seed = opts.Seed
		o.Logger = opts.Logger
	})

	e := engine.New(registry, rt, opts.Judge, opts.Verifier, func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Logger = opts.Logger
	})

	return &DebateMesh{opts: opts, planner: opts.Planner, router: rt, engine: e}, nil
}

// Run plans the task and executes the resulting plan against the shared
// budget, returning the full run trace.
func (m *DebateMesh) Run(ctx context.Context, task string, budgetUSD float64, latency *time.Duration) (*trace.RunTrace, error) {
	if m.planner == nil {
		return nil, fmt.Errorf("%w: no planner configured", core.ErrPlanGeneration)
	}
	p, err := m.planner.MakePlan(ctx, task, budgetUSD, latency)
	if err != nil {
		return nil, err
	}
	return m.engine.Execute(ctx, task, p)
}

// RunWithPlan executes a pre-built plan for the task.
func (m *DebateMesh) RunWithPlan(ctx context.Context, task string, p *plan.Plan) (*trace.RunTrace, error) {
	return m.engine.Execute(ctx, task, p)
}

// WorkerStat returns the routing statistics accumulated for a worker across
// all runs of this instance.
func (m *DebateMesh) WorkerStat(name string) (router.ArmStat, bool) {
	return m.router.Stat(name)
}
