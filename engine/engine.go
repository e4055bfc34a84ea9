package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/debatemesh/budget"
	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/debate"
	"github.com/hupe1980/debatemesh/judge"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/plan"
	"github.com/hupe1980/debatemesh/router"
	"github.com/hupe1980/debatemesh/trace"
	"github.com/hupe1980/debatemesh/verify"
	"github.com/hupe1980/debatemesh/worker"
)

const solveSystemPrompt = "You are an expert problem solver. Answer the task directly, completely " +
	"and concisely."

const improveSystemPrompt = "You are an expert reviewer improving a previous answer. Fix its " +
	"weaknesses and return the full improved answer."

const improveUserPrompt = `Task: %s

Previous answer:
%s

Return an improved answer to the task.`

// Config defines tuning parameters for step execution.
type Config struct {
	// Temperature applied to every solve and improve request.
	Temperature float64

	// MaxTokens caps worker output per call. 0 defers to each worker's spec.
	MaxTokens int
}

// DefaultConfig provides the baseline execution parameters.
var DefaultConfig = Config{Temperature: 0.2}

// Options configures an Engine.
type Options struct {
	Config Config

	// Logger used for loop progress (defaults to NoOp).
	Logger logging.Logger
}

// Engine executes a plan against a worker registry. It owns the run budget
// for the lifetime of each execution and is the single writer of the routing
// statistics between fan-out suspension points.
type Engine struct {
	workers  map[string]worker.Worker
	router   *router.Router
	executor *debate.Executor
	judge    judge.Judge
	verifier verify.Verifier
	cfg      Config
	logger   logging.Logger
}

// New creates an Engine over the given worker registry and collaborators.
// Judge and verifier are injected, never looked up by name inside the loop.
func New(workers map[string]worker.Worker, rt *router.Router, j judge.Judge, v verify.Verifier, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		workers:  workers,
		router:   rt,
		executor: debate.NewExecutor(workers, func(o *debate.Options) { o.Logger = opts.Logger }),
		judge:    j,
		verifier: v,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
}

// Execute runs every step of the plan in order and returns the accumulated
// run trace. Any failure during fan-out, judging or verification aborts the
// run; no partial trace is returned.
func (e *Engine) Execute(ctx context.Context, task string, p *plan.Plan) (*trace.RunTrace, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := e.logger

	var b *budget.Budget
	if p.HardLatency != nil {
		b = budget.NewWithDeadline(p.HardBudgetUSD, *p.HardLatency)
	} else {
		b = budget.New(p.HardBudgetUSD)
	}

	logger.Info("run started", "run_id", runID, "steps", len(p.Steps), "budget_usd", p.HardBudgetUSD)

	var (
		totalCost float64
		totalLat  time.Duration
		steps     []trace.StepTrace
	)

	solveReq := worker.Request{
		System:      solveSystemPrompt,
		User:        task,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	}

	for si, step := range p.Steps {
		// ROUTE
		names, err := e.router.PickK(step.Skill, step.Fanout, step.TierHint)
		if err != nil {
			return nil, err
		}
		logger.Info("workers routed", "run_id", runID, "step", si, "skill", step.Skill.String(), "workers", names)

		// EXECUTE: every step fans out the original task request. Steps are
		// not chained; only the budget and routing statistics carry
		// information forward.
		cands, err := e.executor.Run(ctx, names, solveReq)
		if err != nil {
			return nil, fmt.Errorf("step %d fan-out: %w", si, err)
		}

		// ADMIT: admission runs after the fan-out has already spent. Trimming
		// narrows which candidate proceeds but cannot claw back the spend of
		// the discarded ones.
		stepCost := sumCost(cands)
		stepLat := maxLatency(cands)
		if !b.Allow(stepCost, stepLat) {
			logger.Warn("step over budget, trimming to cheapest candidate", "run_id", runID, "step", si, "cost_usd", stepCost)
			cands = []core.Candidate{cheapest(cands)}
			stepCost = cands[0].CostUSD
			stepLat = cands[0].Latency
		}
		totalCost += stepCost
		totalLat += stepLat
		b.Charge(stepCost)

		// JUDGE
		var (
			jIdx  int
			jMeta trace.JudgeMeta
		)
		if len(cands) == 1 {
			jMeta = trace.JudgeMeta{Reason: "single candidate"}
		} else {
			jIdx, jMeta, err = e.judge.Pick(ctx, task, cands)
			if err != nil {
				return nil, fmt.Errorf("step %d judge: %w", si, err)
			}
		}
		chosen := cands[jIdx]

		// VERIFY
		verified, vMeta, err := e.verifier.Check(ctx, task, chosen.Text, verify.Metadata{Skill: step.Skill})
		if err != nil {
			return nil, fmt.Errorf("step %d verify: %w", si, err)
		}

		// ESCALATE: at most one round, on rejection, while budget remains.
		var escalation *trace.EscalationTrace
		if !verified && step.MaxImproveRounds > 0 && b.Remaining() > 0 {
			chosen, verified, escalation, err = e.escalate(ctx, runID, si, task, step, names, chosen, b, &jMeta, &vMeta, &totalCost, &totalLat)
			if err != nil {
				return nil, err
			}
		}

		// Feedback: binary reward tied purely to the final verification.
		reward := 0.0
		if verified {
			reward = 1.0
		}
		e.router.Update(chosen.Worker, reward, chosen.CostUSD)

		// RECORD
		steps = append(steps, trace.StepTrace{
			StepIndex:     si,
			Skill:         step.Skill,
			RoutedWorkers: names,
			Candidates:    cands,
			ChosenIndex:   jIdx,
			JudgeMeta:     jMeta,
			Verified:      verified,
			VerifierMeta:  vMeta,
			Escalation:    escalation,
		})
		logger.Info("step recorded", "run_id", runID, "step", si, "verified", verified, "cost_usd", stepCost, "remaining_usd", b.Remaining())
	}

	// FINALIZE
	last := steps[len(steps)-1]

	logger.Info("run finished", "run_id", runID, "total_cost_usd", totalCost, "total_latency", totalLat)

	return &trace.RunTrace{
		RunID:        runID,
		Task:         task,
		FinalText:    last.Chosen().Text,
		Steps:        steps,
		TotalCostUSD: totalCost,
		TotalLatency: totalLat,
	}, nil
}

// escalate runs the single improvement round: one worker from the next tier
// up revises the chosen answer, the judge compares old against new, and the
// winner is re-verified. Both rounds' metadata are merged under Improve.
func (e *Engine) escalate(
	ctx context.Context,
	runID string,
	si int,
	task string,
	step plan.Step,
	routed []string,
	chosen core.Candidate,
	b *budget.Budget,
	jMeta *trace.JudgeMeta,
	vMeta *trace.VerifierMeta,
	totalCost *float64,
	totalLat *time.Duration,
) (core.Candidate, bool, *trace.EscalationTrace, error) {
	nextTier := e.maxTier(routed) + 1
	logger := e.logger

	logger.Info("escalating step", "run_id", runID, "step", si, "next_tier", nextTier)

	names, err := e.router.PickK(step.Skill, 1, &nextTier)
	if err != nil {
		return core.Candidate{}, false, nil, err
	}

	improveReq := worker.Request{
		System:      improveSystemPrompt,
		User:        fmt.Sprintf(improveUserPrompt, task, chosen.Text),
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	}
	cands, err := e.executor.Run(ctx, names, improveReq)
	if err != nil {
		return core.Candidate{}, false, nil, fmt.Errorf("step %d escalation fan-out: %w", si, err)
	}

	cost := sumCost(cands)
	*totalCost += cost
	*totalLat += maxLatency(cands)
	b.Charge(cost)

	// Compare the original choice against the escalation candidates.
	all := append([]core.Candidate{chosen}, cands...)
	jIdx, jm, err := e.judge.Pick(ctx, task, all)
	if err != nil {
		return core.Candidate{}, false, nil, fmt.Errorf("step %d escalation judge: %w", si, err)
	}
	chosen = all[jIdx]

	verified, vm, err := e.verifier.Check(ctx, task, chosen.Text, verify.Metadata{Skill: step.Skill, Round: 2})
	if err != nil {
		return core.Candidate{}, false, nil, fmt.Errorf("step %d escalation verify: %w", si, err)
	}

	jMeta.Improve = &jm
	vMeta.Improve = &vm

	escalation := &trace.EscalationTrace{
		RoutedWorkers: names,
		Candidates:    cands,
		ChosenIndex:   jIdx,
		Verified:      verified,
	}

	return chosen, verified, escalation, nil
}

// maxTier returns the highest tier among the named workers.
func (e *Engine) maxTier(names []string) int {
	max := 0
	for _, n := range names {
		if w, ok := e.workers[n]; ok && w.Spec().Tier > max {
			max = w.Spec().Tier
		}
	}
	return max
}

func sumCost(cands []core.Candidate) float64 {
	var sum float64
	for _, c := range cands {
		sum += c.CostUSD
	}
	return sum
}

func maxLatency(cands []core.Candidate) time.Duration {
	var max time.Duration
	for _, c := range cands {
		if c.Latency > max {
			max = c.Latency
		}
	}
	return max
}

func cheapest(cands []core.Candidate) core.Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.CostUSD < best.CostUSD {
			best = c
		}
	}
	return best
}
