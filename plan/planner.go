package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/internal/util"
	"github.com/hupe1980/debatemesh/worker"
)

const plannerSystemPrompt = "You are a planning assistant. Decompose the task into a short ordered " +
	"list of steps. Respond with a single JSON object and nothing else."

const plannerUserPrompt = `Task: %s

Break the task into at most %d steps. Each step names one required skill out
of: %s.

Respond with JSON matching this schema:
%s`

// plannerResponse is the structured shape the planning worker fills in. The
// run-level ceilings are stamped by the caller, not the model.
type plannerResponse struct {
	Steps []Step `json:"steps"`
}

// WorkerPlannerOptions configures a WorkerPlanner.
type WorkerPlannerOptions struct {
	// DefaultFanout replaces a missing or non-positive step fanout.
	DefaultFanout int

	// MaxSteps bounds the plan length requested from the worker.
	MaxSteps int

	// Temperature for the planning call. Planning wants determinism.
	Temperature float64

	// Seed is stamped onto every produced plan.
	Seed int64
}

// WorkerPlanner produces plans by asking a worker for a structured
// completion.
type WorkerPlanner struct {
	worker worker.Worker
	opts   WorkerPlannerOptions
}

// NewWorkerPlanner creates a planner backed by the given worker.
func NewWorkerPlanner(w worker.Worker, optFns ...func(o *WorkerPlannerOptions)) *WorkerPlanner {
	opts := WorkerPlannerOptions{
		DefaultFanout: 2,
		MaxSteps:      5,
		Temperature:   0,
		Seed:          123,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WorkerPlanner{worker: w, opts: opts}
}

// MakePlan implements Planner.
func (p *WorkerPlanner) MakePlan(ctx context.Context, task string, budgetUSD float64, latency *time.Duration) (*Plan, error) {
	skills := make([]string, 0, len(core.AllSkills()))
	for _, s := range core.AllSkills() {
		skills = append(skills, s.String())
	}

	req := worker.Request{
		System:      plannerSystemPrompt,
		User:        fmt.Sprintf(plannerUserPrompt, task, p.opts.MaxSteps, strings.Join(skills, ", "), util.SchemaJSON(plannerResponse{})),
		Temperature: p.opts.Temperature,
		MaxTokens:   512,
	}

	var resp plannerResponse
	if _, err := p.worker.CompleteStructured(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPlanGeneration, err)
	}

	steps := resp.Steps
	if len(steps) > p.opts.MaxSteps {
		steps = steps[:p.opts.MaxSteps]
	}
	for i := range steps {
		if steps[i].Fanout < 1 {
			steps[i].Fanout = p.opts.DefaultFanout
		}
		if steps[i].MaxImproveRounds < 0 {
			steps[i].MaxImproveRounds = 0
		}
	}

	plan := &Plan{
		Steps:         steps,
		HardBudgetUSD: budgetUSD,
		HardLatency:   latency,
		Seed:          p.opts.Seed,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// StaticPlanner returns a fixed sequence of steps for every task. Useful for
// tests, benchmarks and callers that build plans themselves.
type StaticPlanner struct {
	Steps []Step
	Seed  int64
}

// MakePlan implements Planner; the budget and latency ceilings are stamped
// onto a copy of the static steps.
func (p *StaticPlanner) MakePlan(_ context.Context, _ string, budgetUSD float64, latency *time.Duration) (*Plan, error) {
	plan := &Plan{
		Steps:         append([]Step(nil), p.Steps...),
		HardBudgetUSD: budgetUSD,
		HardLatency:   latency,
		Seed:          p.Seed,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
