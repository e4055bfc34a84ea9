// Package plan defines the multi-step task plan consumed by the
// orchestration loop and the Planner capability that produces it.
package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/debatemesh/core"
)

// Step is one unit of work in a plan. Steps are immutable once produced by
// the planner.
type Step struct {
	// Skill is the capability tag used to filter eligible workers.
	Skill core.Skill `json:"skill" description:"The skill required for this step"`

	// Description is the human-readable statement of the step.
	Description string `json:"description" description:"Human-readable description of the step"`

	// Fanout is the number of workers that compete for this step (≥1).
	Fanout int `json:"fanout" description:"Number of workers that will compete for this step"`

	// TierHint, when set, is the minimum worker tier for this step
	// (0=cheap, 1=mid, 2=premium).
	TierHint *int `json:"tier_hint,omitempty" description:"Minimum worker tier for this step: 0=cheap, 1=mid, 2=premium"`

	// MaxImproveRounds is the number of improvement rounds the verifier may
	// trigger (≥0); the loop attempts at most one.
	MaxImproveRounds int `json:"max_improve_rounds" description:"Number of improvement rounds allowed by the verifier"`
}

// Plan is an ordered sequence of steps plus the run-level ceilings. It is
// created once per run and consumed read-only by the loop.
type Plan struct {
	Steps         []Step         `json:"steps"`
	HardBudgetUSD float64        `json:"hard_budget_usd"`
	HardLatency   *time.Duration `json:"hard_latency,omitempty"`
	Seed          int64          `json:"seed"`
}

// Validate checks the structural invariants of a plan.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: plan has no steps", core.ErrPlanGeneration)
	}
	for i, s := range p.Steps {
		if !s.Skill.Valid() {
			return fmt.Errorf("%w: step %d has unknown skill %q", core.ErrPlanGeneration, i, s.Skill)
		}
		if s.Fanout < 1 {
			return fmt.Errorf("%w: step %d has fanout %d", core.ErrPlanGeneration, i, s.Fanout)
		}
		if s.MaxImproveRounds < 0 {
			return fmt.Errorf("%w: step %d has negative improve rounds", core.ErrPlanGeneration, i)
		}
	}
	return nil
}

// Planner turns a task description into an ordered plan honoring the given
// budget and optional latency ceilings.
type Planner interface {
	MakePlan(ctx context.Context, task string, budgetUSD float64, latency *time.Duration) (*Plan, error)
}
