package worker

import (
	"context"
	"time"

	"github.com/hupe1980/debatemesh/core"
)

// Spec describes a worker: identity, provider, pricing, quality tier and
// declared skills. Specs are static for the lifetime of a run.
type Spec struct {
	Name            string       `json:"name"`
	Provider        string       `json:"provider"` // "openai", "anthropic", "mock", etc.
	CostPer1KInput  float64      `json:"cost_per_1k_input"`
	CostPer1KOutput float64      `json:"cost_per_1k_output"`
	MaxOutputTokens int          `json:"max_output_tokens"`
	Tier            int          `json:"tier"`             // 0=cheap, 1=mid, 2=premium
	Skills          []core.Skill `json:"skills,omitempty"` // empty means generalist
}

// Cost computes the USD cost of a call from token usage and the per-1K rates.
func (s Spec) Cost(tokensIn, tokensOut int) float64 {
	return float64(tokensIn)/1000*s.CostPer1KInput + float64(tokensOut)/1000*s.CostPer1KOutput
}

// HasSkill reports whether the spec declares the given skill. A spec with no
// declared skills is a generalist and matches any skill.
func (s Spec) HasSkill(skill core.Skill) bool {
	if len(s.Skills) == 0 {
		return true
	}
	for _, sk := range s.Skills {
		if sk == skill {
			return true
		}
	}
	return false
}

// Request captures a single prompt for a worker.
type Request struct {
	System      string   `json:"system"`
	User        string   `json:"user"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"` // 0 falls back to Spec.MaxOutputTokens
}

// Result is the outcome of a worker call.
type Result struct {
	Text      string        `json:"text"`
	TokensIn  int           `json:"tokens_in"`
	TokensOut int           `json:"tokens_out"`
	Latency   time.Duration `json:"latency"`
	CostUSD   float64       `json:"cost_usd"`
}

// Worker is the minimal interface required by the fan-out executor and the
// capability shims (planner, judge, verifier) to drive generation.
type Worker interface {
	// Spec returns the static descriptor of the worker.
	Spec() Spec

	// Complete executes the request and returns text plus accounting.
	Complete(ctx context.Context, req Request) (*Result, error)

	// CompleteStructured executes the request and additionally parses the
	// returned text into out, which must be a pointer to a JSON-taggable
	// struct. A response that cannot be validated against the target shape
	// fails with core.ErrStructuredParse.
	CompleteStructured(ctx context.Context, req Request, out any) (*Result, error)
}
