// Package trace defines the append-only run record produced by the
// orchestration loop: one StepTrace per executed step plus run-level totals.
// The trace is a plain value artifact; callers may serialize it as needed, no
// wire format is mandated.
package trace

import (
	"time"

	"github.com/hupe1980/debatemesh/core"
)

// JudgeMeta is the typed metadata attached to a judge decision. When an
// escalation round re-judged the step, Improve carries the second round's
// metadata.
type JudgeMeta struct {
	Reason  string     `json:"reason"`
	Improve *JudgeMeta `json:"improve,omitempty"`
}

// VerifierMeta is the typed metadata attached to a verification outcome, with
// the same Improve nesting as JudgeMeta.
type VerifierMeta struct {
	Reason  string        `json:"reason"`
	Improve *VerifierMeta `json:"improve,omitempty"`
}

// EscalationTrace records the single escalation round of a step: its own
// routed worker, candidate set and judge choice. ChosenIndex addresses the
// comparison set {original chosen candidate} ∪ Candidates, so index 0 means
// the escalation judge kept the original answer.
type EscalationTrace struct {
	RoutedWorkers []string         `json:"routed_workers"`
	Candidates    []core.Candidate `json:"candidates"`
	ChosenIndex   int              `json:"chosen_index"`
	Verified      bool             `json:"verified"`
}

// StepTrace records one executed plan step. RoutedWorkers and Candidates
// capture the initial round; ChosenIndex always indexes Candidates.
// Escalation, when present, records the improvement round unambiguously.
type StepTrace struct {
	StepIndex     int              `json:"step_index"`
	Skill         core.Skill       `json:"skill"`
	RoutedWorkers []string         `json:"routed_workers"`
	Candidates    []core.Candidate `json:"candidates"`
	ChosenIndex   int              `json:"chosen_index"`
	JudgeMeta     JudgeMeta        `json:"judge_meta"`
	Verified      bool             `json:"verified"`
	VerifierMeta  VerifierMeta     `json:"verifier_meta"`
	Escalation    *EscalationTrace `json:"escalation,omitempty"`
}

// Chosen returns the candidate the step finally settled on. When an
// escalation round picked a new candidate, that candidate is returned;
// otherwise the initial round's choice.
func (st *StepTrace) Chosen() core.Candidate {
	if st.Escalation != nil && st.Escalation.ChosenIndex > 0 {
		return st.Escalation.Candidates[st.Escalation.ChosenIndex-1]
	}
	return st.Candidates[st.ChosenIndex]
}

// RunTrace is the single output artifact of a run.
type RunTrace struct {
	RunID        string        `json:"run_id"`
	Task         string        `json:"task"`
	FinalText    string        `json:"final_text"`
	Steps        []StepTrace   `json:"steps"`
	TotalCostUSD float64       `json:"total_cost_usd"`
	TotalLatency time.Duration `json:"total_latency"`
}
