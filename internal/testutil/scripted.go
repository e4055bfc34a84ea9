package testutil

import (
	"context"
	"fmt"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/trace"
	"github.com/hupe1980/debatemesh/verify"
	"github.com/hupe1980/debatemesh/worker"
)

// ScriptedJudge returns pre-scripted picks in order. Once the script is
// exhausted it keeps picking index 0.
type ScriptedJudge struct {
	Picks []int
	Err   error

	CallCount int
	SeenSizes []int // candidate list length per call
}

// Pick implements judge.Judge.
func (j *ScriptedJudge) Pick(_ context.Context, _ string, candidates []core.Candidate) (int, trace.JudgeMeta, error) {
	j.SeenSizes = append(j.SeenSizes, len(candidates))
	call := j.CallCount
	j.CallCount++
	if j.Err != nil {
		return 0, trace.JudgeMeta{}, j.Err
	}
	pick := 0
	if call < len(j.Picks) {
		pick = j.Picks[call]
	}
	if pick < 0 || pick >= len(candidates) {
		return 0, trace.JudgeMeta{}, fmt.Errorf("scripted pick %d out of %d candidates", pick, len(candidates))
	}
	return pick, trace.JudgeMeta{Reason: fmt.Sprintf("scripted pick %d", pick)}, nil
}

// ScriptedVerifier returns pre-scripted verdicts in order. Once the script is
// exhausted it keeps accepting.
type ScriptedVerifier struct {
	Verdicts []bool
	Err      error

	CallCount int
	SeenMeta  []verify.Metadata
}

// Check implements verify.Verifier.
func (v *ScriptedVerifier) Check(_ context.Context, _, _ string, meta verify.Metadata) (bool, trace.VerifierMeta, error) {
	v.SeenMeta = append(v.SeenMeta, meta)
	call := v.CallCount
	v.CallCount++
	if v.Err != nil {
		return false, trace.VerifierMeta{}, v.Err
	}
	verdict := true
	if call < len(v.Verdicts) {
		verdict = v.Verdicts[call]
	}
	reason := "scripted accept"
	if !verdict {
		reason = "scripted revise"
	}
	return verdict, trace.VerifierMeta{Reason: reason}, nil
}

// Registry builds a worker registry from mock workers, keyed by spec name.
func Registry(workers ...*worker.MockWorker) map[string]worker.Worker {
	registry := make(map[string]worker.Worker, len(workers))
	for _, w := range workers {
		registry[w.Spec().Name] = w
	}
	return registry
}
