// Package judge defines the capability that picks the best candidate out of
// a debate round, and a worker-backed implementation of it.
package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/internal/util"
	"github.com/hupe1980/debatemesh/trace"
	"github.com/hupe1980/debatemesh/worker"
)

// Judge picks the best of several candidate answers for a task. It returns
// the chosen index into candidates plus typed metadata for the trace.
type Judge interface {
	Pick(ctx context.Context, task string, candidates []core.Candidate) (int, trace.JudgeMeta, error)
}

const judgeSystemPrompt = "You are an impartial judge comparing candidate answers to the same task. " +
	"Pick the single best answer. Respond with a single JSON object and nothing else."

const judgeUserPrompt = `Task: %s

Candidate answers:
%s

Respond with JSON matching this schema:
%s`

// judgeResponse is the structured shape a judging worker fills in.
type judgeResponse struct {
	BestAnswerIndex int    `json:"best_answer_index" description:"Index of the best answer among the candidates"`
	Reason          string `json:"reason" description:"Short reason for the decision"`
}

// WorkerJudge asks a worker to compare candidates via a structured
// completion.
type WorkerJudge struct {
	worker worker.Worker
}

// NewWorkerJudge creates a judge backed by the given worker.
func NewWorkerJudge(w worker.Worker) *WorkerJudge {
	return &WorkerJudge{worker: w}
}

// Pick implements Judge. A decision whose index does not address the
// candidate list is a judge failure, not a silent clamp.
func (j *WorkerJudge) Pick(ctx context.Context, task string, candidates []core.Candidate) (int, trace.JudgeMeta, error) {
	var listing strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&listing, "[#%d] %s\n", i, c.Text)
	}

	req := worker.Request{
		System: judgeSystemPrompt,
		User:   fmt.Sprintf(judgeUserPrompt, task, listing.String(), util.SchemaJSON(judgeResponse{})),
	}

	var resp judgeResponse
	if _, err := j.worker.CompleteStructured(ctx, req, &resp); err != nil {
		return 0, trace.JudgeMeta{}, err
	}
	if resp.BestAnswerIndex < 0 || resp.BestAnswerIndex >= len(candidates) {
		return 0, trace.JudgeMeta{}, fmt.Errorf("judge chose index %d out of %d candidates", resp.BestAnswerIndex, len(candidates))
	}

	return resp.BestAnswerIndex, trace.JudgeMeta{Reason: resp.Reason}, nil
}
