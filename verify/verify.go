// Package verify defines the capability that accepts or rejects a chosen
// answer, and a worker-backed implementation of it.
package verify

import (
	"context"
	"fmt"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/internal/util"
	"github.com/hupe1980/debatemesh/trace"
	"github.com/hupe1980/debatemesh/worker"
)

// Metadata carries the step context handed to the verifier.
type Metadata struct {
	Skill core.Skill `json:"skill"`
	Round int        `json:"round,omitempty"` // 0 for the initial round, 2 for the escalation re-check
}

// Verifier checks a chosen answer for a task: accepted (true) or revise
// (false), plus typed metadata for the trace.
type Verifier interface {
	Check(ctx context.Context, task, answer string, meta Metadata) (bool, trace.VerifierMeta, error)
}

const verifierSystemPrompt = "You are a strict reviewer. Decide whether the answer fully solves the " +
	"task or needs revision. Respond with a single JSON object and nothing else."

const verifierUserPrompt = `Task: %s

Answer:
%s

Step context: skill=%s round=%d

Respond with JSON matching this schema:
%s`

// verdictAccept is the response value that marks an answer as accepted.
const verdictAccept = "ACCEPT"

// verifyResponse is the structured shape a verifying worker fills in.
type verifyResponse struct {
	Response string `json:"response" description:"ACCEPT or REVISE the answer"`
	Reason   string `json:"reason" description:"Short reason for the decision"`
}

// WorkerVerifier asks a worker to review an answer via a structured
// completion.
type WorkerVerifier struct {
	worker worker.Worker
}

// NewWorkerVerifier creates a verifier backed by the given worker.
func NewWorkerVerifier(w worker.Worker) *WorkerVerifier {
	return &WorkerVerifier{worker: w}
}

// Check implements Verifier. Anything other than an explicit ACCEPT counts
// as a revision request.
func (v *WorkerVerifier) Check(ctx context.Context, task, answer string, meta Metadata) (bool, trace.VerifierMeta, error) {
	req := worker.Request{
		System: verifierSystemPrompt,
		User:   fmt.Sprintf(verifierUserPrompt, task, answer, meta.Skill, meta.Round, util.SchemaJSON(verifyResponse{})),
	}

	var resp verifyResponse
	if _, err := v.worker.CompleteStructured(ctx, req, &resp); err != nil {
		return false, trace.VerifierMeta{}, err
	}

	return resp.Response == verdictAccept, trace.VerifierMeta{Reason: resp.Reason}, nil
}
