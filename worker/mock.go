package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/debatemesh/core"
)

// MockWorker is a lightweight in-memory Worker useful for tests & examples.
// It returns canned completions with deterministic accounting and can be
// scripted to fail.
type MockWorker struct {
	spec      Spec
	responses map[string]string
	latency   time.Duration
	tokensIn  int
	tokensOut int
	failWith  error
	calls     int
}

// NewMockWorker constructs a MockWorker with the given spec and deterministic
// default accounting (10 tokens in, 20 out, 5ms latency).
func NewMockWorker(spec Spec) *MockWorker {
	if spec.Provider == "" {
		spec.Provider = "mock"
	}
	return &MockWorker{
		spec:      spec,
		responses: make(map[string]string),
		latency:   5 * time.Millisecond,
		tokensIn:  10,
		tokensOut: 20,
	}
}

// AddResponse registers a deterministic canned completion for a user prompt.
func (m *MockWorker) AddResponse(prompt, response string) { m.responses[prompt] = response }

// SetAccounting overrides the fixed latency and token usage reported per call.
func (m *MockWorker) SetAccounting(latency time.Duration, tokensIn, tokensOut int) {
	m.latency = latency
	m.tokensIn = tokensIn
	m.tokensOut = tokensOut
}

// FailWith scripts every subsequent call to fail with the given error.
func (m *MockWorker) FailWith(err error) { m.failWith = err }

// Calls returns the number of Complete/CompleteStructured invocations so far.
func (m *MockWorker) Calls() int { return m.calls }

// Spec implements Worker.
func (m *MockWorker) Spec() Spec { return m.spec }

// Complete implements Worker; returns the canned response for the user prompt
// or a generated fallback.
func (m *MockWorker) Complete(ctx context.Context, req Request) (*Result, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrWorkerInvocation, err)
	}
	if m.failWith != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrWorkerInvocation, m.failWith)
	}
	text := m.responses[req.User]
	if text == "" {
		text = fmt.Sprintf("Mock response from %s to: %s", m.spec.Name, req.User)
	}
	return &Result{
		Text:      text,
		TokensIn:  m.tokensIn,
		TokensOut: m.tokensOut,
		Latency:   m.latency,
		CostUSD:   m.spec.Cost(m.tokensIn, m.tokensOut),
	}, nil
}

// CompleteStructured implements Worker; the canned response text must contain
// a JSON object matching the target shape.
func (m *MockWorker) CompleteStructured(ctx context.Context, req Request, out any) (*Result, error) {
	res, err := m.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ParseStructured(res.Text, out); err != nil {
		return nil, err
	}
	return res, nil
}
