// Package openai provides a worker implementation backed by the OpenAI Chat
// Completions API. It adapts DebateMesh's worker request/result structures
// into the SDK's message format and derives cost from the spec's per-1K
// rates and the usage block returned by the API.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/worker"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI worker.
type Options struct {
	// Model overrides the API model id; defaults to the spec name.
	Model string

	// APIKey overrides the environment-provided key.
	APIKey string
}

// Worker wraps the OpenAI Chat Completions API behind the worker.Worker
// interface.
type Worker struct {
	client *openai.Client
	spec   worker.Spec
	model  string
}

// New creates a new OpenAI worker using the official client.
func New(spec worker.Spec, optFns ...func(o *Options)) *Worker {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return newWorker(&client, spec, opts)
}

// NewFromClient creates a new OpenAI worker from an existing client.
func NewFromClient(client *openai.Client, spec worker.Spec, optFns ...func(o *Options)) *Worker {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return newWorker(client, spec, opts)
}

func newWorker(client *openai.Client, spec worker.Spec, opts Options) *Worker {
	if spec.Provider == "" {
		spec.Provider = "openai"
	}
	model := opts.Model
	if model == "" {
		model = spec.Name
	}
	return &Worker{client: client, spec: spec, model: model}
}

// Spec implements worker.Worker.
func (w *Worker) Spec() worker.Spec { return w.spec }

// Complete implements worker.Worker.
func (w *Worker) Complete(ctx context.Context, req worker.Request) (*worker.Result, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = w.spec.MaxOutputTokens
	}
	if maxTokens == 0 {
		maxTokens = 512
	}

	params := openai.ChatCompletionNewParams{
		Model: w.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}

	start := time.Now()
	resp, err := w.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: openai api error: %v", core.ErrWorkerInvocation, err)
	}
	latency := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", core.ErrWorkerInvocation)
	}

	tokensIn := int(resp.Usage.PromptTokens)
	tokensOut := int(resp.Usage.CompletionTokens)

	return &worker.Result{
		Text:      resp.Choices[0].Message.Content,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
		Latency:   latency,
		CostUSD:   w.spec.Cost(tokensIn, tokensOut),
	}, nil
}

// CompleteStructured implements worker.Worker; parse failures always
// propagate as core.ErrStructuredParse.
func (w *Worker) CompleteStructured(ctx context.Context, req worker.Request, out any) (*worker.Result, error) {
	res, err := w.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := worker.ParseStructured(res.Text, out); err != nil {
		return nil, err
	}
	return res, nil
}
