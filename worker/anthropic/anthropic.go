// Package anthropic provides a worker implementation backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/worker"
)

// Options configure the Anthropic worker.
type Options struct {
	// Model overrides the API model id; defaults to the spec name.
	Model string

	// APIKey overrides the environment-provided key.
	APIKey string
}

// Worker wraps the Anthropic Messages API behind the worker.Worker interface.
type Worker struct {
	client *anthropic.Client
	spec   worker.Spec
	model  anthropic.Model
}

// New creates a new Anthropic worker using the official client.
func New(spec worker.Spec, optFns ...func(o *Options)) *Worker {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return newWorker(&client, spec, opts)
}

// NewFromClient creates a new Anthropic worker from an existing client.
func NewFromClient(client *anthropic.Client, spec worker.Spec, optFns ...func(o *Options)) *Worker {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return newWorker(client, spec, opts)
}

func newWorker(client *anthropic.Client, spec worker.Spec, opts Options) *Worker {
	if spec.Provider == "" {
		spec.Provider = "anthropic"
	}
	model := opts.Model
	if model == "" {
		model = spec.Name
	}
	return &Worker{client: client, spec: spec, model: anthropic.Model(model)}
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

	params := anthropic.MessageNewParams{
		Model:     w.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	start := time.Now()
	resp, err := w.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic api error: %v", core.ErrWorkerInvocation, err)
	}
	latency := time.Since(start)

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	tokensIn := int(resp.Usage.InputTokens)
	tokensOut := int(resp.Usage.OutputTokens)

	return &worker.Result{
		Text:      text.String(),
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
