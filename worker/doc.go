// Package worker defines the invocation contract between the orchestration
// loop and the model providers that execute prompts. A Worker turns a prompt
// into text plus cost/latency/token accounting; provider-specific network
// calls live entirely behind this interface. Concrete providers are found in
// the openai and anthropic subpackages, and MockWorker serves tests and
// examples.
package worker
