package core

import "time"

// Candidate is one worker's answer for a step together with its cost and
// latency accounting. Candidates are immutable once produced by the fan-out.
type Candidate struct {
	Worker    string        `json:"worker"`
	Text      string        `json:"text"`
	Latency   time.Duration `json:"latency"`
	CostUSD   float64       `json:"cost_usd"`
	TokensIn  int           `json:"tokens_in"`
	TokensOut int           `json:"tokens_out"`
}
