// Package engine drives the orchestration control loop. For every plan step
// it routes a small set of interchangeable workers, fans the task out to them
// concurrently, admits the step against the shared budget, judges the
// candidates, verifies the winner, optionally escalates once to a stronger
// tier on rejection and feeds the outcome back into the routing policy.
//
// The loop is strictly sequential across steps: step N+1 never starts before
// step N is fully recorded, because each step both reads and mutates the
// shared budget and routing state. Concurrency exists only inside the
// fan-out, where workers are independent.
package engine
