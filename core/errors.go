package core

import "fmt"

var (
	// ErrWorkerInvocation indicates a worker call could not produce a result.
	ErrWorkerInvocation = fmt.Errorf("worker invocation failed")

	// ErrStructuredParse indicates a structured completion could not be
	// validated against the expected target shape. It always propagates;
	// no worker implementation is allowed to swallow it.
	ErrStructuredParse = fmt.Errorf("structured result parse failed")

	// ErrPlanGeneration indicates the planner could not produce a usable plan.
	ErrPlanGeneration = fmt.Errorf("plan generation failed")

	// ErrEmptyWorkerSet indicates no worker matches the required criteria and
	// no fallback exists.
	ErrEmptyWorkerSet = fmt.Errorf("empty worker set")
)
