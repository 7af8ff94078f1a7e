// Package batch adapts registered recount tools into the step-processing
// protocol of the host's batch-export engine. A job lives for exactly one
// step: the host constructs it fresh on every request, carrying the step
// counter in the request itself.
package batch

import "context"

// Job is the step-processing contract the host engine drives. The host
// invokes ProcessStep once per request until it returns false, querying
// PercentComplete alongside to report progress.
type Job interface {
	// ProcessStep runs one page of work. It returns true while more work
	// remains. Callback errors are returned unchanged for the host's own
	// step-failure handling.
	ProcessStep(ctx context.Context) (bool, error)

	// PercentComplete reports overall progress in [0, 100].
	PercentComplete(ctx context.Context) (float64, error)
}

// Request carries the per-step inputs the host extracts from the incoming
// AJAX call. Step starts at 1 and is advanced by the host, never by the job.
type Request struct {
	ToolKey string
	Step    int64
	Start   string
	End     string
}

// step normalizes the externally supplied counter to its 1-based floor.
func (r Request) step() int64 {
	if r.Step < 1 {
		return 1
	}
	return r.Step
}
