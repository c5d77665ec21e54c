package sim

import (
	"github.com/inference-sim/schedsim/sim/trace"
)

// Result is the triple every policy and the dispatcher return:
// the completed processes, a display label, and the execution timeline.
type Result struct {
	Completed []Process `json:"completed"` // in completion order
	Label     string    `json:"label"`     // display only; never load-bearing
	Timeline  Timeline  `json:"timeline"`  // sorted by Start

	// Converged is false when an iteration cap aborted the run. The timeline and the
	// completed set then cover only the work done before the abort.
	Converged  bool      `json:"converged"`
	Warnings   []string  `json:"warnings,omitempty"`
	Unfinished []Process `json:"unfinished,omitempty"` // processes left incomplete by an abort

	// Trace holds per-decision records when Params.Trace asks for them.
	Trace *trace.SimulationTrace `json:"-"`
}

// Metrics computes the aggregate metrics for the completed set.
func (r *Result) Metrics() Metrics {
	return ComputeMetrics(r.Completed)
}

func newResult(label string, completed []Process, timeline Timeline) *Result {
	timeline.SortByStart()
	return &Result{
		Completed: completed,
		Label:     label,
		Timeline:  timeline,
		Converged: true,
	}
}

// abort marks the result as partial and returns the matching error.
func (r *Result) abort(policy string, iterations int) error {
	err := &NonConvergenceError{Policy: policy, Iterations: iterations}
	r.Converged = false
	r.Warnings = append(r.Warnings, err.Error())
	return err
}
