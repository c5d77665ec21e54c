// Defines the Process record that models one job in the simulation and the descriptor
// it is built from. Tracks remaining work and the timestamps metrics are derived from.

package sim

import (
	"fmt"
)

// ProcessSpec is the external process descriptor accepted by the engine.
type ProcessSpec struct {
	PID         string `yaml:"pid" json:"pid"`
	ArrivalTime int64  `yaml:"arrival_time" json:"arrival_time"`
	BurstTime   int64  `yaml:"burst_time" json:"burst_time"`
	Priority    int64  `yaml:"priority" json:"priority"`
}

// Process models a single job's run state.
// Lower Priority values are more urgent. Priority is lowered by aging;
// OriginalPriority keeps the submitted value for inspection.
type Process struct {
	PID              string `json:"pid"`
	ArrivalTime      int64  `json:"arrival_time"`
	BurstTime        int64  `json:"burst_time"` // immutable after creation
	Priority         int64  `json:"priority"`
	OriginalPriority int64  `json:"original_priority"`
	RemainingTime    int64  `json:"remaining_time"` // 0 <= RemainingTime <= BurstTime

	Started   bool  `json:"started"`    // Tracks whether StartTime has been set
	StartTime int64 `json:"start_time"` // First tick the process was granted a CPU
	Finished  bool  `json:"finished"`   // Tracks whether EndTime has been set
	EndTime   int64 `json:"end_time"`   // Tick at which RemainingTime reached 0

	WaitingTime    int64 `json:"waiting_time"`    // TurnaroundTime - BurstTime
	TurnaroundTime int64 `json:"turnaround_time"` // EndTime - ArrivalTime

	LastScheduled int64 `json:"last_scheduled"` // End of the most recent slice; read by aging only
	Level         int   `json:"level"`          // MLFQ queue index, independent of Priority
}

// NewProcess creates a fresh Process from a descriptor. The descriptor is not validated;
// use NewProcesses for untrusted input.
func NewProcess(spec ProcessSpec) Process {
	return Process{
		PID:              spec.PID,
		ArrivalTime:      spec.ArrivalTime,
		BurstTime:        spec.BurstTime,
		Priority:         spec.Priority,
		OriginalPriority: spec.Priority,
		RemainingTime:    spec.BurstTime,
	}
}

// NewProcesses validates every descriptor and builds the process set in input order.
// It fails on the first invalid descriptor rather than coercing values.
func NewProcesses(specs []ProcessSpec) ([]Process, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	procs := make([]Process, len(specs))
	for i, spec := range specs {
		procs[i] = NewProcess(spec)
	}
	return procs, nil
}

// ValidateSpecs checks the descriptor constraints: non-empty unique pid,
// arrival >= 0, burst > 0, priority >= 0.
func ValidateSpecs(specs []ProcessSpec) error {
	seen := make(map[string]int, len(specs))
	for i, s := range specs {
		if s.PID == "" {
			return &InvalidProcessError{Index: i, PID: s.PID, Field: "pid", Reason: "must not be empty"}
		}
		if first, dup := seen[s.PID]; dup {
			return &InvalidProcessError{Index: i, PID: s.PID, Field: "pid",
				Reason: fmt.Sprintf("duplicates process #%d", first)}
		}
		seen[s.PID] = i
		if s.ArrivalTime < 0 {
			return &InvalidProcessError{Index: i, PID: s.PID, Field: "arrival_time",
				Reason: fmt.Sprintf("must be >= 0, got %d", s.ArrivalTime)}
		}
		if s.BurstTime <= 0 {
			return &InvalidProcessError{Index: i, PID: s.PID, Field: "burst_time",
				Reason: fmt.Sprintf("must be > 0, got %d", s.BurstTime)}
		}
		if s.Priority < 0 {
			return &InvalidProcessError{Index: i, PID: s.PID, Field: "priority",
				Reason: fmt.Sprintf("must be >= 0, got %d", s.Priority)}
		}
	}
	return nil
}

// Spec returns the descriptor this process was created from.
func (p *Process) Spec() ProcessSpec {
	return ProcessSpec{PID: p.PID, ArrivalTime: p.ArrivalTime, BurstTime: p.BurstTime, Priority: p.OriginalPriority}
}

// Eligible reports whether the process has arrived by clock and still needs the CPU.
func (p *Process) Eligible(clock int64) bool {
	return !p.Finished && p.ArrivalTime <= clock
}

// execute runs the process for length ticks starting at start and finalizes it when its
// remaining time reaches zero. Returns true if the process completed.
func (p *Process) execute(start, length int64) bool {
	if p.Finished {
		panic(fmt.Sprintf("execute: process %s already finished at %d", p.PID, p.EndTime))
	}
	if length <= 0 || length > p.RemainingTime {
		panic(fmt.Sprintf("execute: process %s slice %d outside (0, %d]", p.PID, length, p.RemainingTime))
	}
	if start < p.ArrivalTime {
		panic(fmt.Sprintf("execute: process %s run at %d before arrival %d", p.PID, start, p.ArrivalTime))
	}
	if !p.Started {
		p.Started = true
		p.StartTime = start
	}
	end := start + length
	p.RemainingTime -= length
	p.LastScheduled = end
	if p.RemainingTime == 0 {
		p.finalize(end)
		return true
	}
	return false
}

func (p *Process) finalize(end int64) {
	p.Finished = true
	p.EndTime = end
	p.TurnaroundTime = p.EndTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %s, Arrival: %d, Burst: %d, Remaining: %d, Priority: %d)",
		p.PID, p.ArrivalTime, p.BurstTime, p.RemainingTime, p.Priority)
}

// cloneProcesses returns an independent copy of procs; the caller's slice is never mutated.
func cloneProcesses(procs []Process) []Process {
	out := make([]Process, len(procs))
	copy(out, procs)
	return out
}
