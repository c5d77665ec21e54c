package sim

import (
	"fmt"
)

// Threshold heuristics. Neither variant learns or persists anything; both are fixed
// comparisons over workload averages.
const (
	shortBurstThreshold  = 5.0
	urgentPriorityCutoff = 2.0
)

// PredictPolicy is the workload-statistics predictor used to label "Intelligent" mode:
// FCFS for an empty workload, SJF-P when the mean burst is at most 5, RR otherwise.
// It is intentionally different from the heuristic inside Intelligent.
func PredictPolicy(specs []ProcessSpec) string {
	if len(specs) == 0 {
		return PolicyFCFS
	}
	var total int64
	for _, s := range specs {
		total += s.BurstTime
	}
	if float64(total)/float64(len(specs)) <= shortBurstThreshold {
		return PolicySJFPreemptive
	}
	return PolicyRoundRobin
}

// Intelligent picks an underlying policy from the average priority and burst of the
// processes it is given:
//   - avg priority <= 2 and avg burst <= 5: SJF preemptive
//   - avg priority > 2 and avg burst > 5: Priority preemptive
//   - otherwise: Round Robin with Quantum
type Intelligent struct {
	Quantum int64
}

// NewIntelligent returns an Intelligent policy. Quantum must be positive because the
// round robin fallback needs it.
func NewIntelligent(quantum int64) (*Intelligent, error) {
	if quantum <= 0 {
		return nil, fmt.Errorf("%w: intelligent quantum must be > 0, got %d", ErrInvalidParams, quantum)
	}
	return &Intelligent{Quantum: quantum}, nil
}

// Choose returns the registry name of the policy the heuristic selects for procs.
func (in *Intelligent) Choose(procs []Process) string {
	var avgPriority, avgBurst float64
	if n := len(procs); n > 0 {
		var totalPriority, totalBurst int64
		for i := range procs {
			totalPriority += procs[i].Priority
			totalBurst += procs[i].BurstTime
		}
		avgPriority = float64(totalPriority) / float64(n)
		avgBurst = float64(totalBurst) / float64(n)
	}
	switch {
	case avgPriority <= urgentPriorityCutoff && avgBurst <= shortBurstThreshold:
		return PolicySJFPreemptive
	case avgPriority > urgentPriorityCutoff && avgBurst > shortBurstThreshold:
		return PolicyPriorityPreemptive
	default:
		return PolicyRoundRobin
	}
}

func (in *Intelligent) Schedule(procs []Process, clock int64) (*Result, error) {
	var inner Policy
	switch in.Choose(procs) {
	case PolicySJFPreemptive:
		inner = &SJF{Preemptive: true}
	case PolicyPriorityPreemptive:
		inner = &PriorityScheduling{Preemptive: true}
	default:
		rr, err := NewRoundRobin(in.Quantum)
		if err != nil {
			return nil, err
		}
		inner = rr
	}
	res, err := inner.Schedule(procs, clock)
	if res != nil {
		res.Label = fmt.Sprintf("%s (%s)", LabelIntelligent, res.Label)
	}
	return res, err
}
