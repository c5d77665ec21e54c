package sim

// PriorityScheduling selects the arrived process with the lowest Priority value.
// It has the same structure as SJF with Priority as the ranking key: non-preemptive
// runs the choice to completion, preemptive re-evaluates every tick.
//
// Priority is the live value, so aging applied by the multi-core dispatcher
// changes the ranking while OriginalPriority stays untouched.
type PriorityScheduling struct {
	Preemptive bool
}

func (ps *PriorityScheduling) Schedule(procs []Process, clock int64) (*Result, error) {
	if ps.Preemptive {
		return runPreemptive(procs, clock, byPriority, LabelPriorityPreemptive), nil
	}
	return runNonPreemptive(procs, clock, byPriority, LabelPriorityNonPreemptive), nil
}

func byPriority(p *Process) int64 { return p.Priority }
