package sim

// SJF selects the arrived process with the least work.
//
// Non-preemptive mode ranks by BurstTime and runs the choice to completion.
// Preemptive mode (shortest remaining time first) ranks by RemainingTime every tick.
// Warning: SJF can starve long processes under a steady stream of short ones.
type SJF struct {
	Preemptive bool
}

func (s *SJF) Schedule(procs []Process, clock int64) (*Result, error) {
	if s.Preemptive {
		return runPreemptive(procs, clock, byRemainingTime, LabelSJFPreemptive), nil
	}
	return runNonPreemptive(procs, clock, byBurstTime, LabelSJFNonPreemptive), nil
}

func byBurstTime(p *Process) int64     { return p.BurstTime }
func byRemainingTime(p *Process) int64 { return p.RemainingTime }
