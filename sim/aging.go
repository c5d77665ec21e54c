package sim

import (
	"github.com/sirupsen/logrus"
)

// DefaultBoostInterval is the number of ticks a process may go unscheduled before aging
// lowers its Priority value.
const DefaultBoostInterval int64 = 10

// ApplyPriorityBoost ages the processes referenced by handles: every incomplete process
// not scheduled for more than interval ticks gets Priority-1 (floored at 0) and its
// LastScheduled reset to clock. Returns the number of processes boosted.
//
// Only Priority changes; OriginalPriority and the MLFQ Level are left alone.
func ApplyPriorityBoost(procs []Process, handles []int, clock, interval int64) int {
	boosted := 0
	for _, h := range handles {
		p := &procs[h]
		if p.Finished || p.RemainingTime == 0 {
			continue
		}
		if clock-p.LastScheduled > interval {
			p.Priority = max(0, p.Priority-1)
			p.LastScheduled = clock
			boosted++
			logrus.Debugf("aging: %s priority -> %d at clock %d", p.PID, p.Priority, clock)
		}
	}
	return boosted
}
