package sim

import (
	"sort"
)

// FCFS runs processes strictly in arrival order, each to completion.
// Ties keep input order; priority values are ignored.
type FCFS struct{}

func (f *FCFS) Schedule(procs []Process, clock int64) (*Result, error) {
	a := newArena(procs, clock)
	order := a.unfinished()
	sort.SliceStable(order, func(i, j int) bool {
		return a.procs[order[i]].ArrivalTime < a.procs[order[j]].ArrivalTime
	})
	for _, h := range order {
		if arrival := a.procs[h].ArrivalTime; a.clock < arrival {
			a.clock = arrival
		}
		a.run(h, a.procs[h].RemainingTime)
	}
	return a.result(LabelFCFS), nil
}
