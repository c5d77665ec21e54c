package sim

import (
	"fmt"
)

// RoundRobin time-slices a single FIFO ready queue.
// Arrivals at or before the clock join the tail before each dispatch. A process that
// does not finish its quantum re-enters the tail at once, ahead of anything that
// arrived during its slice.
type RoundRobin struct {
	Quantum int64
}

// NewRoundRobin returns a RoundRobin policy. Quantum must be positive.
func NewRoundRobin(quantum int64) (*RoundRobin, error) {
	if quantum <= 0 {
		return nil, fmt.Errorf("%w: round robin quantum must be > 0, got %d", ErrInvalidParams, quantum)
	}
	return &RoundRobin{Quantum: quantum}, nil
}

func (rr *RoundRobin) Schedule(procs []Process, clock int64) (*Result, error) {
	if rr.Quantum <= 0 {
		return nil, fmt.Errorf("%w: round robin quantum must be > 0, got %d", ErrInvalidParams, rr.Quantum)
	}
	a := newArena(procs, clock)
	pending := a.unfinished()
	var queue []int
	for len(pending) > 0 || len(queue) > 0 {
		for len(pending) > 0 && a.procs[pending[0]].ArrivalTime <= a.clock {
			queue = append(queue, pending[0])
			pending = pending[1:]
		}
		if len(queue) == 0 {
			a.idle(pending)
			continue
		}
		h := queue[0]
		queue = queue[1:]
		if !a.run(h, min(rr.Quantum, a.procs[h].RemainingTime)) {
			queue = append(queue, h)
		}
	}
	return a.result(LabelRoundRobin), nil
}
