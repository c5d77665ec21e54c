package sim

import (
	"math"
	"sort"
)

// arena is one policy invocation's private copy of the workload. Ready structures hold
// int handles into procs; a handle lives in exactly one structure at a time.
type arena struct {
	procs     []Process
	clock     int64
	completed []int
	rec       timelineRecorder
}

func newArena(procs []Process, clock int64) *arena {
	return &arena{procs: cloneProcesses(procs), clock: clock}
}

// unfinished returns handles of every process still needing the CPU, stably sorted by
// arrival. Processes already eligible at the start clock keep their input order.
func (a *arena) unfinished() []int {
	handles := make([]int, 0, len(a.procs))
	for h := range a.procs {
		if !a.procs[h].Finished {
			handles = append(handles, h)
		}
	}
	sort.SliceStable(handles, func(i, j int) bool {
		ai := max(a.procs[handles[i]].ArrivalTime, a.clock)
		aj := max(a.procs[handles[j]].ArrivalTime, a.clock)
		return ai < aj
	})
	return handles
}

// run executes handle h for length ticks at the current clock and advances the clock.
// Returns true if the process completed.
func (a *arena) run(h int, length int64) bool {
	p := &a.procs[h]
	start := a.clock
	done := p.execute(start, length)
	a.rec.record(p.PID, start, length)
	a.clock += length
	if done {
		a.completed = append(a.completed, h)
	}
	return done
}

// result builds the Result for the processes completed in this run.
func (a *arena) result(label string) *Result {
	completed := make([]Process, len(a.completed))
	for i, h := range a.completed {
		completed[i] = a.procs[h]
	}
	res := newResult(label, completed, a.rec.timeline)
	for h := range a.procs {
		if !a.procs[h].Finished {
			res.Unfinished = append(res.Unfinished, a.procs[h])
		}
	}
	return res
}

// idle advances the clock over a stretch where none of handles is eligible: to the
// earliest arrival among them, and by at least one tick.
func (a *arena) idle(handles []int) {
	next := int64(math.MaxInt64)
	for _, h := range handles {
		if arrival := a.procs[h].ArrivalTime; arrival > a.clock {
			next = min(next, arrival)
		}
	}
	if next == math.MaxInt64 {
		a.clock++
		return
	}
	a.clock = max(a.clock+1, next)
}

// rankKey extracts the ranking value of a process; lower wins.
type rankKey func(p *Process) int64

// pick returns the eligible handle with the lowest key, or -1 if none is eligible.
// Ties go to incumbent when it is tied for the minimum, then to the earliest arrival,
// then to input order.
func (a *arena) pick(handles []int, key rankKey, incumbent int) int {
	best := -1
	for _, h := range handles {
		p := &a.procs[h]
		if !p.Eligible(a.clock) {
			continue
		}
		if best == -1 {
			best = h
			continue
		}
		b := &a.procs[best]
		kp, kb := key(p), key(b)
		switch {
		case kp < kb:
			best = h
		case kp > kb:
		case h == incumbent:
			best = h
		case best == incumbent:
		case p.ArrivalTime < b.ArrivalTime:
			best = h
		case p.ArrivalTime == b.ArrivalTime && h < best:
			best = h
		}
	}
	return best
}

// removeHandle deletes h from handles preserving order.
func removeHandle(handles []int, h int) []int {
	for i, v := range handles {
		if v == h {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	panic("removeHandle: handle not present")
}

// runNonPreemptive repeatedly picks the lowest-key arrived process and runs it to
// completion. With nothing eligible the clock jumps to the next arrival.
func runNonPreemptive(procs []Process, clock int64, key rankKey, label string) *Result {
	a := newArena(procs, clock)
	waiting := a.unfinished()
	for len(waiting) > 0 {
		h := a.pick(waiting, key, -1)
		if h == -1 {
			a.idle(waiting)
			continue
		}
		waiting = removeHandle(waiting, h)
		a.run(h, a.procs[h].RemainingTime)
	}
	return a.result(label)
}

// runPreemptive re-evaluates every tick and runs the lowest-key arrived process for
// exactly one tick. The running process keeps the CPU when tied for the minimum.
func runPreemptive(procs []Process, clock int64, key rankKey, label string) *Result {
	a := newArena(procs, clock)
	waiting := a.unfinished()
	running := -1
	for len(waiting) > 0 {
		h := a.pick(waiting, key, running)
		if h == -1 {
			a.idle(waiting)
			continue
		}
		running = h
		if a.run(h, 1) {
			waiting = removeHandle(waiting, h)
			running = -1
		}
	}
	return a.result(label)
}
