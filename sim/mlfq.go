package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MaxIterations caps the scheduling steps of MLFQ and the rounds of the multi-core
// dispatcher. Hitting it aborts the run with ErrNonConvergence and a partial result.
const MaxIterations = 10000

// MLFQ is a multi-level feedback queue. Level 0 is the most urgent; Quanta[i] is the
// time slice granted at level i. New arrivals enter level 0, the lowest-index non-empty
// level is always serviced first, FIFO within a level, and a process that does not
// finish its slice drops one level (the last level keeps it).
//
// A zero quantum is accepted: the process gains no work from the dispatch and is demoted.
// If every level is zero the run hits MaxIterations and reports non-convergence.
type MLFQ struct {
	Quanta []int64
	// MaxSteps overrides MaxIterations when positive.
	MaxSteps int
}

// NewMLFQ returns an MLFQ policy with one level per quantum.
func NewMLFQ(quanta []int64) (*MLFQ, error) {
	if err := validateQuanta(quanta); err != nil {
		return nil, err
	}
	q := make([]int64, len(quanta))
	copy(q, quanta)
	return &MLFQ{Quanta: q}, nil
}

// DefaultQuanta derives the three-level configuration [q, 2q, 4q].
func DefaultQuanta(quantum int64) []int64 {
	return []int64{quantum, quantum * 2, quantum * 4}
}

func validateQuanta(quanta []int64) error {
	if len(quanta) == 0 {
		return fmt.Errorf("%w: mlfq needs at least one level", ErrInvalidParams)
	}
	for i, q := range quanta {
		if q < 0 {
			return fmt.Errorf("%w: mlfq quantum for level %d must be >= 0, got %d", ErrInvalidParams, i, q)
		}
	}
	return nil
}

func (m *MLFQ) Schedule(procs []Process, clock int64) (*Result, error) {
	if err := validateQuanta(m.Quanta); err != nil {
		return nil, err
	}
	maxSteps := m.MaxSteps
	if maxSteps <= 0 {
		maxSteps = MaxIterations
	}
	last := len(m.Quanta) - 1

	a := newArena(procs, clock)
	pending := a.unfinished()
	queues := make([][]int, len(m.Quanta))
	queued := 0

	for steps := 0; len(pending) > 0 || queued > 0; steps++ {
		if steps >= maxSteps {
			res := a.result(LabelMLFQ)
			err := res.abort(LabelMLFQ, maxSteps)
			logrus.Warnf("%v (clock=%d, queue sizes=%v)", err, a.clock, queueSizes(queues))
			return res, err
		}
		for len(pending) > 0 && a.procs[pending[0]].ArrivalTime <= a.clock {
			h := pending[0]
			pending = pending[1:]
			a.procs[h].Level = 0
			queues[0] = append(queues[0], h)
			queued++
		}

		level := -1
		for i := range queues {
			if len(queues[i]) > 0 {
				level = i
				break
			}
		}
		if level == -1 {
			// An idle stretch up to the next arrival costs one step.
			a.idle(pending)
			continue
		}

		h := queues[level][0]
		queues[level] = queues[level][1:]
		queued--
		logrus.Debugf("mlfq: level %d at clock %d, queue sizes %v", level, a.clock, queueSizes(queues))

		slice := min(m.Quanta[level], a.procs[h].RemainingTime)
		if slice > 0 && a.run(h, slice) {
			continue
		}
		next := min(level+1, last)
		a.procs[h].Level = next
		queues[next] = append(queues[next], h)
		queued++
	}
	return a.result(LabelMLFQ), nil
}

func queueSizes(queues [][]int) []int {
	sizes := make([]int, len(queues))
	for i, q := range queues {
		sizes[i] = len(q)
	}
	return sizes
}
