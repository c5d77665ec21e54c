package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim/trace"
)

// MultiCore spreads a single-core Policy over Cores execution units that share one
// arrival stream and one ready queue.
//
// Each round it asks the wrapped policy for its next decision on every core, executes
// exactly that slice, and feeds the process back into the shared queue. Re-planning
// every round keeps each policy's ranking logic unmodified at the cost of recomputation.
// Cores are interleaved inside one loop; nothing runs in parallel.
type MultiCore struct {
	Cores int
	Inner Policy
	// BoostInterval is the aging threshold; 0 means DefaultBoostInterval.
	BoostInterval int64
	// MaxRounds overrides MaxIterations when positive.
	MaxRounds int
	// Trace receives one record per executed slice when non-nil.
	Trace *trace.SimulationTrace
}

// NewMultiCore wraps inner for cores execution units. A zero boostInterval selects
// DefaultBoostInterval.
func NewMultiCore(cores int, inner Policy, boostInterval int64) (*MultiCore, error) {
	if cores < 1 {
		return nil, fmt.Errorf("%w: core count must be >= 1, got %d", ErrInvalidParams, cores)
	}
	if inner == nil {
		return nil, fmt.Errorf("%w: multi-core dispatcher needs a policy", ErrInvalidParams)
	}
	if boostInterval < 0 {
		return nil, fmt.Errorf("%w: boost interval must be >= 0, got %d", ErrInvalidParams, boostInterval)
	}
	if boostInterval == 0 {
		boostInterval = DefaultBoostInterval
	}
	return &MultiCore{Cores: cores, Inner: inner, BoostInterval: boostInterval}, nil
}

// Schedule runs the dispatcher. With one core it returns the wrapped policy's result
// unchanged.
func (mc *MultiCore) Schedule(procs []Process, clock int64) (*Result, error) {
	if mc.Cores <= 1 {
		return mc.Inner.Schedule(procs, clock)
	}
	maxRounds := mc.MaxRounds
	if maxRounds <= 0 {
		maxRounds = MaxIterations
	}
	boostInterval := mc.BoostInterval
	if boostInterval == 0 {
		boostInterval = DefaultBoostInterval
	}

	d := &dispatcher{
		mc:        mc,
		arena:     newArena(procs, clock),
		times:     make([]int64, mc.Cores),
		recorders: make([]timelineRecorder, mc.Cores),
	}
	for core := range d.times {
		d.times[core] = clock
		d.recorders[core].core = core
	}
	pending := d.arena.unfinished()

	for round := 0; len(pending) > 0 || len(d.ready) > 0; round++ {
		if round >= maxRounds {
			res := d.result()
			err := res.abort(res.Label, maxRounds)
			logrus.Warnf("multi-core: %v (pending=%d, ready=%d, core times=%v)", err, len(pending), len(d.ready), d.times)
			return res, err
		}
		minTime := d.minTime()
		for len(pending) > 0 && d.arena.procs[pending[0]].ArrivalTime <= minTime {
			d.ready = append(d.ready, pending[0])
			pending = pending[1:]
		}
		if len(d.ready) == 0 {
			// Every core would idle in lockstep until the next arrival reaches the slowest one.
			gap := d.arena.procs[pending[0]].ArrivalTime - minTime
			for core := range d.times {
				d.times[core] += gap
			}
			continue
		}
		ApplyPriorityBoost(d.arena.procs, d.ready, minTime, boostInterval)

		for core := range d.times {
			if err := d.step(round, core); err != nil {
				return nil, err
			}
		}
	}
	return d.result(), nil
}

// dispatcher is the state of one multi-core run.
type dispatcher struct {
	mc        *MultiCore
	arena     *arena
	ready     []int // shared ready queue, FIFO by enqueue order
	times     []int64
	recorders []timelineRecorder
	label     string
}

func (d *dispatcher) minTime() int64 {
	minTime := int64(math.MaxInt64)
	for _, t := range d.times {
		minTime = min(minTime, t)
	}
	return minTime
}

// step makes at most one decision for core. A core with no eligible work idles one tick.
// A process whose last slice on another core ends after now is not eligible, so no
// process ever runs on two cores at once.
func (d *dispatcher) step(round, core int) error {
	now := d.times[core]
	var eligible []int
	for _, h := range d.ready {
		p := &d.arena.procs[h]
		if p.ArrivalTime <= now && (!p.Started || p.LastScheduled <= now) {
			eligible = append(eligible, h)
		}
	}
	if len(eligible) == 0 {
		d.times[core]++
		return nil
	}

	subset := make([]Process, len(eligible))
	for i, h := range eligible {
		subset[i] = d.arena.procs[h]
	}
	plan, err := d.mc.Inner.Schedule(subset, now)
	if err != nil && !IsNonConvergence(err) {
		return fmt.Errorf("multi-core core %d at %d: %w", core, now, err)
	}
	if plan == nil {
		panic(fmt.Sprintf("multi-core: policy returned nil result without error on core %d", core))
	}
	d.label = plan.Label
	if len(plan.Timeline) == 0 {
		logrus.Debugf("multi-core: core %d got no decision at %d", core, now)
		d.times[core]++
		return nil
	}

	next := plan.Timeline[0]
	h := -1
	for _, e := range eligible {
		if d.arena.procs[e].PID == next.PID {
			h = e
			break
		}
	}
	if h == -1 {
		panic(fmt.Sprintf("multi-core: policy chose %q which is not eligible on core %d", next.PID, core))
	}
	d.ready = removeHandle(d.ready, h)

	p := &d.arena.procs[h]
	length := min(p.RemainingTime, next.Len())
	done := p.execute(now, length)
	d.recorders[core].record(p.PID, now, length)
	d.times[core] += length
	logrus.Debugf("multi-core: round %d core %d ran %s [%d,%d) of %d candidates", round, core, p.PID, now, now+length, len(eligible))
	d.mc.Trace.RecordDispatch(trace.DispatchRecord{
		Round:      round,
		Core:       core,
		PID:        p.PID,
		Clock:      now,
		Length:     length,
		Candidates: len(eligible),
		Completed:  done,
	})
	if done {
		d.arena.completed = append(d.arena.completed, h)
	} else {
		d.ready = append(d.ready, h)
	}
	return nil
}

func (d *dispatcher) result() *Result {
	if d.label == "" {
		// No decision was ever requested; ask the policy for its label on an empty set.
		if empty, err := d.mc.Inner.Schedule(nil, 0); empty != nil && err == nil {
			d.label = empty.Label
		}
	}
	var merged Timeline
	for core := range d.recorders {
		merged = append(merged, d.recorders[core].timeline...)
	}
	d.arena.rec.timeline = merged
	return d.arena.result(d.label + multiCoreSuffix)
}
