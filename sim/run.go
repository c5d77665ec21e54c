package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim/trace"
)

// Params holds the policy parameters of one run.
type Params struct {
	Quantum       int64       `yaml:"quantum" json:"quantum"`               // RR, MLFQ default quanta, Intelligent
	Quanta        []int64     `yaml:"quanta" json:"quanta,omitempty"`       // MLFQ levels; empty derives [q, 2q, 4q]
	CoreCount     int         `yaml:"core_count" json:"core_count"`         // 0 means 1
	BoostInterval int64       `yaml:"boost_interval" json:"boost_interval"` // 0 means DefaultBoostInterval
	Trace         trace.Level `yaml:"trace" json:"trace,omitempty"`
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Quantum:       2,
		CoreCount:     1,
		BoostInterval: DefaultBoostInterval,
		Trace:         trace.LevelNone,
	}
}

// withDefaults fills zero values and validates the policy-independent fields.
func (p Params) withDefaults() (Params, error) {
	if p.CoreCount == 0 {
		p.CoreCount = 1
	}
	if p.BoostInterval == 0 {
		p.BoostInterval = DefaultBoostInterval
	}
	if p.CoreCount < 1 {
		return p, fmt.Errorf("%w: core count must be >= 1, got %d", ErrInvalidParams, p.CoreCount)
	}
	if p.BoostInterval < 0 {
		return p, fmt.Errorf("%w: boost interval must be >= 0, got %d", ErrInvalidParams, p.BoostInterval)
	}
	if !trace.IsValidLevel(string(p.Trace)) {
		return p, fmt.Errorf("%w: unknown trace level %q", ErrInvalidParams, p.Trace)
	}
	return p, nil
}

// RunPolicy validates the descriptors, builds the named policy and runs it, wrapping it
// in the multi-core dispatcher when CoreCount > 1.
//
// On ErrNonConvergence the returned Result is non-nil and holds the partial run.
// Every other error comes with a nil Result.
func RunPolicy(name string, specs []ProcessSpec, params Params) (*Result, error) {
	procs, err := NewProcesses(specs)
	if err != nil {
		return nil, err
	}
	params, err = params.withDefaults()
	if err != nil {
		return nil, err
	}
	policy, err := NewPolicy(name, params)
	if err != nil {
		return nil, err
	}

	var st *trace.SimulationTrace
	if params.Trace.Enabled() {
		st = trace.NewSimulationTrace(params.Trace)
	}
	if params.CoreCount > 1 {
		mc, err := NewMultiCore(params.CoreCount, policy, params.BoostInterval)
		if err != nil {
			return nil, err
		}
		mc.Trace = st
		policy = mc
	}

	logrus.Debugf("running %s on %d processes (quantum=%d, cores=%d)", name, len(procs), params.Quantum, params.CoreCount)
	res, err := policy.Schedule(procs, 0)
	if res == nil {
		return nil, err
	}
	if st != nil {
		if params.CoreCount == 1 {
			traceTimeline(st, res.Timeline, res.Completed)
		}
		res.Trace = st
	}
	if err != nil {
		logrus.Warnf("%s: %v", name, err)
	}
	return res, err
}

// traceTimeline records a single-core timeline as dispatch records.
func traceTimeline(st *trace.SimulationTrace, tl Timeline, completed []Process) {
	ends := make(map[string]int64, len(completed))
	for i := range completed {
		ends[completed[i].PID] = completed[i].EndTime
	}
	for i, s := range tl {
		end, ok := ends[s.PID]
		st.RecordDispatch(trace.DispatchRecord{
			Round:     i,
			Core:      s.Core,
			PID:       s.PID,
			Clock:     s.Start,
			Length:    s.Len(),
			Completed: ok && end == s.End,
		})
	}
}
