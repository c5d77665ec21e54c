package trace

import "sort"

// CoreSummary aggregates the dispatches of one core.
type CoreSummary struct {
	Core            int
	Decisions       int
	BusyTicks       int64
	FirstTick       int64
	LastTick        int64
	ContextSwitches int     // consecutive slices on the core that changed process
	Utilization     float64 // BusyTicks / Span * 100
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	Completions    int
	Span           int64 // last tick any core was busy
	MeanCandidates float64
	Cores          []CoreSummary  // sorted by core index
	PIDDecisions   map[string]int // PID → number of slices granted
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PIDDecisions: make(map[string]int),
	}
	if st == nil || len(st.Dispatches) == 0 {
		return summary
	}

	byCore := make(map[int]*CoreSummary)
	lastPID := make(map[int]string)
	totalCandidates := 0
	for _, d := range st.Dispatches {
		summary.TotalDecisions++
		summary.PIDDecisions[d.PID]++
		totalCandidates += d.Candidates
		if d.Completed {
			summary.Completions++
		}
		if d.End() > summary.Span {
			summary.Span = d.End()
		}

		cs, ok := byCore[d.Core]
		if !ok {
			cs = &CoreSummary{Core: d.Core, FirstTick: d.Clock}
			byCore[d.Core] = cs
		} else if prev := lastPID[d.Core]; prev != d.PID {
			cs.ContextSwitches++
		}
		lastPID[d.Core] = d.PID
		cs.Decisions++
		cs.BusyTicks += d.Length
		if d.Clock < cs.FirstTick {
			cs.FirstTick = d.Clock
		}
		if d.End() > cs.LastTick {
			cs.LastTick = d.End()
		}
	}
	summary.MeanCandidates = float64(totalCandidates) / float64(summary.TotalDecisions)

	for _, cs := range byCore {
		if summary.Span > 0 {
			cs.Utilization = float64(cs.BusyTicks) / float64(summary.Span) * 100
		}
		summary.Cores = append(summary.Cores, *cs)
	}
	sort.Slice(summary.Cores, func(i, j int) bool {
		return summary.Cores[i].Core < summary.Cores[j].Core
	})
	return summary
}
