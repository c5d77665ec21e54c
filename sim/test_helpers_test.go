package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec(pid string, arrival, burst, priority int64) ProcessSpec {
	return ProcessSpec{PID: pid, ArrivalTime: arrival, BurstTime: burst, Priority: priority}
}

func mustProcesses(t *testing.T, specs ...ProcessSpec) []Process {
	t.Helper()
	procs, err := NewProcesses(specs)
	require.NoError(t, err)
	return procs
}

// randomSpecs draws a small workload in the classic ranges without importing sim/workload,
// which depends on this package.
func randomSpecs(seed int64) []ProcessSpec {
	rng := rand.New(rand.NewSource(seed))
	n := 3 + rng.Intn(8)
	specs := make([]ProcessSpec, n)
	for i := range specs {
		specs[i] = spec(fmt.Sprintf("P%d", i+1), rng.Int63n(11), 1+rng.Int63n(10), rng.Int63n(6))
	}
	return specs
}

// coalesce merges adjacent slices of the same PID on the same core, so one-tick
// preemptive slices compare against hand-written timelines.
func coalesce(tl Timeline) Timeline {
	var out Timeline
	last := make(map[int]int)
	for _, s := range tl {
		if i, ok := last[s.Core]; ok && out[i].PID == s.PID && out[i].End == s.Start {
			out[i].End = s.End
			continue
		}
		last[s.Core] = len(out)
		out = append(out, s)
	}
	return out
}

func endTimes(procs []Process) map[string]int64 {
	ends := make(map[string]int64, len(procs))
	for i := range procs {
		ends[procs[i].PID] = procs[i].EndTime
	}
	return ends
}

// assertScheduleInvariants checks the structural contract every converged run must honor.
func assertScheduleInvariants(t *testing.T, in []ProcessSpec, res *Result) {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.Converged, "run did not converge: %v", res.Warnings)
	require.NoError(t, res.Timeline.Validate())
	require.Len(t, res.Completed, len(in), "every process completes")

	byPID := make(map[string]ProcessSpec, len(in))
	for _, s := range in {
		byPID[s.PID] = s
	}
	busy := res.Timeline.Busy()
	ends := endTimes(res.Completed)
	lastEnd := make(map[string]int64)
	for i, s := range res.Timeline {
		if i > 0 {
			assert.LessOrEqual(t, res.Timeline[i-1].Start, s.Start, "timeline sorted by start")
		}
		assert.GreaterOrEqual(t, s.Start, byPID[s.PID].ArrivalTime, "slice %s before arrival", s.PID)
		assert.LessOrEqual(t, s.End, ends[s.PID], "slice %s after completion", s.PID)
		assert.GreaterOrEqual(t, s.Start, lastEnd[s.PID], "process %s runs twice at once", s.PID)
		lastEnd[s.PID] = s.End
	}
	for _, p := range res.Completed {
		want := byPID[p.PID]
		assert.True(t, p.Finished)
		assert.Zero(t, p.RemainingTime)
		assert.Equal(t, want.BurstTime, busy[p.PID], "slice lengths of %s sum to burst", p.PID)
		assert.Equal(t, p.EndTime-p.ArrivalTime, p.TurnaroundTime)
		assert.Equal(t, p.TurnaroundTime-p.BurstTime, p.WaitingTime)
		assert.GreaterOrEqual(t, p.WaitingTime, int64(0))
		assert.GreaterOrEqual(t, p.StartTime, p.ArrivalTime)
	}
}
