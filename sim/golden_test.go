package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/schedsim/sim/internal/testutil"
)

// TestRunPolicy_GoldenDataset checks hand-computed runs end to end: timeline, completion
// times and aggregate metrics.
func TestRunPolicy_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			specs := make([]ProcessSpec, len(tc.Processes))
			for i, p := range tc.Processes {
				specs[i] = spec(p.PID, p.ArrivalTime, p.BurstTime, p.Priority)
			}
			params := DefaultParams()
			params.Quantum = tc.Quantum
			params.CoreCount = tc.Cores

			res, err := RunPolicy(tc.Policy, specs, params)
			require.NoError(t, err)
			assertScheduleInvariants(t, specs, res)

			want := make(Timeline, len(tc.Timeline))
			for i, s := range tc.Timeline {
				want[i] = Slice{PID: s.PID, Start: s.Start, End: s.End, Core: s.Core}
			}
			if diff := cmp.Diff(want, coalesce(res.Timeline)); diff != "" {
				t.Errorf("timeline mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.EndTimes, endTimes(res.Completed))

			m := res.Metrics()
			testutil.AssertFloat64Equal(t, "avg_wait", tc.Metrics.AvgWait, m.AvgWait, 1e-9)
			testutil.AssertFloat64Equal(t, "avg_turnaround", tc.Metrics.AvgTurnaround, m.AvgTurnaround, 1e-9)
			testutil.AssertFloat64Equal(t, "cpu_utilization", tc.Metrics.CPUUtilization, m.CPUUtilization, 1e-9)
			testutil.AssertFloat64Equal(t, "throughput", tc.Metrics.Throughput, m.Throughput, 1e-9)
			assert.Equal(t, tc.Metrics.Makespan, m.Makespan)
		})
	}
}

// TestBuiltinPolicies_RandomWorkloads_HoldInvariants runs every built-in on random
// workloads, single and multi-core.
func TestBuiltinPolicies_RandomWorkloads_HoldInvariants(t *testing.T) {
	for _, name := range BuiltinPolicyNames() {
		for _, cores := range []int{1, 2, 3} {
			for seed := int64(1); seed <= 15; seed++ {
				specs := randomSpecs(seed)
				params := DefaultParams()
				params.CoreCount = cores
				res, err := RunPolicy(name, specs, params)
				require.NoError(t, err, "%s cores=%d seed=%d", name, cores, seed)
				assertScheduleInvariants(t, specs, res)
			}
		}
	}
}
