package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/workload"
)

// resetFlags puts every flag of c and its subcommands back to its default so that
// consecutive executions in one test binary do not leak state.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

// execute runs the CLI with args against the repository defaults file.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags(t, rootCmd)
	t.Cleanup(func() { resetFlags(t, rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log", "error", "--defaults-filepath", filepath.Join("..", "defaults.yaml")))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRunCommand_Preset(t *testing.T) {
	// GIVEN the textbook preset
	// WHEN run under FCFS
	out := execute(t, "run", "--preset", "textbook")

	// THEN the table report carries the expected figures
	assert.Contains(t, out, "Policy: FCFS")
	assert.Contains(t, out, "Gantt: |A 0-5|B 5-8|")
	assert.Contains(t, out, "Average waiting time: 2.00")
	assert.Contains(t, out, "Average turnaround time: 6.00")
	assert.Contains(t, out, "CPU utilization: 100.00%")
	assert.Contains(t, out, "Throughput: 0.2500 processes/tick")
}

func TestRunCommand_WorkloadFileJSON(t *testing.T) {
	// GIVEN a workload file whose params select a quantum of 3
	path := writeFile(t, "wl.yaml", `version: "1"
params:
  quantum: 3
processes:
  - {pid: A, arrival_time: 0, burst_time: 5}
  - {pid: B, arrival_time: 0, burst_time: 2}
`)

	// WHEN run as RR with JSON output
	out := execute(t, "run", "--workload", path, "--policy", "RR", "--format", "json")

	// THEN the file's quantum drives the timeline
	var got runReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "RR", got.Policy)
	assert.Equal(t, "|A 0-3|B 3-5|A 5-7|", got.Gantt)
	assert.True(t, got.Result.Converged)
}

func TestRunCommand_FlagOverridesWorkloadParams(t *testing.T) {
	path := writeFile(t, "wl.yaml", `version: "1"
params:
  quantum: 3
processes:
  - {pid: A, arrival_time: 0, burst_time: 5}
  - {pid: B, arrival_time: 0, burst_time: 2}
`)
	out := execute(t, "run", "--workload", path, "--policy", "RR", "--quantum", "1", "--format", "json")

	var got runReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "|A 0-1|B 1-2|A 2-3|B 3-4|A 4-5|A 5-6|A 6-7|", got.Gantt)
}

func TestRunCommand_Trace(t *testing.T) {
	out := execute(t, "run", "--preset", "textbook", "--policy", "RR", "--cores", "2", "--trace")
	assert.Contains(t, out, "Policy: Round Robin (Multi-Core)")
	assert.Contains(t, out, "Trace: ")
}

func TestGenerateCommand_IsReproducible(t *testing.T) {
	// GIVEN the same seed twice
	first := execute(t, "generate", "--seed", "7", "--count", "4")
	second := execute(t, "generate", "--seed", "7", "--count", "4")

	// THEN the output is identical and parses as a valid workload
	assert.Equal(t, first, second)
	spec, err := workload.ParseWorkloadSpec([]byte(first))
	require.NoError(t, err)
	assert.Len(t, spec.Processes, 4)
	assert.Equal(t, "P1", spec.Processes[0].PID)
}

func TestGenerateCommand_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	out := execute(t, "generate", "--seed", "3", "-o", path)
	assert.Empty(t, out)

	spec, err := workload.LoadWorkloadSpec(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(spec.Processes), 3)
	assert.LessOrEqual(t, len(spec.Processes), 10)
}

func TestCompareCommand_CSV(t *testing.T) {
	// GIVEN the textbook preset and three policies
	out := execute(t, "compare", "--preset", "textbook", "--policies", "FCFS,SJF-P,RR", "--format", "csv")

	// THEN one row per policy follows the header
	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "policy", rows[0][0])
	assert.Equal(t, []string{"FCFS", "SJF-P", "RR"}, []string{rows[1][0], rows[2][0], rows[3][0]})
	assert.Equal(t, "1.5", rows[2][3])
}

func TestCompareCommand_Table(t *testing.T) {
	out := execute(t, "compare", "--preset", "textbook", "--best", "turnaround")
	assert.Contains(t, out, "Best by turnaround: "+sim.PolicySJFPreemptive)
}

func TestPredictCommand_JSON(t *testing.T) {
	out := execute(t, "predict", "--preset", "convoy", "--format", "json")

	var got prediction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	// Mean burst (20+2+2+1)/4 = 6.25 exceeds the short-burst threshold.
	assert.Equal(t, sim.PolicyRoundRobin, got.Policy)
	assert.Equal(t, 4, got.Processes)
	assert.InDelta(t, 6.25, got.MeanBurst, 1e-9)
	assert.Empty(t, got.RunID)
}
