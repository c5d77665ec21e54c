// Package testutil provides shared test infrastructure for the scheduling simulator.
// It holds the golden dataset types and assertion helpers used by sim/ and cmd/ tests.
// Only primitive types appear here, so importing it never creates a cycle.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents one hand-checked scheduling run.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Policy    string          `json:"policy"`
	Quantum   int64           `json:"quantum"`
	Cores     int             `json:"cores"`
	Processes []GoldenProcess `json:"processes"`

	// Timeline is the expected timeline with adjacent same-PID slices on one core coalesced.
	Timeline []GoldenSlice    `json:"timeline"`
	EndTimes map[string]int64 `json:"end_times"`
	Metrics  GoldenMetrics    `json:"metrics"`
}

// GoldenProcess is one input descriptor.
type GoldenProcess struct {
	PID         string `json:"pid"`
	ArrivalTime int64  `json:"arrival_time"`
	BurstTime   int64  `json:"burst_time"`
	Priority    int64  `json:"priority"`
}

// GoldenSlice is one expected execution interval.
type GoldenSlice struct {
	PID   string `json:"pid"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Core  int    `json:"core"`
}

// GoldenMetrics represents the expected aggregate metrics of a golden test case.
type GoldenMetrics struct {
	AvgWait        float64 `json:"avg_wait"`
	AvgTurnaround  float64 `json:"avg_turnaround"`
	CPUUtilization float64 `json:"cpu_utilization"`
	Throughput     float64 `json:"throughput"`
	Makespan       int64   `json:"makespan"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
