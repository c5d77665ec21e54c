package trace

import (
	"testing"
)

func TestSimulationTrace_RecordDispatch_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(LevelDecisions)

	// WHEN a dispatch record is recorded
	st.RecordDispatch(DispatchRecord{
		Round:      0,
		Core:       1,
		PID:        "P1",
		Clock:      4,
		Length:     2,
		Candidates: 3,
	})

	// THEN the trace contains one dispatch record with correct data
	if len(st.Dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].PID != "P1" {
		t.Errorf("expected PID P1, got %s", st.Dispatches[0].PID)
	}
	if st.Dispatches[0].End() != 6 {
		t.Errorf("expected end 6, got %d", st.Dispatches[0].End())
	}
}

func TestSimulationTrace_RecordDispatch_NilTraceIsNoop(t *testing.T) {
	// GIVEN no trace
	var st *SimulationTrace

	// WHEN recording, THEN nothing panics
	st.RecordDispatch(DispatchRecord{PID: "P1", Length: 1})
}

func TestIsValidLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"decisions", true},
		{"verbose", false},
	}
	for _, tt := range tests {
		if got := IsValidLevel(tt.level); got != tt.want {
			t.Errorf("IsValidLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLevel_Enabled(t *testing.T) {
	if LevelNone.Enabled() {
		t.Error("none must not be enabled")
	}
	if Level("").Enabled() {
		t.Error("empty level must not be enabled")
	}
	if !LevelDecisions.Enabled() {
		t.Error("decisions must be enabled")
	}
}
