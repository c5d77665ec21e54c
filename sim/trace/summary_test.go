package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_NilTrace_ReturnsZeroSummary(t *testing.T) {
	summary := Summarize(nil)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.TotalDecisions)
	assert.Empty(t, summary.Cores)
	assert.NotNil(t, summary.PIDDecisions)
}

func TestSummarize_EmptyTrace_ReturnsZeroSummary(t *testing.T) {
	summary := Summarize(NewSimulationTrace(LevelDecisions))
	assert.Equal(t, 0, summary.TotalDecisions)
	assert.Equal(t, 0.0, summary.MeanCandidates)
}

func TestSummarize_TwoCores_AggregatesPerCore(t *testing.T) {
	// GIVEN two cores: core 0 runs A then B, core 1 runs C twice
	st := NewSimulationTrace(LevelDecisions)
	st.RecordDispatch(DispatchRecord{Round: 0, Core: 0, PID: "A", Clock: 0, Length: 2, Candidates: 3})
	st.RecordDispatch(DispatchRecord{Round: 0, Core: 1, PID: "C", Clock: 0, Length: 2, Candidates: 2})
	st.RecordDispatch(DispatchRecord{Round: 1, Core: 0, PID: "B", Clock: 2, Length: 2, Candidates: 2, Completed: true})
	st.RecordDispatch(DispatchRecord{Round: 1, Core: 1, PID: "C", Clock: 2, Length: 1, Candidates: 1, Completed: true})

	// WHEN summarized
	s := Summarize(st)

	// THEN totals and per-core figures are consistent
	assert.Equal(t, 4, s.TotalDecisions)
	assert.Equal(t, 2, s.Completions)
	assert.Equal(t, int64(4), s.Span)
	assert.InDelta(t, 2.0, s.MeanCandidates, 1e-9)
	require.Len(t, s.Cores, 2)

	core0, core1 := s.Cores[0], s.Cores[1]
	assert.Equal(t, 0, core0.Core)
	assert.Equal(t, int64(4), core0.BusyTicks)
	assert.Equal(t, 1, core0.ContextSwitches, "A→B is one switch")
	assert.InDelta(t, 100.0, core0.Utilization, 1e-9)

	assert.Equal(t, 1, core1.Core)
	assert.Equal(t, int64(3), core1.BusyTicks)
	assert.Equal(t, 0, core1.ContextSwitches, "C→C is not a switch")
	assert.InDelta(t, 75.0, core1.Utilization, 1e-9)

	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 2}, s.PIDDecisions)
}
