package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every dispatch decision.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Enabled reports whether records should be collected at this level.
func (l Level) Enabled() bool {
	return l == LevelDecisions
}

// SimulationTrace collects dispatch records during one policy run.
type SimulationTrace struct {
	Level      Level
	Dispatches []DispatchRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level Level) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Dispatches: make([]DispatchRecord, 0),
	}
}

// RecordDispatch appends a dispatch decision record.
// Safe to call on a nil trace, which drops the record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	if st == nil {
		return
	}
	st.Dispatches = append(st.Dispatches, record)
}
