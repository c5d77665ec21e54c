// Package trace provides dispatch-decision recording for scheduler analysis.
// Pure data types; nothing here imports sim/.
package trace

// DispatchRecord captures a single scheduling decision and the slice it produced.
type DispatchRecord struct {
	Round      int    // dispatcher round, or slice index for single-core runs
	Core       int    // core that executed the slice
	PID        string // process granted the CPU
	Clock      int64  // tick the slice started
	Length     int64  // executed ticks
	Candidates int    // eligible processes the policy chose from (0 when not observed)
	Completed  bool   // the slice finished the process
}

// End returns the tick the recorded slice ended.
func (r DispatchRecord) End() int64 {
	return r.Clock + r.Length
}
