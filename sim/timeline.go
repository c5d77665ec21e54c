package sim

import (
	"fmt"
	"sort"
	"strings"
)

// Slice is one execution interval on one core: PID ran over [Start, End).
type Slice struct {
	PID   string `yaml:"pid" json:"pid"`
	Start int64  `yaml:"start" json:"start"`
	End   int64  `yaml:"end" json:"end"`
	Core  int    `yaml:"core" json:"core"`
}

// Len returns the executed slice length.
func (s Slice) Len() int64 { return s.End - s.Start }

// Timeline is the ordered execution history handed to renderers and metrics.
type Timeline []Slice

// SortByStart orders the timeline by start tick. The sort is stable, so slices that start
// together keep their core order.
func (tl Timeline) SortByStart() {
	sort.SliceStable(tl, func(i, j int) bool {
		return tl[i].Start < tl[j].Start
	})
}

// Busy returns the total executed ticks per PID.
func (tl Timeline) Busy() map[string]int64 {
	busy := make(map[string]int64)
	for _, s := range tl {
		busy[s.PID] += s.Len()
	}
	return busy
}

// Validate checks the structural contract: start < end, no negative ticks,
// no overlap between slices on the same core.
func (tl Timeline) Validate() error {
	lastEnd := make(map[int]int64)
	seen := make(map[int]bool)
	byCore := make(Timeline, len(tl))
	copy(byCore, tl)
	byCore.SortByStart()
	for _, s := range byCore {
		if s.Start < 0 || s.Start >= s.End {
			return fmt.Errorf("slice %s [%d,%d) on core %d is empty or negative", s.PID, s.Start, s.End, s.Core)
		}
		if seen[s.Core] && s.Start < lastEnd[s.Core] {
			return fmt.Errorf("slice %s [%d,%d) overlaps previous slice on core %d ending at %d",
				s.PID, s.Start, s.End, s.Core, lastEnd[s.Core])
		}
		seen[s.Core] = true
		lastEnd[s.Core] = s.End
	}
	return nil
}

// Gantt renders the timeline as a one-line text chart, one segment per slice:
//
//	|A 0-5|B 5-8|
func (tl Timeline) Gantt() string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, s := range tl {
		if s.Core > 0 {
			fmt.Fprintf(&sb, "%s@%d %d-%d|", s.PID, s.Core, s.Start, s.End)
			continue
		}
		fmt.Fprintf(&sb, "%s %d-%d|", s.PID, s.Start, s.End)
	}
	return sb.String()
}

// timelineRecorder accumulates slices on one core.
type timelineRecorder struct {
	core     int
	timeline Timeline
}

func (r *timelineRecorder) record(pid string, start, length int64) {
	r.timeline = append(r.timeline, Slice{PID: pid, Start: start, End: start + length, Core: r.core})
}
