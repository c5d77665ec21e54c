// Reduces a completed process set to the aggregate figures reported for a run.

package sim

import "fmt"

// Metrics aggregates statistics about a finished simulation
// for final reporting and policy comparison.
type Metrics struct {
	Count          int     `json:"count" yaml:"count"`
	AvgWait        float64 `json:"avg_wait" yaml:"avg_wait"`
	AvgTurnaround  float64 `json:"avg_turnaround" yaml:"avg_turnaround"`
	CPUUtilization float64 `json:"cpu_utilization" yaml:"cpu_utilization"` // percent, offered load
	Throughput     float64 `json:"throughput" yaml:"throughput"`           // processes per tick
	Makespan       int64   `json:"makespan" yaml:"makespan"`               // latest EndTime
}

// ComputeMetrics reduces a completed set to its averages, utilization and throughput.
// An empty set yields all zeros.
//
// CPUUtilization is offered utilization, sum(burst)/makespan*100. With more than one core
// it legitimately exceeds 100.
func ComputeMetrics(procs []Process) Metrics {
	if len(procs) == 0 {
		return Metrics{}
	}
	var totalWait, totalTurnaround, totalBurst, makespan int64
	for i := range procs {
		p := &procs[i]
		totalWait += p.WaitingTime
		totalTurnaround += p.TurnaroundTime
		totalBurst += p.BurstTime
		if p.Finished && p.EndTime > makespan {
			makespan = p.EndTime
		}
	}
	n := float64(len(procs))
	m := Metrics{
		Count:         len(procs),
		AvgWait:       float64(totalWait) / n,
		AvgTurnaround: float64(totalTurnaround) / n,
		Makespan:      makespan,
	}
	if makespan > 0 {
		m.CPUUtilization = float64(totalBurst) / float64(makespan) * 100
		m.Throughput = n / float64(makespan)
	}
	return m
}

// Tuple returns the four scalars in reporting order:
// average wait, average turnaround, CPU utilization, throughput.
func (m Metrics) Tuple() (avgWait, avgTurnaround, cpuUtilization, throughput float64) {
	return m.AvgWait, m.AvgTurnaround, m.CPUUtilization, m.Throughput
}

// Criterion names the metric used to pick the best policy of a comparison.
type Criterion string

const (
	CriterionWait        Criterion = "wait"        // lowest average waiting time
	CriterionTurnaround  Criterion = "turnaround"  // lowest average turnaround time
	CriterionUtilization Criterion = "utilization" // highest CPU utilization
	CriterionThroughput  Criterion = "throughput"  // highest throughput
)

// ValidCriteria is the set of recognized criterion names.
var ValidCriteria = map[Criterion]bool{
	CriterionWait: true, CriterionTurnaround: true, CriterionUtilization: true, CriterionThroughput: true,
}

// better reports whether a beats b under c. Ties keep the earlier entry.
func (c Criterion) better(a, b Metrics) bool {
	switch c {
	case CriterionWait:
		return a.AvgWait < b.AvgWait
	case CriterionTurnaround:
		return a.AvgTurnaround < b.AvgTurnaround
	case CriterionUtilization:
		return a.CPUUtilization > b.CPUUtilization
	case CriterionThroughput:
		return a.Throughput > b.Throughput
	default:
		panic(fmt.Sprintf("unhandled criterion %q", c))
	}
}
