package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/trace"
)

var (
	validRunFormats     = map[string]bool{"table": true, "json": true, "yaml": true}
	validCompareFormats = map[string]bool{"table": true, "csv": true, "json": true, "yaml": true}
)

// runReport is the structured outcome of one policy run, shared by the CLI and the HTTP API.
type runReport struct {
	RunID   string              `json:"run_id,omitempty"`
	Policy  string              `json:"policy"`
	Result  *sim.Result         `json:"result"`
	Metrics sim.Metrics         `json:"metrics"`
	Gantt   string              `json:"gantt"`
	Trace   *trace.TraceSummary `json:"trace,omitempty"`
}

func newRunReport(runID, policy string, res *sim.Result) runReport {
	r := runReport{
		RunID:   runID,
		Policy:  policy,
		Result:  res,
		Metrics: res.Metrics(),
		Gantt:   res.Timeline.Gantt(),
	}
	if res.Trace != nil {
		r.Trace = trace.Summarize(res.Trace)
	}
	return r
}

// comparisonEntry is one row of a comparison report.
type comparisonEntry struct {
	Policy    string       `json:"policy"`
	Label     string       `json:"label,omitempty"`
	Status    string       `json:"status"` // ok, partial, timed_out or error
	Error     string       `json:"error,omitempty"`
	Metrics   *sim.Metrics `json:"metrics,omitempty"`
	ElapsedMs float64      `json:"elapsed_ms"`
}

// comparisonReport is the structured outcome of a comparison.
type comparisonReport struct {
	RunID     string            `json:"run_id,omitempty"`
	Criterion sim.Criterion     `json:"criterion"`
	Best      string            `json:"best,omitempty"`
	Entries   []comparisonEntry `json:"entries"`
}

func comparisonStatus(c sim.Comparison) string {
	switch {
	case c.TimedOut:
		return "timed_out"
	case c.Result == nil:
		return "error"
	case !c.Result.Converged:
		return "partial"
	default:
		return "ok"
	}
}

func newComparisonReport(runID string, comps []sim.Comparison, criterion sim.Criterion) comparisonReport {
	report := comparisonReport{RunID: runID, Criterion: criterion}
	if best, ok := sim.BestPolicy(comps, criterion); ok {
		report.Best = best.Policy
	}
	for _, c := range comps {
		e := comparisonEntry{
			Policy:    c.Policy,
			Status:    comparisonStatus(c),
			ElapsedMs: float64(c.Elapsed) / float64(time.Millisecond),
		}
		if c.Err != nil {
			e.Error = c.Err.Error()
		}
		if c.Result != nil {
			e.Label = c.Result.Label
			m := c.Metrics
			e.Metrics = &m
		}
		report.Entries = append(report.Entries, e)
	}
	return report
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// writeProcessTable renders the completed processes with a metrics footer.
func writeProcessTable(w io.Writer, res *sim.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Priority", "Start", "End", "Waiting", "Turnaround"})
	for _, p := range res.Completed {
		table.Append([]string{
			p.PID,
			strconv.FormatInt(p.ArrivalTime, 10),
			strconv.FormatInt(p.BurstTime, 10),
			strconv.FormatInt(p.OriginalPriority, 10),
			strconv.FormatInt(p.StartTime, 10),
			strconv.FormatInt(p.EndTime, 10),
			strconv.FormatInt(p.WaitingTime, 10),
			strconv.FormatInt(p.TurnaroundTime, 10),
		})
	}
	m := res.Metrics()
	table.SetFooter([]string{"", "", "", "", "", "Average",
		formatFloat(m.AvgWait), formatFloat(m.AvgTurnaround)})
	table.Render()
}

// writeTraceTable renders the per-core summary of a traced run.
func writeTraceTable(w io.Writer, summary *trace.TraceSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Core", "Decisions", "Busy", "First", "Last", "Switches", "Utilization %"})
	for _, c := range summary.Cores {
		table.Append([]string{
			strconv.Itoa(c.Core),
			strconv.Itoa(c.Decisions),
			strconv.FormatInt(c.BusyTicks, 10),
			strconv.FormatInt(c.FirstTick, 10),
			strconv.FormatInt(c.LastTick, 10),
			strconv.Itoa(c.ContextSwitches),
			formatFloat(c.Utilization),
		})
	}
	table.Render()
}

// writeRunReport writes a run in the requested format.
func writeRunReport(w io.Writer, format string, r runReport) error {
	switch format {
	case "json", "yaml":
		return writeStructured(w, format, r)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	res := r.Result
	fmt.Fprintf(w, "Policy: %s\n", res.Label)
	writeProcessTable(w, res)
	fmt.Fprintf(w, "Gantt: %s\n", r.Gantt)
	fmt.Fprintf(w, "Average waiting time: %s\n", formatFloat(r.Metrics.AvgWait))
	fmt.Fprintf(w, "Average turnaround time: %s\n", formatFloat(r.Metrics.AvgTurnaround))
	fmt.Fprintf(w, "CPU utilization: %s%%\n", formatFloat(r.Metrics.CPUUtilization))
	fmt.Fprintf(w, "Throughput: %s processes/tick\n", strconv.FormatFloat(r.Metrics.Throughput, 'f', 4, 64))
	if !res.Converged {
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "WARNING: %s\n", warning)
		}
		fmt.Fprintf(w, "Unfinished: %d processes\n", len(res.Unfinished))
	}
	if r.Trace != nil {
		fmt.Fprintf(w, "Trace: %d decisions, %d completions, mean %.2f candidates\n",
			r.Trace.TotalDecisions, r.Trace.Completions, r.Trace.MeanCandidates)
		writeTraceTable(w, r.Trace)
	}
	return nil
}

// writeComparisonReport writes a comparison in the requested format.
func writeComparisonReport(w io.Writer, format string, r comparisonReport) error {
	switch format {
	case "json", "yaml":
		return writeStructured(w, format, r)
	case "csv":
		return writeComparisonCSV(w, r)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Label", "Status", "Avg Wait", "Avg Turnaround", "CPU %", "Throughput"})
	for _, e := range r.Entries {
		row := []string{e.Policy, e.Label, e.Status, "-", "-", "-", "-"}
		if e.Metrics != nil {
			row[3] = formatFloat(e.Metrics.AvgWait)
			row[4] = formatFloat(e.Metrics.AvgTurnaround)
			row[5] = formatFloat(e.Metrics.CPUUtilization)
			row[6] = strconv.FormatFloat(e.Metrics.Throughput, 'f', 4, 64)
		}
		table.Append(row)
	}
	table.Render()
	for _, e := range r.Entries {
		if e.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", e.Policy, e.Error)
		}
	}
	if r.Best != "" {
		fmt.Fprintf(w, "Best by %s: %s\n", r.Criterion, r.Best)
	} else {
		fmt.Fprintf(w, "No policy produced a usable result\n")
	}
	return nil
}

// writeComparisonCSV exports one row per policy.
func writeComparisonCSV(w io.Writer, r comparisonReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"policy", "label", "status", "avg_wait", "avg_turnaround",
		"cpu_utilization", "throughput", "makespan", "error"}); err != nil {
		return err
	}
	for _, e := range r.Entries {
		row := []string{e.Policy, e.Label, e.Status, "", "", "", "", "", e.Error}
		if e.Metrics != nil {
			row[3] = strconv.FormatFloat(e.Metrics.AvgWait, 'f', -1, 64)
			row[4] = strconv.FormatFloat(e.Metrics.AvgTurnaround, 'f', -1, 64)
			row[5] = strconv.FormatFloat(e.Metrics.CPUUtilization, 'f', -1, 64)
			row[6] = strconv.FormatFloat(e.Metrics.Throughput, 'f', -1, 64)
			row[7] = strconv.FormatInt(e.Metrics.Makespan, 10)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeStructured writes v as indented JSON or as YAML with the JSON field names.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	// Round-trip through a generic value so YAML keys follow the json tags.
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
