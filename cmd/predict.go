package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
)

// prediction reports what both heuristics would pick for a workload.
type prediction struct {
	RunID       string  `json:"run_id,omitempty"`
	Policy      string  `json:"policy"`      // PredictPolicy's recommendation
	Intelligent string  `json:"intelligent"` // what Intelligent mode delegates to
	Processes   int     `json:"processes"`
	MeanBurst   float64 `json:"mean_burst"`
}

func newPrediction(runID string, specs []sim.ProcessSpec) (prediction, error) {
	procs, err := sim.NewProcesses(specs)
	if err != nil {
		return prediction{}, err
	}
	p := prediction{
		RunID:       runID,
		Policy:      sim.PredictPolicy(specs),
		Intelligent: (&sim.Intelligent{}).Choose(procs),
		Processes:   len(specs),
	}
	if len(specs) > 0 {
		var total int64
		for _, s := range specs {
			total += s.BurstTime
		}
		p.MeanBurst = float64(total) / float64(len(specs))
	}
	return p, nil
}

// predictCmd prints the policy the workload statistics recommend
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend a policy from workload statistics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if !validRunFormats[outputFormat] {
			logrus.Fatalf("Invalid output format: %s (valid: table, json, yaml)", outputFormat)
		}
		wl, err := loadWorkload(mustLoadDefaults(cmd))
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}
		p, err := newPrediction("", wl.Processes)
		if err != nil {
			logrus.Fatalf("invalid workload; %v", err)
		}
		if outputFormat != "table" {
			if err := writeStructured(cmd.OutOrStdout(), outputFormat, p); err != nil {
				logrus.Fatalf("unable to write report; %v", err)
			}
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Predicted policy: %s (mean burst %.2f over %d processes)\n",
			p.Policy, p.MeanBurst, p.Processes)
		fmt.Fprintf(cmd.OutOrStdout(), "Intelligent mode would run: %s\n", p.Intelligent)
	},
}

func init() {
	addWorkloadFlags(predictCmd)
	predictCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(predictCmd)
}
