package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
)

var (
	policyNames []string      // Policies to compare; empty compares every built-in
	timeout     time.Duration // Wall-clock budget for the whole comparison
	criterion   string        // Metric used to pick the best policy
)

// compareCmd runs several policies on independent copies of one workload
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare scheduling policies on one workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if !validCompareFormats[outputFormat] {
			logrus.Fatalf("Invalid output format: %s (valid: table, csv, json, yaml)", outputFormat)
		}

		cfg := mustLoadDefaults(cmd)
		best := resolveCriterion(cmd, cfg)
		if !sim.ValidCriteria[best] {
			logrus.Fatalf("Invalid criterion: %s (valid: wait, turnaround, utilization, throughput)", best)
		}
		wl, err := loadWorkload(cfg)
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}
		params := resolveParams(cmd, cfg, wl.Params)
		budget := resolveTimeout(cmd, cfg)

		logrus.Infof("Comparing %v on %d processes (budget %v)", policyNames, len(wl.Processes), budget)
		ctx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()
		comps, err := sim.Compare(ctx, wl.Processes, params, policyNames)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		for _, c := range comps {
			if c.Err != nil {
				logrus.Warnf("%s: %v", c.Policy, c.Err)
			}
		}
		if err := writeComparisonReport(cmd.OutOrStdout(), outputFormat, newComparisonReport("", comps, best)); err != nil {
			logrus.Fatalf("unable to write report; %v", err)
		}
	},
}

func init() {
	addWorkloadFlags(compareCmd)
	addParamFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&policyNames, "policies", nil, "Comma-separated policies to compare (default: all built-ins)")
	compareCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Wall-clock budget; runs still going are reported as timed out")
	compareCmd.Flags().StringVar(&criterion, "best", string(sim.CriterionWait), "Criterion for the best policy (wait, turnaround, utilization, throughput)")
	compareCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, csv, json, yaml)")

	rootCmd.AddCommand(compareCmd)
}
