package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim/workload"
)

var (
	genConfig  = workload.DefaultGeneratorConfig()
	outputPath string // Write the workload here instead of stdout
)

// generateCmd writes a seeded synthetic workload as YAML
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random workload file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		spec, err := workload.Generate(genConfig)
		if err != nil {
			logrus.Fatalf("unable to generate workload; %v", err)
		}
		data, err := spec.Marshal()
		if err != nil {
			logrus.Fatalf("unable to encode workload; %v", err)
		}
		if outputPath == "" {
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				logrus.Fatalf("unable to write workload; %v", err)
			}
			return
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			logrus.Fatalf("unable to write workload; %v", err)
		}
		logrus.Infof("Wrote %d processes to %s", len(spec.Processes), outputPath)
	},
}

func init() {
	f := generateCmd.Flags()
	f.Int64Var(&genConfig.Seed, "seed", genConfig.Seed, "Seed for reproducible generation")
	f.IntVar(&genConfig.Count, "count", 0, "Number of processes (0 draws from [min-count, max-count])")
	f.IntVar(&genConfig.MinCount, "min-count", genConfig.MinCount, "Minimum number of processes")
	f.IntVar(&genConfig.MaxCount, "max-count", genConfig.MaxCount, "Maximum number of processes")
	f.StringVar(&genConfig.Arrival, "arrival", genConfig.Arrival, "Arrival process (uniform, poisson)")
	f.Int64Var(&genConfig.ArrivalMin, "arrival-min", genConfig.ArrivalMin, "Earliest arrival tick")
	f.Int64Var(&genConfig.ArrivalMax, "arrival-max", genConfig.ArrivalMax, "Latest arrival tick (uniform only)")
	f.Float64Var(&genConfig.ArrivalRate, "arrival-rate", 0, "Arrivals per tick (poisson only)")
	f.StringVar(&genConfig.Burst, "burst", genConfig.Burst, "Burst distribution (uniform, exponential)")
	f.Int64Var(&genConfig.BurstMin, "burst-min", genConfig.BurstMin, "Minimum burst time")
	f.Int64Var(&genConfig.BurstMax, "burst-max", genConfig.BurstMax, "Maximum burst time")
	f.Float64Var(&genConfig.BurstMean, "burst-mean", 0, "Mean burst time (exponential only)")
	f.Int64Var(&genConfig.PriorityMin, "priority-min", genConfig.PriorityMin, "Minimum priority value")
	f.Int64Var(&genConfig.PriorityMax, "priority-max", genConfig.PriorityMax, "Maximum priority value")
	f.StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(generateCmd)
}
