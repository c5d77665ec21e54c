package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/trace"
)

var (
	// Shared CLI flags
	logLevel         string // Log verbosity level
	defaultsFilePath string // Path to defaults.yaml

	// Workload selection
	workloadPath string // Workload YAML file
	presetName   string // Named workload from defaults.yaml
	seed         int64  // Seed for the generated workload when no file or preset is given

	// Policy parameters
	policyName    string  // Registry name of the policy to run
	quantum       int64   // Round robin / Intelligent quantum, base of the default MLFQ quanta
	quanta        []int64 // Explicit MLFQ quanta, one per level
	cores         int     // Number of cores; > 1 enables the multi-core dispatcher
	boostInterval int64   // Ticks unscheduled before aging boosts a process

	// Output
	traceEnabled bool   // Record and summarize every dispatch decision
	outputFormat string // table, json or yaml (compare also accepts csv)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Deterministic CPU scheduling simulator",
}

// runCmd executes one policy on one workload using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling policy",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if !validRunFormats[outputFormat] {
			logrus.Fatalf("Invalid output format: %s (valid: table, json, yaml)", outputFormat)
		}
		if !sim.IsValidPolicy(policyName) {
			logrus.Fatalf("Unknown policy %q; valid: %v", policyName, sim.PolicyNames())
		}

		cfg := mustLoadDefaults(cmd)
		wl, err := loadWorkload(cfg)
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}
		params := resolveParams(cmd, cfg, wl.Params)
		if traceEnabled {
			params.Trace = trace.LevelDecisions
		}

		logrus.Infof("Starting %s on %d processes (quantum=%d, quanta=%v, cores=%d, boost=%d)",
			policyName, len(wl.Processes), params.Quantum, params.Quanta, params.CoreCount, params.BoostInterval)
		startTime := time.Now()

		res, err := sim.RunPolicy(policyName, wl.Processes, params)
		if res == nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err != nil {
			logrus.Warnf("Partial result: %v", err)
		}
		if err := writeRunReport(cmd.OutOrStdout(), outputFormat, newRunReport("", policyName, res)); err != nil {
			logrus.Fatalf("unable to write report; %v", err)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// addWorkloadFlags registers the workload selection flags on cmd.
func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a workload YAML file")
	cmd.Flags().StringVar(&presetName, "preset", "", "Named workload from the defaults file")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the generated workload when neither --workload nor --preset is given")
}

// addParamFlags registers the policy parameter flags on cmd.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&quantum, "quantum", 2, "Time quantum for RR and Intelligent; MLFQ uses [q, 2q, 4q] unless --quanta is set")
	cmd.Flags().Int64SliceVar(&quanta, "quanta", nil, "Comma-separated MLFQ quanta, one per level")
	cmd.Flags().IntVar(&cores, "cores", 1, "Number of cores")
	cmd.Flags().Int64Var(&boostInterval, "boost-interval", sim.DefaultBoostInterval, "Ticks a process may go unscheduled before aging raises its priority (multi-core only)")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-filepath", "defaults.yaml", "Path to the defaults file")

	addWorkloadFlags(runCmd)
	addParamFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyFCFS, "Policy to run (FCFS, SJF-NP, SJF-P, RR, PR-NP, PR-P, MLFQ, Intelligent)")
	runCmd.Flags().BoolVar(&traceEnabled, "trace", false, "Record every dispatch decision and print a per-core summary")
	runCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
