package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/workload"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version   string                    `yaml:"version"`
	Defaults  DefaultConfig             `yaml:"defaults"`
	Workloads map[string]PresetWorkload `yaml:"workloads"`
}

// DefaultConfig holds the fallback values for flags the user did not set.
// Zero values mean "no default here"; the flag's own default then applies.
type DefaultConfig struct {
	Quantum       int64   `yaml:"quantum"`
	Quanta        []int64 `yaml:"quanta"`
	Cores         int     `yaml:"cores"`
	BoostInterval int64   `yaml:"boost_interval"`
	Timeout       string  `yaml:"timeout"`
	Criterion     string  `yaml:"criterion"`
}

// PresetWorkload is a named process set selectable with --preset.
type PresetWorkload struct {
	Description string            `yaml:"description"`
	Processes   []sim.ProcessSpec `yaml:"processes"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
// A missing file yields an empty Config unless required is set.
func loadDefaultsConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			logrus.Debugf("defaults file %s not found, using built-in defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading defaults file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing defaults YAML %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("defaults file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Defaults.Timeout != "" {
		if _, err := time.ParseDuration(c.Defaults.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Defaults.Timeout, err)
		}
	}
	if c.Defaults.Criterion != "" && !sim.ValidCriteria[sim.Criterion(c.Defaults.Criterion)] {
		return fmt.Errorf("unknown criterion %q", c.Defaults.Criterion)
	}
	for name, w := range c.Workloads {
		if err := sim.ValidateSpecs(w.Processes); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

// mustLoadDefaults loads the defaults file named by --defaults-filepath. The file is
// only required when the flag was set explicitly.
func mustLoadDefaults(cmd *cobra.Command) Config {
	cfg, err := loadDefaultsConfig(defaultsFilePath, cmd.Flags().Changed("defaults-filepath"))
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// resolveParams merges run parameters with the precedence:
// explicitly set flag > workload file params > defaults.yaml > flag default.
func resolveParams(cmd *cobra.Command, cfg Config, fromWorkload *sim.Params) sim.Params {
	flags := cmd.Flags()
	params := sim.Params{
		Quantum:       quantum,
		Quanta:        quanta,
		CoreCount:     cores,
		BoostInterval: boostInterval,
	}

	if !flags.Changed("quantum") && cfg.Defaults.Quantum != 0 {
		params.Quantum = cfg.Defaults.Quantum
	}
	if !flags.Changed("quanta") && len(cfg.Defaults.Quanta) > 0 {
		params.Quanta = cfg.Defaults.Quanta
	}
	if !flags.Changed("cores") && cfg.Defaults.Cores != 0 {
		params.CoreCount = cfg.Defaults.Cores
	}
	if !flags.Changed("boost-interval") && cfg.Defaults.BoostInterval != 0 {
		params.BoostInterval = cfg.Defaults.BoostInterval
	}

	if fromWorkload != nil {
		if !flags.Changed("quantum") && fromWorkload.Quantum != 0 {
			params.Quantum = fromWorkload.Quantum
		}
		if !flags.Changed("quanta") && len(fromWorkload.Quanta) > 0 {
			params.Quanta = fromWorkload.Quanta
		}
		if !flags.Changed("cores") && fromWorkload.CoreCount != 0 {
			params.CoreCount = fromWorkload.CoreCount
		}
		if !flags.Changed("boost-interval") && fromWorkload.BoostInterval != 0 {
			params.BoostInterval = fromWorkload.BoostInterval
		}
	}
	return params
}

// mergeParams fills the zero fields of over from base. A nil over returns base.
func mergeParams(base sim.Params, over *sim.Params) sim.Params {
	if over == nil {
		return base
	}
	merged := *over
	if merged.Quantum == 0 {
		merged.Quantum = base.Quantum
	}
	if len(merged.Quanta) == 0 {
		merged.Quanta = base.Quanta
	}
	if merged.CoreCount == 0 {
		merged.CoreCount = base.CoreCount
	}
	if merged.BoostInterval == 0 {
		merged.BoostInterval = base.BoostInterval
	}
	if merged.Trace == "" {
		merged.Trace = base.Trace
	}
	return merged
}

// resolveTimeout returns --timeout unless it was left unset and defaults.yaml names one.
func resolveTimeout(cmd *cobra.Command, cfg Config) time.Duration {
	if cmd.Flags().Changed("timeout") || cfg.Defaults.Timeout == "" {
		return timeout
	}
	d, _ := time.ParseDuration(cfg.Defaults.Timeout) // validated on load
	return d
}

// resolveCriterion returns --best unless it was left unset and defaults.yaml names one.
func resolveCriterion(cmd *cobra.Command, cfg Config) sim.Criterion {
	if cmd.Flags().Changed("best") || cfg.Defaults.Criterion == "" {
		return sim.Criterion(criterion)
	}
	return sim.Criterion(cfg.Defaults.Criterion)
}

// loadWorkload picks the process set from --workload, then --preset, then a generated
// workload seeded with --seed.
func loadWorkload(cfg Config) (*workload.WorkloadSpec, error) {
	switch {
	case workloadPath != "":
		logrus.Infof("Loading workload %s", workloadPath)
		return workload.LoadWorkloadSpec(workloadPath)
	case presetName != "":
		preset, ok := cfg.Workloads[presetName]
		if !ok {
			return nil, fmt.Errorf("unknown preset workload %q", presetName)
		}
		logrus.Infof("Using preset workload %s", presetName)
		return &workload.WorkloadSpec{Version: workload.CurrentVersion, Processes: preset.Processes}, nil
	default:
		gen := workload.DefaultGeneratorConfig()
		gen.Seed = seed
		logrus.Infof("No workload given, generating one with seed %d", seed)
		return workload.Generate(gen)
	}
}
