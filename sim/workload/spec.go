package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/schedsim/sim"
)

// CurrentVersion is the workload file format version written by this package.
const CurrentVersion = "1"

// WorkloadSpec is the top-level workload file.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version   string            `yaml:"version"`
	Seed      int64             `yaml:"seed,omitempty"` // seed the processes were generated from, if any
	Params    *sim.Params       `yaml:"params,omitempty"`
	Processes []sim.ProcessSpec `yaml:"processes"`
}

// LoadWorkloadSpec reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// ParseWorkloadSpec parses YAML (or JSON, which YAML accepts) workload bytes strictly
// and validates the result.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the version and every process descriptor.
func (s *WorkloadSpec) Validate() error {
	if s.Version != "" && s.Version != CurrentVersion {
		return fmt.Errorf("unsupported workload version %q; valid: %s", s.Version, CurrentVersion)
	}
	if err := sim.ValidateSpecs(s.Processes); err != nil {
		return fmt.Errorf("workload: %w", err)
	}
	return nil
}

// Marshal renders the spec as YAML.
func (s *WorkloadSpec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
