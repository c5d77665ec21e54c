package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/inference-sim/schedsim/sim"
)

// GeneratorConfig describes a synthetic workload. Ranges are inclusive.
// Count > 0 fixes the number of processes; otherwise it is drawn from [MinCount, MaxCount].
type GeneratorConfig struct {
	Seed        int64   `yaml:"seed"`
	Count       int     `yaml:"count"`
	MinCount    int     `yaml:"min_count"`
	MaxCount    int     `yaml:"max_count"`
	Arrival     string  `yaml:"arrival"` // "uniform" (default) or "poisson"
	ArrivalMin  int64   `yaml:"arrival_min"`
	ArrivalMax  int64   `yaml:"arrival_max"`
	ArrivalRate float64 `yaml:"arrival_rate"` // processes per tick, poisson only
	Burst       string  `yaml:"burst"`        // "uniform" (default) or "exponential"
	BurstMin    int64   `yaml:"burst_min"`
	BurstMax    int64   `yaml:"burst_max"`
	BurstMean   float64 `yaml:"burst_mean"` // exponential only
	PriorityMin int64   `yaml:"priority_min"`
	PriorityMax int64   `yaml:"priority_max"`
}

// DefaultGeneratorConfig returns the classic random workload: 3 to 10 processes arriving in
// [0, 10] with bursts in [1, 10] and priorities in [0, 5].
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		MinCount:    3,
		MaxCount:    10,
		Arrival:     "uniform",
		ArrivalMin:  0,
		ArrivalMax:  10,
		Burst:       "uniform",
		BurstMin:    1,
		BurstMax:    10,
		PriorityMin: 0,
		PriorityMax: 5,
	}
}

// Upper bounds on generated values. Ticks stay exactly representable as float64, which the
// poisson and exponential samplers go through.
const (
	MaxGeneratedCount = 100000
	MaxGeneratedValue = int64(1) << 53
)

// Valid value registries.
var (
	validArrivalProcesses = map[string]bool{"": true, "uniform": true, "poisson": true}
	validBurstDists       = map[string]bool{"": true, "uniform": true, "exponential": true}
)

// Validate checks ranges and distribution names.
func (c *GeneratorConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", c.Count)
	}
	if c.Count == 0 && (c.MinCount < 0 || c.MaxCount < c.MinCount) {
		return fmt.Errorf("count range [%d, %d] is invalid", c.MinCount, c.MaxCount)
	}
	if c.Count > MaxGeneratedCount || (c.Count == 0 && c.MaxCount > MaxGeneratedCount) {
		return fmt.Errorf("at most %d processes can be generated", MaxGeneratedCount)
	}
	if !validArrivalProcesses[c.Arrival] {
		return fmt.Errorf("unknown arrival process %q; valid: uniform, poisson", c.Arrival)
	}
	if c.Arrival == "poisson" && !(c.ArrivalRate > 0) {
		return fmt.Errorf("poisson arrival_rate must be positive, got %f", c.ArrivalRate)
	}
	if c.ArrivalMin < 0 || c.ArrivalMax < c.ArrivalMin {
		return fmt.Errorf("arrival range [%d, %d] is invalid", c.ArrivalMin, c.ArrivalMax)
	}
	if !validBurstDists[c.Burst] {
		return fmt.Errorf("unknown burst distribution %q; valid: uniform, exponential", c.Burst)
	}
	if c.Burst == "exponential" && !(c.BurstMean > 0) {
		return fmt.Errorf("exponential burst_mean must be positive, got %f", c.BurstMean)
	}
	if c.BurstMin < 1 || c.BurstMax < c.BurstMin {
		return fmt.Errorf("burst range [%d, %d] is invalid; bursts must be >= 1", c.BurstMin, c.BurstMax)
	}
	if c.PriorityMin < 0 || c.PriorityMax < c.PriorityMin {
		return fmt.Errorf("priority range [%d, %d] is invalid", c.PriorityMin, c.PriorityMax)
	}
	for _, bound := range []struct {
		name string
		max  int64
	}{{"arrival_max", c.ArrivalMax}, {"burst_max", c.BurstMax}, {"priority_max", c.PriorityMax}} {
		if bound.max > MaxGeneratedValue {
			return fmt.Errorf("%s must be <= %d, got %d", bound.name, MaxGeneratedValue, bound.max)
		}
	}
	return nil
}

// Generate creates a synthetic workload. Deterministic given the same config.
// Processes are named P1..Pn in generation order.
func Generate(cfg GeneratorConfig) (*WorkloadSpec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	rng := NewPartitionedRNG(cfg.Seed)

	count := cfg.Count
	if count == 0 {
		count = cfg.MinCount + rng.ForSubsystem(SubsystemCount).Intn(cfg.MaxCount-cfg.MinCount+1)
	}

	arrivalRNG := rng.ForSubsystem(SubsystemArrival)
	burstRNG := rng.ForSubsystem(SubsystemBurst)
	priorityRNG := rng.ForSubsystem(SubsystemPriority)

	procs := make([]sim.ProcessSpec, count)
	clock := float64(cfg.ArrivalMin)
	for i := range procs {
		var arrival int64
		if cfg.Arrival == "poisson" {
			clock += arrivalRNG.ExpFloat64() / cfg.ArrivalRate
			arrival = int64(clock)
		} else {
			arrival = uniformInt(arrivalRNG, cfg.ArrivalMin, cfg.ArrivalMax)
		}

		var burst int64
		if cfg.Burst == "exponential" {
			val := math.Round(burstRNG.ExpFloat64() * cfg.BurstMean)
			burst = int64(math.Min(float64(cfg.BurstMax), math.Max(float64(cfg.BurstMin), val)))
		} else {
			burst = uniformInt(burstRNG, cfg.BurstMin, cfg.BurstMax)
		}

		procs[i] = sim.ProcessSpec{
			PID:         fmt.Sprintf("P%d", i+1),
			ArrivalTime: arrival,
			BurstTime:   burst,
			Priority:    uniformInt(priorityRNG, cfg.PriorityMin, cfg.PriorityMax),
		}
	}
	return &WorkloadSpec{Version: CurrentVersion, Seed: cfg.Seed, Processes: procs}, nil
}

// uniformInt draws from [lo, hi] inclusive.
func uniformInt(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}
