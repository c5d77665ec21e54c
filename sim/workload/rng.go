package workload

import (
	"hash/fnv"
	"math/rand"
)

// Random streams used by Generate. Each draws from its own source, so widening the burst
// range leaves the arrival sequence of the same seed untouched.
const (
	SubsystemCount    = "count" // seeded with the workload seed itself
	SubsystemArrival  = "arrival"
	SubsystemBurst    = "burst"
	SubsystemPriority = "priority"
)

// PartitionedRNG hands out one deterministic *rand.Rand per named stream.
// Stream seeds are seed XOR fnv1a64(name), except SubsystemCount which uses seed.
// Not safe for concurrent use.
type PartitionedRNG struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewPartitionedRNG returns a PartitionedRNG for a workload seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{seed: seed, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.streamSeed(name)))
	p.streams[name] = rng
	return rng
}

func (p *PartitionedRNG) streamSeed(name string) int64 {
	if name == SubsystemCount {
		return p.seed
	}
	return p.seed ^ fnv1a64(name)
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
