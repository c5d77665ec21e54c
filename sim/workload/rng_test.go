package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSeedSameSequence(t *testing.T) {
	rng1 := NewPartitionedRNG(42)
	rng2 := NewPartitionedRNG(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t,
			rng1.ForSubsystem(SubsystemBurst).Int63(),
			rng2.ForSubsystem(SubsystemBurst).Int63())
	}
}

func TestPartitionedRNG_StreamsAreIndependent(t *testing.T) {
	// GIVEN two generators with the same seed
	a := NewPartitionedRNG(42)
	b := NewPartitionedRNG(42)

	// WHEN only one of them consumes the burst stream first
	for i := 0; i < 10; i++ {
		a.ForSubsystem(SubsystemBurst).Int63()
	}

	// THEN the arrival streams still agree
	assert.Equal(t, a.ForSubsystem(SubsystemArrival).Int63(), b.ForSubsystem(SubsystemArrival).Int63())
	assert.NotEqual(t, NewPartitionedRNG(42).ForSubsystem(SubsystemArrival).Int63(),
		NewPartitionedRNG(42).ForSubsystem(SubsystemBurst).Int63())
}

func TestPartitionedRNG_Cached(t *testing.T) {
	rng := NewPartitionedRNG(1)
	assert.Same(t, rng.ForSubsystem(SubsystemPriority), rng.ForSubsystem(SubsystemPriority))
	assert.Equal(t, int64(1), rng.streamSeed(SubsystemCount))
	assert.Equal(t, int64(1)^fnv1a64(SubsystemBurst), rng.streamSeed(SubsystemBurst))
}

func TestFnv1a64_KnownValue(t *testing.T) {
	// FNV-1a offset basis for the empty string
	assert.Equal(t, int64(-3750763034362895579), fnv1a64(""))
}
