package signal

import "math/rand"

// NoiseSource generates uniform white noise in [-1, 1) from a fixed seed, so
// renders are repeatable.
type NoiseSource struct {
	rand *rand.Rand
}

// NewNoise creates a generator seeded with seed.
func NewNoise(seed int64) NoiseSource {
	return NoiseSource{rand: rand.New(rand.NewSource(seed))}
}

// Next returns the next sample.
func (n NoiseSource) Next() float64 {
	return 2*n.rand.Float64() - 1
}
