package montecarlo

import "math/rand"

// NormalSource produces independent standard-normal draws on demand. A source
// is consumed sequentially by exactly one generator; implementations must be
// seedable so that identical seeds reproduce identical draw sequences.
type NormalSource interface {
	Next() float64
}

// SeededSource is a deterministic NormalSource backed by math/rand.
type SeededSource struct {
	rng *rand.Rand
}

// NewSeededSource creates a NormalSource with a fixed seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next standard-normal draw.
func (s *SeededSource) Next() float64 { return s.rng.NormFloat64() }
