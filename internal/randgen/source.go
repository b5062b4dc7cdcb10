package randgen

// Source is a deterministic pseudo-random generator. Every sampling
// primitive in this package draws from a shared, mutable Source, so a
// fixed seed always reproduces the identical dataset. Callers must not
// share one Source across goroutines.
type Source struct {
	state uint32
}

// New constructs a Source from an explicit 32-bit seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Float64 advances the linear congruential recurrence and returns the
// next value in [0, 1).
func (s *Source) Float64() float64 {
	s.state = s.state*1664525 + 1013904223
	return float64(s.state) / 4294967296
}

// IntBetween returns a uniform integer in [min, max], both inclusive.
func (s *Source) IntBetween(min, max int) int {
	return min + int(s.Float64()*float64(max-min+1))
}

// FloatBetween returns a uniform float in [min, max).
func (s *Source) FloatBetween(min, max float64) float64 {
	return min + s.Float64()*(max-min)
}
