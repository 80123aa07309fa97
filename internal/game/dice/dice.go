// Package dice provides the randomness abstraction for the arena simulation.
//
// Nothing in the simulation reads global random state; every random draw goes
// through a Source handed in by the caller, so a fixed seed or a fixed
// Sequence replays a run exactly.
package dice

import "math"

// Source is the randomness provider for damage rolls.
//
// Implementations are not required to be safe for concurrent use; give each
// run its own Source.
type Source interface {
	// Float64 returns a uniform random value in [0, 1).
	Float64() float64
}

// MaxBiasSamples caps the number of draws Biased01 averages.
const MaxBiasSamples = 12

// BiasSamples returns the number of uniform draws Biased01 averages for bias.
//
// Clamping happens before the int conversion so huge or infinite biases
// saturate at MaxBiasSamples. NaN yields a single uniform draw.
//
// Postcondition: 1 <= n <= MaxBiasSamples.
func BiasSamples(bias float64) int {
	r := roundHalfEven(bias)
	switch {
	case math.IsNaN(r), r < 1:
		return 1
	case r > MaxBiasSamples:
		return MaxBiasSamples
	default:
		return int(r)
	}
}

// Biased01 draws a value in [0, 1) as the mean of BiasSamples(bias) uniform
// draws from src. One sample is uniform; more samples cluster the result
// around 0.5.
//
// Precondition: src must be non-nil.
// Postcondition: 0 <= t < 1.
func Biased01(src Source, bias float64) float64 {
	n := BiasSamples(bias)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += src.Float64()
	}
	return sum / float64(n)
}
