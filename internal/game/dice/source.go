package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It cannot be replayed.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Float64 returns a uniform value in [0, 1) built from 53 random bits.
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// SeededSource is a deterministic Source. Two SeededSources built from the
// same seed produce the same sequence.
type SeededSource struct {
	seed int64
	rng  *rand.Rand
}

// NewSeededSource returns a deterministic Source for seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the source was built from.
func (s *SeededSource) Seed() int64 { return s.seed }

// Float64 returns the next value in [0, 1).
func (s *SeededSource) Float64() float64 { return s.rng.Float64() }

// NewSeed draws a fresh seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Sequence replays a fixed list of values, cycling when exhausted.
//
// Invariant: every value is in [0, 1).
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a Sequence over values.
//
// Precondition: len(values) >= 1 and every value is in [0, 1); panics otherwise.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("dice: NewSequence requires at least one value")
	}
	for _, v := range values {
		if v < 0 || v >= 1 || math.IsNaN(v) {
			panic(fmt.Sprintf("dice: sequence value %v outside [0, 1)", v))
		}
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return &Sequence{values: cp}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

func roundHalfEven(v float64) float64 {
	return math.RoundToEven(v)
}
