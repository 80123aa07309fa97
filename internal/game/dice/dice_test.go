package dice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

const draws = 100_000

func moments(src dice.Source, bias float64) (mean, variance float64) {
	var sum, sumSq float64
	for i := 0; i < draws; i++ {
		t := dice.Biased01(src, bias)
		sum += t
		sumSq += t * t
	}
	mean = sum / draws
	variance = sumSq/draws - mean*mean
	return mean, variance
}

func TestBiased01_UniformMeanIsHalf(t *testing.T) {
	mean, variance := moments(dice.NewSeededSource(42), 1)
	assert.InDelta(t, 0.5, mean, 0.01)
	// Var of U(0,1) is 1/12.
	assert.InDelta(t, 1.0/12.0, variance, 0.005)
}

func TestBiased01_MoreSamplesShrinkVariance(t *testing.T) {
	_, uniformVar := moments(dice.NewSeededSource(7), 1)
	mean8, biasedVar := moments(dice.NewSeededSource(7), 8)
	assert.InDelta(t, 0.5, mean8, 0.01)
	assert.Less(t, biasedVar, uniformVar)
	assert.InDelta(t, 1.0/96.0, biasedVar, 0.003)
}

func TestBiasSamples_Clamped(t *testing.T) {
	assert.Equal(t, 1, dice.BiasSamples(0))
	assert.Equal(t, 1, dice.BiasSamples(-4))
	assert.Equal(t, 1, dice.BiasSamples(1.4))
	assert.Equal(t, 2, dice.BiasSamples(2.5)) // half to even
	assert.Equal(t, 4, dice.BiasSamples(3.5))
	assert.Equal(t, 12, dice.BiasSamples(12))
	assert.Equal(t, dice.MaxBiasSamples, dice.BiasSamples(40))
}

func TestBiasSamples_SaturatesHugeAndInfinite(t *testing.T) {
	assert.Equal(t, dice.MaxBiasSamples, dice.BiasSamples(1e20))
	assert.Equal(t, dice.MaxBiasSamples, dice.BiasSamples(math.MaxFloat64))
	assert.Equal(t, dice.MaxBiasSamples, dice.BiasSamples(math.Inf(1)))
	assert.Equal(t, 1, dice.BiasSamples(math.Inf(-1)))
	assert.Equal(t, 1, dice.BiasSamples(-1e20))
	assert.Equal(t, 1, dice.BiasSamples(math.NaN()))
}

func TestBiased01_HugeBiasUsesTwelveSamples(t *testing.T) {
	_, variance := moments(dice.NewSeededSource(11), 1e20)
	// Var of the mean of 12 uniforms is 1/144.
	assert.InDelta(t, 1.0/144.0, variance, 0.002)
}

func TestBiased01_AveragesExactDraws(t *testing.T) {
	seq := dice.NewSequence(0.1, 0.3, 0.8)
	assert.InDelta(t, 0.4, dice.Biased01(seq, 3), 1e-12)
}

func TestBiased01_Property_InUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		bias := rapid.Float64Range(-5, 50).Draw(rt, "bias")
		v := dice.Biased01(dice.NewSeededSource(seed), bias)
		assert.GreaterOrEqual(rt, v, 0.0)
		assert.Less(rt, v, 1.0)
	})
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(99)
	b := dice.NewSeededSource(99)
	assert.Equal(t, int64(99), a.Seed())
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSequence_Cycles(t *testing.T) {
	seq := dice.NewSequence(0.25, 0.75)
	assert.Equal(t, 0.25, seq.Float64())
	assert.Equal(t, 0.75, seq.Float64())
	assert.Equal(t, 0.25, seq.Float64())
}

func TestNewSequence_PanicsOnBadValues(t *testing.T) {
	assert.Panics(t, func() { dice.NewSequence() })
	assert.Panics(t, func() { dice.NewSequence(1.0) })
	assert.Panics(t, func() { dice.NewSequence(-0.1) })
}

func TestCryptoSource_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestNewSeed(t *testing.T) {
	a, err := dice.NewSeed()
	require.NoError(t, err)
	b, err := dice.NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
