package combat_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/gameerr"
)

func TestConfig_DefaultIsValid(t *testing.T) {
	assert.NoError(t, combat.DefaultConfig().Validate())
}

func TestConfig_RejectsNaNFields(t *testing.T) {
	cfg := combat.DefaultConfig()
	cfg.CritMultiplier = math.NaN()
	cfg.DamageBias = math.NaN()

	err := cfg.Validate()
	require.Error(t, err)
	var ce *gameerr.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Violations, 2)
	assert.ErrorContains(t, err, "crit_multiplier must be a finite number")
	assert.ErrorContains(t, err, "damage_bias must be a finite number")
}

func TestConfig_RejectsNonFiniteFields(t *testing.T) {
	cases := map[string]func(*combat.Config){
		"enemy_base_damage":      func(c *combat.Config) { c.EnemyBaseDamage = math.Inf(1) },
		"enemy_damage_per_level": func(c *combat.Config) { c.EnemyDamagePerLevel = math.NaN() },
		"min_multiplier":         func(c *combat.Config) { c.MinMultiplier = math.NaN() },
		"max_multiplier":         func(c *combat.Config) { c.MaxMultiplier = math.Inf(1) },
		"damage_bias":            func(c *combat.Config) { c.DamageBias = math.Inf(1) },
		"crit_chance":            func(c *combat.Config) { c.CritChance = math.NaN() },
		"crit_multiplier":        func(c *combat.Config) { c.CritMultiplier = math.Inf(1) },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			cfg := combat.DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, gameerr.ErrConfiguration))
			assert.ErrorContains(t, err, field+" must be a finite number")
		})
	}
}

func TestConfig_HugeFiniteBiasIsAccepted(t *testing.T) {
	cfg := combat.DefaultConfig()
	cfg.DamageBias = 1e20
	assert.NoError(t, cfg.Validate())
}
