package combat

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/gameerr"
)

// Config holds the immutable enemy scaling and damage-roll knobs.
type Config struct {
	EnemyBaseHP     int `mapstructure:"enemy_base_hp" yaml:"enemy_base_hp" json:"enemy_base_hp"`
	EnemyHPPerLevel int `mapstructure:"enemy_hp_per_level" yaml:"enemy_hp_per_level" json:"enemy_hp_per_level"`

	EnemyBaseDamage     float64 `mapstructure:"enemy_base_damage" yaml:"enemy_base_damage" json:"enemy_base_damage"`
	EnemyDamagePerLevel float64 `mapstructure:"enemy_damage_per_level" yaml:"enemy_damage_per_level" json:"enemy_damage_per_level"`

	// MinMultiplier and MaxMultiplier scale the enemy's base damage into its roll range.
	MinMultiplier float64 `mapstructure:"min_multiplier" yaml:"min_multiplier" json:"min_multiplier"`
	MaxMultiplier float64 `mapstructure:"max_multiplier" yaml:"max_multiplier" json:"max_multiplier"`

	// DamageBias is the number of uniform samples averaged per roll; 1 is uniform.
	DamageBias float64 `mapstructure:"damage_bias" yaml:"damage_bias" json:"damage_bias"`

	CritChance     float64 `mapstructure:"crit_chance" yaml:"crit_chance" json:"crit_chance"`
	CritMultiplier float64 `mapstructure:"crit_multiplier" yaml:"crit_multiplier" json:"crit_multiplier"`

	// EnemyMatchesPlayerLevel selects the enemy level source: the player's
	// level when true, the round counter when false.
	EnemyMatchesPlayerLevel bool `mapstructure:"enemy_matches_player_level" yaml:"enemy_matches_player_level" json:"enemy_matches_player_level"`
}

// DefaultConfig returns the stock arena combat settings.
func DefaultConfig() Config {
	return Config{
		EnemyBaseHP:             5,
		EnemyHPPerLevel:         3,
		EnemyBaseDamage:         1,
		EnemyDamagePerLevel:     0.5,
		MinMultiplier:           0.7,
		MaxMultiplier:           1.3,
		DamageBias:              1,
		CritChance:              0.2,
		CritMultiplier:          2,
		EnemyMatchesPlayerLevel: true,
	}
}

// Validate checks all combat invariants.
//
// Postcondition: Returns nil, or a *gameerr.ConfigurationError listing every violation.
func (c Config) Validate() error {
	v := gameerr.NewViolations("combat")
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"enemy_base_damage", c.EnemyBaseDamage},
		{"enemy_damage_per_level", c.EnemyDamagePerLevel},
		{"min_multiplier", c.MinMultiplier},
		{"max_multiplier", c.MaxMultiplier},
		{"damage_bias", c.DamageBias},
		{"crit_chance", c.CritChance},
		{"crit_multiplier", c.CritMultiplier},
	} {
		v.Addf(math.IsNaN(f.value) || math.IsInf(f.value, 0), "%s must be a finite number, got %g", f.name, f.value)
	}
	v.Addf(c.EnemyBaseHP <= 0, "enemy_base_hp must be > 0, got %d", c.EnemyBaseHP)
	v.Addf(c.EnemyHPPerLevel < 0, "enemy_hp_per_level must not be negative, got %d", c.EnemyHPPerLevel)
	v.Addf(c.EnemyBaseDamage <= 0, "enemy_base_damage must be > 0, got %g", c.EnemyBaseDamage)
	v.Addf(c.EnemyDamagePerLevel < 0, "enemy_damage_per_level must not be negative, got %g", c.EnemyDamagePerLevel)
	v.Addf(c.MinMultiplier <= 0, "min_multiplier must be > 0, got %g", c.MinMultiplier)
	v.Addf(c.MaxMultiplier < c.MinMultiplier, "max_multiplier (%g) must be >= min_multiplier (%g)", c.MaxMultiplier, c.MinMultiplier)
	v.Addf(c.DamageBias <= 0, "damage_bias must be > 0, got %g", c.DamageBias)
	v.Addf(c.CritChance < 0 || c.CritChance > 1, "crit_chance must be within [0, 1], got %g", c.CritChance)
	v.Addf(c.CritMultiplier < 1, "crit_multiplier must be >= 1, got %g", c.CritMultiplier)
	return v.Err()
}
