// Package progression owns player XP and level state for a run.
package progression

import (
	"github.com/cory-johannsen/arena/internal/game/gameerr"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Config holds the immutable progression knobs for a run.
//
// Only the coefficient of the selected Curve is used; the others are kept so a
// preset can switch curves without restating every number.
type Config struct {
	Curve        stats.CurveKind `mapstructure:"curve" yaml:"curve" json:"curve"`
	LinearA      int             `mapstructure:"linear_a" yaml:"linear_a" json:"linear_a"`
	QuadraticA   int             `mapstructure:"quadratic_a" yaml:"quadratic_a" json:"quadratic_a"`
	LogarithmicA int             `mapstructure:"logarithmic_a" yaml:"logarithmic_a" json:"logarithmic_a"`

	// TargetLevel is the level cap; reaching it completes the run.
	TargetLevel int `mapstructure:"target_level" yaml:"target_level" json:"target_level"`

	PlayerMaxHP          int `mapstructure:"player_max_hp" yaml:"player_max_hp" json:"player_max_hp"`
	PlayerBaseDamage     int `mapstructure:"player_base_damage" yaml:"player_base_damage" json:"player_base_damage"`
	PlayerDamagePerLevel int `mapstructure:"player_damage_per_level" yaml:"player_damage_per_level" json:"player_damage_per_level"`

	// XPPerWin is granted after every won round.
	XPPerWin int `mapstructure:"xp_per_win" yaml:"xp_per_win" json:"xp_per_win"`
}

// DefaultConfig returns the stock arena progression settings.
func DefaultConfig() Config {
	return Config{
		Curve:                stats.CurveLinear,
		LinearA:              50,
		QuadraticA:           20,
		LogarithmicA:         120,
		TargetLevel:          10,
		PlayerMaxHP:          20,
		PlayerBaseDamage:     2,
		PlayerDamagePerLevel: 1,
		XPPerWin:             30,
	}
}

// ResolveCurve returns the selected curve with its coefficient.
//
// Postcondition: Returns a Curve with a known Kind, or a non-nil error.
func (c Config) ResolveCurve() (stats.Curve, error) {
	kind, err := stats.ParseCurveKind(string(c.Curve))
	if err != nil {
		return stats.Curve{}, err
	}
	var coeff int
	switch kind {
	case stats.CurveLinear:
		coeff = c.LinearA
	case stats.CurveQuadratic:
		coeff = c.QuadraticA
	case stats.CurveLogarithmic:
		coeff = c.LogarithmicA
	}
	return stats.Curve{Kind: kind, Coefficient: coeff}, nil
}

// Validate checks all progression invariants.
//
// Postcondition: Returns nil, or a *gameerr.ConfigurationError listing every violation.
func (c Config) Validate() error {
	v := gameerr.NewViolations("progression")
	curve, err := c.ResolveCurve()
	if err != nil {
		v.Addf(true, "curve: %v", err)
	} else {
		v.Addf(curve.Coefficient <= 0, "%s coefficient must be > 0, got %d", curve.Kind, curve.Coefficient)
	}
	v.Addf(c.LinearA < 0, "linear_a must not be negative, got %d", c.LinearA)
	v.Addf(c.QuadraticA < 0, "quadratic_a must not be negative, got %d", c.QuadraticA)
	v.Addf(c.LogarithmicA < 0, "logarithmic_a must not be negative, got %d", c.LogarithmicA)
	v.Addf(c.TargetLevel < 1, "target_level must be >= 1, got %d", c.TargetLevel)
	v.Addf(c.PlayerMaxHP <= 0, "player_max_hp must be > 0, got %d", c.PlayerMaxHP)
	v.Addf(c.PlayerBaseDamage <= 0, "player_base_damage must be > 0, got %d", c.PlayerBaseDamage)
	v.Addf(c.PlayerDamagePerLevel < 0, "player_damage_per_level must not be negative, got %d", c.PlayerDamagePerLevel)
	v.Addf(c.XPPerWin <= 0, "xp_per_win must be > 0, got %d", c.XPPerWin)
	return v.Err()
}
