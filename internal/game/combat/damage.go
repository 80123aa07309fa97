package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// DamageRoll is the result of one enemy damage roll.
type DamageRoll struct {
	Damage int
	Crit   bool
	// T is the bias-shaped position within [min, max] the roll landed on.
	T float64
}

// RollEnemyDamage rolls an enemy's retaliation damage at level.
//
// The roll draws BiasSamples(cfg.DamageBias) values for the position within
// the continuous damage bounds, then one value for the crit check.
//
// Precondition: src must be non-nil; cfg must be valid.
// Postcondition: Damage >= 1.
func RollEnemyDamage(level int, cfg Config, src dice.Source) DamageRoll {
	lo, hi := stats.EnemyDamageBounds(level, cfg.EnemyBaseDamage, cfg.EnemyDamagePerLevel, cfg.MinMultiplier, cfg.MaxMultiplier)
	t := dice.Biased01(src, cfg.DamageBias)
	dmg := lo + t*(hi-lo)

	crit := src.Float64() < cfg.CritChance
	if crit {
		dmg *= cfg.CritMultiplier
	}

	out := int(math.Ceil(dmg))
	if out < 1 {
		out = 1
	}
	return DamageRoll{Damage: out, Crit: crit, T: t}
}

// DamageRoller rolls enemy damage for one combat configuration and logs every roll.
type DamageRoller struct {
	cfg    Config
	logger *zap.Logger
}

// NewDamageRoller creates a DamageRoller for cfg. A nil logger discards roll logs.
func NewDamageRoller(cfg Config, logger *zap.Logger) *DamageRoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DamageRoller{cfg: cfg, logger: logger}
}

// Roll rolls damage for an enemy at level using src and logs the result at debug level.
func (r *DamageRoller) Roll(level int, src dice.Source) DamageRoll {
	roll := RollEnemyDamage(level, r.cfg, src)
	r.logger.Debug("enemy damage roll",
		zap.Int("enemy_level", level),
		zap.Float64("t", roll.T),
		zap.Int("damage", roll.Damage),
		zap.Bool("crit", roll.Crit),
	)
	return roll
}
