// Package stats holds the level scaling formulas for the arena.
//
// Every derived number the simulation uses (player damage, enemy HP, enemy
// damage bounds, XP thresholds) is computed here and nowhere else.
package stats

import "math"

// PlayerDamage returns the player's flat hit damage at level.
// No scaling is applied at level 1.
//
// Precondition: level >= 1.
// Postcondition: Returns base + perLevel*(level-1).
func PlayerDamage(level, base, perLevel int) int {
	return base + perLevel*(level-1)
}

// EnemyMaxHP returns the max HP of an enemy at level.
//
// Postcondition: Returns base + perLevel*level.
func EnemyMaxHP(level, base, perLevel int) int {
	return base + perLevel*level
}

// scaledEnemyDamage is the enemy's unmultiplied damage at level.
func scaledEnemyDamage(level int, base, perLevel float64) float64 {
	return base + perLevel*float64(level)
}

// EnemyDamageBounds returns the continuous [min, max] damage interval an enemy
// at level rolls within, before crits and before rounding.
//
// Postcondition: lo == scaled*minMult, hi == scaled*maxMult.
func EnemyDamageBounds(level int, base, perLevel, minMult, maxMult float64) (lo, hi float64) {
	scaled := scaledEnemyDamage(level, base, perLevel)
	return scaled * minMult, scaled * maxMult
}

// EnemyDamageRange returns the integer damage range shown for an enemy at level.
//
// Postcondition: both values are >= 1.
func EnemyDamageRange(level int, base, perLevel, minMult, maxMult float64) (lo, hi int) {
	flo, fhi := EnemyDamageBounds(level, base, perLevel, minMult, maxMult)
	return atLeastOne(ceil(flo)), atLeastOne(ceil(fhi))
}

// CritMaxDamage returns the highest damage an enemy at level can deal with a crit.
//
// Postcondition: Returns >= 1.
func CritMaxDamage(level int, base, perLevel, maxMult, critMult float64) int {
	return atLeastOne(ceil(scaledEnemyDamage(level, base, perLevel) * maxMult * critMult))
}

func ceil(v float64) int {
	return int(math.Ceil(v))
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
