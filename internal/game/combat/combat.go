// Package combat resolves a single arena round: the player strikes, and a
// surviving enemy strikes back with a randomized, bias-shaped damage roll.
package combat

// Result is the state of a round after one attack exchange.
type Result int

const (
	InProgress Result = iota
	Win
	Loss
)

// String returns a human-readable result label.
func (r Result) String() string {
	switch r {
	case InProgress:
		return "in progress"
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// RoundOutcome reports one attack exchange.
//
// On a Win the enemy never retaliates, so DamageTaken is 0 and Crit is false.
type RoundOutcome struct {
	Result      Result
	DamageDealt int
	DamageTaken int
	Crit        bool
	// PlayerHP and EnemyHP are the hit points left after the exchange.
	PlayerHP int
	EnemyHP  int
}

// Player describes the attacking player for one round.
type Player struct {
	Level          int
	MaxHP          int
	BaseDamage     int
	DamagePerLevel int
}

// EnemyState is a snapshot of the round's enemy, including the damage figures
// a presentation layer shows.
type EnemyState struct {
	Level     int
	HP        int
	MaxHP     int
	DamageMin int
	DamageMax int
	// CritMax is the highest damage a crit can deal.
	CritMax int
}

// combatant tracks hit points for one side of a round.
type combatant struct {
	maxHP int
	hp    int
}

// applyDamage reduces hp by amount, flooring at zero.
// Postcondition: hp >= 0.
func (c *combatant) applyDamage(amount int) {
	c.hp -= amount
	if c.hp < 0 {
		c.hp = 0
	}
}

func (c *combatant) dead() bool { return c.hp <= 0 }
