package run

import (
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// Hooks observes a run. Implementations must not call back into the Controller.
type Hooks interface {
	RoundStarted(start RoundStart)
	AttackResolved(round int, outcome combat.RoundOutcome)
	LeveledUp(event progression.LevelUpEvent)
	RunCompleted(final progression.PlayerState)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) RoundStarted(RoundStart)                 {}
func (NopHooks) AttackResolved(int, combat.RoundOutcome) {}
func (NopHooks) LeveledUp(progression.LevelUpEvent)      {}
func (NopHooks) RunCompleted(progression.PlayerState)    {}

// MultiHooks fans every event out to each member in order.
type MultiHooks []Hooks

func (m MultiHooks) RoundStarted(start RoundStart) {
	for _, h := range m {
		h.RoundStarted(start)
	}
}

func (m MultiHooks) AttackResolved(round int, outcome combat.RoundOutcome) {
	for _, h := range m {
		h.AttackResolved(round, outcome)
	}
}

func (m MultiHooks) LeveledUp(event progression.LevelUpEvent) {
	for _, h := range m {
		h.LeveledUp(event)
	}
}

func (m MultiHooks) RunCompleted(final progression.PlayerState) {
	for _, h := range m {
		h.RunCompleted(final)
	}
}
