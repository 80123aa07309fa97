package progression

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/stats"
)

// PlayerState is a snapshot of the player's progression.
//
// HP is only meaningful while a round is in progress; between rounds it equals MaxHP.
type PlayerState struct {
	Level    int
	XP       int
	XPToNext int
	// TotalXP is every XP point ever granted this run, including XP retained past the cap.
	TotalXP int
	HP      int
	MaxHP   int
	Wins    int
	Losses  int
}

// LevelUpEvent summarizes the net change of one GrantXP call that crossed at
// least one threshold.
type LevelUpEvent struct {
	FromLevel    int
	ToLevel      int
	LevelsGained int
	OldDamage    int
	NewDamage    int
	OldXPToNext  int
	NewXPToNext  int
	XPRemainder  int
}

// Engine converts XP gains into level-ups along the configured curve.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg   Config
	curve stats.Curve
	state PlayerState
}

// NewEngine validates cfg and returns an Engine at level 1 with no XP.
//
// Postcondition: Returns a ready Engine, or a *gameerr.ConfigurationError.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := cfg.ResolveCurve()
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, curve: curve}
	e.Reset()
	return e, nil
}

// Reset returns the player to level 1 with no XP, wins, or losses.
func (e *Engine) Reset() {
	e.state = PlayerState{
		Level:    1,
		XPToNext: e.curve.XPToNext(1),
		HP:       e.cfg.PlayerMaxHP,
		MaxHP:    e.cfg.PlayerMaxHP,
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Curve returns the resolved XP curve.
func (e *Engine) Curve() stats.Curve { return e.curve }

// State returns a copy of the current player state.
func (e *Engine) State() PlayerState { return e.state }

// Damage returns the player's hit damage at the current level.
func (e *Engine) Damage() int {
	return stats.PlayerDamage(e.state.Level, e.cfg.PlayerBaseDamage, e.cfg.PlayerDamagePerLevel)
}

// IsRunComplete reports whether the player has reached the target level.
func (e *Engine) IsRunComplete() bool {
	return e.state.Level >= e.cfg.TargetLevel
}

// GrantXP adds amount to the player's XP and applies every level-up it pays for.
// At the target level XP keeps accumulating but no further level-up happens.
//
// Precondition: amount >= 0.
// Postcondition: Returns a non-nil event iff at least one level was gained;
// Level <= TargetLevel; XPToNext >= 1.
func (e *Engine) GrantXP(amount int) (*LevelUpEvent, error) {
	if amount < 0 {
		return nil, fmt.Errorf("grant xp: amount must not be negative, got %d", amount)
	}
	s := &e.state
	s.XP += amount
	s.TotalXP += amount

	fromLevel := s.Level
	oldXPToNext := s.XPToNext
	gained := 0
	for s.XP >= s.XPToNext && s.Level < e.cfg.TargetLevel {
		s.XP -= s.XPToNext
		s.Level++
		s.XPToNext = e.curve.XPToNext(s.Level)
		gained++
	}
	if gained == 0 {
		return nil, nil
	}
	return &LevelUpEvent{
		FromLevel:    fromLevel,
		ToLevel:      s.Level,
		LevelsGained: gained,
		OldDamage:    stats.PlayerDamage(fromLevel, e.cfg.PlayerBaseDamage, e.cfg.PlayerDamagePerLevel),
		NewDamage:    stats.PlayerDamage(s.Level, e.cfg.PlayerBaseDamage, e.cfg.PlayerDamagePerLevel),
		OldXPToNext:  oldXPToNext,
		NewXPToNext:  s.XPToNext,
		XPRemainder:  s.XP,
	}, nil
}

// RecordWin increments the win counter.
func (e *Engine) RecordWin() { e.state.Wins++ }

// RecordLoss increments the loss counter.
func (e *Engine) RecordLoss() { e.state.Losses++ }
