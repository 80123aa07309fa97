package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gameerr"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateNotStarted State = iota
	StateActive
	StateWon
	StateLost
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateActive:
		return "active"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s is Won or Lost.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Session is one round of arena combat between the player and a single enemy.
//
// A Session moves NotStarted -> Active -> Won|Lost exactly once; a finished
// round needs a fresh Session. A Session is not safe for concurrent use.
type Session struct {
	cfg    Config
	roller *DamageRoller
	logger *zap.Logger

	state      State
	player     Player
	playerSide combatant
	enemyLevel int
	enemySide  combatant
}

// NewSession creates a NotStarted session for cfg.
//
// Precondition: cfg must pass Validate.
// Postcondition: Returns a session in StateNotStarted, or a *gameerr.ConfigurationError.
func NewSession(cfg Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:    cfg,
		roller: NewDamageRoller(cfg, logger),
		logger: logger,
	}, nil
}

// Start fills both combatants to full HP and activates the round.
//
// Precondition: the session is NotStarted; enemyLevel >= 1; player.Level >= 1; player.MaxHP > 0.
// Postcondition: state is Active, or an error is returned and nothing changed.
func (s *Session) Start(enemyLevel int, player Player) error {
	if s.state != StateNotStarted {
		return gameerr.NewInvalidState("start round", s.state.String())
	}
	if enemyLevel < 1 {
		return fmt.Errorf("start round: enemy level must be >= 1, got %d", enemyLevel)
	}
	if player.Level < 1 || player.MaxHP <= 0 {
		return fmt.Errorf("start round: invalid player level %d or max hp %d", player.Level, player.MaxHP)
	}

	enemyMax := stats.EnemyMaxHP(enemyLevel, s.cfg.EnemyBaseHP, s.cfg.EnemyHPPerLevel)
	s.player = player
	s.playerSide = combatant{maxHP: player.MaxHP, hp: player.MaxHP}
	s.enemyLevel = enemyLevel
	s.enemySide = combatant{maxHP: enemyMax, hp: enemyMax}
	s.state = StateActive

	s.logger.Debug("round started",
		zap.Int("enemy_level", enemyLevel),
		zap.Int("enemy_hp", enemyMax),
		zap.Int("player_level", player.Level),
		zap.Int("player_hp", player.MaxHP),
	)
	return nil
}

// ResolveAttack performs one exchange: the player hits, then a surviving enemy retaliates.
//
// A killing blow ends the round as a Win before any retaliation is rolled.
//
// Precondition: src must be non-nil.
// Postcondition: on error the session is unchanged and err satisfies
// errors.Is(err, gameerr.ErrInvalidState).
func (s *Session) ResolveAttack(src dice.Source) (RoundOutcome, error) {
	if s.state != StateActive {
		return RoundOutcome{}, gameerr.NewInvalidState("resolve attack", s.state.String())
	}

	dealt := stats.PlayerDamage(s.player.Level, s.player.BaseDamage, s.player.DamagePerLevel)
	s.enemySide.applyDamage(dealt)
	if s.enemySide.dead() {
		s.state = StateWon
		return s.outcome(Win, dealt, DamageRoll{}), nil
	}

	roll := s.roller.Roll(s.enemyLevel, src)
	s.playerSide.applyDamage(roll.Damage)
	if s.playerSide.dead() {
		s.state = StateLost
		return s.outcome(Loss, dealt, roll), nil
	}
	return s.outcome(InProgress, dealt, roll), nil
}

func (s *Session) outcome(r Result, dealt int, roll DamageRoll) RoundOutcome {
	return RoundOutcome{
		Result:      r,
		DamageDealt: dealt,
		DamageTaken: roll.Damage,
		Crit:        roll.Crit,
		PlayerHP:    s.playerSide.hp,
		EnemyHP:     s.enemySide.hp,
	}
}

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// PlayerHP returns the player's remaining HP for this round.
func (s *Session) PlayerHP() int { return s.playerSide.hp }

// Enemy returns a snapshot of the round's enemy. Before Start it is the zero value.
func (s *Session) Enemy() EnemyState {
	if s.state == StateNotStarted {
		return EnemyState{}
	}
	lo, hi := stats.EnemyDamageRange(s.enemyLevel, s.cfg.EnemyBaseDamage, s.cfg.EnemyDamagePerLevel, s.cfg.MinMultiplier, s.cfg.MaxMultiplier)
	return EnemyState{
		Level:     s.enemyLevel,
		HP:        s.enemySide.hp,
		MaxHP:     s.enemySide.maxHP,
		DamageMin: lo,
		DamageMax: hi,
		CritMax:   stats.CritMaxDamage(s.enemyLevel, s.cfg.EnemyBaseDamage, s.cfg.EnemyDamagePerLevel, s.cfg.MaxMultiplier, s.cfg.CritMultiplier),
	}
}

// Config returns the session's combat configuration.
func (s *Session) Config() Config { return s.cfg }
