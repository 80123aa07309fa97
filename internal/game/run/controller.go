// Package run drives a full arena run: it starts rounds, feeds attack outcomes
// into progression, and decides when the run is over.
package run

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gameerr"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// statusEvery is how many wins pass between status log lines.
const statusEvery = 5

// RoundStart describes a freshly started round.
type RoundStart struct {
	// Round is the 1-based round counter.
	Round int
	Enemy combat.EnemyState
	// Player is the player at the start of the round, at full HP.
	Player progression.PlayerState
}

// AttackResult is the outcome of one OnAttack call.
type AttackResult struct {
	Outcome combat.RoundOutcome
	// LevelUp is non-nil when the win paid for at least one level.
	LevelUp *progression.LevelUpEvent
	// RunComplete is true once the player has reached the target level.
	RunComplete bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. The logger is also handed to each round's session.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers an observer for run events.
func WithHooks(h Hooks) Option {
	return func(c *Controller) {
		if h != nil {
			c.hooks = h
		}
	}
}

// Controller runs repeated combat rounds against a single progression engine.
//
// A Controller is not safe for concurrent use; hosts serialize calls per run.
type Controller struct {
	prog   *progression.Engine
	cfg    combat.Config
	logger *zap.Logger
	hooks  Hooks

	round   int
	session *combat.Session
}

// NewController builds a Controller at round 0 with no active session.
//
// Precondition: prog must be non-nil.
// Postcondition: Returns a Controller, or a *gameerr.ConfigurationError if cmb is invalid.
func NewController(prog *progression.Engine, cmb combat.Config, opts ...Option) (*Controller, error) {
	if err := cmb.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		prog:   prog,
		cfg:    cmb,
		logger: zap.NewNop(),
		hooks:  NopHooks{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BeginRound spawns the next enemy and restores the player to full HP.
//
// The enemy's level is the player's level when the combat config says the
// enemy tracks the player, otherwise the new round number.
//
// Postcondition: on success the round counter has grown by one and a session
// is Active; on error nothing changed.
func (c *Controller) BeginRound() (RoundStart, error) {
	if c.prog.IsRunComplete() {
		return RoundStart{}, gameerr.NewInvalidState("begin round", "run complete")
	}
	if c.session != nil && c.session.State() == combat.StateActive {
		return RoundStart{}, gameerr.NewInvalidState("begin round", "round active")
	}

	session, err := combat.NewSession(c.cfg, c.logger)
	if err != nil {
		return RoundStart{}, err
	}
	round := c.round + 1
	enemyLevel := round
	if c.cfg.EnemyMatchesPlayerLevel {
		enemyLevel = c.prog.State().Level
	}
	pcfg := c.prog.Config()
	player := combat.Player{
		Level:          c.prog.State().Level,
		MaxHP:          pcfg.PlayerMaxHP,
		BaseDamage:     pcfg.PlayerBaseDamage,
		DamagePerLevel: pcfg.PlayerDamagePerLevel,
	}
	if err := session.Start(enemyLevel, player); err != nil {
		return RoundStart{}, err
	}

	c.round = round
	c.session = session
	start := RoundStart{Round: round, Enemy: session.Enemy(), Player: c.Player()}
	c.hooks.RoundStarted(start)
	return start, nil
}

// OnAttack resolves one exchange of the active round and applies its result to the run.
//
// Precondition: src must be non-nil.
// Postcondition: errors satisfy errors.Is(err, gameerr.ErrInvalidState) when no
// round is active, and leave the run unchanged.
func (c *Controller) OnAttack(src dice.Source) (AttackResult, error) {
	if c.session == nil {
		return AttackResult{}, gameerr.NewInvalidState("attack", combat.StateNotStarted.String())
	}
	out, err := c.session.ResolveAttack(src)
	if err != nil {
		return AttackResult{}, err
	}
	if out.Crit {
		c.logger.Debug("enemy crit",
			zap.Int("round", c.round),
			zap.Int("damage", out.DamageTaken),
			zap.Int("player_hp", out.PlayerHP),
		)
	}
	c.hooks.AttackResolved(c.round, out)

	res := AttackResult{Outcome: out}
	switch out.Result {
	case combat.Win:
		ev, err := c.recordWin()
		if err != nil {
			return AttackResult{}, err
		}
		res.LevelUp = ev
	case combat.Loss:
		c.prog.RecordLoss()
		c.logger.Warn("round lost",
			zap.Int("round", c.round),
			zap.Int("level", c.prog.State().Level),
			zap.Int("enemy_level", c.session.Enemy().Level),
			zap.Int("enemy_hp", out.EnemyHP),
		)
	}

	res.RunComplete = c.prog.IsRunComplete()
	if res.RunComplete && out.Result == combat.Win && res.LevelUp != nil {
		final := c.Player()
		c.logger.Info("run complete",
			zap.Int("level", final.Level),
			zap.Int("rounds", c.round),
			zap.Int("wins", final.Wins),
			zap.Int("losses", final.Losses),
		)
		c.hooks.RunCompleted(final)
	}
	return res, nil
}

func (c *Controller) recordWin() (*progression.LevelUpEvent, error) {
	c.prog.RecordWin()
	ev, err := c.prog.GrantXP(c.prog.Config().XPPerWin)
	if err != nil {
		return nil, err
	}
	st := c.prog.State()
	if ev != nil {
		c.logger.Info("level up",
			zap.Int("from", ev.FromLevel),
			zap.Int("to", ev.ToLevel),
			zap.Int("levels_gained", ev.LevelsGained),
			zap.Int("damage", ev.NewDamage),
			zap.Int("xp_to_next", ev.NewXPToNext),
		)
		c.hooks.LeveledUp(*ev)
	}
	if st.Wins%statusEvery == 0 {
		c.logger.Info("run status",
			zap.Int("round", c.round),
			zap.Int("level", st.Level),
			zap.Int("xp", st.XP),
			zap.Int("xp_to_next", st.XPToNext),
			zap.Int("wins", st.Wins),
			zap.Int("losses", st.Losses),
		)
	}
	return ev, nil
}

// IsComplete reports whether the player has reached the target level.
func (c *Controller) IsComplete() bool { return c.prog.IsRunComplete() }

// Round returns the number of rounds begun since the last reset.
func (c *Controller) Round() int { return c.round }

// RoundActive reports whether a round is waiting for attacks.
func (c *Controller) RoundActive() bool {
	return c.session != nil && c.session.State() == combat.StateActive
}

// Player returns the player state with HP taken from the current round.
func (c *Controller) Player() progression.PlayerState {
	st := c.prog.State()
	if c.session != nil {
		st.HP = c.session.PlayerHP()
	}
	return st
}

// Enemy returns the current round's enemy, or the zero value before the first round.
func (c *Controller) Enemy() combat.EnemyState {
	if c.session == nil {
		return combat.EnemyState{}
	}
	return c.session.Enemy()
}

// Reset restarts the run at level 1 with no rounds played. It is valid in any state.
func (c *Controller) Reset() {
	c.prog.Reset()
	c.round = 0
	c.session = nil
	c.logger.Info("run reset")
}
