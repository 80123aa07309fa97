// Package balance runs Monte Carlo batches of arena runs and summarizes them.
package balance

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/preset"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/run"
)

// DefaultMaxRoundsPerRun guards against configurations that never reach the target level.
const DefaultMaxRoundsPerRun = 10_000

// Options configures one Simulate call.
type Options struct {
	Preset  *preset.Preset
	Runs    int
	Workers int
	// Seed is the base seed; run i draws from dice.NewSeededSource(Seed + i).
	Seed            int64
	MaxRoundsPerRun int
	// Verbose routes every run's controller logs to the simulator logger.
	Verbose bool
}

func (o Options) validate() error {
	var errs []error
	if o.Preset == nil {
		errs = append(errs, errors.New("preset must not be nil"))
	}
	if o.Runs <= 0 {
		errs = append(errs, fmt.Errorf("runs must be > 0, got %d", o.Runs))
	}
	if o.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", o.Workers))
	}
	if o.MaxRoundsPerRun < 0 {
		errs = append(errs, fmt.Errorf("max rounds per run must not be negative, got %d", o.MaxRoundsPerRun))
	}
	return errors.Join(errs...)
}

// HooksFactory builds the run hooks used by one worker. The returned release
// func is called when the worker finishes.
type HooksFactory func(worker int) (run.Hooks, func(), error)

// Simulator runs batches of independent arena runs in parallel.
type Simulator struct {
	logger *zap.Logger
	hooks  HooksFactory
	now    func() time.Time
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithHooksFactory attaches per-worker run hooks.
func WithHooksFactory(f HooksFactory) SimulatorOption {
	return func(s *Simulator) { s.hooks = f }
}

// WithClock overrides the clock used for report timestamps.
func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

// NewSimulator creates a Simulator. A nil logger discards logs.
func NewSimulator(logger *zap.Logger, opts ...SimulatorOption) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs opts.Runs independent runs and aggregates them into a Report.
//
// Results depend only on the preset, the seed and the round guard, never on
// the worker count.
//
// Precondition: opts.Preset must be valid.
// Postcondition: Returns a Report with a fresh ID, or the first error; a
// cancelled ctx returns ctx.Err().
func (s *Simulator) Simulate(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	if err := opts.Preset.Validate(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	workers := opts.Workers
	if workers == 0 {
		workers = 1
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}
	maxRounds := opts.MaxRoundsPerRun
	if maxRounds == 0 {
		maxRounds = DefaultMaxRoundsPerRun
	}

	started := s.now()
	s.logger.Info("simulation started",
		zap.String("preset", opts.Preset.ID),
		zap.Int("runs", opts.Runs),
		zap.Int("workers", workers),
		zap.Int64("seed", opts.Seed),
	)

	results := make([]RunResult, opts.Runs)
	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			hooks, release, err := s.workerHooks(w)
			if err != nil {
				return err
			}
			defer release()
			for {
				i := int(next.Add(1) - 1)
				if i >= opts.Runs {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := s.simulateRun(opts, i, maxRounds, hooks)
				if err != nil {
					return fmt.Errorf("run %d: %w", i, err)
				}
				results[i] = res
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New(),
		PresetID:    opts.Preset.ID,
		Seed:        opts.Seed,
		CreatedAt:   started.UTC(),
		Progression: opts.Preset.Progression,
		Combat:      opts.Preset.Combat,
	}
	report.aggregate(results)
	report.Duration = s.now().Sub(started)

	s.logger.Info("simulation finished",
		zap.String("report", report.ID.String()),
		zap.Int("completed", report.Completed),
		zap.Int("stalled", report.Stalled),
		zap.Float64("avg_rounds", report.AvgRounds),
		zap.Float64("win_rate", report.WinRate),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (s *Simulator) workerHooks(worker int) (run.Hooks, func(), error) {
	if s.hooks == nil {
		return run.NopHooks{}, func() {}, nil
	}
	h, release, err := s.hooks(worker)
	if err != nil {
		return nil, nil, fmt.Errorf("worker %d hooks: %w", worker, err)
	}
	if release == nil {
		release = func() {}
	}
	return h, release, nil
}

// simulateRun plays one run on autopilot: begin a round, attack until it
// ends, repeat until the run completes or the round guard trips.
func (s *Simulator) simulateRun(opts Options, index, maxRounds int, hooks run.Hooks) (RunResult, error) {
	eng, err := progression.NewEngine(opts.Preset.Progression)
	if err != nil {
		return RunResult{}, err
	}
	logger := zap.NewNop()
	if opts.Verbose {
		logger = s.logger.With(zap.Int("run", index))
	}
	ctrl, err := run.NewController(eng, opts.Preset.Combat, run.WithLogger(logger), run.WithHooks(hooks))
	if err != nil {
		return RunResult{}, err
	}
	src := dice.NewSeededSource(opts.Seed + int64(index))

	var res RunResult
	for !ctrl.IsComplete() {
		if ctrl.Round() >= maxRounds {
			res.Stalled = true
			break
		}
		if _, err := ctrl.BeginRound(); err != nil {
			return RunResult{}, err
		}
		for ctrl.RoundActive() {
			out, err := ctrl.OnAttack(src)
			if err != nil {
				return RunResult{}, err
			}
			if out.Outcome.Result != combat.Win {
				res.EnemyAttacks++
				if out.Outcome.Crit {
					res.Crits++
				}
			}
		}
	}

	final := ctrl.Player()
	res.Rounds = ctrl.Round()
	res.Wins = final.Wins
	res.Losses = final.Losses
	res.FinalLevel = final.Level
	res.Completed = ctrl.IsComplete()
	s.logger.Debug("run finished",
		zap.Int("run", index),
		zap.Int("rounds", res.Rounds),
		zap.Int("level", res.FinalLevel),
		zap.Bool("stalled", res.Stalled),
	)
	return res, nil
}
