package balance_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arena/internal/balance"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/preset"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/run"
)

func quickPreset() *preset.Preset {
	p := preset.Default()
	p.Progression.TargetLevel = 4
	return p
}

func simulate(t *testing.T, opts balance.Options) *balance.Report {
	t.Helper()
	r, err := balance.NewSimulator(nil).Simulate(context.Background(), opts)
	require.NoError(t, err)
	return r
}

func TestSimulate_DeterministicAcrossWorkerCounts(t *testing.T) {
	base := balance.Options{Preset: quickPreset(), Runs: 40, Seed: 1234}

	one := base
	one.Workers = 1
	many := base
	many.Workers = 8

	a, b := simulate(t, one), simulate(t, many)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.TotalRounds, b.TotalRounds)
	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.Losses, b.Losses)
	assert.Equal(t, a.Crits, b.Crits)
	assert.Equal(t, a.EnemyAttacks, b.EnemyAttacks)
	assert.Equal(t, a.MinRounds, b.MinRounds)
	assert.Equal(t, a.MaxRounds, b.MaxRounds)
}

func TestSimulate_AggregatesAreConsistent(t *testing.T) {
	r := simulate(t, balance.Options{Preset: quickPreset(), Runs: 25, Workers: 3, Seed: 99})
	assert.Equal(t, 25, r.Runs)
	assert.Equal(t, 25, r.Completed)
	assert.Zero(t, r.Stalled)
	assert.Equal(t, r.TotalRounds, r.Wins+r.Losses)
	assert.LessOrEqual(t, r.MinRounds, r.MaxRounds)
	assert.GreaterOrEqual(t, r.AvgRounds, float64(r.MinRounds))
	assert.LessOrEqual(t, r.AvgRounds, float64(r.MaxRounds))
	// Default linear curve: 50+100+150 xp at 30 per win needs at least 10 wins.
	assert.GreaterOrEqual(t, r.MinRounds, 10)
	assert.InDelta(t, 0.2, r.CritRate, 0.1)
	assert.Equal(t, "default", r.PresetID)
	assert.Equal(t, int64(99), r.Seed)
}

func TestSimulate_StalledRunsHitRoundGuard(t *testing.T) {
	p := quickPreset()
	p.Progression.PlayerMaxHP = 1
	p.Combat.EnemyBaseHP = 1000

	r := simulate(t, balance.Options{Preset: p, Runs: 3, Workers: 2, MaxRoundsPerRun: 7})
	assert.Equal(t, 3, r.Stalled)
	assert.Zero(t, r.Completed)
	assert.Equal(t, 21, r.TotalRounds)
	assert.Equal(t, 21, r.Losses)
	assert.Zero(t, r.AvgRounds)
	assert.Zero(t, r.WinRate)
}

func TestSimulate_TargetLevelOneNeedsNoRounds(t *testing.T) {
	p := quickPreset()
	p.Progression.TargetLevel = 1
	r := simulate(t, balance.Options{Preset: p, Runs: 2})
	assert.Equal(t, 2, r.Completed)
	assert.Zero(t, r.TotalRounds)
}

func TestSimulate_InvalidOptions(t *testing.T) {
	sim := balance.NewSimulator(nil)
	_, err := sim.Simulate(context.Background(), balance.Options{Runs: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset must not be nil")
	assert.Contains(t, err.Error(), "runs must be > 0")
}

func TestSimulate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := balance.NewSimulator(nil).Simulate(ctx, balance.Options{Preset: quickPreset(), Runs: 10, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

type countingHooks struct {
	run.NopHooks
	completed *atomic.Int64
}

func (c countingHooks) RunCompleted(progression.PlayerState) { c.completed.Add(1) }

func TestSimulate_HooksPerWorker(t *testing.T) {
	var completed atomic.Int64
	var built, released atomic.Int64
	sim := balance.NewSimulator(nil, balance.WithHooksFactory(func(int) (run.Hooks, func(), error) {
		built.Add(1)
		return countingHooks{completed: &completed}, func() { released.Add(1) }, nil
	}))

	_, err := sim.Simulate(context.Background(), balance.Options{Preset: quickPreset(), Runs: 12, Workers: 4, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), completed.Load())
	assert.Equal(t, int64(4), built.Load())
	assert.Equal(t, int64(4), released.Load())
}

func TestSimulate_HooksFactoryError(t *testing.T) {
	boom := errors.New("boom")
	sim := balance.NewSimulator(nil, balance.WithHooksFactory(func(int) (run.Hooks, func(), error) {
		return nil, nil, boom
	}))
	_, err := sim.Simulate(context.Background(), balance.Options{Preset: quickPreset(), Runs: 1})
	assert.ErrorIs(t, err, boom)
}

func TestSimulate_LogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sim := balance.NewSimulator(zap.New(core))
	_, err := sim.Simulate(context.Background(), balance.Options{Preset: quickPreset(), Runs: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("simulation started").Len())
	assert.Equal(t, 1, logs.FilterMessage("simulation finished").Len())
	assert.Zero(t, logs.FilterMessage("level up").Len(), "run logs stay quiet unless verbose")
}

func TestSimulate_VerboseRoutesRunLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sim := balance.NewSimulator(zap.New(core))
	_, err := sim.Simulate(context.Background(), balance.Options{Preset: quickPreset(), Runs: 1, Verbose: true})
	require.NoError(t, err)
	ups := logs.FilterMessage("level up").All()
	require.NotEmpty(t, ups)
	assert.Equal(t, int64(0), ups[0].ContextMap()["run"])
}

func TestWriteReport(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sim := balance.NewSimulator(nil, balance.WithClock(func() time.Time { return now }))
	r, err := sim.Simulate(context.Background(), balance.Options{Preset: quickPreset(), Runs: 1200, Workers: 4, Seed: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, balance.WriteReport(&buf, r, now.Add(time.Hour)))
	out := buf.String()
	assert.Contains(t, out, r.ID.String())
	assert.Contains(t, out, "1,200 (1,200 completed, 0 stalled)")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, "linear, target level 4")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := balance.NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		r := simulate(t, balance.Options{Preset: quickPreset(), Runs: 1, Seed: int64(i)})
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Save(ctx, r))
		ids = append(ids, r.ID.String())
	}

	list, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID.String())
	assert.Equal(t, ids[1], list[1].ID.String())

	got, err := store.Get(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, combat.DefaultConfig(), got.Combat)

	_, err = store.Get(ctx, uuid.Nil)
	assert.ErrorIs(t, err, balance.ErrReportNotFound)
}
