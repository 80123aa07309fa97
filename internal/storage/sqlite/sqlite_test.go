package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/balance"
	"github.com/cory-johannsen/arena/internal/game/preset"
	"github.com/cory-johannsen/arena/internal/storage/sqlite"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func simulatedReport(t *testing.T, seed int64, created time.Time) *balance.Report {
	t.Helper()
	p := preset.Default()
	p.Progression.TargetLevel = 3
	sim := balance.NewSimulator(nil, balance.WithClock(func() time.Time { return created }))
	r, err := sim.Simulate(context.Background(), balance.Options{Preset: p, Runs: 5, Seed: seed})
	require.NoError(t, err)
	return r
}

func TestStore_SaveGetRoundTrip(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "arena.db"))
	ctx := context.Background()

	r := simulatedReport(t, 7, time.Date(2026, 2, 3, 4, 5, 6, 789, time.UTC))
	require.NoError(t, s.Save(ctx, r))

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openStore(t, ":memory:")
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		r := simulatedReport(t, int64(i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.Save(ctx, r))
		ids = append(ids, r.ID)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestStore_GetMissing(t *testing.T) {
	s := openStore(t, ":memory:")
	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, balance.ErrReportNotFound)
}

func TestOpen_ReopenKeepsDataAndSkipsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "arena.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	r := simulatedReport(t, 1, time.Now())
	require.NoError(t, first.Save(ctx, r))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}
