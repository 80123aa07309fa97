package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/balance"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/testutil"
)

func makeTestReport(created time.Time) *balance.Report {
	prog := progression.DefaultConfig()
	prog.TargetLevel = 7
	cmb := combat.DefaultConfig()
	cmb.DamageBias = 3
	return &balance.Report{
		ID:           uuid.New(),
		PresetID:     "default",
		Seed:         -42,
		CreatedAt:    created.UTC().Truncate(time.Microsecond),
		Duration:     1500 * time.Millisecond,
		Runs:         100,
		Completed:    98,
		Stalled:      2,
		TotalRounds:  2400,
		Wins:         2000,
		Losses:       400,
		EnemyAttacks: 5100,
		Crits:        1020,
		MinRounds:    18,
		MaxRounds:    40,
		AvgRounds:    24.5,
		WinRate:      2000.0 / 2400.0,
		CritRate:     0.2,
		Progression:  prog,
		Combat:       cmb,
	}
}

func testTime() time.Time {
	return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestReportRepository_SaveGetList(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := makeTestReport(base)
	newer := makeTestReport(base.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReportRepository_SaveUpserts(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	ctx := context.Background()

	r := makeTestReport(time.Now())
	require.NoError(t, repo.Save(ctx, r))
	r.Completed = 100
	r.Stalled = 0
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Completed)
	assert.Zero(t, got.Stalled)
}

func TestReportRepository_GetMissing(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, balance.ErrReportNotFound)
}
