package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/balance"
)

const reportColumns = `id::text, preset_id, seed, created_at, duration_ms,
	runs, completed, stalled, total_rounds, wins, losses, enemy_attacks, crits,
	min_rounds, max_rounds, avg_rounds, win_rate, crit_rate, progression, combat`

// ReportRepository provides balance report persistence operations.
type ReportRepository struct {
	db *pgxpool.Pool
}

var _ balance.ReportStore = (*ReportRepository)(nil)

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts r, replacing any report with the same ID.
//
// Precondition: r must be non-nil with a non-nil ID.
// Postcondition: Get(r.ID) returns an equal report.
func (r *ReportRepository) Save(ctx context.Context, rep *balance.Report) error {
	prog, cmb, err := rep.MarshalConfigs()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO balance_reports (id, preset_id, seed, created_at, duration_ms,
			runs, completed, stalled, total_rounds, wins, losses, enemy_attacks, crits,
			min_rounds, max_rounds, avg_rounds, win_rate, crit_rate, progression, combat)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 ON CONFLICT (id) DO UPDATE SET
			preset_id = EXCLUDED.preset_id, seed = EXCLUDED.seed, created_at = EXCLUDED.created_at,
			duration_ms = EXCLUDED.duration_ms, runs = EXCLUDED.runs, completed = EXCLUDED.completed,
			stalled = EXCLUDED.stalled, total_rounds = EXCLUDED.total_rounds, wins = EXCLUDED.wins,
			losses = EXCLUDED.losses, enemy_attacks = EXCLUDED.enemy_attacks, crits = EXCLUDED.crits,
			min_rounds = EXCLUDED.min_rounds, max_rounds = EXCLUDED.max_rounds,
			avg_rounds = EXCLUDED.avg_rounds, win_rate = EXCLUDED.win_rate,
			crit_rate = EXCLUDED.crit_rate, progression = EXCLUDED.progression, combat = EXCLUDED.combat`,
		rep.ID.String(), rep.PresetID, rep.Seed, rep.CreatedAt, rep.Duration.Milliseconds(),
		rep.Runs, rep.Completed, rep.Stalled, rep.TotalRounds, rep.Wins, rep.Losses,
		rep.EnemyAttacks, rep.Crits, rep.MinRounds, rep.MaxRounds,
		rep.AvgRounds, rep.WinRate, rep.CritRate, prog, cmb,
	)
	if err != nil {
		return fmt.Errorf("saving report %s: %w", rep.ID, err)
	}
	return nil
}

// Get retrieves the report with id.
//
// Postcondition: Returns the report or balance.ErrReportNotFound.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*balance.Report, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM balance_reports WHERE id = $1`, id.String())
	rep, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, balance.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting report %s: %w", id, err)
	}
	return rep, nil
}

// List returns up to limit reports, newest first. limit <= 0 returns all.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]*balance.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM balance_reports ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var out []*balance.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return out, nil
}

func scanReport(row pgx.Row) (*balance.Report, error) {
	var (
		rep        balance.Report
		id         string
		durationMS int64
		prog, cmb  []byte
	)
	if err := row.Scan(&id, &rep.PresetID, &rep.Seed, &rep.CreatedAt, &durationMS,
		&rep.Runs, &rep.Completed, &rep.Stalled, &rep.TotalRounds, &rep.Wins, &rep.Losses,
		&rep.EnemyAttacks, &rep.Crits, &rep.MinRounds, &rep.MaxRounds,
		&rep.AvgRounds, &rep.WinRate, &rep.CritRate, &prog, &cmb); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing report id %q: %w", id, err)
	}
	rep.ID = parsed
	rep.Duration = time.Duration(durationMS) * time.Millisecond
	rep.CreatedAt = rep.CreatedAt.UTC()
	if err := rep.UnmarshalConfigs(prog, cmb); err != nil {
		return nil, err
	}
	return &rep, nil
}
