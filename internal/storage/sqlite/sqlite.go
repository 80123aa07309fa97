// Package sqlite provides a local SQLite store for balance reports.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/arena/internal/balance"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationTable = "schema_migrations"

// Store persists balance reports in a SQLite database file.
type Store struct {
	db *sql.DB
}

var _ balance.ReportStore = (*Store)(nil)

// Open opens or creates the SQLite database at path and applies pending migrations.
// The path ":memory:" opens a private in-memory database.
//
// Postcondition: Returns a migrated Store or a non-nil error.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases and WAL writers consistent.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rep, replacing any report with the same ID.
func (s *Store) Save(ctx context.Context, rep *balance.Report) error {
	prog, cmb, err := rep.MarshalConfigs()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO balance_reports (id, preset_id, seed, created_at, duration_ms,
			runs, completed, stalled, total_rounds, wins, losses, enemy_attacks, crits,
			min_rounds, max_rounds, avg_rounds, win_rate, crit_rate, progression, combat)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID.String(), rep.PresetID, rep.Seed, rep.CreatedAt.UTC().UnixNano(), rep.Duration.Milliseconds(),
		rep.Runs, rep.Completed, rep.Stalled, rep.TotalRounds, rep.Wins, rep.Losses,
		rep.EnemyAttacks, rep.Crits, rep.MinRounds, rep.MaxRounds,
		rep.AvgRounds, rep.WinRate, rep.CritRate, string(prog), string(cmb),
	)
	if err != nil {
		return fmt.Errorf("saving report %s: %w", rep.ID, err)
	}
	return nil
}

const reportColumns = `id, preset_id, seed, created_at, duration_ms,
	runs, completed, stalled, total_rounds, wins, losses, enemy_attacks, crits,
	min_rounds, max_rounds, avg_rounds, win_rate, crit_rate, progression, combat`

// Get retrieves the report with id, or balance.ErrReportNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*balance.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM balance_reports WHERE id = ?`, id.String())
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, balance.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting report %s: %w", id, err)
	}
	return rep, nil
}

// List returns up to limit reports, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*balance.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM balance_reports ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*balance.Report, error) {
	var (
		rep        balance.Report
		id         string
		createdNS  int64
		durationMS int64
		prog, cmb  string
	)
	if err := row.Scan(&id, &rep.PresetID, &rep.Seed, &createdNS, &durationMS,
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
	rep.CreatedAt = time.Unix(0, createdNS).UTC()
	rep.Duration = time.Duration(durationMS) * time.Millisecond
	if err := rep.UnmarshalConfigs([]byte(prog), []byte(cmb)); err != nil {
		return nil, err
	}
	return &rep, nil
}

// migrateUp applies the embedded migrations with golang-migrate.
// The database driver shares db, so the migrator is not closed here.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}
	drv, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{MigrationsTable: migrationTable})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
