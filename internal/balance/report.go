package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// ErrReportNotFound is returned by a ReportStore when no report has the requested ID.
var ErrReportNotFound = errors.New("balance report not found")

// RunResult summarizes one simulated run.
type RunResult struct {
	Rounds       int
	Wins         int
	Losses       int
	EnemyAttacks int
	Crits        int
	FinalLevel   int
	Completed    bool
	// Stalled is true when the run hit the round guard before reaching the target level.
	Stalled bool
}

// Report aggregates a batch of simulated runs for one configuration.
type Report struct {
	ID        uuid.UUID
	PresetID  string
	Seed      int64
	CreatedAt time.Time
	Duration  time.Duration

	Runs      int
	Completed int
	Stalled   int

	TotalRounds  int
	Wins         int
	Losses       int
	EnemyAttacks int
	Crits        int

	// MinRounds, MaxRounds, and AvgRounds cover completed runs only.
	MinRounds int
	MaxRounds int
	AvgRounds float64

	WinRate  float64
	CritRate float64

	Progression progression.Config
	Combat      combat.Config
}

// aggregate folds results into r in index order.
//
// Postcondition: rates are 0 when their denominators are 0.
func (r *Report) aggregate(results []RunResult) {
	r.Runs = len(results)
	completedRounds := 0
	for _, res := range results {
		r.TotalRounds += res.Rounds
		r.Wins += res.Wins
		r.Losses += res.Losses
		r.EnemyAttacks += res.EnemyAttacks
		r.Crits += res.Crits
		if res.Stalled {
			r.Stalled++
		}
		if !res.Completed {
			continue
		}
		r.Completed++
		completedRounds += res.Rounds
		if r.Completed == 1 || res.Rounds < r.MinRounds {
			r.MinRounds = res.Rounds
		}
		if res.Rounds > r.MaxRounds {
			r.MaxRounds = res.Rounds
		}
	}
	if r.Completed > 0 {
		r.AvgRounds = float64(completedRounds) / float64(r.Completed)
	}
	if played := r.Wins + r.Losses; played > 0 {
		r.WinRate = float64(r.Wins) / float64(played)
	}
	if r.EnemyAttacks > 0 {
		r.CritRate = float64(r.Crits) / float64(r.EnemyAttacks)
	}
}

// MarshalConfigs encodes the report's progression and combat settings as JSON
// for storage columns.
func (r *Report) MarshalConfigs() (prog, cmb []byte, err error) {
	if prog, err = json.Marshal(r.Progression); err != nil {
		return nil, nil, fmt.Errorf("encoding progression config: %w", err)
	}
	if cmb, err = json.Marshal(r.Combat); err != nil {
		return nil, nil, fmt.Errorf("encoding combat config: %w", err)
	}
	return prog, cmb, nil
}

// UnmarshalConfigs decodes settings produced by MarshalConfigs into r.
func (r *Report) UnmarshalConfigs(prog, cmb []byte) error {
	if err := json.Unmarshal(prog, &r.Progression); err != nil {
		return fmt.Errorf("decoding progression config: %w", err)
	}
	if err := json.Unmarshal(cmb, &r.Combat); err != nil {
		return fmt.Errorf("decoding combat config: %w", err)
	}
	return nil
}

// ReportStore persists balance reports.
type ReportStore interface {
	Save(ctx context.Context, r *Report) error
	// Get returns ErrReportNotFound when id is unknown.
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	// List returns up to limit reports, newest first.
	List(ctx context.Context, limit int) ([]*Report, error)
}
