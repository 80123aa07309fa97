package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/balance"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/preset"
	"github.com/cory-johannsen/arena/internal/game/run"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/sqlite"
)

// App bundles everything the balance command needs.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Presets   *preset.Registry
	Store     balance.ReportStore
	Simulator *balance.Simulator
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// providePresets loads preset files and registers the config file's arena
// section under config.ConfigPresetID.
func providePresets(cfg config.Config) (*preset.Registry, error) {
	reg, err := preset.LoadRegistry(cfg.Simulation.PresetsDir)
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	reg.Register(cfg.ArenaPreset())
	return reg, nil
}

func provideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (balance.ReportStore, func(), error) {
	start := time.Now()
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Health(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database health check: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("health_timeout", cfg.Database.HealthTimeout),
			zap.Duration("elapsed", time.Since(start)),
		)
		return pool.Reports(), pool.Close, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Info("sqlite store opened",
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(start)),
		)
		return store, func() { _ = store.Close() }, nil
	default:
		return balance.NewMemoryStore(), func() {}, nil
	}
}

// provideSimulator attaches one Lua hook set per worker when a script dir is configured.
func provideSimulator(cfg config.Config, logger *zap.Logger) *balance.Simulator {
	var opts []balance.SimulatorOption
	if dir := cfg.Simulation.ScriptDir; dir != "" {
		limit := cfg.Simulation.InstructionLimit
		opts = append(opts, balance.WithHooksFactory(func(worker int) (run.Hooks, func(), error) {
			h, err := scripting.NewHookSet(dir, limit, logger.With(zap.Int("worker", worker)))
			if err != nil {
				return nil, nil, err
			}
			return h, h.Close, nil
		}))
	}
	return balance.NewSimulator(logger, opts...)
}
