// Package main provides the balance command: a Monte Carlo simulator that
// plays many arena runs for one configuration and reports how they went.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/balance"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	presetID := flag.String("preset", "", "preset ID to simulate (default from config)")
	runs := flag.Int("runs", 0, "number of runs (default from config)")
	workers := flag.Int("workers", -1, "parallel workers; 0 = one per CPU (default from config)")
	seed := flag.Int64("seed", 0, "base seed; 0 = from config, or random when config has none")
	verbose := flag.Bool("verbose", false, "log every run's level-ups and losses")
	list := flag.Bool("list", false, "list presets and exit")
	history := flag.Int("history", 0, "print the N most recent stored reports and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	app, cleanup, err := initializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing: %v", err)
	}
	defer cleanup()
	logger := app.Logger

	if *list {
		printPresets(app)
		return
	}
	if *history > 0 {
		if err := printHistory(ctx, app, *history); err != nil {
			logger.Fatal("listing reports", zap.Error(err))
		}
		return
	}

	opts, err := buildOptions(app, *presetID, *runs, *workers, *seed, *verbose)
	if err != nil {
		logger.Fatal("building options", zap.Error(err))
	}

	report, err := app.Simulator.Simulate(ctx, opts)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	if err := app.Store.Save(ctx, report); err != nil {
		logger.Fatal("saving report", zap.Error(err))
	}
	if err := balance.WriteReport(os.Stdout, report, time.Now()); err != nil {
		logger.Fatal("printing report", zap.Error(err))
	}

	logger.Info("balance run complete",
		zap.String("report", report.ID.String()),
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// buildOptions applies flag overrides on top of the simulation config.
func buildOptions(app *App, presetID string, runs, workers int, seed int64, verbose bool) (balance.Options, error) {
	sim := app.Config.Simulation
	if presetID == "" {
		presetID = sim.Preset
	}
	p, err := app.Presets.Get(presetID)
	if err != nil {
		return balance.Options{}, err
	}
	if runs <= 0 {
		runs = sim.Runs
	}
	if workers < 0 {
		workers = sim.Workers
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if seed == 0 {
		seed = sim.Seed
	}
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			return balance.Options{}, err
		}
	}
	return balance.Options{
		Preset:          p,
		Runs:            runs,
		Workers:         workers,
		Seed:            seed,
		MaxRoundsPerRun: sim.MaxRoundsPerRun,
		Verbose:         verbose,
	}, nil
}

func printPresets(app *App) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCURVE\tTARGET\tDESCRIPTION")
	for _, p := range app.Presets.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Progression.Curve, p.Progression.TargetLevel, p.Description)
	}
	_ = tw.Flush()
}

func printHistory(ctx context.Context, app *App, n int) error {
	reports, err := app.Store.List(ctx, n)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRESET\tCREATED\tRUNS\tAVG ROUNDS\tWIN RATE")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%%\n",
			r.ID, r.PresetID, humanize.Time(r.CreatedAt), humanize.Comma(int64(r.Runs)),
			humanize.FormatFloat("#,###.##", r.AvgRounds), humanize.FormatFloat("#.##", r.WinRate*100))
	}
	return tw.Flush()
}
