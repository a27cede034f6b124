package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/display"
	"github.com/pthm-cable/lavafield/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Preset layered over the defaults (fluid_cloud, lava_lamp, contour_trails)")
	backend := flag.String("display", display.BackendWindow, "Display backend: window, terminal, png, none")
	pngDir := flag.String("png-dir", "frames", "Directory for the png backend")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call for unpaced backends")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging). The terminal
	// backend owns stdout, so logs go to stderr there.
	logOut := os.Stdout
	if *backend == display.BackendTerminal {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.InitPreset(*preset, *configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Window and terminal run at wall-clock speed; png and none run flat out
	realtime := *backend == display.BackendWindow || *backend == display.BackendTerminal

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		MaxTicks:       int32(*maxTicks),
		Realtime:       realtime,
	}

	if err := run(cfg, *backend, *pngDir, opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, backend, pngDir string, opts game.Options) error {
	dev, err := display.Open(backend, cfg, display.OpenOptions{PNGDir: pngDir})
	if err != nil {
		return err
	}
	defer dev.Close()

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"display", backend,
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"realtime", opts.Realtime,
	)

	start := time.Now()
	if err := g.Run(ctx, dev); err != nil {
		return err
	}
	slog.Info("simulation stopped",
		"tick", g.Tick(),
		"resets", g.Resets(),
		"wall_sec", time.Since(start).Seconds(),
	)
	return nil
}
