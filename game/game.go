// Package game ties the particle simulation, the thermal field and the field
// renderer into one context with fixed-step physics and its own render
// cadence.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/input"
	"github.com/pthm-cable/lavafield/renderer"
	"github.com/pthm-cable/lavafield/systems"
	"github.com/pthm-cable/lavafield/telemetry"
)

// Options configures a Game beyond what the config file holds.
type Options struct {
	Seed           int64   // 0 = simulation.seed, then time-based
	LogStats       bool    // Emit window and perf stats via slog
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string  // CSV logs and config snapshot (empty = off)
	StepsPerUpdate int     // Ticks per UpdateHeadless call
	MaxTicks       int32   // Run returns after this many ticks (0 = unlimited)
	Realtime       bool    // Run paces physics by wall clock instead of as fast as possible

	// Clock returns seconds for Realtime pacing. Nil uses the wall clock.
	Clock func() float64

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	opts Options

	particles *systems.ParticleSystem
	field     *systems.ThermalField // nil when the field is disabled

	renderer *renderer.FieldRenderer
	frame    *renderer.Frame
	blobs    []renderer.Blob

	// Seeds: every reset draws the next seed from seedRng
	seed     int64
	seedRng  *rand.Rand
	resets   int

	// Cadence
	tick        int32   // Ticks since start, across resets
	accumulator float64 // Realtime: unsimulated seconds
	lastUpdate  float64
	started     bool
	renderAcc   float64 // Realtime: seconds since the last render
	sinceDraw   int     // Headless: ticks since the last render
	resetTimer  *input.Timer

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	sample           telemetry.Sample
}

// NewGame creates a game from the global config with default options.
func NewGame() (*Game, error) {
	return NewGameWithOptions(config.Cfg(), Options{})
}

// NewGameWithOptions creates a game. The particle population is spawned
// immediately, so the first frame can be rendered before any tick.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:        cfg,
		opts:       opts,
		renderer:   renderer.NewFieldRenderer(cfg),
		frame:      renderer.NewFrame(cfg.Display.Width, cfg.Display.Height),
		blobs:      make([]renderer.Blob, 0, cfg.Particles.Capacity),
		seed:       seed,
		seedRng:    rand.New(rand.NewSource(seed)),
		resetTimer: input.NewTimer(cfg.Input.ResetEvery),

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
	}

	if cfg.Field.Enabled {
		g.field = systems.NewThermalField(cfg, cfg.Derived.Width32, cfg.Derived.Height32, seed+1)
	}
	g.particles = systems.NewParticleSystem(cfg, g.field, seed)

	if opts.LogStats || opts.OutputDir != "" {
		g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
		g.particles.SetPerf(g.perfCollector)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	n := cfg.Particles.Count
	g.sample = telemetry.Sample{
		Radii:   make([]float64, 0, n),
		Temps:   make([]float64, 0, n),
		Speeds:  make([]float64, 0, n),
		Heights: make([]float64, 0, n),
	}
	if g.field != nil {
		w, h := g.field.GridSize()
		g.sample.Field = make([]float64, 0, w*h)
	}

	slog.Info("simulation created",
		"preset", cfg.Preset,
		"seed", seed,
		"particles", n,
		"field", cfg.Field.Enabled,
		"strategy", cfg.Render.Strategy,
	)

	// First frame is available before any tick
	g.RenderFrame()
	return g, nil
}

// Reset reseeds the simulation: particles respawn and the field returns to
// ambient. Consecutive resets draw a deterministic sequence of seeds.
func (g *Game) Reset() {
	g.seed = g.seedRng.Int63()
	g.resets++
	g.particles.Reseed(g.seed)
	g.particles.Reset()
	g.resetTimer.Reset()
	g.collector.RecordReset()

	slog.Info("simulation reset", "tick", g.tick, "seed", g.seed, "resets", g.resets)
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of physics ticks since creation.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Resets returns how many times the simulation was reseeded.
func (g *Game) Resets() int {
	return g.resets
}

// Frame returns the most recently rendered frame. It is overwritten by the
// next render.
func (g *Game) Frame() *renderer.Frame {
	return g.frame
}

// Particles exposes the particle system to tools.
func (g *Game) Particles() *systems.ParticleSystem {
	return g.particles
}

// Field exposes the thermal field to tools. Nil when disabled.
func (g *Game) Field() *systems.ThermalField {
	return g.field
}

// Renderer exposes the field renderer to tools.
func (g *Game) Renderer() *renderer.FieldRenderer {
	return g.renderer
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}
