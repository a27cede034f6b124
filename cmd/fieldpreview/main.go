// Field preview tool - live simulation with sliders for the force and
// render constants.
//
// Usage: go run ./cmd/fieldpreview [-preset lava_lamp] [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lavafield/camera"
	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/game"
	"github.com/pthm-cable/lavafield/renderer"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	previewH     = 320
	panelX       = previewW + 30
	panelWidth   = windowWidth - panelX - 20
)

// slider describes one tunable value.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*config.Config) float64
	set      func(*config.Config, float64)
}

var sliders = []slider{
	{"Threshold", 1, 40, "%.1f",
		func(c *config.Config) float64 { return c.Render.Threshold },
		func(c *config.Config, v float64) { c.Render.Threshold = v }},
	{"Glow fraction", 0, 0.95, "%.2f",
		func(c *config.Config) float64 { return c.Render.GlowFraction },
		func(c *config.Config, v float64) { c.Render.GlowFraction = v }},
	{"Gravity", 0, 200, "%.0f",
		func(c *config.Config) float64 { return c.Forces.Gravity },
		func(c *config.Config, v float64) { c.Forces.Gravity = v }},
	{"Buoyancy", 0, 500, "%.0f",
		func(c *config.Config) float64 { return c.Forces.Buoyancy },
		func(c *config.Config, v float64) { c.Forces.Buoyancy = v }},
	{"Field lift", 0, 100, "%.1f",
		func(c *config.Config) float64 { return c.Forces.FieldLift },
		func(c *config.Config, v float64) { c.Forces.FieldLift = v }},
	{"Cohesion", 0, 200, "%.0f",
		func(c *config.Config) float64 { return c.Forces.Cohesion },
		func(c *config.Config, v float64) { c.Forces.Cohesion = v }},
	{"Viscosity", 0, 1, "%.3f",
		func(c *config.Config) float64 { return c.Forces.Viscosity },
		func(c *config.Config, v float64) { c.Forces.Viscosity = v }},
	{"Side force", 0, 200, "%.0f",
		func(c *config.Config) float64 { return c.Forces.SideForce },
		func(c *config.Config, v float64) { c.Forces.SideForce = v }},
	{"Field diffusion", 0.01, 0.25, "%.3f",
		func(c *config.Config) float64 { return c.Field.Diffusion },
		func(c *config.Config, v float64) { c.Field.Diffusion = v }},
}

func main() {
	preset := flag.String("preset", "", "Preset layered over the defaults")
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.LoadPreset(*preset, *configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Lava Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	g, err := game.NewGameWithOptions(cfg, game.Options{Realtime: true})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	viewport := camera.New(cfg.Display.Width, cfg.Display.Height, previewW, previewH)
	paused := false
	showField := true

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			g.Reset()
		}
		if rl.IsKeyPressed(rl.KeyP) {
			paused = !paused
		}
		if !paused {
			g.Update(rl.GetTime())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawFrame(g.Frame(), viewport, 10, 10)
		if showField {
			drawField(g, 10, previewH+40)
		}

		// Stats
		p := g.Particles()
		statsY := int32(windowHeight - 70)
		rl.DrawText(fmt.Sprintf("Tick: %d  Seed: %d  Resets: %d", g.Tick(), g.Seed(), g.Resets()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Lit: %d px  Truncated: %d  Dropped: %d",
			g.Frame().Count(), p.NeighborsTruncated(), p.CellsDropped()), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText("Space: reseed   P: pause   C: copy YAML", 15, statsY+40, 14, rl.Gray)

		// Control panel
		y := float32(10)
		rl.DrawText("Field Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, panelX, int32(y), 14, rl.Gray)
			y += 18
			old := float32(s.get(cfg))
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: y, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				old, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, v), int32(panelX+panelWidth-70), int32(y+2), 16, rl.DarkGray)
			if v != old {
				s.set(cfg, float64(v))
				changed = true
			}
			y += 32
		}
		if changed {
			applyConfig(g, cfg)
		}

		y += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, strategyLabel(cfg.Render.Strategy)) {
			if cfg.Render.Strategy == config.StrategyContour {
				cfg.Render.Strategy = config.StrategyThreshold
			} else {
				cfg.Render.Strategy = config.StrategyContour
			}
			applyConfig(g, cfg)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		y += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(cfg.Render.Border, "Border off", "Border on")) {
			cfg.Render.Border = !cfg.Render.Border
			applyConfig(g, cfg)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, toggleText(showField, "Hide field", "Show field")) {
			showField = !showField
		}

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlSnippet(cfg))
		}

		rl.EndDrawing()
	}
}

// applyConfig pushes slider values into the running game. Physics reads the
// config every tick; the renderer and field cache theirs.
func applyConfig(g *game.Game, cfg *config.Config) {
	cfg.Recompute()
	g.Renderer().SetOptions(renderer.OptionsFromConfig(cfg))
	if f := g.Field(); f != nil {
		f.SetDiffusion(float32(cfg.Field.Diffusion))
	}
	g.RenderFrame()
}

func drawFrame(f *renderer.Frame, vp *camera.Viewport, ox, oy int32) {
	s := int32(vp.Scale)
	fw, fh := vp.Size()
	rl.DrawRectangle(ox+int32(vp.OffsetX), oy+int32(vp.OffsetY), int32(fw), int32(fh), rl.Black)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.Pixel(x, y) {
				sx, sy := vp.FrameToScreen(x, y)
				rl.DrawRectangle(ox+int32(sx), oy+int32(sy), s, s, rl.RayWhite)
			}
		}
	}
	rl.DrawRectangleLines(ox, oy, previewW, previewH, rl.DarkGray)
}

// drawField shows the thermal grid as a heat map, cold blue to hot red.
func drawField(g *game.Game, ox, oy int32) {
	f := g.Field()
	if f == nil {
		rl.DrawText("Field disabled", ox, oy, 16, rl.Gray)
		return
	}
	const cell = 12
	w, h := f.GridSize()
	lo, hi := f.Bounds()
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			t := (f.At(gx, gy) - lo) / span
			c := rl.Color{R: uint8(255 * t), G: 40, B: uint8(255 * (1 - t)), A: 255}
			rl.DrawRectangle(ox+int32(gx*cell), oy+int32(gy*cell), cell-1, cell-1, c)
		}
	}
	rl.DrawText(fmt.Sprintf("%.0f..%.0f", lo, hi), ox+int32(w*cell)+10, oy, 14, rl.Gray)
}

func strategyLabel(s string) string {
	if s == config.StrategyContour {
		return "Contour"
	}
	return "Threshold"
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlSnippet(cfg *config.Config) string {
	return fmt.Sprintf(`forces:
  gravity: %.1f
  buoyancy: %.1f
  field_lift: %.2f
  cohesion: %.1f
  viscosity: %.3f
  side_force: %.1f
field:
  diffusion: %.3f
render:
  strategy: %s
  threshold: %.2f
  glow_fraction: %.2f
  border: %t`,
		cfg.Forces.Gravity, cfg.Forces.Buoyancy, cfg.Forces.FieldLift,
		cfg.Forces.Cohesion, cfg.Forces.Viscosity, cfg.Forces.SideForce,
		cfg.Field.Diffusion,
		cfg.Render.Strategy, cfg.Render.Threshold, cfg.Render.GlowFraction, cfg.Render.Border)
}
