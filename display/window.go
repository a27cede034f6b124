package display

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lavafield/camera"
	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/input"
	"github.com/pthm-cable/lavafield/renderer"
)

// Window shows frames in a resizable raylib window, letterboxed at an integer
// scale. Holding space is the gadget button.
type Window struct {
	viewport *camera.Viewport
	button   *input.Button

	on, off rl.Color
}

// NewWindow opens the window. raylib must only be used from the calling
// goroutine afterwards.
func NewWindow(cfg *config.Config) *Window {
	scale := cfg.Display.WindowScale
	if scale < 1 {
		scale = 1
	}
	w := cfg.Display.Width * scale
	h := cfg.Display.Height * scale

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(w), int32(h), "lavafield")
	if cfg.Display.TargetFPS > 0 {
		rl.SetTargetFPS(int32(cfg.Display.TargetFPS))
	}
	rl.SetExitKey(rl.KeyEscape)

	return &Window{
		viewport: camera.New(cfg.Display.Width, cfg.Display.Height, w, h),
		button:   input.NewButton(cfg.Input.TapTime),
		on:       rl.RayWhite,
		off:      rl.Black,
	}
}

// Present draws the frame. Lit pixels become Scale x Scale squares.
func (win *Window) Present(f *renderer.Frame) error {
	if rl.IsWindowResized() {
		win.viewport.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	}
	vp := win.viewport
	s := int32(vp.Scale)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 16, G: 16, B: 16, A: 255})
	fw, fh := vp.Size()
	rl.DrawRectangle(int32(vp.OffsetX), int32(vp.OffsetY), int32(fw), int32(fh), win.off)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if !f.Pixel(x, y) {
				continue
			}
			sx, sy := vp.FrameToScreen(x, y)
			rl.DrawRectangle(int32(sx), int32(sy), s, s, win.on)
		}
	}
	rl.EndDrawing()
	return nil
}

// Poll reports window close and debounced space taps.
func (win *Window) Poll() Events {
	return Events{
		Quit:  rl.WindowShouldClose(),
		Reset: win.button.Update(rl.IsKeyDown(rl.KeySpace), rl.GetTime()),
	}
}

// Close closes the window.
func (win *Window) Close() error {
	rl.CloseWindow()
	return nil
}
