package display

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/pthm-cable/lavafield/renderer"
)

// PNGSequence writes every presented frame to dir as frame_00000.png,
// frame_00001.png, ... scaled up by Scale.
type PNGSequence struct {
	Dir       string
	Scale     int
	MaxFrames int // Poll reports Quit once this many frames are written (0 = never)

	written int
	dc      *gg.Context
}

// NewPNGSequence creates dir if needed.
func NewPNGSequence(dir string, scale, maxFrames int) (*PNGSequence, error) {
	if dir == "" {
		dir = "frames"
	}
	if scale < 1 {
		scale = 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	return &PNGSequence{Dir: dir, Scale: scale, MaxFrames: maxFrames}, nil
}

// Present renders the frame into an image and saves it.
func (p *PNGSequence) Present(f *renderer.Frame) error {
	w, h := f.W*p.Scale, f.H*p.Scale
	if p.dc == nil || p.dc.Width() != w || p.dc.Height() != h {
		p.dc = gg.NewContext(w, h)
	}
	dc := p.dc
	s := float64(p.Scale)

	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.Pixel(x, y) {
				dc.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
			}
		}
	}
	dc.Fill()

	path := filepath.Join(p.Dir, fmt.Sprintf("frame_%05d.png", p.written))
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	p.written++
	return nil
}

// Poll asks to quit once the frame budget is spent.
func (p *PNGSequence) Poll() Events {
	return Events{Quit: p.MaxFrames > 0 && p.written >= p.MaxFrames}
}

// Close is a no-op; frames are written as they arrive.
func (p *PNGSequence) Close() error { return nil }

// Written returns the number of frames saved.
func (p *PNGSequence) Written() int { return p.written }
