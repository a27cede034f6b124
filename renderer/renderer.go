package renderer

import (
	"github.com/pthm-cable/lavafield/components"
	"github.com/pthm-cable/lavafield/config"
)

// BorderRadius is the corner radius of the lava lamp outline.
const BorderRadius = 4

// Options selects a render strategy and its parameters.
type Options struct {
	Strategy     string // config.StrategyThreshold or config.StrategyContour
	Threshold    float32
	GlowFraction float32 // Threshold strategy: dithered band below the threshold
	Influence    Influence
	Stride       int // Contour strategy: sample spacing in pixels
	Border       bool
	Trails       bool
}

// OptionsFromConfig builds render options from the render section.
func OptionsFromConfig(cfg *config.Config) Options {
	rc := cfg.Render
	return Options{
		Strategy:     rc.Strategy,
		Threshold:    float32(rc.Threshold),
		GlowFraction: float32(rc.GlowFraction),
		Influence: Influence{
			Scale:   float32(rc.Scale),
			Epsilon: float32(rc.Epsilon),
			Cutoff:  float32(rc.Cutoff),
		},
		Stride: rc.Stride,
		Border: rc.Border,
		Trails: rc.Trails,
	}
}

// FieldRenderer draws blobs as an implicit surface. It owns the contour
// sample grid, so one renderer serves one frame size.
type FieldRenderer struct {
	opts Options
	w, h int

	gridW, gridH int
	grid         []float32
	segments     []Segment
}

// NewFieldRenderer creates a renderer for the configured display.
func NewFieldRenderer(cfg *config.Config) *FieldRenderer {
	return NewFieldRendererWithOptions(cfg.Display.Width, cfg.Display.Height, OptionsFromConfig(cfg))
}

// NewFieldRendererWithOptions creates a renderer for a w x h frame.
func NewFieldRendererWithOptions(w, h int, opts Options) *FieldRenderer {
	r := &FieldRenderer{
		w:        w,
		h:        h,
		segments: make([]Segment, 0, 2),
	}
	r.SetOptions(opts)
	return r
}

// SetOptions replaces the render options, resizing the sample grid if the
// stride changed.
func (r *FieldRenderer) SetOptions(opts Options) {
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	r.opts = opts
	gw := (r.w + opts.Stride - 1) / opts.Stride
	gh := (r.h + opts.Stride - 1) / opts.Stride
	if gw != r.gridW || gh != r.gridH || r.grid == nil {
		r.gridW, r.gridH = gw, gh
		r.grid = make([]float32, gw*gh)
	}
}

// Options returns the current render options.
func (r *FieldRenderer) Options() Options { return r.opts }

// SetThreshold changes the iso level.
func (r *FieldRenderer) SetThreshold(t float32) { r.opts.Threshold = t }

// Render clears dst and draws the blobs into it. The result depends only on
// the blobs and the options.
func (r *FieldRenderer) Render(dst *Frame, blobs []Blob) {
	dst.Clear()

	switch r.opts.Strategy {
	case config.StrategyContour:
		r.renderContour(dst, blobs)
	default:
		r.renderThreshold(dst, blobs)
	}

	if r.opts.Trails {
		drawTrails(dst, blobs)
	}
	if r.opts.Border {
		dst.DrawRoundRect(0, 0, dst.W, dst.H, BorderRadius)
	}
}

// drawTrails draws a polyline through each blob's recent positions.
func drawTrails(dst *Frame, blobs []Blob) {
	for i := range blobs {
		tr := &blobs[i].Trail
		n := tr.Len()
		if n < 2 {
			continue
		}
		px, py := tr.At(0)
		for k := 1; k < n && k < components.TrailLength; k++ {
			x, y := tr.At(k)
			dst.DrawLine(roundPx(px), roundPx(py), roundPx(x), roundPx(y))
			px, py = x, y
		}
	}
}
