package renderer

import "math"

// renderThreshold lights pixels whose field reaches the threshold and
// checkers pixels in the glow band below it. Only the rectangle covering every
// blob's reach is sampled; pixels outside it see no field.
func (r *FieldRenderer) renderThreshold(dst *Frame, blobs []Blob) {
	if len(blobs) == 0 {
		return
	}
	x0, y0, x1, y1 := r.sampleBounds(dst, blobs)

	thresh := r.opts.Threshold
	glow := thresh * r.opts.GlowFraction
	useGlow := r.opts.GlowFraction > 0

	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x < x1; x++ {
			v := r.opts.Influence.Sample(blobs, float32(x)+0.5, py)
			if v >= thresh {
				dst.SetPixel(x, y)
			} else if useGlow && v >= glow && (x^y)&1 == 0 {
				dst.SetPixel(x, y)
			}
		}
	}
}

// sampleBounds returns the pixel rectangle [x0,x1) x [y0,y1) that covers every
// blob's reach, clipped to the frame. Unbounded influence covers the frame.
func (r *FieldRenderer) sampleBounds(dst *Frame, blobs []Blob) (x0, y0, x1, y1 int) {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, b := range blobs {
		reach := r.opts.Influence.Reach(b)
		if reach < 0 {
			return 0, 0, dst.W, dst.H
		}
		minX = min(minX, b.X-reach)
		minY = min(minY, b.Y-reach)
		maxX = max(maxX, b.X+reach)
		maxY = max(maxY, b.Y+reach)
	}
	x0 = maxInt(int(math.Floor(float64(minX))), 0)
	y0 = maxInt(int(math.Floor(float64(minY))), 0)
	x1 = minInt(int(math.Ceil(float64(maxX)))+1, dst.W)
	y1 = minInt(int(math.Ceil(float64(maxY)))+1, dst.H)
	return x0, y0, x1, y1
}
