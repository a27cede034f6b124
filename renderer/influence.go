package renderer

import "github.com/pthm-cable/lavafield/components"

// Blob is a read-only view of one particle, as the renderer sees it.
type Blob struct {
	X, Y   float32
	Radius float32
	Trail  components.Trail
}

// Influence is the metaball field both render strategies sample:
// the sum over blobs of r^2 * Scale / (d^2 + Epsilon).
type Influence struct {
	Scale   float32
	Epsilon float32
	Cutoff  float32 // Ignore blobs further than Cutoff radii away (0 = never)
}

// Sample returns the field value at (x, y).
func (in Influence) Sample(blobs []Blob, x, y float32) float32 {
	var sum float32
	for i := range blobs {
		b := &blobs[i]
		dx := x - b.X
		dy := y - b.Y
		d2 := dx*dx + dy*dy
		r2 := b.Radius * b.Radius
		if in.Cutoff > 0 && d2 > r2*in.Cutoff*in.Cutoff {
			continue
		}
		sum += r2 * in.Scale / (d2 + in.Epsilon)
	}
	return sum
}

// Reach returns how far from its centre a blob can contribute, or a negative
// value when contributions are unbounded.
func (in Influence) Reach(b Blob) float32 {
	if in.Cutoff <= 0 {
		return -1
	}
	return b.Radius * in.Cutoff
}
