package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/lavafield/config"
)

// ThermalField is a coarse temperature grid laid over the frame. Row 0 is the
// top of the frame; the heat source sits along the bottom rows. Every cell is
// kept inside [Lo, Hi], the span of the ambient, source and band targets.
type ThermalField struct {
	W, H int

	// Current temperature per cell, row-major
	T []float32

	// World dimensions for coordinate mapping
	worldW, worldH float32

	Lo, Hi float32

	// Parameters
	Ambient     float32
	Source      float32
	BandValue   float32
	SourceRows  int
	BandRows    int
	SourceRate  float32
	BandRate    float32
	AmbientRate float32
	Diffusion   float32

	ExchangeRate  float32
	ExchangeShare float32

	PerturbChance float32
	PerturbMin    float32
	PerturbMax    float32
	PerturbRows   int

	Bilinear bool

	// Scratch buffer for the diffusion pass
	tmp []float32

	rng  *rand.Rand
	seed int64
}

// NewThermalField creates a field covering worldW x worldH, filled with ambient.
func NewThermalField(cfg *config.Config, worldW, worldH float32, seed int64) *ThermalField {
	fc := cfg.Field
	w, h := fc.Width, fc.Height
	tf := &ThermalField{
		W: w, H: h,
		T:   make([]float32, w*h),
		tmp: make([]float32, w*h),

		worldW: worldW,
		worldH: worldH,

		Lo: cfg.Derived.FieldLo,
		Hi: cfg.Derived.FieldHi,

		Ambient:     float32(fc.Ambient),
		Source:      float32(fc.Source),
		BandValue:   float32(fc.BandValue),
		SourceRows:  fc.SourceRows,
		BandRows:    fc.BandRows,
		SourceRate:  float32(fc.SourceRate),
		BandRate:    float32(fc.BandRate),
		AmbientRate: float32(fc.AmbientRate),
		Diffusion:   float32(fc.Diffusion),

		ExchangeRate:  float32(fc.Exchange),
		ExchangeShare: float32(fc.ExchangeFieldShare),

		PerturbChance: float32(fc.PerturbChance),
		PerturbMin:    float32(fc.PerturbMin),
		PerturbMax:    float32(fc.PerturbMax),
		PerturbRows:   fc.PerturbRows,

		Bilinear: fc.Sampling == config.SampleBilinear,

		seed: seed,
	}
	tf.Reset()
	return tf
}

// Reset fills the grid with ambient and rewinds the perturbation stream.
func (tf *ThermalField) Reset() {
	for i := range tf.T {
		tf.T[i] = tf.clamp(tf.Ambient)
	}
	tf.rng = rand.New(rand.NewSource(tf.seed))
}

// Diffusion limits for SetDiffusion. The stencil is stable only strictly
// inside (0, 1).
const (
	MinDiffusion = 0.001
	MaxDiffusion = 0.999
)

// SetDiffusion changes the diffusion rate at runtime, clamped into
// [MinDiffusion, MaxDiffusion].
func (tf *ThermalField) SetDiffusion(d float32) {
	tf.Diffusion = clampFloat(d, MinDiffusion, MaxDiffusion)
}

// Reseed sets the seed used by the next Reset.
func (tf *ThermalField) Reseed(seed int64) {
	tf.seed = seed
}

// Step advances the field by one tick: diffusion and banded relaxation into
// the scratch grid, commit, then an occasional hot spot near the floor.
func (tf *ThermalField) Step() {
	w, h := tf.W, tf.H
	src := tf.T
	dst := tf.tmp

	for y := 0; y < h; y++ {
		target, rate := tf.rowTarget(y)
		for x := 0; x < w; x++ {
			i := y*w + x
			c := src[i]

			// Mean of existing 4-neighbours
			var sum float32
			n := 0
			if y > 0 {
				sum += src[i-w]
				n++
			}
			if y < h-1 {
				sum += src[i+w]
				n++
			}
			if x > 0 {
				sum += src[i-1]
				n++
			}
			if x < w-1 {
				sum += src[i+1]
				n++
			}
			if n > 0 {
				c += tf.Diffusion * (sum/float32(n) - c)
			}

			c += rate * (target - c)
			dst[i] = tf.clamp(c)
		}
	}

	// Commit
	blas32.Copy(
		blas32.Vector{N: len(dst), Inc: 1, Data: dst},
		blas32.Vector{N: len(src), Inc: 1, Data: src},
	)

	tf.perturb()
}

// rowTarget returns the relaxation target and rate for row y, counting bands
// up from the bottom row.
func (tf *ThermalField) rowTarget(y int) (target, rate float32) {
	fromBottom := tf.H - 1 - y
	switch {
	case fromBottom < tf.SourceRows:
		return tf.Source, tf.SourceRate
	case fromBottom < tf.SourceRows+tf.BandRows:
		return tf.BandValue, tf.BandRate
	default:
		return tf.Ambient, tf.AmbientRate
	}
}

func (tf *ThermalField) perturb() {
	if tf.PerturbChance <= 0 || tf.PerturbRows <= 0 {
		return
	}
	if tf.rng.Float32() >= tf.PerturbChance {
		return
	}
	rows := clampInt(tf.PerturbRows, 1, tf.H)
	gx := tf.rng.Intn(tf.W)
	gy := tf.H - 1 - tf.rng.Intn(rows)
	i := gy*tf.W + gx
	tf.T[i] = tf.clamp(tf.T[i] + randRange(tf.rng, tf.PerturbMin, tf.PerturbMax))
}

// Exchange moves heat between a particle at (x, y) with temperature temp and
// the cell under it. The cell takes ExchangeShare of the transfer. Returns the
// particle's new temperature.
func (tf *ThermalField) Exchange(x, y, temp float32) float32 {
	gx, gy := tf.CellAt(x, y)
	i := gy*tf.W + gx
	old := tf.T[i]
	tf.T[i] = tf.clamp(old + tf.ExchangeRate*(temp-old)*tf.ExchangeShare)
	return tf.clamp(temp + tf.ExchangeRate*(old-temp))
}

// Sample returns the temperature at world coordinates, using the configured
// sampling mode.
func (tf *ThermalField) Sample(x, y float32) float32 {
	if tf.Bilinear {
		return tf.SampleBilinear(x, y)
	}
	gx, gy := tf.CellAt(x, y)
	return tf.T[gy*tf.W+gx]
}

// SampleBilinear interpolates between cell centres. Positions beyond the
// outer centres take the edge value.
func (tf *ThermalField) SampleBilinear(x, y float32) float32 {
	fx := x/tf.worldW*float32(tf.W) - 0.5
	fy := y/tf.worldH*float32(tf.H) - 0.5
	fx = clampFloat(fx, 0, float32(tf.W-1))
	fy = clampFloat(fy, 0, float32(tf.H-1))

	x0 := int(fx)
	y0 := int(fy)
	x1 := clampInt(x0+1, 0, tf.W-1)
	y1 := clampInt(y0+1, 0, tf.H-1)

	tx := fx - float32(x0)
	ty := fy - float32(y0)

	g := tf.T
	a := g[y0*tf.W+x0] + (g[y0*tf.W+x1]-g[y0*tf.W+x0])*tx
	b := g[y1*tf.W+x0] + (g[y1*tf.W+x1]-g[y1*tf.W+x0])*tx
	return a + (b-a)*ty
}

// CellAt maps world coordinates to a grid cell, clamped into the grid.
func (tf *ThermalField) CellAt(x, y float32) (gx, gy int) {
	gx = clampInt(int(floor32(x/tf.worldW*float32(tf.W))), 0, tf.W-1)
	gy = clampInt(int(floor32(y/tf.worldH*float32(tf.H))), 0, tf.H-1)
	return gx, gy
}

// At returns the value of cell (gx, gy), or ambient outside the grid.
func (tf *ThermalField) At(gx, gy int) float32 {
	if gx < 0 || gx >= tf.W || gy < 0 || gy >= tf.H {
		return tf.Ambient
	}
	return tf.T[gy*tf.W+gx]
}

// Set writes cell (gx, gy), clamped into the band. Out-of-range cells are ignored.
func (tf *ThermalField) Set(gx, gy int, v float32) {
	if gx < 0 || gx >= tf.W || gy < 0 || gy >= tf.H {
		return
	}
	tf.T[gy*tf.W+gx] = tf.clamp(v)
}

// Bounds returns the band every cell is kept in.
func (tf *ThermalField) Bounds() (lo, hi float32) {
	return tf.Lo, tf.Hi
}

// Values returns the grid for visualization. Callers must not modify it.
func (tf *ThermalField) Values() []float32 {
	return tf.T
}

// GridSize returns the grid dimensions.
func (tf *ThermalField) GridSize() (int, int) {
	return tf.W, tf.H
}

// Width returns the world width the grid covers.
func (tf *ThermalField) Width() float32 { return tf.worldW }

// Height returns the world height the grid covers.
func (tf *ThermalField) Height() float32 { return tf.worldH }

func (tf *ThermalField) clamp(v float32) float32 {
	return clampFloat(v, tf.Lo, tf.Hi)
}
