package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/lavafield/config"
)

// newQuietSystem creates n particles with every body force switched off and
// no field, so a test can enable just the term it checks.
func newQuietSystem(t testing.TB, n int, mutate func(c *config.Config)) *ParticleSystem {
	t.Helper()
	return newTestSystem(t, "fluid_cloud", func(c *config.Config) {
		c.Particles.Count = n
		c.Field.Enabled = false
		c.Forces.Gravity = 0
		c.Forces.Buoyancy = 0
		c.Forces.FieldLift = 0
		c.Forces.SideForce = 0
		c.Forces.Cohesion = 0
		c.Forces.Viscosity = 0
		if mutate != nil {
			mutate(c)
		}
	})
}

func near(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	scale := float32(math.Max(1, math.Abs(float64(b))))
	return d <= tol*scale
}

// springDV is the velocity change of a particle at rest pulled by one
// neighbor dx away along x.
func springDV(ps *ParticleSystem, r0, r1, dx float32) float32 {
	fc := ps.cfg.Forces
	eps := float32(fc.Epsilon)
	d := sqrt32(dx*dx + eps)
	fs := float32(fc.Cohesion) * (d - (r0+r1)*float32(fc.RestDistanceFactor))
	return fs * dx / d / (r0 * r0) * ps.cfg.Derived.DT32
}

func TestPairSpring(t *testing.T) {
	tests := []struct {
		name     string
		r        float32
		x0, x1   float32
		wantSign int // sign of particle 0's vx after one step
	}{
		{"repels inside rest distance", 6, 40, 46, -1},
		{"attracts beyond rest distance", 6, 40, 60, 1},
		{"ignores pairs beyond influence", 6, 40, 80, 0},
		{"reaches across non-adjacent cells", 12, 40, 100, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ps := newQuietSystem(t, 2, func(c *config.Config) {
				c.Forces.Cohesion = 40
			})
			ps.SetParticle(0, ParticleState{X: tc.x0, Y: 32, Radius: tc.r, Temp: 800})
			ps.SetParticle(1, ParticleState{X: tc.x1, Y: 32, Radius: tc.r, Temp: 800})
			ps.Step()

			p0, p1 := ps.Particle(0), ps.Particle(1)
			switch tc.wantSign {
			case 0:
				if p0.VX != 0 || p1.VX != 0 {
					t.Fatalf("expected no force, got vx0=%v vx1=%v", p0.VX, p1.VX)
				}
				return
			case 1:
				if p0.VX <= 0 {
					t.Fatalf("expected vx0 > 0, got %v", p0.VX)
				}
			case -1:
				if p0.VX >= 0 {
					t.Fatalf("expected vx0 < 0, got %v", p0.VX)
				}
			}

			want := springDV(ps, tc.r, tc.r, tc.x1-tc.x0)
			if !near(p0.VX, want, 1e-3) {
				t.Errorf("vx0 = %v, want %v", p0.VX, want)
			}
			// Equal masses: equal and opposite response
			if !near(p1.VX, -p0.VX, 1e-3) {
				t.Errorf("vx1 = %v, want %v", p1.VX, -p0.VX)
			}
			if p0.VY != 0 || p1.VY != 0 {
				t.Errorf("expected no vertical force on a horizontal pair, got %v, %v", p0.VY, p1.VY)
			}
		})
	}
}

func TestPairViscosity(t *testing.T) {
	const visc = 0.05
	ps := newQuietSystem(t, 2, func(c *config.Config) {
		c.Forces.Viscosity = visc
	})
	const r = 6
	ps.SetParticle(0, ParticleState{X: 40, Y: 32, VX: 0, Radius: r, Temp: 800})
	ps.SetParticle(1, ParticleState{X: 60, Y: 32, VX: 10, Radius: r, Temp: 800})
	ps.Step()

	p0, p1 := ps.Particle(0), ps.Particle(1)
	dv := float32(visc) * 10 / (r * r) * ps.cfg.Derived.DT32
	if !near(p0.VX, dv, 1e-3) {
		t.Errorf("slow particle vx = %v, want %v", p0.VX, dv)
	}
	if !near(p1.VX, 10-dv, 1e-3) {
		t.Errorf("fast particle vx = %v, want %v", p1.VX, 10-dv)
	}
	if rel := p1.VX - p0.VX; rel >= 10 {
		t.Errorf("expected relative velocity below 10, got %v", rel)
	}
}

func TestVerticalForces(t *testing.T) {
	const r = 6
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		temp   float32
		fieldT float32 // 0 = no field
		wantF  float32 // net force on y, positive = down
	}{
		{"gravity pulls down", func(c *config.Config) { c.Forces.Gravity = 40 }, 800, 0, 40 * r * r},
		{"hot particle rises", func(c *config.Config) { c.Forces.Buoyancy = 170 }, 900, 0, -170 * 100},
		{"cold particle sinks", func(c *config.Config) { c.Forces.Buoyancy = 170 }, 700, 0, 170 * 100},
		{"hot field lifts", func(c *config.Config) {
			c.Field.Enabled = true
			c.Forces.FieldLift = 20
		}, 800, 1000, -20 * 200},
		{"cool field sinks", func(c *config.Config) {
			c.Field.Enabled = true
			c.Forces.FieldLift = 20
		}, 800, 600, 20 * 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ps := newQuietSystem(t, 1, tc.mutate)
			if f := ps.Field(); f != nil {
				w, h := f.GridSize()
				for gy := 0; gy < h; gy++ {
					for gx := 0; gx < w; gx++ {
						f.Set(gx, gy, tc.fieldT)
					}
				}
			}
			ps.SetParticle(0, ParticleState{X: 64, Y: 32, Radius: r, Temp: tc.temp})
			ps.Step()

			want := tc.wantF / (r * r) * ps.cfg.Derived.DT32
			if got := ps.Particle(0).VY; !near(got, want, 1e-3) {
				t.Errorf("vy = %v, want %v", got, want)
			}
		})
	}
}

func TestSideForceFollowsSine(t *testing.T) {
	const r = 6
	ps := newQuietSystem(t, 1, func(c *config.Config) {
		c.Forces.SideForce = 50
		c.Forces.SideFrequency = 3
	})
	ps.SetParticle(0, ParticleState{X: 64, Y: 32, Radius: r, Temp: 800})

	// sin(0) = 0 on the first tick
	ps.Step()
	if vx := ps.Particle(0).VX; vx != 0 {
		t.Fatalf("expected no side force at t=0, got vx=%v", vx)
	}

	dt := ps.cfg.Derived.DT32
	ps.Step()
	want := float32(50*math.Sin(3*float64(dt))) / (r * r) * dt
	if got := ps.Particle(0).VX; !near(got, want, 1e-3) {
		t.Errorf("vx = %v, want %v", got, want)
	}
}

// TestForcesIndependentOfOrder steps the same cluster stored in two orders.
// Accelerations are computed from the pre-tick state, so both agree.
func TestForcesIndependentOfOrder(t *testing.T) {
	cluster := []ParticleState{
		{X: 40, Y: 30, VX: 2, VY: -1, Radius: 6, Temp: 820},
		{X: 50, Y: 32, VX: -3, VY: 0, Radius: 8, Temp: 790},
		{X: 45, Y: 40, VX: 0, VY: 4, Radius: 5, Temp: 850},
		{X: 58, Y: 38, VX: 1, VY: 1, Radius: 7, Temp: 760},
	}
	mutate := func(c *config.Config) {
		c.Forces.Cohesion = 40
		c.Forces.Viscosity = 0.5
		c.Forces.Gravity = 40
		c.Forces.Buoyancy = 170
	}

	forward := newQuietSystem(t, len(cluster), mutate)
	reverse := newQuietSystem(t, len(cluster), mutate)
	n := len(cluster)
	for i, s := range cluster {
		forward.SetParticle(i, s)
		reverse.SetParticle(n-1-i, s)
	}

	for tick := 0; tick < 3; tick++ {
		forward.Step()
		reverse.Step()
	}

	for i := 0; i < n; i++ {
		a, b := forward.Particle(i), reverse.Particle(n-1-i)
		if !near(a.X, b.X, 1e-4) || !near(a.Y, b.Y, 1e-4) ||
			!near(a.VX, b.VX, 1e-4) || !near(a.VY, b.VY, 1e-4) {
			t.Errorf("particle %d differs by storage order: %+v vs %+v", i, a, b)
		}
	}
}
