package systems

import (
	"math"

	"github.com/pthm-cable/lavafield/config"
)

// accelerate computes every particle's acceleration from the current state
// and applies it to velocity. Positions are not touched.
func (ps *ParticleSystem) accelerate() {
	fc := ps.cfg.Forces
	gravity := float32(fc.Gravity)
	buoyancy := float32(fc.Buoyancy)
	lift := float32(fc.FieldLift)
	cohesion := float32(fc.Cohesion)
	restFactor := float32(fc.RestDistanceFactor)
	viscosity := float32(fc.Viscosity)
	mult := float32(fc.InfluenceMultiplier)
	eps := float32(fc.Epsilon)
	maxR := float32(ps.cfg.Particles.MaxRadius)
	ambient := ps.ambient()
	dt := ps.cfg.Derived.DT32

	side := float32(fc.SideForce * math.Sin(fc.SideFrequency*float64(ps.elapsed)))
	pairwise := cohesion != 0 || viscosity != 0

	for i := range ps.views {
		v := &ps.views[i]
		mass := v.body.Mass
		if mass <= 0 {
			mass = 1
		}

		localT := ambient
		if ps.field != nil {
			localT = ps.field.Sample(v.pos.X, v.pos.Y)
		}

		fx := side
		fy := mass*gravity - buoyancy*(v.therm.Temp-ambient) - lift*(localT-ambient)

		if pairwise {
			reach := (v.body.Radius + maxR) * mult
			ps.neighbors = ps.index.Neighbors(ps.neighbors[:0], i, reach*reach)
			for _, j := range ps.neighbors {
				o := &ps.views[j]
				dx := o.pos.X - v.pos.X
				dy := o.pos.Y - v.pos.Y
				d2 := dx*dx + dy*dy
				if d2 < eps {
					continue
				}
				sumR := v.body.Radius + o.body.Radius
				d := sqrt32(d2 + eps)
				if d >= sumR*mult {
					continue
				}
				fs := cohesion * (d - sumR*restFactor)
				fx += fs*dx/d + viscosity*(o.vel.X-v.vel.X)
				fy += fs*dy/d + viscosity*(o.vel.Y-v.vel.Y)
			}
		}

		ps.ax[i] = fx / mass
		ps.ay[i] = fy / mass
	}

	for i := range ps.views {
		v := &ps.views[i]
		v.vel.X += ps.ax[i] * dt
		v.vel.Y += ps.ay[i] * dt
	}
}

// integrate moves every particle, applies the boundary policy and relaxes
// radius and temperature.
func (ps *ParticleSystem) integrate() {
	fc := ps.cfg.Forces
	pc := ps.cfg.Particles
	dt := ps.cfg.Derived.DT32
	ambient := ps.ambient()
	relax := float32(fc.TempRelax)

	for i := range ps.views {
		v := &ps.views[i]

		v.pos.X += v.vel.X * dt
		v.pos.Y += v.vel.Y * dt
		if ps.clampToBounds(v) {
			v.therm.Temp += float32(fc.FloorHeat)
		}
		v.trail.Push(v.pos.X, v.pos.Y)

		switch pc.RadiusMode {
		case config.RadiusDrift:
			ps.driftRadius(v)
		default:
			ps.thermalRadius(v, ambient)
		}

		v.therm.Temp += (ambient - v.therm.Temp) * relax
		v.therm.Temp = ps.clampTemp(v.therm.Temp)
	}
}

// clampToBounds keeps a particle inside [r, W-r] x [r, H-r], reflecting and
// damping the velocity component that crossed a wall. A particle wider than
// the frame sits at its centre. Reports whether the floor was hit.
func (ps *ParticleSystem) clampToBounds(v *particleView) (floor bool) {
	fc := ps.cfg.Forces
	w := ps.cfg.Derived.Width32
	h := ps.cfg.Derived.Height32
	r := v.body.Radius
	rest := float32(fc.Restitution)

	if w < 2*r {
		v.pos.X = w / 2
	} else if v.pos.X < r {
		v.pos.X = r
		if v.vel.X < 0 {
			v.vel.X = -v.vel.X * rest
		}
	} else if v.pos.X > w-r {
		v.pos.X = w - r
		if v.vel.X > 0 {
			v.vel.X = -v.vel.X * rest
		}
	}

	if h < 2*r {
		v.pos.Y = h / 2
	} else if v.pos.Y < r {
		v.pos.Y = r
		if v.vel.Y < 0 {
			v.vel.Y = -v.vel.Y * rest
		}
	} else if v.pos.Y > h-r {
		v.pos.Y = h - r
		if v.vel.Y > 0 {
			v.vel.Y = -v.vel.Y * float32(fc.FloorRestitution)
		}
		floor = true
	}
	return floor
}

// thermalRadius eases the radius toward a size set by the temperature excess.
func (ps *ParticleSystem) thermalRadius(v *particleView, ambient float32) {
	pc := ps.cfg.Particles
	rate := float32(pc.RadiusThermalRate)
	scale := 1 + (v.therm.Temp-ambient)*float32(pc.RadiusThermalGain)
	if minScale := float32(pc.RadiusMinScale); scale < minScale {
		scale = minScale
	}
	v.body.Radius *= (1 - rate) + rate*scale
	v.body.Radius = clampFloat(v.body.Radius, float32(pc.MinRadius), float32(pc.MaxRadius))
}

// driftRadius grows or shrinks the radius by its drift, turning the drift
// around with a fresh magnitude at either bound.
func (ps *ParticleSystem) driftRadius(v *particleView) {
	pc := ps.cfg.Particles
	lo := float32(pc.MinRadius)
	hi := float32(pc.MaxRadius)

	v.body.Radius += v.body.RadiusDrift
	if v.body.Radius <= lo {
		v.body.Radius = lo
		v.body.RadiusDrift = randRange(ps.rng, float32(pc.DriftMin), float32(pc.DriftMax))
	} else if v.body.Radius >= hi {
		v.body.Radius = hi
		v.body.RadiusDrift = -randRange(ps.rng, float32(pc.DriftMin), float32(pc.DriftMax))
	}
}
