package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lavafield/components"
	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/renderer"
	"github.com/pthm-cable/lavafield/telemetry"
)

// ParticleState is a flat copy of one particle, for tests and tools.
type ParticleState struct {
	X, Y   float32
	VX, VY float32
	Radius float32
	Mass   float32
	Drift  float32
	Temp   float32
}

// particleView holds component pointers for one particle during a tick.
type particleView struct {
	pos   *components.Position
	vel   *components.Velocity
	body  *components.Body
	therm *components.Thermal
	trail *components.Trail
}

// ParticleSystem owns a fixed population of particles stored in an ECS world.
// Entities are created once at construction and rewritten in place on Reset.
// It also owns the spatial index and steps the thermal field, so it is the
// only writer of simulation state.
type ParticleSystem struct {
	world *ecs.World

	entityMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Thermal,
		components.Trail,
	]
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	bodyMap  *ecs.Map1[components.Body]
	thermMap *ecs.Map1[components.Thermal]
	trailMap *ecs.Map1[components.Trail]

	entities []ecs.Entity // index = particle index
	views    []particleView

	index *SpatialIndex
	field *ThermalField

	// Scratch buffers, sized at construction
	ax, ay    []float32
	neighbors []int

	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	elapsed float32
	tick    int32

	perf *telemetry.PerfCollector // nil = untimed

	// Cumulative since last Reset
	truncated int
	dropped   int
}

// NewParticleSystem creates cfg.Particles.Count particles and seeds them.
// field may be nil, in which case particles see a constant ambient.
func NewParticleSystem(cfg *config.Config, field *ThermalField, seed int64) *ParticleSystem {
	world := ecs.NewWorld()

	n := cfg.Particles.Count
	capacity := cfg.Particles.Capacity
	if capacity < n {
		capacity = n
	}

	ps := &ParticleSystem{
		world: world,
		entityMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Thermal,
			components.Trail,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		bodyMap:  ecs.NewMap1[components.Body](world),
		thermMap: ecs.NewMap1[components.Thermal](world),
		trailMap: ecs.NewMap1[components.Trail](world),

		entities: make([]ecs.Entity, 0, capacity),
		views:    make([]particleView, n),

		index: NewSpatialIndex(
			cfg.Derived.Width32, cfg.Derived.Height32,
			float32(cfg.Spatial.CellSize),
			capacity, cfg.Spatial.MaxPerCell, cfg.Spatial.MaxNeighbors,
			float32(cfg.Spatial.Margin),
		),
		field: field,

		ax:        make([]float32, n),
		ay:        make([]float32, n),
		neighbors: make([]int, 0, cfg.Spatial.MaxNeighbors),

		cfg:  cfg,
		seed: seed,
	}

	for i := 0; i < n; i++ {
		var (
			pos   components.Position
			vel   components.Velocity
			body  components.Body
			therm components.Thermal
			trail components.Trail
		)
		e := ps.entityMapper.NewEntity(&pos, &vel, &body, &therm, &trail)
		ps.entities = append(ps.entities, e)
	}

	ps.Reset()
	return ps
}

// Reseed sets the seed used by the next Reset.
func (ps *ParticleSystem) Reseed(seed int64) {
	ps.seed = seed
	if ps.field != nil {
		ps.field.Reseed(seed + 1)
	}
}

// Reset reseeds every particle in place and resets the field to ambient.
func (ps *ParticleSystem) Reset() {
	ps.rng = rand.New(rand.NewSource(ps.seed))
	ps.elapsed = 0
	ps.tick = 0
	ps.truncated = 0
	ps.dropped = 0

	pc := ps.cfg.Particles
	region := pc.SpawnRegion
	ambient := ps.ambient()
	speedMin := float32(pc.InitSpeedMin)
	speedMax := float32(pc.InitSpeedMax)

	ps.gather()
	for i := range ps.views {
		v := &ps.views[i]

		r := randRange(ps.rng, float32(pc.SpawnMinRadius), float32(pc.SpawnMaxRadius))
		r = clampFloat(r, float32(pc.MinRadius), float32(pc.MaxRadius))

		v.pos.X = randRange(ps.rng, float32(region.MinX), float32(region.MaxX))
		v.pos.Y = randRange(ps.rng, float32(region.MinY), float32(region.MaxY))
		v.vel.X = ps.spawnSpeed(speedMin, speedMax)
		v.vel.Y = ps.spawnSpeed(speedMin, speedMax)

		v.body.Radius = r
		v.body.Mass = r * r
		drift := randRange(ps.rng, float32(pc.DriftMin), float32(pc.DriftMax))
		if ps.rng.Intn(2) == 0 {
			drift = -drift
		}
		v.body.RadiusDrift = drift

		v.therm.Temp = ps.clampTemp(ambient + float32(pc.InitTempOffset))
		v.trail.Reset()

		ps.clampToBounds(v)
	}

	if ps.field != nil {
		ps.field.Reset()
	}
}

// spawnSpeed draws a velocity component in [-max, max] whose magnitude is at
// least min.
func (ps *ParticleSystem) spawnSpeed(minSpeed, maxSpeed float32) float32 {
	s := randRange(ps.rng, -maxSpeed, maxSpeed)
	if s < minSpeed && s > -minSpeed {
		s = copysign32(minSpeed, s)
	}
	return s
}

// gather refreshes the per-particle component pointers.
func (ps *ParticleSystem) gather() {
	for i, e := range ps.entities {
		ps.views[i] = particleView{
			pos:   ps.posMap.Get(e),
			vel:   ps.velMap.Get(e),
			body:  ps.bodyMap.Get(e),
			therm: ps.thermMap.Get(e),
			trail: ps.trailMap.Get(e),
		}
	}
}

// Step advances the simulation by one fixed dt.
func (ps *ParticleSystem) Step() {
	ps.gather()

	// 1. Spatial index
	ps.perf.StartPhase(telemetry.PhaseSpatialIndex)
	ps.index.Rebuild(len(ps.views), func(i int) (float32, float32) {
		p := ps.views[i].pos
		return p.X, p.Y
	})
	ps.dropped += ps.index.Dropped()

	// 2. Accelerations for everyone before anyone moves
	ps.perf.StartPhase(telemetry.PhaseForces)
	ps.accelerate()

	// 3. Move, bounce, grow, relax
	ps.perf.StartPhase(telemetry.PhaseIntegrate)
	ps.integrate()

	// 4. Field step, then exchange against the diffused field
	if ps.field != nil {
		ps.perf.StartPhase(telemetry.PhaseField)
		ps.field.Step()
		ps.perf.StartPhase(telemetry.PhaseExchange)
		for i := range ps.views {
			v := &ps.views[i]
			v.therm.Temp = ps.field.Exchange(v.pos.X, v.pos.Y, v.therm.Temp)
		}
	}

	ps.truncated += ps.index.Truncated()
	ps.elapsed += ps.cfg.Derived.DT32
	ps.tick++
}

// SetPerf attaches a collector that times the phases of Step. The caller
// owns StartTick and EndTick.
func (ps *ParticleSystem) SetPerf(p *telemetry.PerfCollector) { ps.perf = p }

// Count returns the population size.
func (ps *ParticleSystem) Count() int { return len(ps.entities) }

// Capacity returns the configured maximum population.
func (ps *ParticleSystem) Capacity() int { return cap(ps.entities) }

// Elapsed returns simulated seconds since the last Reset.
func (ps *ParticleSystem) Elapsed() float32 { return ps.elapsed }

// Tick returns the number of steps since the last Reset.
func (ps *ParticleSystem) Tick() int32 { return ps.tick }

// Index exposes the spatial index for inspection.
func (ps *ParticleSystem) Index() *SpatialIndex { return ps.index }

// Field returns the attached thermal field, or nil.
func (ps *ParticleSystem) Field() *ThermalField { return ps.field }

// NeighborsTruncated reports how many neighbor queries hit the result cap
// since the last Reset.
func (ps *ParticleSystem) NeighborsTruncated() int { return ps.truncated }

// CellsDropped reports how many index inserts overflowed a cell since the
// last Reset.
func (ps *ParticleSystem) CellsDropped() int { return ps.dropped }

// Particle returns a copy of particle i.
func (ps *ParticleSystem) Particle(i int) ParticleState {
	e := ps.entities[i]
	pos := ps.posMap.Get(e)
	vel := ps.velMap.Get(e)
	body := ps.bodyMap.Get(e)
	therm := ps.thermMap.Get(e)
	return ParticleState{
		X: pos.X, Y: pos.Y,
		VX: vel.X, VY: vel.Y,
		Radius: body.Radius,
		Mass:   body.Mass,
		Drift:  body.RadiusDrift,
		Temp:   therm.Temp,
	}
}

// SetParticle overwrites particle i. The trail is cleared.
func (ps *ParticleSystem) SetParticle(i int, s ParticleState) {
	e := ps.entities[i]
	pos := ps.posMap.Get(e)
	vel := ps.velMap.Get(e)
	body := ps.bodyMap.Get(e)
	therm := ps.thermMap.Get(e)
	trail := ps.trailMap.Get(e)

	pos.X, pos.Y = s.X, s.Y
	vel.X, vel.Y = s.VX, s.VY
	body.Radius = s.Radius
	body.Mass = s.Mass
	if body.Mass <= 0 {
		body.Mass = s.Radius * s.Radius
	}
	body.RadiusDrift = s.Drift
	therm.Temp = s.Temp
	trail.Reset()
}

// Snapshot appends a render view of every particle to dst[:0].
func (ps *ParticleSystem) Snapshot(dst []renderer.Blob) []renderer.Blob {
	dst = dst[:0]
	for _, e := range ps.entities {
		pos := ps.posMap.Get(e)
		body := ps.bodyMap.Get(e)
		trail := ps.trailMap.Get(e)
		dst = append(dst, renderer.Blob{
			X:      pos.X,
			Y:      pos.Y,
			Radius: body.Radius,
			Trail:  *trail,
		})
	}
	return dst
}

func (ps *ParticleSystem) ambient() float32 {
	if ps.field != nil {
		return ps.field.Ambient
	}
	return float32(ps.cfg.Field.Ambient)
}

func (ps *ParticleSystem) clampTemp(t float32) float32 {
	return clampFloat(t, ps.cfg.Derived.FieldLo, ps.cfg.Derived.FieldHi)
}
