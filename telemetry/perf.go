package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseSpatialIndex = "spatial_index"
	PhaseForces       = "forces"
	PhaseIntegrate    = "integrate"
	PhaseField        = "field"
	PhaseExchange     = "exchange"
)

// Phases lists the tick phases in execution order.
var Phases = []string{
	PhaseSpatialIndex, PhaseForces, PhaseIntegrate, PhaseField, PhaseExchange,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
// A nil collector ignores every call, so callers need not check.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Render timing, one entry per rendered frame
	renders     []time.Duration
	renderIndex int
	renderCount int
	renderStart time.Time

	// Frame pacing (wall time between presents)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	samples := make([]PerfSample, windowSize)
	for i := range samples {
		samples[i].Phases = make(map[string]time.Duration, len(Phases))
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       samples,
		renders:       make([]time.Duration, windowSize),
		currentPhases: make(map[string]time.Duration, len(Phases)),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	clear(p.currentPhases)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	// Ring slots own their maps; copy rather than share
	slot := &p.samples[p.writeIndex]
	slot.TickDuration = now.Sub(p.tickStart)
	clear(slot.Phases)
	for phase, d := range p.currentPhases {
		slot.Phases[phase] = d
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
}

// StartRender begins timing a frame render.
func (p *PerfCollector) StartRender() {
	if p == nil {
		return
	}
	p.renderStart = time.Now()
}

// EndRender records the time since StartRender.
func (p *PerfCollector) EndRender() {
	if p == nil {
		return
	}
	p.renders[p.renderIndex] = time.Since(p.renderStart)
	p.renderIndex = (p.renderIndex + 1) % p.windowSize
	if p.renderCount < p.windowSize {
		p.renderCount++
	}
}

// RecordFrame records the wall time between presented frames.
func (p *PerfCollector) RecordFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Rendering
	AvgRenderDuration time.Duration
	FrameDuration     time.Duration
	FPS               float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p == nil {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}
	var avgRender time.Duration
	if p.renderCount > 0 {
		var sum time.Duration
		for i := 0; i < p.renderCount; i++ {
			sum += p.renders[i]
		}
		avgRender = sum / time.Duration(p.renderCount)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:          make(map[string]time.Duration),
			PhasePct:          make(map[string]float64),
			AvgRenderDuration: avgRender,
			FrameDuration:     p.frameDuration,
			FPS:               fps,
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration:   avgTick,
		MinTickDuration:   minTick,
		MaxTickDuration:   maxTick,
		PhaseAvg:          phaseAvg,
		PhasePct:          phasePct,
		TicksPerSecond:    ticksPerSec,
		AvgRenderDuration: avgRender,
		FrameDuration:     p.frameDuration,
		FPS:               fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"avg_render_us", s.AvgRenderDuration.Microseconds(),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Int64("avg_render_us", s.AvgRenderDuration.Microseconds()),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	AvgRenderUS     int64   `csv:"avg_render_us"`
	FPS             float64 `csv:"fps"`
	SpatialIndexPct float64 `csv:"spatial_index_pct"`
	ForcesPct       float64 `csv:"forces_pct"`
	IntegratePct    float64 `csv:"integrate_pct"`
	FieldPct        float64 `csv:"field_pct"`
	ExchangePct     float64 `csv:"exchange_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		AvgRenderUS:     s.AvgRenderDuration.Microseconds(),
		FPS:             s.FPS,
		SpatialIndexPct: s.PhasePct[PhaseSpatialIndex],
		ForcesPct:       s.PhasePct[PhaseForces],
		IntegratePct:    s.PhasePct[PhaseIntegrate],
		FieldPct:        s.PhasePct[PhaseField],
		ExchangePct:     s.PhasePct[PhaseExchange],
	}
}
