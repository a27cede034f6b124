package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseForces)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseSpatialIndex]; !ok {
		t.Error("expected spatial_index phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseForces]; !ok {
		t.Error("expected forces phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_RenderTiming(t *testing.T) {
	pc := NewPerfCollector(4)

	for i := 0; i < 3; i++ {
		pc.StartRender()
		time.Sleep(200 * time.Microsecond)
		pc.EndRender()
	}

	stats := pc.Stats()
	if stats.AvgRenderDuration < 200*time.Microsecond {
		t.Errorf("expected avg render >= 200us, got %v", stats.AvgRenderDuration)
	}
	// Render time is not tick time
	if stats.AvgTickDuration != 0 {
		t.Errorf("expected no tick samples, got avg %v", stats.AvgTickDuration)
	}
}

func TestPerfCollector_NilIsNoop(t *testing.T) {
	var pc *PerfCollector

	pc.StartTick()
	pc.StartPhase(PhaseField)
	pc.EndTick()
	pc.StartRender()
	pc.EndRender()
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil maps from nil collector")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseSpatialIndex: 10,
			PhaseForces:       40,
			PhaseField:        30,
		},
	}

	rec := stats.ToCSV(120)
	if rec.WindowEnd != 120 || rec.AvgTickUS != 250 {
		t.Errorf("unexpected header fields: %+v", rec)
	}
	if rec.SpatialIndexPct != 10 || rec.ForcesPct != 40 || rec.FieldPct != 30 {
		t.Errorf("unexpected phase columns: %+v", rec)
	}
	if rec.IntegratePct != 0 || rec.ExchangePct != 0 {
		t.Errorf("missing phases should be zero: %+v", rec)
	}
}

func TestPerfCollector_TickDoesNotAllocate(t *testing.T) {
	pc := NewPerfCollector(8)
	tick := func() {
		pc.StartTick()
		for _, phase := range Phases {
			pc.StartPhase(phase)
		}
		pc.EndTick()
	}
	// Fill every ring slot once so each map holds all phases
	for i := 0; i < 8; i++ {
		tick()
	}

	if allocs := testing.AllocsPerRun(100, tick); allocs != 0 {
		t.Errorf("expected no allocations per tick, got %v", allocs)
	}
}

func TestPerfCollector_SamplesKeepOwnPhases(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase(PhaseForces)
	pc.EndTick()

	pc.StartTick()
	pc.StartPhase(PhaseField)
	pc.EndTick()

	stats := pc.Stats()
	for _, phase := range []string{PhaseForces, PhaseField} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase from its own tick, got %v", phase, stats.PhaseAvg)
		}
	}
}
