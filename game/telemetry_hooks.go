package game

import (
	"log/slog"
	"math"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.sampleState()
	stats := g.collector.Flush(g.tick, g.sample)
	perfStats := g.perfCollector.Stats()

	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if g.perfCollector != nil {
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sampleState fills the scratch sample with the current distributions.
func (g *Game) sampleState() {
	s := &g.sample
	s.Radii = s.Radii[:0]
	s.Temps = s.Temps[:0]
	s.Speeds = s.Speeds[:0]
	s.Heights = s.Heights[:0]

	for i := 0; i < g.particles.Count(); i++ {
		p := g.particles.Particle(i)
		s.Radii = append(s.Radii, float64(p.Radius))
		s.Temps = append(s.Temps, float64(p.Temp))
		s.Speeds = append(s.Speeds, math.Hypot(float64(p.VX), float64(p.VY)))
		s.Heights = append(s.Heights, float64(p.Y))
	}

	s.Field = s.Field[:0]
	if g.field != nil {
		for _, v := range g.field.Values() {
			s.Field = append(s.Field, float64(v))
		}
	}

	s.NeighborsTruncated = g.particles.NeighborsTruncated()
	s.CellsDropped = g.particles.CellsDropped()
}
