package telemetry

// Sample is the simulation state handed to Flush at the end of a window.
// The slices are scratch owned by the caller and may be reordered.
type Sample struct {
	Radii   []float64
	Temps   []float64
	Speeds  []float64
	Heights []float64
	Field   []float64

	// Cumulative overflow counters since the last reset
	NeighborsTruncated int
	CellsDropped       int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	resets      int
	frames      int
	coverageSum float64

	// Counter values seen at the previous flush
	lastTruncated int
	lastDropped   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordReset records a reseed. Overflow counters restart from zero.
func (c *Collector) RecordReset() {
	c.resets++
	c.lastTruncated = 0
	c.lastDropped = 0
}

// RecordFrame records a rendered frame with lit of total pixels set.
func (c *Collector) RecordFrame(lit, total int) {
	c.frames++
	if total > 0 {
		c.coverageSum += float64(lit) / float64(total)
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	var coverage float64
	if c.frames > 0 {
		coverage = c.coverageSum / float64(c.frames)
	}

	radius := Summarize(s.Radii)
	temp := Summarize(s.Temps)
	speed := Summarize(s.Speeds)
	height := Summarize(s.Heights)
	field := Summarize(s.Field)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Particles: len(s.Radii),
		Resets:    c.resets,
		Frames:    c.frames,
		Coverage:  coverage,

		RadiusMean: radius.Mean,
		RadiusP10:  radius.P10,
		RadiusP50:  radius.P50,
		RadiusP90:  radius.P90,
		TempMean:   temp.Mean,
		TempStd:    temp.Std,
		SpeedMean:  speed.Mean,
		SpeedMax:   speed.Max,
		CentroidY:  height.Mean,

		FieldMean: field.Mean,
		FieldStd:  field.Std,
		FieldMin:  field.Min,
		FieldMax:  field.Max,

		NeighborsTruncated: s.NeighborsTruncated - c.lastTruncated,
		CellsDropped:       s.CellsDropped - c.lastDropped,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.resets = 0
	c.frames = 0
	c.coverageSum = 0
	c.lastTruncated = s.NeighborsTruncated
	c.lastDropped = s.CellsDropped

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
