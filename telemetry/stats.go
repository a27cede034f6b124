package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles int `csv:"particles"`
	Resets    int `csv:"resets"`
	Frames    int `csv:"frames"`

	// Fraction of lit pixels, mean over frames rendered in the window
	Coverage float64 `csv:"coverage"`

	// Particle distributions (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
	TempMean   float64 `csv:"temp_mean"`
	TempStd    float64 `csv:"temp_std"`
	SpeedMean  float64 `csv:"speed_mean"`
	SpeedMax   float64 `csv:"speed_max"`
	CentroidY  float64 `csv:"centroid_y"` // Mean particle height, 0 = top

	// Thermal field (sampled at window end)
	FieldMean float64 `csv:"field_mean"`
	FieldStd  float64 `csv:"field_std"`
	FieldMin  float64 `csv:"field_min"`
	FieldMax  float64 `csv:"field_max"`

	// Capacity overflows during the window
	NeighborsTruncated int `csv:"neighbors_truncated"`
	CellsDropped       int `csv:"cells_dropped"`
}

// Summary describes one sampled distribution.
type Summary struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes the population mean, standard deviation, range and
// percentiles of values. values is sorted in place. Empty input gives zeros.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	sort.Float64s(values)

	return Summary{
		Mean: mean,
		Std:  math.Sqrt(variance),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		P10:  Percentile(values, 0.10),
		P50:  Percentile(values, 0.50),
		P90:  Percentile(values, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("resets", s.Resets),
		slog.Int("frames", s.Frames),
		slog.Float64("coverage", s.Coverage),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p10", s.RadiusP10),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
		slog.Float64("temp_mean", s.TempMean),
		slog.Float64("temp_std", s.TempStd),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("field_mean", s.FieldMean),
		slog.Float64("field_std", s.FieldStd),
		slog.Float64("field_min", s.FieldMin),
		slog.Float64("field_max", s.FieldMax),
		slog.Int("neighbors_truncated", s.NeighborsTruncated),
		slog.Int("cells_dropped", s.CellsDropped),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"resets", s.Resets,
		"frames", s.Frames,
		"coverage", s.Coverage,
		"radius_mean", s.RadiusMean,
		"radius_p50", s.RadiusP50,
		"temp_mean", s.TempMean,
		"temp_std", s.TempStd,
		"speed_mean", s.SpeedMean,
		"centroid_y", s.CentroidY,
		"field_mean", s.FieldMean,
		"field_min", s.FieldMin,
		"field_max", s.FieldMax,
		"neighbors_truncated", s.NeighborsTruncated,
		"cells_dropped", s.CellsDropped,
	)
}
