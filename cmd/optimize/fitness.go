package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/game"
	"github.com/pthm-cable/lavafield/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64
	target      float64 // Desired lit fraction of the frame

	mu          sync.Mutex
	lastQuality Quality // from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 2.0,
		target:      target,
	}
}

// LastQuality returns the quality breakdown from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() Quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]Quality, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx] = computeQuality(windows, fe.target)
		}(i, seed)
	}
	wg.Wait()

	var avg Quality
	for _, q := range results {
		avg.Coverage += q.Coverage
		avg.Motion += q.Motion
		avg.Circulation += q.Circulation
		avg.Overflow += q.Overflow
		avg.Total += q.Total
	}
	n := float64(len(results))
	avg.Coverage /= n
	avg.Motion /= n
	avg.Circulation /= n
	avg.Overflow /= n
	avg.Total /= n

	fe.mu.Lock()
	fe.lastQuality = avg
	fe.mu.Unlock()

	return -avg.Total
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// Quality holds the score components, each in [0, 1].
type Quality struct {
	Coverage    float64
	Motion      float64
	Circulation float64
	Overflow    float64 // 1 = no grid overflow
	Total       float64
}

// Quality component weights.
const (
	qualityWeightCoverage    = 0.40
	qualityWeightMotion      = 0.25
	qualityWeightCirculation = 0.25
	qualityWeightOverflow    = 0.10

	qualityWarmupWindows = 1 // skip first N windows (warmup)
)

// computeQuality scores a run from its stats windows. A good lamp keeps a
// steady lit fraction near target while blobs keep moving and the cloud's
// height wanders.
func computeQuality(windows []telemetry.WindowStats, target float64) Quality {
	if len(windows) <= qualityWarmupWindows {
		return Quality{}
	}
	valid := windows[qualityWarmupWindows:]

	var coverageSum, motionSum float64
	var overflowWindows int
	heights := make([]float64, 0, len(valid))

	for _, w := range valid {
		// 1. Coverage: Gaussian around the target lit fraction
		d := (w.Coverage - target) / 0.1
		coverageSum += math.Exp(-d * d)

		// 2. Motion: saturating in mean speed (px/s)
		motionSum += 1.0 - math.Exp(-w.SpeedMean/10.0)

		heights = append(heights, w.CentroidY)
		if w.NeighborsTruncated > 0 || w.CellsDropped > 0 {
			overflowWindows++
		}
	}

	n := float64(len(valid))
	q := Quality{
		Coverage: coverageSum / n,
		Motion:   motionSum / n,
		Overflow: 1.0 - float64(overflowWindows)/n,
	}

	// 3. Circulation: spread of the mean height across windows
	if len(heights) >= 2 {
		q.Circulation = 1.0 - math.Exp(-stat.StdDev(heights, nil)/4.0)
	}

	q.Total = clamp01(qualityWeightCoverage*q.Coverage +
		qualityWeightMotion*q.Motion +
		qualityWeightCirculation*q.Circulation +
		qualityWeightOverflow*q.Overflow)
	return q
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
