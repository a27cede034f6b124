package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCoverageCollapse BookmarkType = "coverage_collapse"
	BookmarkMotionSurge      BookmarkType = "motion_surge"
	BookmarkCapacityOverflow BookmarkType = "capacity_overflow"
	BookmarkSettled          BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentCoveragePeak float64 // peak coverage since the last collapse
	settledReported    bool    // settled already reported for this streak
	overflowing        bool    // previous window had capacity overflow
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settle detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Coverage collapse: lit area fell by more than half from its peak
		if b := bd.checkCoverageCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Motion surge: mean speed > 2x rolling average
		if b := bd.checkMotionSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Settled: coverage nearly constant over the last 4 windows
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// First window with grid overflow after a clean one
	if b := bd.checkOverflow(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Coverage > bd.recentCoveragePeak {
		bd.recentCoveragePeak = stats.Coverage
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	history := bd.getHistory()
	if len(history) < n {
		return nil
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkCoverageCollapse(stats WindowStats) *Bookmark {
	peak := bd.recentCoveragePeak
	if peak < 0.05 {
		return nil
	}

	drop := 1.0 - stats.Coverage/peak
	if drop > 0.5 {
		// Reset peak after collapse
		bd.recentCoveragePeak = stats.Coverage

		return &Bookmark{
			Type:        BookmarkCoverageCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Coverage fell %.0f%% from peak %.3f to %.3f", drop*100, peak, stats.Coverage),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkMotionSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SpeedMean > avg*2.0 && stats.SpeedMean > 5 {
		return &Bookmark{
			Type:        BookmarkMotionSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed %.1f is %.1fx average (%.1f)", stats.SpeedMean, stats.SpeedMean/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Coverage <= 0 {
		bd.settledReported = false
		return nil
	}

	window := bd.recent(3)
	if window == nil {
		return nil
	}
	coverage := make([]float64, 0, 4)
	for _, h := range window {
		coverage = append(coverage, h.Coverage)
	}
	coverage = append(coverage, stats.Coverage)

	mean, variance := stat.PopMeanVariance(coverage, nil)
	if mean <= 0 {
		return nil
	}

	// Squared coefficient of variation below 1e-3
	if variance/(mean*mean) >= 1e-3 {
		bd.settledReported = false
		return nil
	}
	if bd.settledReported {
		return nil
	}
	bd.settledReported = true

	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Coverage steady near %.3f for 4 windows", mean),
	}
}

func (bd *BookmarkDetector) checkOverflow(stats WindowStats) *Bookmark {
	overflow := stats.NeighborsTruncated > 0 || stats.CellsDropped > 0
	was := bd.overflowing
	bd.overflowing = overflow
	if !overflow || was {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkCapacityOverflow,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Spatial grid overflow: %d truncated queries, %d dropped inserts", stats.NeighborsTruncated, stats.CellsDropped),
	}
}
