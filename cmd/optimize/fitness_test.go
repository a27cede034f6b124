package main

import (
	"testing"

	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/telemetry"
)

func init() {
	config.MustInit("")
}

func TestComputeQuality(t *testing.T) {
	steady := func(cov, speed, y float64, overflow int) telemetry.WindowStats {
		return telemetry.WindowStats{Coverage: cov, SpeedMean: speed, CentroidY: y, CellsDropped: overflow}
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		check   func(t *testing.T, q Quality)
	}{
		{
			name:    "warmup only scores zero",
			windows: []telemetry.WindowStats{steady(0.25, 20, 30, 0)},
			check: func(t *testing.T, q Quality) {
				if q != (Quality{}) {
					t.Errorf("expected zero quality, got %+v", q)
				}
			},
		},
		{
			name: "on target coverage scores full",
			windows: []telemetry.WindowStats{
				steady(0, 0, 0, 0),
				steady(0.25, 20, 20, 0),
				steady(0.25, 20, 40, 0),
			},
			check: func(t *testing.T, q Quality) {
				if q.Coverage < 0.999 {
					t.Errorf("coverage score = %v, want ~1", q.Coverage)
				}
				if q.Overflow != 1 {
					t.Errorf("overflow score = %v, want 1", q.Overflow)
				}
				if q.Circulation <= 0.9 {
					t.Errorf("circulation score = %v, want > 0.9 for a 10px height swing", q.Circulation)
				}
			},
		},
		{
			name: "still and empty scores low",
			windows: []telemetry.WindowStats{
				steady(0, 0, 0, 0),
				steady(0, 0, 60, 3),
				steady(0, 0, 60, 3),
			},
			check: func(t *testing.T, q Quality) {
				if q.Motion != 0 || q.Circulation != 0 || q.Overflow != 0 {
					t.Errorf("expected zero motion, circulation and overflow scores, got %+v", q)
				}
				if q.Total > 0.05 {
					t.Errorf("total = %v, want near 0", q.Total)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, computeQuality(tt.windows, 0.25))
		})
	}
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := config.Cfg().Clone()
	pv := NewParamVector(cfg)

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if d := raw[i] - back[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	// Out of range values are clamped on apply
	over := make([]float64, pv.Dim())
	for i, s := range pv.Specs {
		over[i] = s.Max * 10
	}
	pv.ApplyToConfig(cfg, over)
	got := pv.ExtractFromConfig(cfg)
	for i, s := range pv.Specs {
		if got[i] != s.Max {
			t.Errorf("%s = %v, want clamped to %v", s.Name, got[i], s.Max)
		}
	}
}
