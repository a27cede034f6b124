package renderer

import (
	"testing"
)

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

func TestContourSingleCorner(t *testing.T) {
	segs := ContourCell(nil, [4]float32{10, 0, 0, 0}, 5, 0, 0, 4)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
	}
	s := segs[0]
	// Top edge midpoint to left edge midpoint
	if !approx(s.X0, 2) || !approx(s.Y0, 0) || !approx(s.X1, 0) || !approx(s.Y1, 2) {
		t.Errorf("expected (2,0)-(0,2), got %+v", s)
	}
}

func TestContourSaddleDisjoint(t *testing.T) {
	segs := ContourCell(nil, [4]float32{10, 0, 10, 0}, 5, 0, 0, 4)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	want := []Segment{
		{X0: 2, Y0: 0, X1: 0, Y1: 2}, // around TL
		{X0: 4, Y0: 2, X1: 2, Y1: 4}, // around BR
	}
	for i, w := range want {
		g := segs[i]
		if !approx(g.X0, w.X0) || !approx(g.Y0, w.Y0) || !approx(g.X1, w.X1) || !approx(g.Y1, w.Y1) {
			t.Errorf("segment %d: got %+v, want %+v", i, g, w)
		}
	}
	// No segment spans the diagonal
	for _, s := range segs {
		if (approx(s.X0, 0) && approx(s.Y0, 0)) || (approx(s.X1, 4) && approx(s.Y1, 4)) {
			t.Errorf("unexpected diagonal segment %+v", s)
		}
	}
}

func TestContourSaddleJoinedWhenCentreInside(t *testing.T) {
	// Mean 7 is above the threshold, so TL and BR connect through the centre
	segs := ContourCell(nil, [4]float32{12, 2, 12, 2}, 5, 0, 0, 4)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	edges := CaseEdges(10, true)
	if edges[0] != (EdgePair{EdgeTop, EdgeRight}) {
		t.Errorf("expected joined pairing to cut off TR first, got %v", edges)
	}
	// First segment runs from the top edge to the right edge
	if !approx(segs[0].Y0, 0) || !approx(segs[0].X1, 4) {
		t.Errorf("expected top-to-right segment, got %+v", segs[0])
	}
}

func TestCaseTableSegmentCounts(t *testing.T) {
	for c := 0; c < 16; c++ {
		want := 1
		switch c {
		case 0, 15:
			want = 0
		case 5, 10:
			want = 2
		}
		for _, joined := range []bool{false, true} {
			edges := CaseEdges(c, joined)
			if len(edges) != want {
				t.Errorf("case %d joined=%v: expected %d pairs, got %d", c, joined, want, len(edges))
			}
			for _, p := range edges {
				if p[0] == p[1] || p[0] > EdgeLeft || p[1] > EdgeLeft {
					t.Errorf("case %d: invalid edge pair %v", c, p)
				}
			}
		}
	}
}

// TestCaseTableEdgesCrossSignChange checks that every edge a case uses joins
// one set and one unset corner.
func TestCaseTableEdgesCrossSignChange(t *testing.T) {
	cornerBit := [4]int{CornerTL, CornerTR, CornerBR, CornerBL}
	for c := 1; c < 15; c++ {
		for _, p := range CaseEdges(c, false) {
			for _, e := range p {
				a := c&cornerBit[e] != 0
				b := c&cornerBit[(e+1)%4] != 0
				if a == b {
					t.Errorf("case %d uses edge %d without a sign change", c, e)
				}
			}
		}
	}
}

func TestCrossingDegenerateEdge(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t float32
		want    float32
	}{
		{"midpoint on flat edge", 5, 5, 5, 0.5},
		{"interpolated", 0, 10, 2.5, 0.25},
		{"clamped low", 10, 20, 0, 0},
		{"clamped high", 10, 20, 30, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := crossing(tc.a, tc.b, tc.t); !approx(got, tc.want) {
				t.Errorf("crossing(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.t, got, tc.want)
			}
		})
	}
}

func TestCaseIndex(t *testing.T) {
	if got := CaseIndex([4]float32{1, 1, 1, 1}, 0.5); got != 15 {
		t.Errorf("expected case 15, got %d", got)
	}
	// Equal to threshold is outside
	if got := CaseIndex([4]float32{0.5, 0, 0, 0.6}, 0.5); got != CornerBL {
		t.Errorf("expected case %d, got %d", CornerBL, got)
	}
}

// TestContourLastRowUsesClampedSamples checks that a cell whose bottom
// samples were clamped to the last pixel row is drawn at the clamped height.
func TestContourLastRowUsesClampedSamples(t *testing.T) {
	// Stride 3 over 64 rows: the last grid row would sit at y=64 and is
	// sampled at y=63 instead.
	r := NewFieldRendererWithOptions(6, 64, Options{Threshold: 5, Stride: 3})
	if r.gridH != 22 {
		t.Fatalf("expected 22 grid rows, got %d", r.gridH)
	}
	for i := range r.grid {
		r.grid[i] = 0
	}
	last := (r.gridH - 1) * r.gridW
	for gx := 0; gx < r.gridW; gx++ {
		r.grid[last+gx] = 10
	}

	f := NewFrame(6, 64)
	r.traceContours(f)

	// Crossing halfway between y=61 and y=63
	for x := 1; x <= 4; x++ {
		if !f.Pixel(x, 62) {
			t.Errorf("expected iso-line pixel at (%d, 62)", x)
		}
	}
	for x := 0; x < 6; x++ {
		if f.Pixel(x, 63) {
			t.Errorf("unexpected pixel at (%d, 63): cell placed below its samples", x)
		}
	}
}

func TestContourRectUnevenCell(t *testing.T) {
	segs := ContourRect(nil, [4]float32{0, 0, 10, 10}, 5, 0, 0, 4, 2)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	if !approx(s.Y0, 1) || !approx(s.Y1, 1) {
		t.Errorf("expected horizontal crossing at y=1, got %+v", s)
	}
}
