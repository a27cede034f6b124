package renderer

import "math"

// Corner bits of a marching-squares case index.
const (
	CornerTL = 8
	CornerTR = 4
	CornerBR = 2
	CornerBL = 1
)

// Cell edges. Each edge runs between two corners in clockwise order.
const (
	EdgeTop    = 0 // TL -> TR
	EdgeRight  = 1 // TR -> BR
	EdgeBottom = 2 // BR -> BL
	EdgeLeft   = 3 // BL -> TL
)

// EdgePair joins the crossings on two cell edges.
type EdgePair [2]uint8

// caseTable lists the edge pairs drawn for each case. The saddles (5, 10)
// keep the two set corners apart.
var caseTable = [16][]EdgePair{
	0:  nil,
	1:  {{EdgeLeft, EdgeBottom}},
	2:  {{EdgeRight, EdgeBottom}},
	3:  {{EdgeLeft, EdgeRight}},
	4:  {{EdgeTop, EdgeRight}},
	5:  {{EdgeTop, EdgeRight}, {EdgeLeft, EdgeBottom}},
	6:  {{EdgeTop, EdgeBottom}},
	7:  {{EdgeLeft, EdgeTop}},
	8:  {{EdgeTop, EdgeLeft}},
	9:  {{EdgeTop, EdgeBottom}},
	10: {{EdgeTop, EdgeLeft}, {EdgeRight, EdgeBottom}},
	11: {{EdgeTop, EdgeRight}},
	12: {{EdgeLeft, EdgeRight}},
	13: {{EdgeRight, EdgeBottom}},
	14: {{EdgeLeft, EdgeBottom}},
	15: nil,
}

// saddleJoined replaces the saddle entries when the cell centre is inside the
// surface, so the two set corners connect through it.
var saddleJoined = [16][]EdgePair{
	5:  {{EdgeLeft, EdgeTop}, {EdgeRight, EdgeBottom}},
	10: {{EdgeTop, EdgeRight}, {EdgeLeft, EdgeBottom}},
}

// CaseEdges returns the edge pairs for a case index. joined selects the
// alternate saddle pairing.
func CaseEdges(c int, joined bool) []EdgePair {
	if c < 0 || c > 15 {
		return nil
	}
	if joined && saddleJoined[c] != nil {
		return saddleJoined[c]
	}
	return caseTable[c]
}

// CaseIndex classifies corners (TL, TR, BR, BL) against a threshold.
func CaseIndex(corners [4]float32, threshold float32) int {
	c := 0
	if corners[0] > threshold {
		c |= CornerTL
	}
	if corners[1] > threshold {
		c |= CornerTR
	}
	if corners[2] > threshold {
		c |= CornerBR
	}
	if corners[3] > threshold {
		c |= CornerBL
	}
	return c
}

// Segment is a line between two edge crossings, in frame coordinates.
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// ContourCell appends the iso-line segments of one square cell to dst.
// corners are the samples at (TL, TR, BR, BL); the cell spans size pixels
// from (x, y).
func ContourCell(dst []Segment, corners [4]float32, threshold, x, y, size float32) []Segment {
	return ContourRect(dst, corners, threshold, x, y, x+size, y+size)
}

// ContourRect is ContourCell for a cell spanning (x0, y0) to (x1, y1). Cells
// on the frame edge are shorter when their samples were clamped inside.
func ContourRect(dst []Segment, corners [4]float32, threshold, x0, y0, x1, y1 float32) []Segment {
	c := CaseIndex(corners, threshold)
	pairs := caseTable[c]
	if pairs == nil {
		return dst
	}
	if c == 5 || c == 10 {
		mean := (corners[0] + corners[1] + corners[2] + corners[3]) / 4
		pairs = CaseEdges(c, mean > threshold)
	}

	cx := [4]float32{x0, x1, x1, x0}
	cy := [4]float32{y0, y0, y1, y1}
	for _, p := range pairs {
		ax, ay := edgePoint(p[0], corners, threshold, &cx, &cy)
		bx, by := edgePoint(p[1], corners, threshold, &cx, &cy)
		dst = append(dst, Segment{X0: ax, Y0: ay, X1: bx, Y1: by})
	}
	return dst
}

// edgePoint returns where the iso-line crosses edge e. Edge e runs from
// corner e to corner e+1, clockwise from TL.
func edgePoint(e uint8, corners [4]float32, threshold float32, cx, cy *[4]float32) (float32, float32) {
	i, j := int(e), int(e+1)%4
	t := crossing(corners[i], corners[j], threshold)
	return cx[i] + (cx[j]-cx[i])*t, cy[i] + (cy[j]-cy[i])*t
}

// crossing returns the fraction along a->b where the threshold is met,
// clamped to [0, 1]. A flat edge crosses at its midpoint.
func crossing(a, b, threshold float32) float32 {
	d := b - a
	if d < 1e-6 && d > -1e-6 {
		return 0.5
	}
	t := (threshold - a) / d
	if t < 0 || math.IsNaN(float64(t)) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// renderContour samples the field on a coarse grid and draws the iso-lines.
func (r *FieldRenderer) renderContour(dst *Frame, blobs []Blob) {
	gw, gh := r.gridW, r.gridH
	for gy := 0; gy < gh; gy++ {
		sy := r.samplePos(gy, dst.H)
		for gx := 0; gx < gw; gx++ {
			sx := r.samplePos(gx, dst.W)
			r.grid[gy*gw+gx] = r.opts.Influence.Sample(blobs, float32(sx), float32(sy))
		}
	}
	r.traceContours(dst)
}

// samplePos is the pixel coordinate of grid line g: the stride centre,
// clamped to the last pixel.
func (r *FieldRenderer) samplePos(g, limit int) int {
	s := r.opts.Stride
	return minInt(g*s+s/2, limit-1)
}

// traceContours draws the iso-lines of the sampled grid. Cells are placed at
// the same clamped positions the samples were taken from.
func (r *FieldRenderer) traceContours(dst *Frame) {
	gw, gh := r.gridW, r.gridH
	for gy := 0; gy < gh-1; gy++ {
		y0 := float32(r.samplePos(gy, dst.H))
		y1 := float32(r.samplePos(gy+1, dst.H))
		for gx := 0; gx < gw-1; gx++ {
			x0 := float32(r.samplePos(gx, dst.W))
			x1 := float32(r.samplePos(gx+1, dst.W))
			i := gy*gw + gx
			corners := [4]float32{r.grid[i], r.grid[i+1], r.grid[i+gw+1], r.grid[i+gw]}
			r.segments = ContourRect(r.segments[:0], corners, r.opts.Threshold, x0, y0, x1, y1)
			for _, seg := range r.segments {
				dst.DrawLine(roundPx(seg.X0), roundPx(seg.Y0), roundPx(seg.X1), roundPx(seg.Y1))
			}
		}
	}
}

func roundPx(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}
