package systems

import (
	"sort"
	"testing"
)

func newTestIndex(capacity int) *SpatialIndex {
	// 30x30 world with 10px cells gives a 4x4 grid (one spare row/col).
	return NewSpatialIndex(30, 30, 10, capacity, 8, 16, 0)
}

// TestNeighborsCoveredSubset places five particles in a 3x3 block of cells
// and checks that only the two within range of the centre are returned.
func TestNeighborsCoveredSubset(t *testing.T) {
	idx := newTestIndex(5)
	pts := [][2]float32{
		{15, 15}, // 0: centre
		{15, 12}, // 1: 3 away
		{18, 15}, // 2: 3 away
		{15, 25}, // 3: 10 away, cell below
		{5, 15},  // 4: 10 away, cell left
	}
	idx.Rebuild(len(pts), func(i int) (float32, float32) { return pts[i][0], pts[i][1] })

	got := idx.Neighbors(nil, 0, 16)
	sort.Ints(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected neighbors [1 2], got %v", got)
	}

	// Wider threshold reaches all four
	got = idx.Neighbors(got[:0], 0, 101)
	if len(got) != 4 {
		t.Errorf("expected 4 neighbors at wide range, got %v", got)
	}
}

func TestNeighborsMargin(t *testing.T) {
	idx := NewSpatialIndex(30, 30, 10, 2, 8, 16, 2)
	pts := [][2]float32{{15, 15}, {19, 15}}
	idx.Rebuild(len(pts), func(i int) (float32, float32) { return pts[i][0], pts[i][1] })

	// 16 is not below 16, but is below 16 + margin
	if got := idx.Neighbors(nil, 0, 16); len(got) != 1 {
		t.Errorf("expected margin to admit boundary neighbor, got %v", got)
	}
}

// TestNeighborsBeyondAdjacentCells queries a radius wider than a cell and
// expects pairs two and three cells away to be found.
func TestNeighborsBeyondAdjacentCells(t *testing.T) {
	idx := NewSpatialIndex(60, 20, 10, 4, 8, 16, 0)
	pts := [][2]float32{
		{5, 5},  // 0: cell (0, 0)
		{28, 5}, // 1: cell (2, 0), 23 away
		{38, 5}, // 2: cell (3, 0), 33 away
		{55, 5}, // 3: cell (5, 0), 50 away
	}
	idx.Rebuild(len(pts), func(i int) (float32, float32) { return pts[i][0], pts[i][1] })

	tests := []struct {
		name  string
		reach float32
		want  []int
	}{
		{"two cells", 25, []int{1}},
		{"three cells", 35, []int{1, 2}},
		{"whole row", 60, []int{1, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := idx.Neighbors(nil, 0, tc.reach*tc.reach)
			sort.Ints(got)
			if len(got) != len(tc.want) {
				t.Fatalf("Neighbors within %v = %v, want %v", tc.reach, got, tc.want)
			}
			for k := range got {
				if got[k] != tc.want[k] {
					t.Fatalf("Neighbors within %v = %v, want %v", tc.reach, got, tc.want)
				}
			}
		})
	}
}

func TestCellOfClamps(t *testing.T) {
	idx := newTestIndex(1)
	cols, rows := idx.GridSize()

	tests := []struct {
		name             string
		x, y             float32
		wantCol, wantRow int
	}{
		{"inside", 12, 25, 1, 2},
		{"negative", -40, -1, 0, 0},
		{"beyond", 500, 500, cols - 1, rows - 1},
		{"edge", 30, 0, 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col, row := idx.CellOf(tc.x, tc.y)
			if col != tc.wantCol || row != tc.wantRow {
				t.Errorf("CellOf(%v, %v) = (%d, %d), want (%d, %d)", tc.x, tc.y, col, row, tc.wantCol, tc.wantRow)
			}
		})
	}
}

func TestInsertOverflowDrops(t *testing.T) {
	idx := NewSpatialIndex(30, 30, 10, 6, 4, 16, 0)
	idx.Rebuild(6, func(i int) (float32, float32) { return 5, 5 })

	if got := idx.CellCount(0, 0); got != 4 {
		t.Errorf("expected full cell of 4, got %d", got)
	}
	if idx.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", idx.Dropped())
	}

	// Dropped particles still query from their recorded position
	if got := idx.Neighbors(nil, 5, 1); len(got) != 4 {
		t.Errorf("expected 4 neighbors for dropped particle, got %v", got)
	}

	idx.Clear()
	if idx.Dropped() != 0 || idx.CellCount(0, 0) != 0 {
		t.Error("expected Clear to reset counts")
	}
}

func TestNeighborsCap(t *testing.T) {
	idx := NewSpatialIndex(30, 30, 10, 10, 16, 3, 0)
	idx.Rebuild(10, func(i int) (float32, float32) { return 15, 15 })

	got := idx.Neighbors(nil, 0, 1)
	if len(got) != 3 {
		t.Fatalf("expected result capped at 3, got %d", len(got))
	}
	for _, j := range got {
		if j == 0 {
			t.Error("query particle returned as its own neighbor")
		}
	}
	if idx.Truncated() != 1 {
		t.Errorf("expected 1 truncated query, got %d", idx.Truncated())
	}
}

func TestNeighborsNoAlloc(t *testing.T) {
	idx := newTestIndex(8)
	idx.Rebuild(8, func(i int) (float32, float32) { return float32(i * 3), 15 })
	buf := make([]int, 0, 16)

	allocs := testing.AllocsPerRun(100, func() {
		buf = idx.Neighbors(buf[:0], 3, 100)
	})
	if allocs != 0 {
		t.Errorf("expected zero allocations, got %v", allocs)
	}
}

func BenchmarkSpatialRebuildNeighbors(b *testing.B) {
	const n = 32
	idx := NewSpatialIndex(128, 64, 48, n, 12, 16, 4)
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i := range xs {
		xs[i] = float32((i * 37) % 128)
		ys[i] = float32((i * 11) % 64)
	}
	pos := func(i int) (float32, float32) { return xs[i], ys[i] }
	buf := make([]int, 0, 16)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		idx.Rebuild(len(xs), pos)
		for i := range xs {
			buf = idx.Neighbors(buf[:0], i, 900)
		}
	}
}
