// Package systems provides the simulation systems: the particle system, its
// spatial index and the thermal field it exchanges heat with.
package systems

// SpatialIndex buckets particle indices into a uniform grid of fixed-capacity
// cells. It is rebuilt from scratch every tick and keeps its own copy of the
// positions it was built from.
type SpatialIndex struct {
	cellSize     float32
	cols         int
	rows         int
	maxPerCell   int
	maxNeighbors int
	margin       float32

	cells  []int // cols*rows*maxPerCell slots
	counts []int // occupancy per cell

	xs, ys []float32 // position at insert time, by particle index
	cellOf []int     // cell of each inserted particle, -1 if dropped

	dropped   int
	truncated int
}

// NewSpatialIndex creates an index covering width x height. All storage is
// sized here; Insert and Neighbors never allocate when dst has room.
func NewSpatialIndex(width, height, cellSize float32, capacity, maxPerCell, maxNeighbors int, margin float32) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cellOf := make([]int, capacity)
	for i := range cellOf {
		cellOf[i] = -1
	}

	return &SpatialIndex{
		cellSize:     cellSize,
		cols:         cols,
		rows:         rows,
		maxPerCell:   maxPerCell,
		maxNeighbors: maxNeighbors,
		margin:       margin,
		cells:        make([]int, cols*rows*maxPerCell),
		counts:       make([]int, cols*rows),
		xs:           make([]float32, capacity),
		ys:           make([]float32, capacity),
		cellOf:       cellOf,
	}
}

// Clear empties every cell and resets the per-build counters.
func (s *SpatialIndex) Clear() {
	for i := range s.counts {
		s.counts[i] = 0
	}
	for i := range s.cellOf {
		s.cellOf[i] = -1
	}
	s.dropped = 0
	s.truncated = 0
}

// Insert records particle i at (x, y). Indices outside the index capacity
// and entries beyond a full cell are dropped and counted.
func (s *SpatialIndex) Insert(i int, x, y float32) {
	if i < 0 || i >= len(s.cellOf) {
		s.dropped++
		return
	}
	s.xs[i] = x
	s.ys[i] = y

	col, row := s.CellOf(x, y)
	idx := row*s.cols + col
	n := s.counts[idx]
	if n >= s.maxPerCell {
		s.dropped++
		s.cellOf[i] = -1
		return
	}
	s.cells[idx*s.maxPerCell+n] = i
	s.counts[idx] = n + 1
	s.cellOf[i] = idx
}

// Rebuild clears the index and inserts particles 0..n-1 using pos.
func (s *SpatialIndex) Rebuild(n int, pos func(i int) (x, y float32)) {
	s.Clear()
	for i := 0; i < n; i++ {
		x, y := pos(i)
		s.Insert(i, x, y)
	}
}

// Neighbors appends to dst the indices j != i whose squared distance from
// particle i is below maxDistSq plus the index margin. It scans as many rings
// of cells around i's cell as that distance can reach, so cells smaller than
// the query radius still return every pair in range. At most maxNeighbors
// indices are appended per call.
func (s *SpatialIndex) Neighbors(dst []int, i int, maxDistSq float32) []int {
	if i < 0 || i >= len(s.cellOf) {
		return dst
	}
	x, y := s.xs[i], s.ys[i]
	col, row := s.CellOf(x, y)
	limit := maxDistSq + s.margin
	found := 0

	rings := 1
	if limit > 0 {
		rings = int(floor32(sqrt32(limit)/s.cellSize)) + 1
	}
	if span := max(s.cols, s.rows); rings > span {
		rings = span
	}

	for r := max(row-rings, 0); r <= min(row+rings, s.rows-1); r++ {
		for c := max(col-rings, 0); c <= min(col+rings, s.cols-1); c++ {
			idx := r*s.cols + c
			base := idx * s.maxPerCell
			for k := 0; k < s.counts[idx]; k++ {
				j := s.cells[base+k]
				if j == i {
					continue
				}
				if distanceSq(x, y, s.xs[j], s.ys[j]) >= limit {
					continue
				}
				if found >= s.maxNeighbors {
					s.truncated++
					return dst
				}
				dst = append(dst, j)
				found++
			}
		}
	}
	return dst
}

// CellOf returns the grid cell for a position, clamped into the grid.
func (s *SpatialIndex) CellOf(x, y float32) (col, row int) {
	col = clampInt(int(floor32(x/s.cellSize)), 0, s.cols-1)
	row = clampInt(int(floor32(y/s.cellSize)), 0, s.rows-1)
	return col, row
}

// GridSize returns the number of columns and rows.
func (s *SpatialIndex) GridSize() (cols, rows int) {
	return s.cols, s.rows
}

// CellCount returns the number of particles stored in cell (col, row).
func (s *SpatialIndex) CellCount(col, row int) int {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return 0
	}
	return s.counts[row*s.cols+col]
}

// Dropped reports how many inserts overflowed a cell since the last Clear.
func (s *SpatialIndex) Dropped() int { return s.dropped }

// Truncated reports how many neighbor queries hit the result cap since the
// last Clear.
func (s *SpatialIndex) Truncated() int { return s.truncated }
