// Package components defines ECS components for the particle simulation.
package components

// Thermal holds a particle's scalar attribute (temperature).
type Thermal struct {
	Temp float32
}

// TrailLength is the number of recent positions kept per particle.
const TrailLength = 4

// Trail is a fixed ring buffer of recent positions, newest first on read.
type Trail struct {
	X, Y [TrailLength]float32
	head uint8
	n    uint8
}

// Push records a position, overwriting the oldest once full.
func (t *Trail) Push(x, y float32) {
	t.X[t.head] = x
	t.Y[t.head] = y
	t.head = (t.head + 1) % TrailLength
	if t.n < TrailLength {
		t.n++
	}
}

// Len returns the number of recorded positions.
func (t *Trail) Len() int { return int(t.n) }

// At returns the i-th most recent position (0 = newest).
func (t *Trail) At(i int) (x, y float32) {
	idx := (int(t.head) - 1 - i + 2*TrailLength) % TrailLength
	return t.X[idx], t.Y[idx]
}

// Reset forgets all recorded positions.
func (t *Trail) Reset() {
	*t = Trail{}
}
