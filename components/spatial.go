package components

// Position represents a particle's position in frame pixels.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in pixels per second.
type Velocity struct {
	X, Y float32
}
