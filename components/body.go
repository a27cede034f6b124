package components

// Body holds physical properties of a particle.
type Body struct {
	Radius      float32
	Mass        float32 // Fixed at spawn from the spawn radius
	RadiusDrift float32 // Per-tick radius change in drift mode
}
