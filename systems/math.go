package systems

import "math"

// Clamp functions for common value ranges

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampInt clamps an int between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// sqrt32 is math.Sqrt for float32.
func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// floor32 is math.Floor for float32.
func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

// copysign32 returns a value with the magnitude of mag and the sign of sign.
// A zero sign counts as positive.
func copysign32(mag, sign float32) float32 {
	if sign < 0 {
		return -float32(math.Abs(float64(mag)))
	}
	return float32(math.Abs(float64(mag)))
}

// randRange returns a uniform float32 in [lo, hi).
func randRange(r interface{ Float32() float32 }, lo, hi float32) float32 {
	return lo + (hi-lo)*r.Float32()
}
