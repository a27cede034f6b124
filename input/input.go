// Package input turns the gadget's single button into reset taps.
package input

// Button debounces a raw button level into taps. A tap fires once when the
// button has been held steadily for the tap time, and re-arms on release.
type Button struct {
	TapTime float64 // Seconds the level must be stable

	last       bool
	lastChange float64
	handled    bool
}

// NewButton creates a debounced button.
func NewButton(tapTime float64) *Button {
	return &Button{TapTime: tapTime}
}

// Update feeds the current level at time now (seconds) and reports whether a
// tap fired.
func (b *Button) Update(pressed bool, now float64) bool {
	if pressed != b.last {
		b.last = pressed
		b.lastChange = now
	}
	if now-b.lastChange < b.TapTime {
		return false
	}
	if pressed && !b.handled {
		b.handled = true
		return true
	}
	if !pressed {
		b.handled = false
	}
	return false
}

// Timer fires every Interval seconds of accumulated time. A zero interval
// never fires.
type Timer struct {
	Interval float64

	acc float64
}

// NewTimer creates a timer.
func NewTimer(interval float64) *Timer {
	return &Timer{Interval: interval}
}

// Update advances the timer by dt and reports whether it fired.
func (t *Timer) Update(dt float64) bool {
	if t.Interval <= 0 {
		return false
	}
	t.acc += dt
	if t.acc >= t.Interval {
		t.acc -= t.Interval
		if t.acc >= t.Interval {
			t.acc = 0
		}
		return true
	}
	return false
}

// Reset restarts the interval.
func (t *Timer) Reset() {
	t.acc = 0
}
