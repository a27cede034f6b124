// Package camera maps the logical frame onto a host window.
package camera

// Viewport letterboxes a FrameW x FrameH frame into a window at the largest
// integer scale that fits, centred.
type Viewport struct {
	// Logical frame size in gadget pixels
	FrameW, FrameH int

	// Window size in host pixels
	WindowW, WindowH int

	// Derived placement
	Scale            int
	OffsetX, OffsetY int
}

// New creates a viewport for a frame shown in a window.
func New(frameW, frameH, windowW, windowH int) *Viewport {
	v := &Viewport{FrameW: frameW, FrameH: frameH}
	v.Resize(windowW, windowH)
	return v
}

// Resize recomputes scale and offsets for a new window size. The scale never
// drops below 1; a window smaller than the frame crops it.
func (v *Viewport) Resize(windowW, windowH int) {
	v.WindowW = windowW
	v.WindowH = windowH

	scale := 1
	if v.FrameW > 0 && v.FrameH > 0 {
		sx := windowW / v.FrameW
		sy := windowH / v.FrameH
		scale = sx
		if sy < scale {
			scale = sy
		}
		if scale < 1 {
			scale = 1
		}
	}
	v.Scale = scale
	v.OffsetX = (windowW - v.FrameW*scale) / 2
	v.OffsetY = (windowH - v.FrameH*scale) / 2
}

// FrameToScreen returns the window position of the top-left corner of frame
// pixel (x, y).
func (v *Viewport) FrameToScreen(x, y int) (sx, sy int) {
	return v.OffsetX + x*v.Scale, v.OffsetY + y*v.Scale
}

// ScreenToFrame returns the frame pixel under a window position and whether
// it lies inside the frame.
func (v *Viewport) ScreenToFrame(sx, sy int) (x, y int, ok bool) {
	dx := sx - v.OffsetX
	dy := sy - v.OffsetY
	if dx < 0 || dy < 0 {
		return -1, -1, false
	}
	x = dx / v.Scale
	y = dy / v.Scale
	return x, y, x < v.FrameW && y < v.FrameH
}

// Size returns the scaled frame size in host pixels.
func (v *Viewport) Size() (w, h int) {
	return v.FrameW * v.Scale, v.FrameH * v.Scale
}
