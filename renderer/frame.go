// Package renderer turns particle snapshots into 1-bit frames.
package renderer

import (
	"bytes"
	"image"
	"image/color"
)

// Frame is a packed monochrome canvas, one bit per pixel, row-major with the
// most significant bit leftmost. All drawing clips to the frame.
type Frame struct {
	W, H   int
	stride int // bytes per row
	bits   []byte
}

// NewFrame allocates a cleared w x h frame.
func NewFrame(w, h int) *Frame {
	stride := (w + 7) / 8
	return &Frame{
		W:      w,
		H:      h,
		stride: stride,
		bits:   make([]byte, stride*h),
	}
}

// Clear turns every pixel off.
func (f *Frame) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
}

// SetPixel turns pixel (x, y) on. Out-of-range pixels are ignored.
func (f *Frame) SetPixel(x, y int) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return
	}
	f.bits[y*f.stride+x>>3] |= 0x80 >> uint(x&7)
}

// Pixel reports whether pixel (x, y) is on. Out-of-range pixels are off.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return false
	}
	return f.bits[y*f.stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// DrawLine draws a line between two points (Bresenham).
func (f *Frame) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		f.SetPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect turns on every pixel of the w x h rectangle at (x, y).
func (f *Frame) FillRect(x, y, w, h int) {
	x0, y0 := maxInt(x, 0), maxInt(y, 0)
	x1, y1 := minInt(x+w, f.W), minInt(y+h, f.H)
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			f.SetPixel(xx, yy)
		}
	}
}

// DrawRect outlines the w x h rectangle at (x, y).
func (f *Frame) DrawRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	f.DrawLine(x, y, x+w-1, y)
	f.DrawLine(x, y+h-1, x+w-1, y+h-1)
	f.DrawLine(x, y, x, y+h-1)
	f.DrawLine(x+w-1, y, x+w-1, y+h-1)
}

// DrawRoundRect outlines the w x h rectangle at (x, y) with corners of
// radius r.
func (f *Frame) DrawRoundRect(x, y, w, h, r int) {
	if w <= 0 || h <= 0 {
		return
	}
	if maxR := minInt(w, h) / 2; r > maxR {
		r = maxR
	}
	if r <= 0 {
		f.DrawRect(x, y, w, h)
		return
	}

	// Straight edges
	f.DrawLine(x+r, y, x+w-1-r, y)
	f.DrawLine(x+r, y+h-1, x+w-1-r, y+h-1)
	f.DrawLine(x, y+r, x, y+h-1-r)
	f.DrawLine(x+w-1, y+r, x+w-1, y+h-1-r)

	// Corner arcs (midpoint circle, one octant pair per corner)
	cxL, cxR := x+r, x+w-1-r
	cyT, cyB := y+r, y+h-1-r
	px, py := r, 0
	d := 1 - r
	for px >= py {
		f.SetPixel(cxR+px, cyB+py)
		f.SetPixel(cxR+py, cyB+px)
		f.SetPixel(cxL-py, cyB+px)
		f.SetPixel(cxL-px, cyB+py)
		f.SetPixel(cxL-px, cyT-py)
		f.SetPixel(cxL-py, cyT-px)
		f.SetPixel(cxR+py, cyT-px)
		f.SetPixel(cxR+px, cyT-py)
		py++
		if d < 0 {
			d += 2*py + 1
		} else {
			px--
			d += 2*(py-px) + 1
		}
	}
}

// Count returns the number of pixels that are on.
func (f *Frame) Count() int {
	n := 0
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

// Equal reports whether two frames have the same size and pixels.
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || f.W != o.W || f.H != o.H {
		return false
	}
	return bytes.Equal(f.bits, o.bits)
}

// CopyFrom copies the pixels of a same-sized frame.
func (f *Frame) CopyFrom(o *Frame) {
	if o.W != f.W || o.H != f.H {
		return
	}
	copy(f.bits, o.bits)
}

// Bytes returns the packed rows. Callers must not modify it.
func (f *Frame) Bytes() []byte {
	return f.bits
}

// ToGray converts the frame to an 8-bit image, on = 255.
func (f *Frame) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.Pixel(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// PackPages writes the frame in SSD1306 page order: one byte per column per
// 8-row page, least significant bit on top. dst is reused when large enough.
func (f *Frame) PackPages(dst []byte) []byte {
	pages := (f.H + 7) / 8
	n := pages * f.W
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for p := 0; p < pages; p++ {
		for x := 0; x < f.W; x++ {
			var b byte
			for k := 0; k < 8; k++ {
				if f.Pixel(x, p*8+k) {
					b |= 1 << uint(k)
				}
			}
			dst[p*f.W+x] = b
		}
	}
	return dst
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
