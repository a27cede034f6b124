package renderer

import "testing"

func TestFrameSetPixelClips(t *testing.T) {
	f := NewFrame(10, 5)

	f.SetPixel(-1, 0)
	f.SetPixel(10, 0)
	f.SetPixel(0, 5)
	if f.Count() != 0 {
		t.Fatalf("expected out-of-range writes ignored, got %d pixels", f.Count())
	}

	f.SetPixel(9, 4)
	f.SetPixel(0, 0)
	if !f.Pixel(9, 4) || !f.Pixel(0, 0) {
		t.Error("expected corner pixels set")
	}
	if f.Pixel(8, 4) {
		t.Error("unexpected neighbour pixel set")
	}
	if f.Pixel(100, 100) {
		t.Error("out-of-range pixel reported on")
	}

	f.Clear()
	if f.Count() != 0 {
		t.Errorf("expected empty frame after Clear, got %d", f.Count())
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 2, 9, 2, 10},
		{"vertical", 3, 0, 3, 4, 5},
		{"diagonal", 0, 0, 4, 4, 5},
		{"reversed", 4, 4, 0, 0, 5},
		{"single point", 2, 2, 2, 2, 1},
		{"clipped", -5, 1, 20, 1, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFrame(10, 5)
			f.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1)
			if got := f.Count(); got != tc.want {
				t.Errorf("expected %d pixels, got %d", tc.want, got)
			}
			if tc.x0 >= 0 && !f.Pixel(tc.x0, tc.y0) {
				t.Error("start point not drawn")
			}
		})
	}
}

func TestFillAndOutline(t *testing.T) {
	f := NewFrame(16, 8)
	f.FillRect(-2, -2, 5, 4)
	if got := f.Count(); got != 3*2 {
		t.Errorf("expected clipped fill of 6 pixels, got %d", got)
	}

	f.Clear()
	f.DrawRect(0, 0, 16, 8)
	if got := f.Count(); got != 2*16+2*6 {
		t.Errorf("expected 44 outline pixels, got %d", got)
	}

	f.Clear()
	f.DrawRoundRect(0, 0, 16, 8, BorderRadius)
	if f.Pixel(0, 0) || f.Pixel(15, 7) {
		t.Error("expected rounded corners to leave the corner pixel off")
	}
	if !f.Pixel(8, 0) || !f.Pixel(0, 4) || !f.Pixel(15, 4) || !f.Pixel(8, 7) {
		t.Error("expected straight edges drawn")
	}
}

func TestFrameEqualCopy(t *testing.T) {
	a := NewFrame(12, 6)
	b := NewFrame(12, 6)
	a.DrawLine(0, 0, 11, 5)
	if a.Equal(b) {
		t.Fatal("expected frames to differ")
	}
	b.CopyFrom(a)
	if !a.Equal(b) {
		t.Error("expected frames equal after CopyFrom")
	}
	if a.Equal(NewFrame(6, 12)) {
		t.Error("frames of different size reported equal")
	}
}

func TestPackPages(t *testing.T) {
	f := NewFrame(4, 16)
	f.SetPixel(0, 0)  // page 0, bit 0
	f.SetPixel(0, 7)  // page 0, bit 7
	f.SetPixel(3, 9)  // page 1, bit 1
	f.SetPixel(2, 15) // page 1, bit 7

	got := f.PackPages(nil)
	want := []byte{
		0x81, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x80, 0x02,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %#02x, want %#02x", i, got[i], want[i])
		}
	}

	buf := make([]byte, 0, 64)
	if out := f.PackPages(buf); &out[0] != &buf[:1][0] {
		t.Error("expected PackPages to reuse a large enough buffer")
	}
}

func TestToGray(t *testing.T) {
	f := NewFrame(3, 2)
	f.SetPixel(1, 1)
	img := f.ToGray()
	if img.GrayAt(1, 1).Y != 255 || img.GrayAt(0, 0).Y != 0 {
		t.Errorf("unexpected gray values: %v %v", img.GrayAt(1, 1), img.GrayAt(0, 0))
	}
}
