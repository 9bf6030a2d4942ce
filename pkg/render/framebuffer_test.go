package render

import (
	"testing"
)

func TestBandsCoverExactly(t *testing.T) {
	tests := []struct {
		name   string
		height int
		n      int
	}{
		{"even split", 48, 4},
		{"uneven split", 50, 4},
		{"single band", 48, 1},
		{"more bands than rows", 5, 16},
		{"zero workers clamps to one", 48, 0},
		{"negative workers clamps to one", 48, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(10, tt.height)
			bands := fb.Bands(tt.n)

			covered := make([]int, tt.height)
			prevEnd := 0
			for _, b := range bands {
				if b.Y1 <= b.Y0 {
					t.Fatalf("empty band %+v", b)
				}
				if b.Y0 != prevEnd {
					t.Fatalf("band %+v does not start where the previous ended (%d)", b, prevEnd)
				}
				for y := b.Y0; y < b.Y1; y++ {
					covered[y]++
				}
				prevEnd = b.Y1
			}
			if prevEnd != tt.height {
				t.Fatalf("bands end at %d, want %d", prevEnd, tt.height)
			}
			for y, c := range covered {
				if c != 1 {
					t.Fatalf("row %d covered %d times", y, c)
				}
			}
		})
	}
}

func TestSetGetPixelBounds(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	red := RGB(255, 0, 0)

	fb.SetPixel(2, 3, red)
	if got := fb.GetPixel(2, 3); got != red {
		t.Errorf("GetPixel = %v, want %v", got, red)
	}

	// Out of bounds writes are dropped, reads return zero.
	fb.SetPixel(-1, 0, red)
	fb.SetPixel(4, 0, red)
	fb.SetPixel(0, 4, red)
	if got := fb.GetPixel(7, 7); got != (Color{}) {
		t.Errorf("out-of-bounds GetPixel = %v, want zero", got)
	}
}

func TestClear(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	bg := RGB(30, 30, 40)
	fb.Clear(bg)
	for i, p := range fb.Pixels {
		if p != bg {
			t.Fatalf("pixel %d = %v after clear", i, p)
		}
	}
}
