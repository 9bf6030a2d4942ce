package render

import (
	"testing"

	"github.com/voxterm/voxterm/pkg/scene"
)

func TestSampleWrapRepeat(t *testing.T) {
	tex := NewTexture(4, 4)
	tex.SetPixel(1, 2, RGB(255, 0, 0))

	base := tex.Sample(0.3, 0.3)
	for _, uv := range [][2]float64{{1.3, 0.3}, {-0.7, 0.3}, {0.3, 2.3}, {5.3, -1.7}} {
		if got := tex.Sample(uv[0], uv[1]); got != base {
			t.Errorf("Sample(%v, %v) = %v, want %v (repeat wrap)", uv[0], uv[1], got, base)
		}
	}
}

func TestSampleWrapClamp(t *testing.T) {
	tex := NewTexture(4, 4)
	tex.WrapU = WrapClamp
	tex.WrapV = WrapClamp
	edge := RGB(0, 255, 0)
	tex.SetPixel(3, 0, edge) // u=1, v=1 corner after the V flip

	if got := tex.Sample(7.0, 9.0); got != edge {
		t.Errorf("clamped sample = %v, want edge texel %v", got, edge)
	}
}

func TestBlockTextureHasCutouts(t *testing.T) {
	tex := NewBlockTexture(16, RGB(200, 200, 200), RGB(100, 100, 100))

	transparent := 0
	opaque := 0
	for _, p := range tex.Pixels {
		if p.A < scene.FoliageAlphaThreshold {
			transparent++
		} else {
			opaque++
		}
	}
	if transparent == 0 {
		t.Error("fallback texture has no transparent texels for foliage cutouts")
	}
	if opaque == 0 {
		t.Error("fallback texture is fully transparent")
	}
}

func TestModulateAndMultiply(t *testing.T) {
	white := RGB(255, 255, 255)
	half := RGB(128, 128, 128)

	if got := ModulateColor(white, half); got.R != 128 {
		t.Errorf("modulate = %v", got)
	}
	if got := MultiplyColor(white, 0.5); got.R < 126 || got.R > 128 {
		t.Errorf("multiply = %v", got)
	}
	// Saturation, not overflow.
	if got := AddColor(RGB(200, 200, 200), RGB(100, 100, 100)); got.R != 255 {
		t.Errorf("add = %v", got)
	}
}
