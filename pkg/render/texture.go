package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// Texture holds a 2D image sampled per hit point. Voxel faces use
// nearest-neighbor sampling to keep the blocky look.
type Texture struct {
	Width  int
	Height int
	Pixels []Color  // Row-major pixel data
	WrapU  WrapMode // Horizontal wrap mode
	WrapV  WrapMode // Vertical wrap mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		WrapU:  WrapRepeat,
		WrapV:  WrapRepeat,
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return tex, nil
}

// NewBlockTexture creates a procedural fallback texture used when no texture
// file is supplied: a noisy checker with a sprinkling of fully transparent
// texels so leaf and flower blocks still get their alpha cutouts.
func NewBlockTexture(size int, c1, c2 Color) *Texture {
	tex := NewTexture(size, size)
	for y := range size {
		for x := range size {
			c := c1
			if (x/4+y/4)%2 == 1 {
				c = c2
			}
			// Deterministic speckle, no RNG: hash the texel position.
			h := uint32(x*73856093) ^ uint32(y*19349663)
			h = (h ^ (h >> 13)) * 0x5bd1e995
			switch h % 11 {
			case 0:
				c = Color{} // transparent cutout
			case 1, 2:
				c = lerpColor(c, ColorBlack, 0.25)
			}
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates (0-1 range) with
// nearest-neighbor filtering.
func (t *Texture) Sample(u, v float64) Color {
	u = t.wrapCoord(u, t.WrapU)
	v = t.wrapCoord(v, t.WrapV)

	// Flip V coordinate (image Y=0 at top, UV V=0 at bottom)
	v = 1.0 - v

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.GetPixel(x, y)
}

// wrapCoord applies the wrap mode to a coordinate.
func (t *Texture) wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		coord = coord - math.Floor(coord) // fmod to [0,1)
	case WrapClamp:
		coord = math.Max(0, math.Min(1, coord))
	}
	return coord
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// MultiplyColor multiplies a color by a scalar (for lighting).
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, math.Max(0, float64(c.R)*intensity))),
		G: uint8(math.Min(255, math.Max(0, float64(c.G)*intensity))),
		B: uint8(math.Min(255, math.Max(0, float64(c.B)*intensity))),
		A: c.A,
	}
}

// ModulateColor modulates one color by another (texture * base color).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// AddColor adds two colors with saturation.
func AddColor(a, b Color) Color {
	return Color{
		R: uint8(min(255, int(a.R)+int(b.R))),
		G: uint8(min(255, int(a.G)+int(b.G))),
		B: uint8(min(255, int(a.B)+int(b.B))),
		A: 255,
	}
}
