// Package scene holds the static voxel diorama and its day/night simulation.
package scene

// MaterialTag selects the shading model for a primitive.
type MaterialTag int

const (
	// OpaqueBlock is fully opaque, lit by ambient + directional sun term.
	OpaqueBlock MaterialTag = iota
	// Glass blends the shaded surface over whatever lies behind it.
	Glass
	// Foliage is opaque but texture-mapped and alpha-tested: transparent
	// texels leave no pixel and no depth.
	Foliage
	// Portal is blended like glass, samples the texture at uv+offset, and
	// adds a constant emissive glow independent of ambient light.
	Portal
)

// String returns the tag name for diagnostics.
func (t MaterialTag) String() string {
	switch t {
	case OpaqueBlock:
		return "opaque"
	case Glass:
		return "glass"
	case Foliage:
		return "foliage"
	case Portal:
		return "portal"
	}
	return "unknown"
}

// Shading constants shared by the raycaster.
const (
	// GlassAlpha is the blend weight of the shaded glass surface over the
	// background.
	GlassAlpha = 0.35

	// PortalAlpha is the blend weight of the shaded portal surface.
	PortalAlpha = 0.6

	// FoliageAlphaThreshold is the texel alpha below which a foliage hit is
	// treated as empty.
	FoliageAlphaThreshold = 128
)
