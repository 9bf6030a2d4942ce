package scene

import (
	"image/color"
	"math"

	"github.com/voxterm/voxterm/pkg/math3d"
)

// Primitive is one axis-aligned voxel block of the diorama. Primitives are
// immutable after construction; the portal's animated texture offset lives on
// the Diorama, not on the primitive.
type Primitive struct {
	Name     string
	Min, Max math3d.Vec3
	Tag      MaterialTag
	Color    color.RGBA
	Emissive color.RGBA
	Textured bool
}

// Center returns the center of the block.
func (p Primitive) Center() math3d.Vec3 {
	return p.Min.Add(p.Max).Scale(0.5)
}

// DefaultOffsetRate is the portal texture-offset advance per second.
const DefaultOffsetRate = 0.35

// Diorama is the fixed scene: a list of hand-placed primitives plus the
// portal's animated texture offset.
type Diorama struct {
	Primitives []Primitive

	// PortalOffset is added to the portal's texture sampling coordinate,
	// advancing monotonically mod 1.
	PortalOffset float64
	OffsetRate   float64
}

// Advance moves the portal texture offset forward by OffsetRate·dt, wrapped
// to [0,1).
func (d *Diorama) Advance(dt float64) {
	d.PortalOffset = math.Mod(d.PortalOffset+d.OffsetRate*dt, 1)
}

// Center returns the point the camera orbits: the middle of the diorama at
// roughly house height.
func (d *Diorama) Center() math3d.Vec3 {
	return math3d.V3(0, 1.2, 0)
}

func block(name string, minX, minY, minZ, maxX, maxY, maxZ float64, tag MaterialTag, c color.RGBA) Primitive {
	return Primitive{
		Name:  name,
		Min:   math3d.V3(minX, minY, minZ),
		Max:   math3d.V3(maxX, maxY, maxZ),
		Tag:   tag,
		Color: c,
	}
}

// BuildDiorama constructs the fixed scene: grass base, wood house with a
// glass window and stepped stone roof, tree, flowers, and the portal with its
// glowing frame. The layout follows the hand-placed diorama this viewer was
// built around.
func BuildDiorama() *Diorama {
	var (
		grass      = color.RGBA{74, 148, 58, 255}
		wood       = color.RGBA{170, 137, 85, 255}
		stone      = color.RGBA{128, 128, 128, 255}
		trunk      = color.RGBA{110, 72, 36, 255}
		leaves     = color.RGBA{46, 120, 40, 255}
		glassTint  = color.RGBA{200, 225, 235, 255}
		petalRed   = color.RGBA{210, 60, 60, 255}
		petalGold  = color.RGBA{230, 190, 60, 255}
		portalBody = color.RGBA{100, 0, 200, 255}
		portalRim  = color.RGBA{200, 0, 255, 255}
		glowWarm   = color.RGBA{255, 255, 150, 255}
	)

	prims := []Primitive{
		// Portal slab in front of the house. Textured, animated, glowing.
		{
			Name:     "portal",
			Min:      math3d.V3(-0.5, 0, -2.5),
			Max:      math3d.V3(0.5, 2, -2),
			Tag:      Portal,
			Color:    portalBody,
			Emissive: color.RGBA{90, 0, 160, 255},
			Textured: true,
		},

		// Portal frame: base, lintel, and both jambs.
		{Name: "portal-base", Min: math3d.V3(-0.7, -0.2, -2.6), Max: math3d.V3(0.7, 0, -1.9), Tag: OpaqueBlock, Color: portalRim, Emissive: color.RGBA{60, 0, 85, 255}},
		{Name: "portal-lintel", Min: math3d.V3(-0.7, 2, -2.6), Max: math3d.V3(0.7, 2.2, -1.9), Tag: OpaqueBlock, Color: portalRim, Emissive: color.RGBA{60, 0, 85, 255}},
		{Name: "portal-jamb-left", Min: math3d.V3(-0.7, 0, -2.6), Max: math3d.V3(-0.5, 2, -1.9), Tag: OpaqueBlock, Color: portalRim, Emissive: color.RGBA{60, 0, 85, 255}},
		{Name: "portal-jamb-right", Min: math3d.V3(0.5, 0, -2.6), Max: math3d.V3(0.7, 2, -1.9), Tag: OpaqueBlock, Color: portalRim, Emissive: color.RGBA{60, 0, 85, 255}},

		// Grass base.
		block("ground", -4, -0.5, -4, 4, 0, 4, OpaqueBlock, grass),

		// House walls.
		block("wall-back", -1.5, 0, -1.5, 1.5, 2, -1, OpaqueBlock, wood),
		block("wall-left", -1.5, 0, -1.5, -1, 2, 1.5, OpaqueBlock, wood),
		block("wall-right-sill", 1, 0, -1.5, 1.5, 0.5, 1.5, OpaqueBlock, wood),
		block("wall-right-north", 1, 0, -1.5, 1.5, 2, -0.5, OpaqueBlock, wood),
		block("wall-right-south", 1, 0, 0.5, 1.5, 2, 1.5, OpaqueBlock, wood),
		block("wall-right-header", 1, 1.5, -1.5, 1.5, 2, 1.5, OpaqueBlock, wood),

		// Window glass in the right wall.
		block("window", 1, 0.5, -0.5, 1.5, 1.5, 0.5, Glass, glassTint),

		// Front wall with a door gap.
		block("wall-front-left", -1.5, 0, 1, -0.5, 2, 1.5, OpaqueBlock, wood),
		block("wall-front-right", 0.5, 0, 1, 1.5, 2, 1.5, OpaqueBlock, wood),
		block("wall-front-header", -0.5, 1, 1, 0.5, 2, 1.5, OpaqueBlock, wood),

		// Stepped stone roof.
		block("roof-0", -2, 2, -2, 2, 2.5, 2, OpaqueBlock, stone),
		block("roof-1", -1.5, 2.5, -1.5, 1.5, 3, 1.5, OpaqueBlock, stone),
		block("roof-2", -1, 3, -1, 1, 3.5, 1, OpaqueBlock, stone),
		block("roof-3", -0.5, 3.5, -0.5, 0.5, 4, 0.5, OpaqueBlock, stone),

		// Tree trunk.
		block("trunk-0", -3, 0, 3, -2.5, 0.5, 3.5, OpaqueBlock, trunk),
		block("trunk-1", -3, 0.5, 3, -2.5, 1, 3.5, OpaqueBlock, trunk),
		block("trunk-2", -3, 1, 3, -2.5, 1.5, 3.5, OpaqueBlock, trunk),
		block("trunk-3", -3, 1.5, 3, -2.5, 2, 3.5, OpaqueBlock, trunk),

		// Tree canopy: textured, alpha-tested foliage.
		{Name: "canopy-0", Min: math3d.V3(-3.5, 2, 2.5), Max: math3d.V3(-2, 2.5, 4), Tag: Foliage, Color: leaves, Textured: true},
		{Name: "canopy-1", Min: math3d.V3(-3.5, 2.5, 2.5), Max: math3d.V3(-2, 3, 4), Tag: Foliage, Color: leaves, Textured: true},
		{Name: "canopy-2", Min: math3d.V3(-3, 3, 3), Max: math3d.V3(-2.5, 3.5, 3.5), Tag: Foliage, Color: leaves, Textured: true},

		// Flowers dotted on the lawn: thin foliage blocks.
		{Name: "flower-0", Min: math3d.V3(2.2, 0, 1.8), Max: math3d.V3(2.5, 0.4, 2.1), Tag: Foliage, Color: petalRed, Textured: true},
		{Name: "flower-1", Min: math3d.V3(-2.6, 0, 0.6), Max: math3d.V3(-2.3, 0.4, 0.9), Tag: Foliage, Color: petalGold, Textured: true},
		{Name: "flower-2", Min: math3d.V3(2.8, 0, -2.2), Max: math3d.V3(3.1, 0.4, -1.9), Tag: Foliage, Color: petalRed, Textured: true},

		// Glowstone block beside the house: keeps the yard lit at night.
		{Name: "glowstone", Min: math3d.V3(2, 0, -1), Max: math3d.V3(2.5, 0.5, -0.5), Tag: OpaqueBlock, Color: glowWarm, Emissive: color.RGBA{120, 120, 70, 255}},
	}

	return &Diorama{
		Primitives: prims,
		OffsetRate: DefaultOffsetRate,
	}
}
