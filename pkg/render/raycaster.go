package render

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/voxterm/voxterm/pkg/math3d"
	"github.com/voxterm/voxterm/pkg/scene"
)

const (
	originBias = 1e-4 // nudge continuation rays off the surface they hit
	maxDepth   = 3    // continuation rays per pixel through glass/portal
	faceEps    = 1e-4
)

// CubeFace identifies which face of an axis-aligned box a ray hit.
type CubeFace int

const (
	FaceLeft CubeFace = iota
	FaceRight
	FaceBottom
	FaceTop
	FaceBack
	FaceFront
)

// Hit describes the nearest intersection of a ray with a primitive.
type Hit struct {
	OK     bool
	T      float64
	Point  math3d.Vec3
	Normal math3d.Vec3
	Face   CubeFace
	Prim   *scene.Primitive
}

// FrameSnapshot is the read-only world state one render pass consumes.
// Nothing in it is mutated while workers are in flight.
type FrameSnapshot struct {
	Camera       CameraSnapshot
	SunDir       math3d.Vec3
	Ambient      Color
	Intensity    float64
	PortalOffset float64
}

// Raycaster renders the primitive list by per-pixel raycasting. Each pixel
// is a pure function of the frame snapshot, so splitting rows across any
// number of workers produces identical output.
type Raycaster struct {
	Prims   []scene.Primitive
	Tex     *Texture
	Workers int // 0 = runtime.NumCPU()
}

// NewRaycaster creates a raycaster over the given primitives.
func NewRaycaster(prims []scene.Primitive, tex *Texture) *Raycaster {
	return &Raycaster{Prims: prims, Tex: tex}
}

// Render fills the framebuffer from the snapshot, splitting rows into
// disjoint bands across worker goroutines. A panic in any worker is
// recovered and returned as an error; the caller must not present the
// (partially written) frame in that case.
func (rc *Raycaster) Render(ctx context.Context, fb *Framebuffer, snap FrameSnapshot) error {
	workers := rc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, band := range fb.Bands(workers) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("render worker rows [%d,%d): panic: %v", band.Y0, band.Y1, r)
				}
			}()
			return rc.renderBand(ctx, fb, band, snap)
		})
	}
	return g.Wait()
}

func (rc *Raycaster) renderBand(ctx context.Context, fb *Framebuffer, band Band, snap FrameSnapshot) error {
	for y := band.Y0; y < band.Y1; y++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for x := 0; x < fb.Width; x++ {
			dir := snap.Camera.RayThrough(x, y, fb.Width, fb.Height)
			fb.Pixels[y*fb.Width+x] = rc.castRay(snap.Camera.Eye, dir, snap, 0)
		}
	}
	return nil
}

// castRay traces one ray and shades the nearest hit. depth counts
// continuation rays spawned by transparent materials.
func (rc *Raycaster) castRay(origin, dir math3d.Vec3, snap FrameSnapshot, depth int) Color {
	if depth > maxDepth {
		return rc.sky(dir, snap)
	}

	hit := rc.nearestHit(origin, dir)
	if !hit.OK {
		return rc.sky(dir, snap)
	}

	base := rc.baseColor(hit, snap)
	lit := rc.shade(hit, base, snap)

	switch hit.Prim.Tag {
	case scene.Glass:
		bg := rc.continueRay(hit, dir, snap, depth)
		return lerpColor(bg, lit, scene.GlassAlpha)
	case scene.Portal:
		bg := rc.continueRay(hit, dir, snap, depth)
		blended := lerpColor(bg, lit, scene.PortalAlpha)
		return AddColor(blended, hit.Prim.Emissive)
	default:
		if hit.Prim.Emissive != (Color{}) {
			return AddColor(lit, hit.Prim.Emissive)
		}
		return lit
	}
}

// nearestHit finds the closest intersection, skipping foliage texels whose
// alpha falls below the cutout threshold so rays pass through leaf gaps.
func (rc *Raycaster) nearestHit(origin, dir math3d.Vec3) Hit {
	const maxSkips = 8

	for range maxSkips {
		best := Hit{T: math.Inf(1)}
		for i := range rc.Prims {
			if h := intersectAABB(&rc.Prims[i], origin, dir); h.OK && h.T < best.T {
				best = h
			}
		}
		if !best.OK {
			return best
		}

		if best.Prim.Tag == scene.Foliage && best.Prim.Textured && rc.Tex != nil {
			u, v := faceUV(best.Point, best.Face)
			if rc.Tex.Sample(u, v).A < scene.FoliageAlphaThreshold {
				// Cutout texel: the ray continues behind this face.
				origin = best.Point.Add(dir.Scale(originBias * 10))
				continue
			}
		}
		return best
	}
	return Hit{}
}

// continueRay spawns the background ray behind a transparent hit.
func (rc *Raycaster) continueRay(hit Hit, dir math3d.Vec3, snap FrameSnapshot, depth int) Color {
	origin := hit.Point.Add(dir.Scale(originBias * 10))
	return rc.castRay(origin, dir, snap, depth+1)
}

// baseColor resolves the surface color at the hit point: the texture
// modulated by the primitive color for textured faces, the flat primitive
// color otherwise. Portal faces scroll their U coordinate.
func (rc *Raycaster) baseColor(hit Hit, snap FrameSnapshot) Color {
	if !hit.Prim.Textured || rc.Tex == nil {
		return hit.Prim.Color
	}
	u, v := faceUV(hit.Point, hit.Face)
	if hit.Prim.Tag == scene.Portal {
		u = math.Mod(u+snap.PortalOffset, 1)
	}
	return ModulateColor(rc.Tex.Sample(u, v), hit.Prim.Color)
}

// shade applies the day/night lighting model: an ambient term tinted by the
// sky color plus sun-direction diffuse, both scaled by the cycle intensity.
func (rc *Raycaster) shade(hit Hit, base Color, snap FrameSnapshot) Color {
	diffuse := math.Max(0, hit.Normal.Dot(snap.SunDir))

	ambient := MultiplyColor(ModulateColor(base, snap.Ambient), 0.45*snap.Intensity)
	direct := MultiplyColor(base, 0.75*diffuse*snap.Intensity)
	out := AddColor(ambient, direct)
	out.A = base.A
	return out
}

// sky shades rays that hit nothing: half-strength ambient with a sun glow
// that peaks where the ray lines up with the sun direction.
func (rc *Raycaster) sky(dir math3d.Vec3, snap FrameSnapshot) Color {
	glow := math.Pow(math.Max(0, dir.Dot(snap.SunDir)), 20)
	base := MultiplyColor(snap.Ambient, 0.5)
	sun := MultiplyColor(ColorSun, glow)
	return AddColor(base, sun)
}

// intersectAABB runs the slab test for one axis-aligned box and classifies
// the hit face by proximity to the box planes.
func intersectAABB(p *scene.Primitive, origin, dir math3d.Vec3) Hit {
	tmin := (p.Min.X - origin.X) / dir.X
	tmax := (p.Max.X - origin.X) / dir.X
	if tmin > tmax {
		tmin, tmax = tmax, tmin
	}

	tymin := (p.Min.Y - origin.Y) / dir.Y
	tymax := (p.Max.Y - origin.Y) / dir.Y
	if tymin > tymax {
		tymin, tymax = tymax, tymin
	}

	if tmin > tymax || tymin > tmax {
		return Hit{}
	}
	tmin = math.Max(tmin, tymin)
	tmax = math.Min(tmax, tymax)

	tzmin := (p.Min.Z - origin.Z) / dir.Z
	tzmax := (p.Max.Z - origin.Z) / dir.Z
	if tzmin > tzmax {
		tzmin, tzmax = tzmax, tzmin
	}

	if tmin > tzmax || tzmin > tmax {
		return Hit{}
	}
	tmin = math.Max(tmin, tzmin)
	tmax = math.Min(tmax, tzmax)

	if tmax < 0 {
		return Hit{}
	}
	t := tmin
	if t < 0 {
		t = tmax
	}

	point := origin.Add(dir.Scale(t))
	face, normal := classifyFace(p, point)

	return Hit{
		OK:     true,
		T:      t,
		Point:  point,
		Normal: normal,
		Face:   face,
		Prim:   p,
	}
}

func classifyFace(p *scene.Primitive, point math3d.Vec3) (CubeFace, math3d.Vec3) {
	switch {
	case math.Abs(point.X-p.Min.X) < faceEps:
		return FaceLeft, math3d.V3(-1, 0, 0)
	case math.Abs(point.X-p.Max.X) < faceEps:
		return FaceRight, math3d.V3(1, 0, 0)
	case math.Abs(point.Y-p.Min.Y) < faceEps:
		return FaceBottom, math3d.V3(0, -1, 0)
	case math.Abs(point.Y-p.Max.Y) < faceEps:
		return FaceTop, math3d.V3(0, 1, 0)
	case math.Abs(point.Z-p.Min.Z) < faceEps:
		return FaceBack, math3d.V3(0, 0, -1)
	default:
		return FaceFront, math3d.V3(0, 0, 1)
	}
}

// faceUV projects the hit point onto the hit face. Voxel faces are 0.5
// world units, so coordinates are doubled before taking the fraction: one
// texture repeat per block face.
func faceUV(point math3d.Vec3, face CubeFace) (u, v float64) {
	switch face {
	case FaceTop, FaceBottom:
		u, v = fract(point.X*2), fract(point.Z*2)
	case FaceLeft, FaceRight:
		u, v = fract(point.Z*2), fract(point.Y*2)
	default:
		u, v = fract(point.X*2), fract(point.Y*2)
	}
	return u, v
}

func fract(x float64) float64 {
	return math.Abs(x - math.Trunc(x))
}
