package render

import (
	"context"
	"math"
	"testing"

	"github.com/voxterm/voxterm/pkg/math3d"
	"github.com/voxterm/voxterm/pkg/scene"
)

func testSnapshot() FrameSnapshot {
	cam := NewOrbitCamera(scene.BuildDiorama().Center(), 60)
	cycle := scene.NewCycle()
	return FrameSnapshot{
		Camera:    cam.Snapshot(),
		SunDir:    cycle.SunDir(),
		Ambient:   cycle.Ambient(),
		Intensity: cycle.Intensity(),
	}
}

func TestRenderWorkerCountInvariance(t *testing.T) {
	d := scene.BuildDiorama()
	tex := NewBlockTexture(16, RGB(200, 200, 200), RGB(100, 100, 100))
	snap := testSnapshot()
	snap.PortalOffset = 0.37

	render := func(workers int) []Color {
		fb := NewFramebuffer(64, 48)
		rc := NewRaycaster(d.Primitives, tex)
		rc.Workers = workers
		if err := rc.Render(context.Background(), fb, snap); err != nil {
			t.Fatalf("render with %d workers: %v", workers, err)
		}
		out := make([]Color, len(fb.Pixels))
		copy(out, fb.Pixels)
		return out
	}

	one := render(1)
	for _, workers := range []int{2, 3, 7, 48} {
		got := render(workers)
		for i := range one {
			if got[i] != one[i] {
				t.Fatalf("pixel %d differs between 1 and %d workers: %v vs %v",
					i, workers, one[i], got[i])
			}
		}
	}
}

func TestRenderRecoversWorkerPanic(t *testing.T) {
	d := scene.BuildDiorama()
	// A framebuffer whose pixel slice is too short makes every worker's
	// first write panic.
	fb := &Framebuffer{Width: 16, Height: 16, Pixels: make([]Color, 4)}

	rc := NewRaycaster(d.Primitives, nil)
	rc.Workers = 2
	err := rc.Render(context.Background(), fb, testSnapshot())
	if err == nil {
		t.Fatal("expected an error from a panicking worker")
	}
}

func TestRenderHonorsContextCancel(t *testing.T) {
	d := scene.BuildDiorama()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb := NewFramebuffer(64, 64)
	rc := NewRaycaster(d.Primitives, nil)
	if err := rc.Render(ctx, fb, testSnapshot()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestSceneRendersSomething(t *testing.T) {
	d := scene.BuildDiorama()
	fb := NewFramebuffer(64, 48)
	rc := NewRaycaster(d.Primitives, NewBlockTexture(16, RGB(200, 200, 200), RGB(100, 100, 100)))
	if err := rc.Render(context.Background(), fb, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	// Sky pixels all share one color per direction band; the diorama must
	// produce variety beyond that.
	distinct := map[Color]struct{}{}
	for _, p := range fb.Pixels {
		distinct[p] = struct{}{}
	}
	if len(distinct) < 10 {
		t.Errorf("only %d distinct colors, scene probably missing", len(distinct))
	}
}

func TestIntersectAABBFrontFace(t *testing.T) {
	p := scene.Primitive{
		Min: math3d.V3(-0.5, -0.5, -0.5),
		Max: math3d.V3(0.5, 0.5, 0.5),
	}

	hit := intersectAABB(&p, math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	if !hit.OK {
		t.Fatal("ray through the box center missed")
	}
	if math.Abs(hit.T-4.5) > 1e-9 {
		t.Errorf("t = %v, want 4.5", hit.T)
	}
	if hit.Face != FaceFront {
		t.Errorf("face = %v, want front", hit.Face)
	}
	if hit.Normal != math3d.V3(0, 0, 1) {
		t.Errorf("normal = %v", hit.Normal)
	}
}

func TestIntersectAABBMiss(t *testing.T) {
	p := scene.Primitive{
		Min: math3d.V3(-0.5, -0.5, -0.5),
		Max: math3d.V3(0.5, 0.5, 0.5),
	}

	if hit := intersectAABB(&p, math3d.V3(0, 5, 5), math3d.V3(0, 0, -1)); hit.OK {
		t.Error("parallel ray above the box should miss")
	}
	// Box entirely behind the origin.
	if hit := intersectAABB(&p, math3d.V3(0, 0, 5), math3d.V3(0, 0, 1)); hit.OK {
		t.Error("box behind the ray should miss")
	}
}

func TestFoliageCutoutPassesThrough(t *testing.T) {
	// A fully transparent texture turns the foliage block invisible: rays
	// continue to whatever is behind it.
	leaf := scene.Primitive{
		Name:     "leaf",
		Min:      math3d.V3(-1, -1, -1),
		Max:      math3d.V3(1, 1, 1),
		Tag:      scene.Foliage,
		Color:    RGB(34, 139, 34),
		Textured: true,
	}
	wall := scene.Primitive{
		Name:  "wall",
		Min:   math3d.V3(-1, -1, -4),
		Max:   math3d.V3(1, 1, -3),
		Tag:   scene.OpaqueBlock,
		Color: RGB(170, 137, 85),
	}

	clear := NewTexture(8, 8) // zero-valued pixels, alpha 0 everywhere
	rc := NewRaycaster([]scene.Primitive{leaf, wall}, clear)

	hit := rc.nearestHit(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	if !hit.OK {
		t.Fatal("expected to hit the wall behind the cutout")
	}
	if hit.Prim.Name != "wall" {
		t.Errorf("hit %q, want the wall behind the transparent foliage", hit.Prim.Name)
	}
}

func TestFoliageOpaqueTexelBlocks(t *testing.T) {
	leaf := scene.Primitive{
		Name:     "leaf",
		Min:      math3d.V3(-1, -1, -1),
		Max:      math3d.V3(1, 1, 1),
		Tag:      scene.Foliage,
		Color:    RGB(34, 139, 34),
		Textured: true,
	}

	solid := NewTexture(8, 8)
	for i := range solid.Pixels {
		solid.Pixels[i] = RGB(34, 139, 34)
	}

	rc := NewRaycaster([]scene.Primitive{leaf}, solid)
	hit := rc.nearestHit(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	if !hit.OK || hit.Prim.Name != "leaf" {
		t.Error("fully opaque foliage texel should register the hit")
	}
}

func TestPortalOffsetChangesOutput(t *testing.T) {
	portal := scene.Primitive{
		Name:     "portal",
		Min:      math3d.V3(-1, -1, -0.2),
		Max:      math3d.V3(1, 1, 0.2),
		Tag:      scene.Portal,
		Color:    RGB(100, 0, 200),
		Textured: true,
	}

	tex := NewBlockTexture(16, RGB(255, 255, 255), RGB(20, 20, 20))
	rc := NewRaycaster([]scene.Primitive{portal}, tex)

	draw := func(offset float64) []Color {
		fb := NewFramebuffer(32, 32)
		snap := testSnapshot()
		snap.PortalOffset = offset
		rc.Workers = 1
		if err := rc.Render(context.Background(), fb, snap); err != nil {
			t.Fatal(err)
		}
		out := make([]Color, len(fb.Pixels))
		copy(out, fb.Pixels)
		return out
	}

	a := draw(0)
	b := draw(0.5)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("portal offset had no effect on the rendered frame")
	}
}

func TestSkyGlowPeaksTowardSun(t *testing.T) {
	rc := NewRaycaster(nil, nil)
	snap := testSnapshot()

	toward := rc.sky(snap.SunDir, snap)
	away := rc.sky(snap.SunDir.Negate(), snap)

	if toward.R <= away.R && toward.G <= away.G {
		t.Errorf("sky toward sun %v not brighter than away %v", toward, away)
	}
}

func BenchmarkRenderFrame(b *testing.B) {
	d := scene.BuildDiorama()
	tex := NewBlockTexture(16, RGB(200, 200, 200), RGB(100, 100, 100))
	rc := NewRaycaster(d.Primitives, tex)
	fb := NewFramebuffer(120, 72)
	snap := testSnapshot()

	for b.Loop() {
		if err := rc.Render(context.Background(), fb, snap); err != nil {
			b.Fatal(err)
		}
	}
}
