package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/voxterm/voxterm/pkg/math3d"
)

// Orbit limits and rates.
const (
	MinDistance = 2.0
	MaxDistance = 14.0
	PitchLimit  = 1.25 // radians, keeps the orbit off the poles

	ZoomRate  = 4.0            // units per second
	YawRate   = math.Pi / 1.5  // radians per second
	PitchRate = math.Pi / 2.25 // radians per second
)

// Home pose restored by the reset animation.
const (
	homeDistance = 7.0
	homeYaw      = 0.0
	homePitch    = 0.35
)

// OrbitCamera orbits a fixed center point. Distance, yaw, and pitch fully
// determine the eye position; there is no roll. Updates are deterministic:
// the same intents and dt always produce the same pose.
type OrbitCamera struct {
	Center   math3d.Vec3
	Distance float64
	Yaw      float64 // wraps mod 2π
	Pitch    float64 // clamped to ±PitchLimit
	FOV      float64 // vertical field of view in radians

	// Reset animation state. The springs fly the pose back to the home
	// position; any explicit movement cancels the flight.
	resetting bool
	spring    harmonica.Spring
	distVel   float64
	yawVel    float64
	pitchVel  float64
}

// NewOrbitCamera creates a camera orbiting center at the home pose.
// fps feeds the spring step size for the reset animation.
func NewOrbitCamera(center math3d.Vec3, fps int) *OrbitCamera {
	return &OrbitCamera{
		Center:   center,
		Distance: homeDistance,
		Yaw:      homeYaw,
		Pitch:    homePitch,
		FOV:      math.Pi / 3,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Zoom moves the eye toward (negative) or away from (positive) the center.
// The distance is clamped to [MinDistance, MaxDistance].
func (c *OrbitCamera) Zoom(delta float64) {
	c.resetting = false
	c.Distance += delta
	if c.Distance < MinDistance {
		c.Distance = MinDistance
	}
	if c.Distance > MaxDistance {
		c.Distance = MaxDistance
	}
}

// RotateYaw orbits horizontally. Yaw wraps so continuous rotation never
// accumulates an unbounded angle.
func (c *OrbitCamera) RotateYaw(delta float64) {
	c.resetting = false
	c.Yaw = wrapAngle(c.Yaw + delta)
}

// RotatePitch orbits vertically, clamped short of the poles.
func (c *OrbitCamera) RotatePitch(delta float64) {
	c.resetting = false
	c.Pitch += delta
	if c.Pitch > PitchLimit {
		c.Pitch = PitchLimit
	}
	if c.Pitch < -PitchLimit {
		c.Pitch = -PitchLimit
	}
}

// StartReset begins a spring flight back to the home pose.
func (c *OrbitCamera) StartReset() {
	c.resetting = true
	c.distVel = 0
	c.yawVel = 0
	c.pitchVel = 0
}

// Resetting reports whether the reset flight is still in progress.
func (c *OrbitCamera) Resetting() bool {
	return c.resetting
}

// Animate advances the reset flight by one spring step. It is a no-op when
// no reset is in progress. Call once per frame after applying intents.
func (c *OrbitCamera) Animate() {
	if !c.resetting {
		return
	}

	// Fly yaw along the shorter arc.
	targetYaw := homeYaw
	if c.Yaw-targetYaw > math.Pi {
		targetYaw += 2 * math.Pi
	} else if targetYaw-c.Yaw > math.Pi {
		targetYaw -= 2 * math.Pi
	}

	c.Distance, c.distVel = c.spring.Update(c.Distance, c.distVel, homeDistance)
	c.Yaw, c.yawVel = c.spring.Update(c.Yaw, c.yawVel, targetYaw)
	c.Pitch, c.pitchVel = c.spring.Update(c.Pitch, c.pitchVel, homePitch)

	const settle = 1e-3
	if math.Abs(c.Distance-homeDistance) < settle &&
		math.Abs(c.Yaw-targetYaw) < settle &&
		math.Abs(c.Pitch-homePitch) < settle {
		c.Distance = homeDistance
		c.Yaw = homeYaw
		c.Pitch = homePitch
		c.resetting = false
	}
	c.Yaw = wrapAngle(c.Yaw)
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() math3d.Vec3 {
	dir := math3d.V3(
		math.Cos(c.Pitch)*math.Sin(c.Yaw),
		math.Sin(c.Pitch),
		math.Cos(c.Pitch)*math.Cos(c.Yaw),
	)
	return c.Center.Add(dir.Scale(c.Distance))
}

// Snapshot freezes the camera pose for one render pass. Workers read the
// snapshot only; the live camera may be updated for the next frame.
func (c *OrbitCamera) Snapshot() CameraSnapshot {
	eye := c.Eye()
	forward := c.Center.Sub(eye).Normalize()
	right := forward.Cross(math3d.Up()).Normalize()
	up := right.Cross(forward)

	return CameraSnapshot{
		Eye:     eye,
		Forward: forward,
		Right:   right,
		Up:      up,
		FOV:     c.FOV,
	}
}

// CameraSnapshot is an immutable camera pose used by the raycaster.
type CameraSnapshot struct {
	Eye     math3d.Vec3
	Forward math3d.Vec3
	Right   math3d.Vec3
	Up      math3d.Vec3
	FOV     float64
}

// RayThrough returns the world-space direction of the primary ray through
// pixel (px, py) of a width×height framebuffer.
func (s CameraSnapshot) RayThrough(px, py, width, height int) math3d.Vec3 {
	aspect := float64(width) / float64(height)
	scale := math.Tan(s.FOV * 0.5)

	// NDC in [-1, 1], y up.
	sx := (2.0*(float64(px)+0.5)/float64(width) - 1.0) * aspect * scale
	sy := (1.0 - 2.0*(float64(py)+0.5)/float64(height)) * scale

	dir := s.Right.Scale(sx).Add(s.Up.Scale(sy)).Add(s.Forward)
	return dir.Normalize()
}

// wrapAngle maps an angle into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
