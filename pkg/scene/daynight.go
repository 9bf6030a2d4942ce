package scene

import (
	"image/color"
	"math"

	"github.com/voxterm/voxterm/pkg/math3d"
)

// Day/night defaults. Phase 0 is midnight, 0.5 is noon.
const (
	// DefaultAutoRate completes a full cycle in two minutes.
	DefaultAutoRate = 1.0 / 120.0
	// DefaultManualRate is the phase change per second while a cycle key is
	// held.
	DefaultManualRate = 0.25

	MinIntensity = 0.2
	MaxIntensity = 1.0
)

// Cycle is the day/night simulator: a phase scalar in [0,1) that advances
// autonomously and can be nudged by the operator. Sun direction, ambient
// color, and light intensity are derived from the phase every frame.
type Cycle struct {
	Phase float64

	AutoRate   float64
	ManualRate float64

	// ManualOverridesAuto suppresses the autonomous advance on frames where
	// a manual nudge is active. The default is additive composition.
	ManualOverridesAuto bool

	Night color.RGBA
	Day   color.RGBA

	// sunAxis is the sun direction at phase 0, rotated around world up by
	// 2π·phase.
	sunAxis math3d.Vec3
}

// NewCycle creates a cycle starting at noon so the first frame opens in
// daylight.
func NewCycle() *Cycle {
	return &Cycle{
		Phase:      0.5,
		AutoRate:   DefaultAutoRate,
		ManualRate: DefaultManualRate,
		Night:      color.RGBA{10, 10, 50, 255},
		Day:        color.RGBA{255, 244, 214, 255},
		sunAxis:    math3d.V3(1, 0.4, 0).Normalize(),
	}
}

// Update advances the phase by dt seconds. forward/backward are the operator
// cycle intents; both may be false. The result always stays in [0,1).
func (c *Cycle) Update(forward, backward bool, dt float64) {
	manual := 0.0
	if forward {
		manual += c.ManualRate * dt
	}
	if backward {
		manual -= c.ManualRate * dt
	}

	auto := c.AutoRate * dt
	if c.ManualOverridesAuto && manual != 0 {
		auto = 0
	}

	c.Phase = wrapPhase(c.Phase + auto + manual)
}

// wrapPhase wraps p into [0,1).
func wrapPhase(p float64) float64 {
	p = math.Mod(p, 1)
	if p < 0 {
		p++
	}
	return p
}

// Weight returns the periodic day weight w(p) = 0.5 - 0.5·cos(2πp). It is 0
// at midnight, 1 at noon, and continuous across the phase wrap.
func (c *Cycle) Weight() float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*c.Phase)
}

// SunDir returns the unit direction toward the sun: the fixed axis rotated
// by 2π·phase around world up, so the sun orbits once per cycle.
func (c *Cycle) SunDir() math3d.Vec3 {
	rot := math3d.Rotate(math3d.Up(), 2*math.Pi*c.Phase)
	return rot.MulVec3Dir(c.sunAxis).Normalize()
}

// Ambient returns the ambient color, interpolated between the night and day
// colors by the day weight.
func (c *Cycle) Ambient() color.RGBA {
	return LerpColor(c.Night, c.Day, c.Weight())
}

// Intensity returns the light intensity scalar, peaking at noon.
func (c *Cycle) Intensity() float64 {
	return MinIntensity + (MaxIntensity-MinIntensity)*c.Weight()
}

// LerpColor linearly interpolates between two colors.
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
