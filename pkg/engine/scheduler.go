package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voxterm/voxterm/pkg/render"
	"github.com/voxterm/voxterm/pkg/scene"
)

// State is the scheduler lifecycle state.
type State int

const (
	Running State = iota
	Exiting
)

// MaxFrameDelta caps dt after stalls (debugger, terminal resize storms) so
// one long frame cannot teleport the camera or the day/night phase.
const MaxFrameDelta = 0.1

// IntentSource supplies one intent set per tick.
type IntentSource interface {
	Sample() IntentSet
}

// Renderer fills a framebuffer from a frame snapshot.
type Renderer interface {
	Render(ctx context.Context, fb *render.Framebuffer, snap render.FrameSnapshot) error
}

// Presenter pushes a completed framebuffer to the display.
type Presenter interface {
	Present(fb *render.Framebuffer) error
}

// Stats is per-frame information handed to the OnFrame hook (HUD overlay).
type Stats struct {
	FPS   float64
	Phase float64
	Frame uint64
}

// Scheduler owns the frame loop. Per tick: sample intents, honor Quit,
// advance camera/day-night/portal state by a clamped dt, run one render
// pass to completion, present, then sleep out the frame budget.
//
// The world state is only ever mutated between render passes; a pass always
// sees one consistent snapshot.
type Scheduler struct {
	Input     IntentSource
	Camera    *render.OrbitCamera
	Cycle     *scene.Cycle
	World     *scene.Diorama
	Renderer  Renderer
	Presenter Presenter
	FB        *render.Framebuffer
	TargetFPS int
	OnFrame   func(Stats)

	state State
	apply chan func(*Scheduler)

	// fps accounting
	frame     uint64
	fps       float64
	fpsFrames int
	fpsSince  time.Time
}

// NewScheduler wires a scheduler; all exported fields must be set before Run.
func NewScheduler() *Scheduler {
	return &Scheduler{
		TargetFPS: 60,
		apply:     make(chan func(*Scheduler), 4),
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// Defer queues a mutation (terminal resize swapping the framebuffer and
// presenter) to run at the top of the next tick, outside any render pass.
func (s *Scheduler) Defer(fn func(*Scheduler)) {
	select {
	case s.apply <- fn:
	default:
		// A backed-up queue means resize events are arriving faster than
		// frames; dropping stale ones is fine, the last size wins.
	}
}

// Step advances all simulation state by dt seconds for the given intents.
// Deterministic: no clock reads, no randomness.
func (s *Scheduler) Step(intents IntentSet, dt float64) {
	if intents.Has(ResetView) {
		s.Camera.StartReset()
	}
	if intents.Has(ZoomIn) {
		s.Camera.Zoom(-render.ZoomRate * dt)
	}
	if intents.Has(ZoomOut) {
		s.Camera.Zoom(render.ZoomRate * dt)
	}
	if intents.Has(RotateLeft) {
		s.Camera.RotateYaw(render.YawRate * dt)
	}
	if intents.Has(RotateRight) {
		s.Camera.RotateYaw(-render.YawRate * dt)
	}
	if intents.Has(RotateUp) {
		s.Camera.RotatePitch(render.PitchRate * dt)
	}
	if intents.Has(RotateDown) {
		s.Camera.RotatePitch(-render.PitchRate * dt)
	}
	if !intents.Movement() {
		s.Camera.Animate()
	}

	s.Cycle.Update(intents.Has(CycleForward), intents.Has(CycleBackward), dt)
	s.World.Advance(dt)
}

// Snapshot freezes the state a render pass needs.
func (s *Scheduler) Snapshot() render.FrameSnapshot {
	return render.FrameSnapshot{
		Camera:       s.Camera.Snapshot(),
		SunDir:       s.Cycle.SunDir(),
		Ambient:      s.Cycle.Ambient(),
		Intensity:    s.Cycle.Intensity(),
		PortalOffset: s.World.PortalOffset,
	}
}

// Run executes the frame loop until Quit, context cancellation, or a frame
// failure. A render error (worker panic) skips the present and stops the
// loop; the last frame on screen is the previous successful one.
func (s *Scheduler) Run(ctx context.Context) error {
	s.state = Running
	s.fpsSince = time.Now()
	fps := s.TargetFPS
	if fps < 1 {
		fps = 1 // a zero target would divide by zero below
	}
	target := time.Second / time.Duration(fps)
	last := time.Now()

	for s.state == Running {
		// Apply deferred mutations before anything reads frame state.
		for {
			select {
			case fn := <-s.apply:
				fn(s)
				continue
			default:
			}
			break
		}

		select {
		case <-ctx.Done():
			s.state = Exiting
			return nil
		default:
		}

		intents := s.Input.Sample()
		if intents.Has(Quit) {
			s.state = Exiting
			return nil
		}

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if dt > MaxFrameDelta {
			dt = MaxFrameDelta
		}

		s.Step(intents, dt)

		if err := s.Renderer.Render(ctx, s.FB, s.Snapshot()); err != nil {
			s.state = Exiting
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("render frame: %w", err)
		}

		if err := s.Presenter.Present(s.FB); err != nil {
			s.state = Exiting
			return fmt.Errorf("present frame: %w", err)
		}

		s.frame++
		s.fpsFrames++
		if elapsed := time.Since(s.fpsSince); elapsed >= time.Second {
			s.fps = float64(s.fpsFrames) / elapsed.Seconds()
			s.fpsFrames = 0
			s.fpsSince = time.Now()
		}
		if s.OnFrame != nil {
			s.OnFrame(Stats{FPS: s.fps, Phase: s.Cycle.Phase, Frame: s.frame})
		}

		if elapsed := time.Since(now); elapsed < target {
			time.Sleep(target - elapsed)
		}
	}
	return nil
}
