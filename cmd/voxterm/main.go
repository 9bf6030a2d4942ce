// voxterm - Terminal voxel diorama viewer
// Orbit a small voxel scene (house, tree, flowers, portal) rendered live in
// your terminal, with a day/night cycle you can scrub.
//
// Controls:
//
//	W/S         - Zoom in/out
//	A/D         - Orbit left/right
//	Arrow keys  - Orbit (left/right/up/down)
//	Q/E         - Scrub the day/night cycle backward/forward
//	R           - Reset view
//	P           - Save a screenshot (PNG)
//	?           - Toggle HUD overlay
//	Esc, Ctrl+C - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/voxterm/voxterm/pkg/engine"
	"github.com/voxterm/voxterm/pkg/render"
	"github.com/voxterm/voxterm/pkg/scene"
)

type options struct {
	fps          int
	workers      int
	texturePath  string
	bg           string
	manualCycle  bool // manual scrub overrides the autonomous drift
	screenshotTo string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "voxterm",
		Short: "Orbit a voxel diorama in your terminal",
		Long: "voxterm renders a small voxel scene in the terminal with " +
			"half-block pixels: a wooden house, a tree, flowers, and an " +
			"animated portal, lit by a day/night cycle you can scrub.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root.Flags().IntVar(&opts.fps, "fps", 30, "target frames per second")
	root.Flags().IntVar(&opts.workers, "workers", 0, "render worker goroutines (0 = all CPUs)")
	root.Flags().StringVar(&opts.texturePath, "texture", "", "path to block texture image (PNG/JPG)")
	root.Flags().StringVar(&opts.bg, "bg", "30,30,40", "fallback background color (R,G,B)")
	root.Flags().BoolVar(&opts.manualCycle, "manual-cycle", false, "Q/E scrubbing pauses the autonomous day/night drift")
	root.Flags().StringVar(&opts.screenshotTo, "screenshot-dir", ".", "directory the P key saves screenshots into")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	if opts.fps < 1 {
		return fmt.Errorf("invalid --fps %d: must be at least 1", opts.fps)
	}

	// Texture: an explicit path must load or we refuse to start; with no
	// flag a procedural fallback keeps the blocks textured.
	var texture *render.Texture
	if opts.texturePath != "" {
		var err error
		texture, err = render.LoadTexture(opts.texturePath)
		if err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
	} else {
		texture = render.NewBlockTexture(16, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	diorama := scene.BuildDiorama()
	cycle := scene.NewCycle()
	cycle.ManualOverridesAuto = opts.manualCycle

	raycaster := render.NewRaycaster(diorama.Primitives, texture)
	raycaster.Workers = opts.workers

	camera := render.NewOrbitCamera(diorama.Center(), opts.fps)

	sampler := engine.NewSampler()

	sched := engine.NewScheduler()
	sched.Input = sampler
	sched.Camera = camera
	sched.Cycle = cycle
	sched.World = diorama
	sched.Renderer = raycaster
	sched.Presenter = &terminalPresenter{r: termRenderer}
	sched.FB = render.NewFramebuffer(fbWidth, fbHeight)
	sched.TargetFPS = opts.fps

	hud := newHUD(width, height)
	sched.OnFrame = func(st engine.Stats) {
		hud.draw(st)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Terminal events feed the sampler; the scheduler never touches them.
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				sched.Defer(func(s *engine.Scheduler) {
					term.Erase()
					term.Resize(w, h)
					tr := render.NewTerminalRenderer(term, w, h)
					fbW, fbH := tr.FramebufferSize()
					s.FB = render.NewFramebuffer(fbW, fbH)
					s.Presenter = &terminalPresenter{r: tr}
					hud.resize(w, h)
				})

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					sampler.Press(engine.Quit)
				case ev.MatchString("w"):
					sampler.Press(engine.ZoomIn)
				case ev.MatchString("s"):
					sampler.Press(engine.ZoomOut)
				case ev.MatchString("a", "left"):
					sampler.Press(engine.RotateLeft)
				case ev.MatchString("d", "right"):
					sampler.Press(engine.RotateRight)
				case ev.MatchString("up"):
					sampler.Press(engine.RotateUp)
				case ev.MatchString("down"):
					sampler.Press(engine.RotateDown)
				case ev.MatchString("q"):
					sampler.Press(engine.CycleBackward)
				case ev.MatchString("e"):
					sampler.Press(engine.CycleForward)
				case ev.MatchString("r"):
					sampler.Press(engine.ResetView)
				case ev.MatchString("p"):
					dir := opts.screenshotTo
					sched.Defer(func(s *engine.Scheduler) {
						name := fmt.Sprintf("%s/voxterm-%s.png", dir, time.Now().Format("20060102-150405"))
						_ = s.FB.SavePNG(name) // best effort, never interrupts the loop
					})
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					sched.Defer(func(*engine.Scheduler) { hud.toggle() })
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"):
					sampler.Release(engine.ZoomIn)
				case ev.MatchString("s"):
					sampler.Release(engine.ZoomOut)
				case ev.MatchString("a"), ev.MatchString("left"):
					sampler.Release(engine.RotateLeft)
				case ev.MatchString("d"), ev.MatchString("right"):
					sampler.Release(engine.RotateRight)
				case ev.MatchString("up"):
					sampler.Release(engine.RotateUp)
				case ev.MatchString("down"):
					sampler.Release(engine.RotateDown)
				case ev.MatchString("q"):
					sampler.Release(engine.CycleBackward)
				case ev.MatchString("e"):
					sampler.Release(engine.CycleForward)
				}
			}
		}
	}()

	err = sched.Run(ctx)
	cleanup()
	if err != nil {
		return fmt.Errorf("frame loop: %w", err)
	}
	return nil
}

// terminalPresenter adapts TerminalRenderer to the scheduler's Presenter.
type terminalPresenter struct {
	r *render.TerminalRenderer
}

func (p *terminalPresenter) Present(fb *render.Framebuffer) error {
	p.r.Render(fb)
	if err := p.r.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
