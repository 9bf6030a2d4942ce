package main

import (
	"fmt"

	"github.com/voxterm/voxterm/pkg/engine"
)

// hud draws a raw-ANSI overlay on the top and bottom terminal rows: FPS,
// the current time of day, and a key hint. It writes after the frame has
// been flushed, so it always sits on top of the scene.
//
// All hud state is owned by the scheduler goroutine: draw runs from the
// OnFrame hook, and the event goroutine changes size/visibility only
// through Scheduler.Defer, never directly.
type hud struct {
	width  int // terminal columns
	height int // terminal rows
	show   bool
}

func newHUD(width, height int) *hud {
	return &hud{width: width, height: height, show: true}
}

// resize records the new terminal size. Call on the scheduler goroutine.
func (h *hud) resize(width, height int) {
	h.width = width
	h.height = height
}

// toggle flips visibility. Call on the scheduler goroutine.
func (h *hud) toggle() {
	h.show = !h.show
}

func (h *hud) draw(st engine.Stats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(h.height, 1) + clearLine)

	if !h.show {
		return
	}

	// Top left: FPS
	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, st.FPS, reset)

	// Top right: time of day
	tod := fmt.Sprintf("%s %05.1f%%", phaseLabel(st.Phase), st.Phase*100)
	todCol := max(h.width-len(tod)-2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, todCol), bgBlack, bold, fgYellow, tod, reset)

	// Bottom: key hints
	hint := "W/S zoom  A/D/arrows orbit  Q/E time  R reset  P shot  Esc quit"
	fmt.Printf("%s%s%s%s %s %s", moveTo(h.height, 1), bgBlack, dim, fgWhite, hint, reset)
}

// phaseLabel names the phase quadrant: 0 is midnight, 0.5 is noon.
func phaseLabel(phase float64) string {
	switch {
	case phase < 0.2:
		return "night"
	case phase < 0.35:
		return "dawn"
	case phase < 0.65:
		return "day"
	case phase < 0.8:
		return "dusk"
	default:
		return "night"
	}
}
