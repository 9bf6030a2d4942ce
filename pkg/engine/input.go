// Package engine drives the frame loop: input sampling, state updates, and
// frame pacing.
package engine

import (
	"sync"
	"time"
)

// Intent is one abstract input action. Key bindings live at the edge (the
// terminal event goroutine); everything inside the loop speaks intents.
type Intent uint16

const (
	ZoomIn Intent = 1 << iota
	ZoomOut
	RotateLeft
	RotateRight
	RotateUp
	RotateDown
	CycleForward
	CycleBackward
	ResetView
	Quit
)

// IntentSet is a bitset of simultaneously active intents.
type IntentSet uint16

// Has reports whether the intent is in the set.
func (s IntentSet) Has(i Intent) bool {
	return s&IntentSet(i) != 0
}

// Empty reports whether no intent is active.
func (s IntentSet) Empty() bool {
	return s == 0
}

// Movement reports whether any camera movement intent is active.
func (s IntentSet) Movement() bool {
	const move = ZoomIn | ZoomOut | RotateLeft | RotateRight | RotateUp | RotateDown
	return s&IntentSet(move) != 0
}

// DefaultHoldWindow is how long a held intent stays active after its last
// press event. It must outlast the terminal's autorepeat initial delay
// (commonly 300-500ms) or held movement stutters between the first press
// and the first repeat. Key release events are unreliable, so the window is
// also the worst-case overshoot after an unreported release.
const DefaultHoldWindow = 600 * time.Millisecond

// Sampler collects key events from the terminal goroutine and turns them
// into one IntentSet per frame. Held intents (movement, cycle scrub) stay
// active while the key repeats; one-shot intents (quit, reset) latch until
// the next Sample call consumes them.
type Sampler struct {
	mu         sync.Mutex
	held       map[Intent]time.Time // intent -> last press
	latched    IntentSet
	holdWindow time.Duration
	now        func() time.Time
}

// NewSampler creates a sampler with the default hold window.
func NewSampler() *Sampler {
	return &Sampler{
		held:       make(map[Intent]time.Time),
		holdWindow: DefaultHoldWindow,
		now:        time.Now,
	}
}

// Press records a key press mapped to the given intent.
func (s *Sampler) Press(i Intent) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch i {
	case Quit, ResetView:
		s.latched |= IntentSet(i)
	default:
		s.held[i] = s.now()
	}
}

// Release records a key release. Releases are best-effort: a missed release
// is healed by the hold window expiring.
func (s *Sampler) Release(i Intent) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, i)
}

// Sample snapshots the current intent set. Held intents whose last press
// fell out of the hold window are dropped; latched one-shots are consumed.
// A nil sampler (input source unavailable) yields the empty set.
func (s *Sampler) Sample() IntentSet {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := s.latched
	s.latched = 0

	for intent, pressed := range s.held {
		if now.Sub(pressed) > s.holdWindow {
			delete(s.held, intent)
			continue
		}
		out |= IntentSet(intent)
	}
	return out
}
