package gesture

import "math"

// DragThreshold is how far the pointer must travel, in screen pixels, before
// a press becomes a drag. Presses that stay inside it remain clicks.
const DragThreshold = 5.0

// DragPhase is the tracker's state.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragPending
	DragActive
)

// Drop describes a finished drag: the tracked element key and the raw,
// uncompensated pointer delta in screen pixels. Consumers convert the delta
// into their own coordinate space; the tracker does not guess at it.
type Drop struct {
	Key    string
	DX, DY float64
}

// DragTracker runs the idle, pending, active state machine for one drag
// surface tree. It tracks a single pointer; events from other pointer ids
// are ignored while a press is live.
type DragTracker struct {
	// Threshold overrides DragThreshold when positive.
	Threshold float64

	// Resolve maps the tracked key to its current surface. Called on every
	// move and on cancel because a re-render may have replaced the node.
	Resolve func(key string) (Surface, bool)

	// AncestorScale returns the accumulated scale between screen pixels
	// and the surface's coordinate space. The preview offset divides by it
	// so the element tracks the pointer under a zoomed canvas. Nil means 1.
	AncestorScale func() float64

	// ClaimedByDescendant reports whether a nested drag surface owns the
	// press at the given screen position. The outer tracker then stays
	// idle and lets the inner one run.
	ClaimedByDescendant func(x, y float64) bool

	// OnDrop receives the finished drag.
	OnDrop func(Drop)

	phase     DragPhase
	pointerID int
	key       string
	startX    float64
	startY    float64
	lastDX    float64
	lastDY    float64
}

// Phase returns the tracker's current state.
func (t *DragTracker) Phase() DragPhase { return t.phase }

// Key returns the element key of the live press, if any.
func (t *DragTracker) Key() string { return t.key }

func (t *DragTracker) threshold() float64 {
	if t.Threshold > 0 {
		return t.Threshold
	}
	return DragThreshold
}

func (t *DragTracker) scale() float64 {
	if t.AncestorScale == nil {
		return 1
	}
	if s := t.AncestorScale(); s > 0 {
		return s
	}
	return 1
}

// PointerDown starts tracking a press on the element identified by key.
// It reports whether the press was accepted.
func (t *DragTracker) PointerDown(pointerID int, key string, x, y float64) bool {
	if t.phase != DragIdle {
		return false
	}
	if t.ClaimedByDescendant != nil && t.ClaimedByDescendant(x, y) {
		return false
	}

	t.phase = DragPending
	t.pointerID = pointerID
	t.key = key
	t.startX, t.startY = x, y
	t.lastDX, t.lastDY = 0, 0
	return true
}

// PointerMove advances the state machine. Crossing the threshold promotes
// the press to an active drag; while active, the surface previews the
// scale-compensated offset.
func (t *DragTracker) PointerMove(pointerID int, x, y float64) {
	if t.phase == DragIdle || pointerID != t.pointerID {
		return
	}

	dx, dy := x-t.startX, y-t.startY
	if t.phase == DragPending {
		if math.Hypot(dx, dy) < t.threshold() {
			return
		}
		t.phase = DragActive
	}

	t.lastDX, t.lastDY = dx, dy
	if s, ok := t.resolve(); ok {
		k := t.scale()
		s.ApplyTransform(dx/k, dy/k)
	}
}

// PointerUp finishes the press. An active drag commits and reports the raw
// delta through OnDrop; a press that never crossed the threshold ends
// silently so the widget can treat it as a click.
func (t *DragTracker) PointerUp(pointerID int, x, y float64) {
	if t.phase == DragIdle || pointerID != t.pointerID {
		return
	}

	wasActive := t.phase == DragActive
	dx, dy := x-t.startX, y-t.startY
	key := t.key
	t.reset()

	if !wasActive {
		return
	}
	if s, ok := t.resolveKey(key); ok {
		k := t.scale()
		s.Commit(dx/k, dy/k, false)
	}
	if t.OnDrop != nil {
		t.OnDrop(Drop{Key: key, DX: dx, DY: dy})
	}
}

// Cancel aborts the live drag, typically on Escape. The surface is
// re-resolved by key so a node swapped in by a re-render still reverts.
func (t *DragTracker) Cancel() {
	if t.phase == DragIdle {
		return
	}

	wasActive := t.phase == DragActive
	dx, dy := t.lastDX, t.lastDY
	key := t.key
	t.reset()

	if !wasActive {
		return
	}
	if s, ok := t.resolveKey(key); ok {
		k := t.scale()
		s.Commit(dx/k, dy/k, true)
	}
}

func (t *DragTracker) resolve() (Surface, bool) {
	return t.resolveKey(t.key)
}

func (t *DragTracker) resolveKey(key string) (Surface, bool) {
	if t.Resolve == nil {
		return nil, false
	}
	return t.Resolve(key)
}

func (t *DragTracker) reset() {
	t.phase = DragIdle
	t.pointerID = 0
	t.key = ""
	t.lastDX, t.lastDY = 0, 0
}
