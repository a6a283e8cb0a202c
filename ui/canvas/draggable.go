package canvas

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"floorplan/internal/gesture"
)

// ElementHandle wraps one placed card object and makes it draggable for
// repositioning. It translates Fyne drag events into the pointer protocol
// of gesture.DragTracker and acts as the tracker's drag surface: previews
// move the handle itself, the committed drop is reported through OnDrop
// with the raw screen-space delta.
type ElementHandle struct {
	widget.BaseWidget

	// OnDragStart fires when a press begins tracking, before any preview
	// movement. The detail view uses it to grab keyboard focus so Escape
	// can cancel the drag.
	OnDragStart func()

	tracker *gesture.DragTracker
	key     string
	box     *fyne.Container

	dragging bool
	base     fyne.Position
	x, y     float64
}

// NewElementHandle wraps obj. scale reports the accumulated transform
// between screen pixels and the handle's coordinate space so the preview
// tracks the pointer on a zoomed canvas. Pass nil when the handle lives in
// untransformed widget space.
func NewElementHandle(key string, obj fyne.CanvasObject, scale func() float64, onDrop func(gesture.Drop)) *ElementHandle {
	h := &ElementHandle{key: key, box: container.NewStack(obj)}
	h.tracker = &gesture.DragTracker{
		Resolve:       func(string) (gesture.Surface, bool) { return h, true },
		AncestorScale: scale,
		OnDrop:        onDrop,
	}
	h.ExtendBaseWidget(h)
	return h
}

func (h *ElementHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.box)
}

// ApplyTransform previews the drag by offsetting the handle from its
// pre-drag position. The delta arrives already compensated for the
// ancestor scale.
func (h *ElementHandle) ApplyTransform(dx, dy float64) {
	h.Move(fyne.NewPos(h.base.X+float32(dx), h.base.Y+float32(dy)))
}

// Commit ends the preview. A cancelled drag snaps back; a real drop leaves
// the preview in place until the configuration change re-renders the view.
func (h *ElementHandle) Commit(dx, dy float64, cancelled bool) {
	if cancelled {
		h.Move(h.base)
	}
}

// Dragged feeds the tracker. Fyne reports no press event before the first
// drag tick, so the press position is reconstructed from the first event's
// delta.
func (h *ElementHandle) Dragged(e *fyne.DragEvent) {
	if !h.dragging {
		h.dragging = true
		h.base = h.Position()
		h.x = float64(e.Position.X - e.Dragged.DX)
		h.y = float64(e.Position.Y - e.Dragged.DY)
		h.tracker.PointerDown(0, h.key, h.x, h.y)
		if h.OnDragStart != nil {
			h.OnDragStart()
		}
	}
	h.x += float64(e.Dragged.DX)
	h.y += float64(e.Dragged.DY)
	h.tracker.PointerMove(0, h.x, h.y)
}

// CancelDrag aborts a drag in flight, snapping the preview back. Safe to
// call when no drag is active.
func (h *ElementHandle) CancelDrag() {
	if !h.dragging {
		return
	}
	h.dragging = false
	h.tracker.Cancel()
}

func (h *ElementHandle) DragEnd() {
	if !h.dragging {
		return
	}
	h.dragging = false
	h.tracker.PointerUp(0, h.x, h.y)
}
