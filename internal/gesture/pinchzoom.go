package gesture

import (
	"math"
	"slices"
)

// Zoom bounds for the detail view. 1.0 is the fitted view; zooming out past
// the fit is never allowed.
const (
	MinZoom = 1.0
	MaxZoom = 5.0
)

// wheelZoomStep converts one wheel notch into a zoom factor.
const wheelZoomStep = 1.1

// PinchPhase is the controller's state.
type PinchPhase int

const (
	PinchIdle PinchPhase = iota
	PinchPanning
	PinchPinching
)

type touchPoint struct {
	x, y float64
}

// PinchZoom tracks the zoom level and pan offset of a zoomable viewport.
// One finger pans (only while zoomed in), two fingers pinch around their
// midpoint, ctrl+wheel zooms around the cursor. Pan is clamped per axis so
// content never detaches from the viewport edge.
type PinchZoom struct {
	// OnChange fires after every transform change.
	OnChange func()

	viewportW, viewportH float64
	contentW, contentH   float64

	zoom       float64
	panX, panY float64

	phase   PinchPhase
	touches map[int]touchPoint

	// Pinch baseline and finger pair, captured when the pinch starts.
	// Fingers past the pair are tracked but never join the gesture.
	startZoom    float64
	startDist    float64
	pairA, pairB int

	panMoved      bool
	suppressClick bool
}

// NewPinchZoom creates a controller at the fitted (unzoomed) state.
func NewPinchZoom() *PinchZoom {
	return &PinchZoom{
		zoom:    MinZoom,
		touches: make(map[int]touchPoint),
	}
}

// Zoom returns the current zoom level.
func (z *PinchZoom) Zoom() float64 { return z.zoom }

// Pan returns the current pan offset in viewport pixels.
func (z *PinchZoom) Pan() (x, y float64) { return z.panX, z.panY }

// Phase returns the controller's current state.
func (z *PinchZoom) Phase() PinchPhase { return z.phase }

// SetViewport records the viewport size and re-clamps the pan.
func (z *PinchZoom) SetViewport(w, h float64) {
	z.viewportW, z.viewportH = w, h
	z.clampPan()
	z.changed()
}

// SetContent records the unzoomed content size and re-clamps the pan.
func (z *PinchZoom) SetContent(w, h float64) {
	z.contentW, z.contentH = w, h
	z.clampPan()
	z.changed()
}

// Reset returns to the fitted state.
func (z *PinchZoom) Reset() {
	z.zoom = MinZoom
	z.panX, z.panY = 0, 0
	z.phase = PinchIdle
	clear(z.touches)
	z.changed()
}

// TouchDown registers a finger. The second finger promotes a pan to a pinch.
func (z *PinchZoom) TouchDown(id int, x, y float64) {
	z.touches[id] = touchPoint{x, y}

	switch len(z.touches) {
	case 1:
		if z.zoom > MinZoom {
			z.phase = PinchPanning
			z.panMoved = false
		}
	case 2:
		z.beginPinch()
	}
}

// beginPinch fixes the finger pair and baseline for the gesture. With more
// than two fingers down the pair is chosen by id so repeated events never
// flip between pairs.
func (z *PinchZoom) beginPinch() {
	ids := make([]int, 0, len(z.touches))
	for id := range z.touches {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	z.pairA, z.pairB = ids[0], ids[1]
	z.phase = PinchPinching
	z.startZoom = z.zoom
	z.startDist = z.touchDistance()
}

// TouchMove updates a finger position and applies the resulting pan or
// pinch transform.
func (z *PinchZoom) TouchMove(id int, x, y float64) {
	prev, ok := z.touches[id]
	if !ok {
		return
	}
	z.touches[id] = touchPoint{x, y}

	switch z.phase {
	case PinchPanning:
		z.panX += x - prev.x
		z.panY += y - prev.y
		z.clampPan()
		if x != prev.x || y != prev.y {
			z.panMoved = true
		}
		z.changed()
	case PinchPinching:
		if id == z.pairA || id == z.pairB {
			z.applyPinch()
		}
	}
}

// TouchUp releases a finger. Lifting to one finger drops a pinch back to a
// pan; lifting the last finger ends the gesture and arms the one-shot click
// suppression if the finger actually panned.
func (z *PinchZoom) TouchUp(id int) {
	delete(z.touches, id)

	// A pinch survives losing a pair finger while two others remain; the
	// gesture restarts around the new pair.
	if z.phase == PinchPinching && (id == z.pairA || id == z.pairB) && len(z.touches) >= 2 {
		z.beginPinch()
		return
	}

	switch len(z.touches) {
	case 1:
		if z.phase == PinchPinching && z.zoom > MinZoom {
			z.phase = PinchPanning
		} else if z.phase == PinchPinching {
			z.phase = PinchIdle
		}
	case 0:
		if z.phase == PinchPanning && z.panMoved {
			z.suppressClick = true
		}
		z.phase = PinchIdle
		z.panMoved = false
	}
}

// Wheel handles scroll input. With ctrl held the wheel zooms around the
// cursor; otherwise it pans, and only while zoomed in.
func (z *PinchZoom) Wheel(dx, dy float64, ctrl bool, x, y float64) {
	if ctrl {
		factor := math.Pow(wheelZoomStep, dy)
		z.zoomAround(z.zoom*factor, x, y)
		return
	}
	if z.zoom <= MinZoom {
		return
	}
	z.panX += dx
	z.panY += dy
	z.clampPan()
	z.changed()
}

// ConsumeClickSuppression reports whether the click that follows a drag-pan
// must be swallowed. Reading it clears it.
func (z *PinchZoom) ConsumeClickSuppression() bool {
	s := z.suppressClick
	z.suppressClick = false
	return s
}

// applyPinch recomputes zoom from the current finger spread and keeps the
// content point under the finger midpoint stationary.
func (z *PinchZoom) applyPinch() {
	if z.startDist <= 0 {
		return
	}
	dist := z.touchDistance()
	if dist <= 0 {
		return
	}

	fx, fy := z.touchMidpoint()
	z.zoomAround(z.startZoom*dist/z.startDist, fx, fy)
}

// zoomAround clamps the target zoom and solves the new pan so the content
// point under the focal position stays under it.
func (z *PinchZoom) zoomAround(target, fx, fy float64) {
	target = math.Max(MinZoom, math.Min(MaxZoom, target))
	if target == z.zoom {
		return
	}

	// Content coordinates of the focal point before the zoom change.
	cx := (fx - z.panX) / z.zoom
	cy := (fy - z.panY) / z.zoom

	z.zoom = target
	z.panX = fx - cx*z.zoom
	z.panY = fy - cy*z.zoom
	z.clampPan()
	z.changed()
}

// clampPan bounds each axis so the zoomed content cannot pull away from the
// viewport. Clamping an already-clamped value is a no-op.
func (z *PinchZoom) clampPan() {
	z.panX = clampAxis(z.panX, z.viewportW, z.contentW*z.zoom)
	z.panY = clampAxis(z.panY, z.viewportH, z.contentH*z.zoom)
}

func clampAxis(pan, viewport, content float64) float64 {
	lo := math.Min(0, viewport-content)
	hi := math.Max(0, viewport-content)
	return math.Max(lo, math.Min(hi, pan))
}

func (z *PinchZoom) touchDistance() float64 {
	pts := z.twoTouches()
	if pts == nil {
		return 0
	}
	return math.Hypot(pts[1].x-pts[0].x, pts[1].y-pts[0].y)
}

func (z *PinchZoom) touchMidpoint() (x, y float64) {
	pts := z.twoTouches()
	if pts == nil {
		return 0, 0
	}
	return (pts[0].x + pts[1].x) / 2, (pts[0].y + pts[1].y) / 2
}

func (z *PinchZoom) twoTouches() []touchPoint {
	a, okA := z.touches[z.pairA]
	b, okB := z.touches[z.pairB]
	if !okA || !okB {
		return nil
	}
	return []touchPoint{a, b}
}

func (z *PinchZoom) changed() {
	if z.OnChange != nil {
		z.OnChange()
	}
}
