// Package canvas provides the zoomable whole-house plan view: the background
// image, room polygon fills, and positioned element overlays.
package canvas

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"floorplan/internal/config"
	"floorplan/internal/gesture"
	"floorplan/internal/render"
	"floorplan/internal/room"
	"floorplan/pkg/geometry"
)

// resizeDebounce defers viewport-dependent scale recomputation while the
// window is being interactively resized.
const resizeDebounce = 100 * time.Millisecond

// PlanCanvas renders the overview: plan image under room fills under
// positioned element cards, with pinch-zoom navigation.
type PlanCanvas struct {
	widget.BaseWidget

	// OnRoomTapped fires with the room index when a click lands inside a
	// room polygon.
	OnRoomTapped func(index int)

	// LayerVisible resolves runtime layer visibility. Nil shows every
	// layer.
	LayerVisible func(layerID string) bool

	// OnElementTapped fires with the placement key when a click lands on
	// an element inside a room that opts into overview clicks.
	OnElementTapped func(key string)

	builder *room.Builder

	mu      sync.Mutex
	house   *config.House
	plan    image.Image
	views   []room.View
	axes    geometry.Scale2D
	imgSize geometry.Size

	zoom     *gesture.PinchZoom
	raster   *fynecanvas.Raster
	overlay  *fyne.Container
	content  *fyne.Container
	ctrlHeld bool
	hits     []elementHit

	resizeTimer *time.Timer
}

// NewPlanCanvas creates the overview canvas.
func NewPlanCanvas(builder *room.Builder) *PlanCanvas {
	c := &PlanCanvas{
		builder: builder,
		zoom:    gesture.NewPinchZoom(),
		overlay: container.NewWithoutLayout(),
		axes:    geometry.Scale2D{X: 1, Y: 1},
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.content = container.NewStack(c.raster, c.overlay)
	c.zoom.OnChange = c.transformChanged
	c.ExtendBaseWidget(c)
	return c
}

func (c *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// SetHouse replaces the displayed configuration and plan image.
func (c *PlanCanvas) SetHouse(house *config.House, plan image.Image) {
	c.mu.Lock()
	c.house = house
	c.plan = plan
	c.imgSize = planSize(house, plan)
	c.mu.Unlock()

	c.zoom.Reset()
	c.recompute()
}

// RefreshState rebuilds the room views against current entity state without
// touching zoom or layout. Called on every state tick.
func (c *PlanCanvas) RefreshState() {
	c.recompute()
}

// recompute refits the per-axis scale and rebuilds every room view.
func (c *PlanCanvas) recompute() {
	c.mu.Lock()
	house := c.house
	size := c.Size()
	if house == nil || c.imgSize.Width <= 0 || c.imgSize.Height <= 0 ||
		size.Width <= 0 || size.Height <= 0 {
		c.views = nil
		c.mu.Unlock()
		c.Refresh()
		return
	}

	c.axes = geometry.Scale2D{
		X: float64(size.Width) / c.imgSize.Width,
		Y: float64(size.Height) / c.imgSize.Height,
	}
	axes := c.axes

	c.views = c.views[:0]
	for i := range house.Rooms {
		c.views = append(c.views, c.builder.Build(room.Request{
			Room:                &house.Rooms[i],
			House:               house,
			Mode:                room.ModeOverview,
			Axes:                &axes,
			ShowRoomBackgrounds: house.ShowRoomBackgrounds,
		}))
	}
	c.mu.Unlock()

	c.rebuildOverlay()
	c.Refresh()
}

// rebuildOverlay repositions every placement card against the current
// transform.
func (c *PlanCanvas) rebuildOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	z := c.zoom.Zoom()
	panX, panY := c.zoom.Pan()

	c.overlay.RemoveAll()
	c.hits = c.hits[:0]
	for vi := range c.views {
		v := &c.views[vi]
		roomX := float32(v.Bounds.X*v.ScaleX*z + panX)
		roomY := float32(v.Bounds.Y*v.ScaleY*z + panY)
		roomW := float32(v.Bounds.Width * v.ScaleX * z)
		roomH := float32(v.Bounds.Height * v.ScaleY * z)

		clickable := v.Room != nil && v.Room.ElementsClickableOnOverview
		c.placeAll(VisiblePlacements(v.Placements, c.LayerVisible), roomX, roomY, roomW, roomH, clickable)
	}
	c.overlay.Refresh()
}

// elementHit is a clickable element's screen rectangle, valid until the
// next overlay rebuild.
type elementHit struct {
	key  string
	pos  fyne.Position
	size fyne.Size
}

func (c *PlanCanvas) placeAll(placements []render.Placement, roomX, roomY, roomW, roomH float32, clickable bool) {
	for i := range placements {
		p := &placements[i]
		if p.Card == nil {
			if len(p.Children) > 0 {
				c.placeAll(p.Children, roomX, roomY, roomW, roomH, clickable)
			}
			continue
		}
		obj := p.Card.Object()
		size := PlacementSize(p, obj, roomW, roomH)
		pos := PlacementOffset(p, roomW, roomH, size.Width, size.Height)
		obj.Resize(size)
		obj.Move(fyne.NewPos(roomX+pos.X, roomY+pos.Y))
		c.overlay.Add(obj)

		if clickable && p.Key != "" {
			c.hits = append(c.hits, elementHit{
				key:  p.Key,
				pos:  fyne.NewPos(roomX+pos.X, roomY+pos.Y),
				size: size,
			})
		}

		if len(p.Children) > 0 {
			c.placeAll(p.Children, roomX+pos.X, roomY+pos.Y, size.Width, size.Height, clickable)
		}
	}
}

// draw renders the plan image and the room fills into the raster at the
// current transform.
func (c *PlanCanvas) draw(w, h int) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if c.house == nil {
		return out
	}

	z := c.zoom.Zoom()
	panX, panY := c.zoom.Pan()
	sx, sy := c.axes.X*z, c.axes.Y*z

	if c.plan != nil {
		pb := c.plan.Bounds()
		dst := image.Rect(
			int(panX), int(panY),
			int(panX+float64(pb.Dx())*sx), int(panY+float64(pb.Dy())*sy),
		)
		xdraw.ApproxBiLinear.Scale(out, dst, c.plan, pb, xdraw.Src, nil)
	}

	for i := range c.views {
		v := &c.views[i]
		fill := v.Fill.FillAt(time.Now())
		if fill.A == 0 {
			continue
		}
		boundary := shiftBoundary(v.Room.Boundary, panX/sx, panY/sy)
		room.FillPolygon(out, boundary, sx, sy, fill)
	}
	return out
}

func shiftBoundary(boundary []geometry.Point2D, dx, dy float64) []geometry.Point2D {
	out := make([]geometry.Point2D, len(boundary))
	for i, p := range boundary {
		out[i] = geometry.Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// transformChanged reflows overlay and raster after any zoom/pan change.
func (c *PlanCanvas) transformChanged() {
	c.rebuildOverlay()
	c.raster.Refresh()
}

// Resize debounces the viewport-dependent refit while the window resizes.
func (c *PlanCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.zoom.SetViewport(float64(size.Width), float64(size.Height))
	c.zoom.SetContent(float64(size.Width), float64(size.Height))

	c.mu.Lock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeTimer = time.AfterFunc(resizeDebounce, c.recompute)
	c.mu.Unlock()
}

// Scrolled implements wheel navigation: ctrl-wheel zooms at the cursor,
// plain wheel pans once zoomed in.
func (c *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if c.ctrlHeld {
		c.zoom.Wheel(0, float64(ev.Scrolled.DY)/10, true, float64(ev.Position.X), float64(ev.Position.Y))
		return
	}
	c.zoom.Wheel(float64(ev.Scrolled.DX), float64(ev.Scrolled.DY), false, 0, 0)
}

// Dragged pans the view with the mouse.
func (c *PlanCanvas) Dragged(ev *fyne.DragEvent) {
	if c.zoom.Phase() == gesture.PinchIdle {
		c.zoom.TouchDown(0, float64(ev.Position.X-ev.Dragged.DX), float64(ev.Position.Y-ev.Dragged.DY))
	}
	c.zoom.TouchMove(0, float64(ev.Position.X), float64(ev.Position.Y))
}

// DragEnd finishes a mouse pan.
func (c *PlanCanvas) DragEnd() {
	c.zoom.TouchUp(0)
}

// Tapped hit-tests rooms, converting the tap back to image coordinates.
// The click directly after a drag-pan is swallowed. Tapping also focuses
// the canvas so the control modifier for wheel zoom arrives without an
// explicit tab stop.
func (c *PlanCanvas) Tapped(ev *fyne.PointEvent) {
	RequestFocus(c)
	if c.zoom.ConsumeClickSuppression() {
		return
	}

	// Elements that opted into overview clicks sit above the room hit.
	if key, ok := c.elementAt(ev.Position); ok {
		if c.OnElementTapped != nil {
			c.OnElementTapped(key)
		}
		return
	}

	if c.OnRoomTapped == nil {
		return
	}

	c.mu.Lock()
	house := c.house
	axes := c.axes
	c.mu.Unlock()
	if house == nil || axes.X <= 0 || axes.Y <= 0 {
		return
	}

	z := c.zoom.Zoom()
	panX, panY := c.zoom.Pan()
	pt := geometry.Point2D{
		X: (float64(ev.Position.X) - panX) / (axes.X * z),
		Y: (float64(ev.Position.Y) - panY) / (axes.Y * z),
	}

	for i := range house.Rooms {
		if geometry.PointInPolygon(pt, house.Rooms[i].Boundary) {
			c.OnRoomTapped(i)
			return
		}
	}
}

// elementAt finds the topmost clickable element under the position.
func (c *PlanCanvas) elementAt(pos fyne.Position) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.hits) - 1; i >= 0; i-- {
		h := c.hits[i]
		if pos.X >= h.pos.X && pos.X <= h.pos.X+h.size.Width &&
			pos.Y >= h.pos.Y && pos.Y <= h.pos.Y+h.size.Height {
			return h.key, true
		}
	}
	return "", false
}

// KeyDown / KeyUp track the control modifier for wheel zoom.
func (c *PlanCanvas) KeyDown(ev *fyne.KeyEvent) {
	if isControl(ev.Name) {
		c.ctrlHeld = true
	}
}

func (c *PlanCanvas) KeyUp(ev *fyne.KeyEvent) {
	if isControl(ev.Name) {
		c.ctrlHeld = false
	}
}

// FocusableObject is a canvas object that can take keyboard focus.
type FocusableObject interface {
	fyne.CanvasObject
	fyne.Focusable
}

// RequestFocus asks the object's canvas to focus it. Outside a window, or
// before the object is shown, there is no canvas and the call is a no-op.
func RequestFocus(obj FocusableObject) {
	a := fyne.CurrentApp()
	if a == nil || a.Driver() == nil {
		return
	}
	if cv := a.Driver().CanvasForObject(obj); cv != nil {
		cv.Focus(obj)
	}
}

func isControl(name fyne.KeyName) bool {
	return name == desktop.KeyControlLeft || name == desktop.KeyControlRight
}

// FocusGained / FocusLost make the canvas focusable so it receives key
// events for the control modifier.
func (c *PlanCanvas) FocusGained() {}

func (c *PlanCanvas) FocusLost() {
	c.ctrlHeld = false
}

func (c *PlanCanvas) TypedRune(rune)          {}
func (c *PlanCanvas) TypedKey(*fyne.KeyEvent) {}

// planSize derives the plan's image-coordinate extent: the image's own size
// when present, else the union of the room bounding boxes.
func planSize(house *config.House, plan image.Image) geometry.Size {
	if plan != nil {
		b := plan.Bounds()
		return geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	if house == nil {
		return geometry.Size{}
	}

	var max geometry.Size
	for i := range house.Rooms {
		b := geometry.BoundsOf(house.Rooms[i].Boundary)
		if b.MaxX() > max.Width {
			max.Width = b.MaxX()
		}
		if b.MaxY() > max.Height {
			max.Height = b.MaxY()
		}
	}
	return max
}
