// Package card assembles the top-level floor plan view: the overview
// canvas, the room detail view, the entities list, and the layers editor.
// It owns the authoritative configuration and applies every editor delta.
package card

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"floorplan/internal/app"
	"floorplan/internal/cards"
	"floorplan/internal/config"
	"floorplan/internal/dnd"
	"floorplan/internal/elements"
	"floorplan/internal/gesture"
	"floorplan/internal/render"
	"floorplan/internal/room"
	"floorplan/pkg/geometry"
	"floorplan/ui/canvas"
	"floorplan/ui/editor"
	"floorplan/ui/prefs"
)

// Card is the application's main widget.
type Card struct {
	widget.BaseWidget

	state    *app.State
	renderer *render.Renderer
	builder  *room.Builder
	coord    *dnd.Coordinator

	visibility *prefs.Visibility

	plan    *canvas.PlanCanvas
	layers  *editor.LayersPanel
	detail  *detailView
	content *fyne.Container
}

// New builds the card against the application state.
func New(state *app.State) *Card {
	c := &Card{state: state}

	c.renderer = render.NewRenderer(elements.NewRegistry(), cards.NewBuiltinFactory(), state.States)
	c.builder = room.NewBuilder(c.renderer)
	c.builder.Areas = state.Areas
	c.coord = dnd.NewCoordinator(c.applyCrossMove)

	c.plan = canvas.NewPlanCanvas(c.builder)
	c.plan.OnRoomTapped = state.OpenRoomDetail
	c.plan.OnElementTapped = state.FocusElement
	c.plan.LayerVisible = c.layerVisible

	c.layers = editor.NewLayersPanel(c.applyDelta, c.coord)
	c.detail = newDetailView(c.builder, state, c.applyElementMove)
	c.detail.layerVisible = c.layerVisible

	c.content = container.NewStack()
	c.ExtendBaseWidget(c)

	state.On(app.EventConfigLoaded, func(any) { c.configReplaced() })
	state.On(app.EventConfigChanged, func(any) { c.configReplaced() })
	state.On(app.EventEntityStatesChanged, func(any) { c.stateTicked() })
	state.On(app.EventViewChanged, func(any) { c.showView() })

	c.showView()
	return c
}

func (c *Card) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// configReplaced reacts to a wholesale configuration change: caches drop,
// every view rebuilds.
func (c *Card) configReplaced() {
	house := c.state.Config()

	c.renderer.InvalidateCaches()
	if house != nil {
		c.visibility = prefs.Load(house.PersistenceID)
	}
	c.plan.SetHouse(house, c.state.Plan())
	c.layers.SetHouse(house)
	c.detail.setHouse(house)
	c.showView()
}

// stateTicked refreshes live visuals without structural rebuilds.
func (c *Card) stateTicked() {
	c.plan.RefreshState()
	c.detail.refresh()
}

// applyDelta commits one editor edit: clone, mutate, swap in.
func (c *Card) applyDelta(d editor.Delta) {
	house := c.state.Config()
	if house == nil {
		return
	}
	next := house.Clone()
	d(next)
	c.state.ApplyConfig(next)
}

// applyCrossMove commits a paired cross-container move. The removal's delta
// already ran; this one inserts the carried payload at the destination.
func (c *Card) applyCrossMove(m dnd.Move) {
	switch m.Kind {
	case "element":
		payload, ok := m.Payload.(config.EntityConfig)
		if !ok {
			log.Printf("cross-move: unexpected element payload %T", m.Payload)
			return
		}
		li, gi, ok := editor.ParseElementLocator(m.To)
		if !ok {
			log.Printf("cross-move: bad target locator %q", m.To)
			return
		}
		c.applyDelta(func(h *config.House) {
			if li >= len(h.Layers) || gi >= len(h.Layers[li].Groups) {
				return
			}
			g := &h.Layers[li].Groups[gi]
			g.Elements = append(g.Elements, payload)
		})
	case "group":
		payload, ok := m.Payload.(config.Group)
		if !ok {
			log.Printf("cross-move: unexpected group payload %T", m.Payload)
			return
		}
		var li int
		if _, err := fmt.Sscanf(m.To, "%d", &li); err != nil {
			log.Printf("cross-move: bad target locator %q", m.To)
			return
		}
		c.applyDelta(func(h *config.House) {
			if li >= len(h.Layers) {
				return
			}
			h.Layers[li].Groups = append(h.Layers[li].Groups, payload)
		})
	}
}

// applyElementMove commits a drag-to-reposition drop in the detail view.
// The delta arrives in room image coordinates.
func (c *Card) applyElementMove(key string, dx, dy float64) {
	idx := c.state.DetailRoom
	c.applyDelta(func(h *config.House) {
		if idx < 0 || idx >= len(h.Rooms) {
			return
		}
		r := &h.Rooms[idx]
		b := geometry.BoundsOf(r.Boundary)
		moveElement(r.Entities, "", key, dx, dy, b.Width, b.Height)
	})
}

// moveElement finds the entity whose cache key matches and offsets its
// stored anchors. Group children are matched under the parent's key scope
// and offset in the parent's own coordinate space.
func moveElement(entities []config.EntityConfig, scope, key string, dx, dy, spanW, spanH float64) bool {
	for i := range entities {
		ec := &entities[i]
		if !ec.Positioned() {
			continue
		}
		overrideType := ""
		if ec.Plan.Element != nil {
			overrideType = ec.Plan.Element.Type
		}
		k := render.UniqueKey(scope, ec.Entity, overrideType, ec.Plan)
		if k == key {
			shiftAnchor(&ec.Plan.Left, &ec.Plan.Right, dx, spanW)
			shiftAnchor(&ec.Plan.Top, &ec.Plan.Bottom, dy, spanH)
			return true
		}
		if ec.Plan.Element != nil && len(ec.Plan.Element.Elements) > 0 {
			if moveElement(ec.Plan.Element.Elements, k, key, dx, dy,
				ec.Plan.Element.Width, ec.Plan.Element.Height) {
				return true
			}
		}
	}
	return false
}

// shiftAnchor offsets whichever anchor of the pair is configured. The far
// anchor moves against the pointer. An unanchored axis, previously
// centred, gains a near pixel anchor at the room centre plus the drag.
func shiftAnchor(near, far **config.Dimension, delta, span float64) {
	switch {
	case *near != nil:
		*near = shifted(*near, delta, span)
	case *far != nil:
		*far = shifted(*far, -delta, span)
	default:
		*near = config.Px(span/2 + delta)
	}
}

func shifted(d *config.Dimension, delta, span float64) *config.Dimension {
	if d.IsPercent() && span > 0 {
		var pct float64
		if _, err := fmt.Sscanf(d.Percent, "%g%%", &pct); err == nil {
			return config.Pct(fmt.Sprintf("%g%%", pct+delta/span*100))
		}
		return d
	}
	return config.Px(d.Pixels + delta)
}

// showView swaps the stack to the state's current view.
func (c *Card) showView() {
	var view fyne.CanvasObject
	switch c.state.View {
	case app.ViewDetail:
		view = c.detailContainer()
	case app.ViewEntities:
		view = c.entitiesContainer()
	default:
		view = c.overviewContainer()
	}

	c.content.RemoveAll()
	c.content.Add(view)
	c.content.Refresh()
}

func (c *Card) overviewContainer() fyne.CanvasObject {
	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Entities", theme.ListIcon(), c.state.ShowEntities),
		c.layerToggles(),
	)
	split := container.NewHSplit(c.plan, container.NewVScroll(c.layers))
	split.SetOffset(0.72)
	return container.NewBorder(toolbar, nil, nil, nil, split)
}

func (c *Card) detailContainer() fyne.CanvasObject {
	back := widget.NewButtonWithIcon("Overview", theme.NavigateBackIcon(), c.state.ShowOverview)
	return container.NewBorder(container.NewHBox(back), nil, nil, nil, c.detail)
}

// entitiesContainer lists every entity config, including plan-less
// shorthand entries that never render spatially.
func (c *Card) entitiesContainer() fyne.CanvasObject {
	back := widget.NewButtonWithIcon("Overview", theme.NavigateBackIcon(), c.state.ShowOverview)

	type row struct {
		room  string
		label string
		key   string
	}
	var rows []row
	if house := c.state.Config(); house != nil {
		for i := range house.Rooms {
			r := &house.Rooms[i]
			for j := range r.Entities {
				ec := &r.Entities[j]
				label := ec.Entity
				overrideType := ""
				if ec.Plan != nil && ec.Plan.Element != nil {
					overrideType = ec.Plan.Element.Type
				}
				if label == "" {
					label = overrideType
				}
				rows = append(rows, row{
					room:  r.Name,
					label: label,
					key:   render.UniqueKey("", ec.Entity, overrideType, ec.Plan),
				})
			}
		}
	}

	list := widget.NewList(
		func() int { return len(rows) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewLabel(""), widget.NewLabel(""))
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(rows[i].label)
			box.Objects[1].(*widget.Label).SetText(rows[i].room)
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		c.state.FocusElement(rows[i].key)
	}
	return container.NewBorder(container.NewHBox(back), nil, nil, nil, list)
}

// layerVisible resolves runtime visibility for a layer id: the persisted
// override when one exists, else the layer's configured default. Unknown
// ids stay visible.
func (c *Card) layerVisible(id string) bool {
	house := c.state.Config()
	if house == nil {
		return true
	}
	layer := house.LayerByID(id)
	if layer == nil {
		return true
	}
	if c.visibility == nil {
		return layer.Visible
	}
	return c.visibility.Visible(id, layer.Visible)
}

// layerToggles renders a check per toggleable layer, persisting runtime
// visibility on every flip.
func (c *Card) layerToggles() fyne.CanvasObject {
	house := c.state.Config()
	if house == nil || c.visibility == nil {
		return container.NewHBox()
	}

	box := container.NewHBox()
	for i := range house.Layers {
		layer := house.Layers[i]
		if !layer.ShowInToggles {
			continue
		}
		check := widget.NewCheck(layer.Name, func(v bool) {
			if err := c.visibility.SetVisible(layer.ID, v); err != nil {
				log.Printf("persist layer visibility: %v", err)
			}
			c.state.Emit(app.EventLayerVisibilityChanged, layer.ID)
			c.plan.RefreshState()
			c.detail.refresh()
		})
		check.SetChecked(c.visibility.Visible(layer.ID, layer.Visible))
		box.Add(check)
	}
	return box
}

// detailView shows a single room fitted to its viewport.
type detailView struct {
	widget.BaseWidget

	builder      *room.Builder
	state        *app.State
	house        *config.House
	onMoved      func(key string, dx, dy float64)
	layerVisible func(layerID string) bool

	bg      *fynecanvas.Image
	overlay *fyne.Container
	stack   *fyne.Container
	handles []*canvas.ElementHandle
}

func newDetailView(builder *room.Builder, state *app.State, onMoved func(key string, dx, dy float64)) *detailView {
	d := &detailView{
		builder: builder,
		state:   state,
		onMoved: onMoved,
		overlay: container.NewWithoutLayout(),
	}
	d.bg = &fynecanvas.Image{FillMode: fynecanvas.ImageFillContain}
	d.stack = container.NewStack(d.bg, d.overlay)
	d.ExtendBaseWidget(d)
	return d
}

func (d *detailView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.stack)
}

func (d *detailView) setHouse(house *config.House) {
	d.house = house
	d.refresh()
}

func (d *detailView) refresh() {
	if d.house == nil || d.state.DetailRoom < 0 || d.state.DetailRoom >= len(d.house.Rooms) {
		d.overlay.RemoveAll()
		d.bg.Image = nil
		d.Refresh()
		return
	}
	r := &d.house.Rooms[d.state.DetailRoom]

	scale := d.fitScale(r)
	if scale <= 0 {
		return
	}

	v := d.builder.Build(room.Request{
		Room:  r,
		House: d.house,
		Mode:  room.ModeDetail,
		Scale: scale,
	})

	d.bg.Image = room.DetailSurface(d.state.Plan(), r.Boundary, scale, v.Fill.FillAt(time.Now()))
	d.bg.Refresh()

	d.overlay.RemoveAll()
	d.handles = d.handles[:0]
	roomW := float32(v.Bounds.Width * scale)
	roomH := float32(v.Bounds.Height * scale)
	placements := canvas.VisiblePlacements(v.Placements, d.layerVisible)
	for i := range placements {
		p := &placements[i]
		if p.Card == nil {
			continue
		}
		obj := p.Card.Object()
		size := canvas.PlacementSize(p, obj, roomW, roomH)
		pos := canvas.PlacementOffset(p, roomW, roomH, size.Width, size.Height)
		// Handles live in widget space, which the fit scale never
		// transforms, so the preview follows the pointer 1:1. Only the
		// committed delta is converted to plan units.
		handle := canvas.NewElementHandle(p.Key, obj, nil,
			func(drop gesture.Drop) {
				if d.onMoved != nil {
					d.onMoved(drop.Key, drop.DX/scale, drop.DY/scale)
				}
			})
		handle.OnDragStart = func() { canvas.RequestFocus(d) }
		handle.Resize(size)
		handle.Move(pos)
		d.overlay.Add(handle)
		d.handles = append(d.handles, handle)
	}
	d.overlay.Refresh()
}

// Tapped grabs keyboard focus so Escape reaches the view.
func (d *detailView) Tapped(*fyne.PointEvent) {
	canvas.RequestFocus(d)
}

// Escape aborts any drag in flight. The view holds focus only so it can
// receive the key; starting a handle drag also focuses it.
func (d *detailView) FocusGained() {}
func (d *detailView) FocusLost()   {}
func (d *detailView) TypedRune(rune) {}

func (d *detailView) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name != fyne.KeyEscape {
		return
	}
	for _, h := range d.handles {
		h.CancelDrag()
	}
}

// fitScale fits the room's bounds into the current viewport, preserving
// aspect.
func (d *detailView) fitScale(r *config.Room) float64 {
	size := d.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 1
	}

	b := geometry.BoundsOf(r.Boundary)
	if b.Width <= 0 || b.Height <= 0 {
		return 1
	}

	sx := float64(size.Width) / b.Width
	sy := float64(size.Height) / b.Height
	if sx < sy {
		return sx
	}
	return sy
}
