// Package room builds the per-room view model for both render modes: which
// entities render, at what scale, with which polygon fill, and where the
// room sits inside the whole-house canvas.
package room

import (
	"log"

	"floorplan/internal/config"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
	"floorplan/internal/render"
	"floorplan/pkg/geometry"
)

// Mode selects the render mode. It is a pure input; the room holds no mode
// state of its own.
type Mode int

const (
	ModeOverview Mode = iota
	ModeDetail
)

// Request carries one room-build pass. Overview mode requires the per-axis
// scale pair; detail mode requires the uniform scalar. Supplying the wrong
// shape for the mode is a programming error: the build logs and returns an
// empty view instead of producing garbage geometry.
type Request struct {
	Room  *config.Room
	House *config.House
	Mode  Mode

	// Detail mode: aspect-preserving fit scale.
	Scale float64
	// Overview mode: independent fit per axis.
	Axes *geometry.Scale2D

	ShowRoomBackgrounds bool
}

// View is the computed room view model handed to the widgets.
type View struct {
	Room *config.Room

	// Bounds of the boundary polygon in image coordinates. The offset of
	// the room container inside the whole-house canvas is Bounds.X/Y
	// multiplied by the overview axis scales.
	Bounds geometry.Rect

	// Effective per-axis scale applied to the room container.
	ScaleX, ScaleY float64

	Placements []render.Placement
	Fill       Coloring
}

// Builder turns rooms into Views using a shared renderer.
type Builder struct {
	Renderer *render.Renderer

	// Areas lets a room with an area id claim the whole area's entities
	// for the dynamic-color scan without listing each one. Optional.
	Areas entity.AreaRegistry

	// Errorf receives mode/scale contract violations. Defaults to
	// log.Printf.
	Errorf func(format string, args ...any)
}

// NewBuilder wires a builder around an existing renderer.
func NewBuilder(r *render.Renderer) *Builder {
	return &Builder{Renderer: r, Errorf: log.Printf}
}

// Build computes the view for one room in the requested mode.
func (b *Builder) Build(req Request) View {
	if req.Room == nil || !req.Room.Renderable() {
		return View{Room: req.Room}
	}
	if !b.validScale(&req) {
		return View{Room: req.Room}
	}

	bounds := geometry.BoundsOf(req.Room.Boundary)
	view := View{
		Room:   req.Room,
		Bounds: bounds,
	}

	rr := render.Request{
		Room:       req.Room,
		Bounds:     bounds,
		ScaleRatio: b.scaleRatio(req.House),
		Context:    elements.ContextPlan,
	}
	if req.House != nil {
		rr.HouseInfoBox = req.House.InfoBox
	}

	switch req.Mode {
	case ModeOverview:
		view.ScaleX, view.ScaleY = req.Axes.X, req.Axes.Y
		// The container is transform-scaled as a whole, so elements
		// must not scale again on top of it.
		rr.Scale = 1
		rr.ScaleRatio = 0
		rr.Entities = overviewEntities(req.Room)
		rr.IncludeInfoBox = true
	case ModeDetail:
		view.ScaleX, view.ScaleY = req.Scale, req.Scale
		rr.Scale = req.Scale
		rr.Context = elements.ContextDetail
		rr.Entities = req.Room.Entities
		rr.IncludeInfoBox = true
	}

	view.Placements = b.Renderer.Render(rr)
	view.Fill = b.coloring(&req)
	return view
}

// validScale enforces the scale-shape contract per mode.
func (b *Builder) validScale(req *Request) bool {
	switch req.Mode {
	case ModeOverview:
		if req.Axes == nil || req.Axes.X <= 0 || req.Axes.Y <= 0 {
			b.errorf("room %q: overview build requires a per-axis scale pair", req.Room.Name)
			return false
		}
	case ModeDetail:
		if req.Axes != nil || req.Scale <= 0 {
			b.errorf("room %q: detail build requires a uniform scale", req.Room.Name)
			return false
		}
	default:
		b.errorf("room %q: unknown render mode %d", req.Room.Name, req.Mode)
		return false
	}
	return true
}

func (b *Builder) scaleRatio(h *config.House) float64 {
	if h == nil {
		return config.DefaultScaleRatio
	}
	return h.EffectiveScaleRatio()
}

// overviewEntities filters out entries marked overview: false.
func overviewEntities(room *config.Room) []config.EntityConfig {
	out := make([]config.EntityConfig, 0, len(room.Entities))
	for _, ec := range room.Entities {
		if ec.Plan != nil && !ec.Plan.OnOverview() {
			continue
		}
		out = append(out, ec)
	}
	return out
}

func (b *Builder) errorf(format string, args ...any) {
	if b.Errorf != nil {
		b.Errorf(format, args...)
	}
}
