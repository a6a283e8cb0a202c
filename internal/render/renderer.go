package render

import (
	"log"

	"floorplan/internal/cards"
	"floorplan/internal/config"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
	"floorplan/pkg/geometry"
)

// Placement is one positioned element produced by the pipeline. Offsets are
// percentage strings of the scaled room bounds (or authored percentage
// literals passed through); the UI layer interprets them at layout time.
type Placement struct {
	Key     string
	Entity  string
	LayerID string
	Type    string
	Card    cards.Card

	Left, Top, Right, Bottom string
	Width, Height            string

	Scale  float64
	Origin string
	Style  config.Style

	DisableDynamicColor bool
	ExcludeFromInfoBox  bool

	// Children of a group container, positioned relative to the
	// container's own origin.
	Children []Placement
}

// Request carries one room-render pass's inputs. The caller (the room
// component) pre-filters entities for the active mode; the renderer applies
// only the plan-section and show filters.
type Request struct {
	Room     *config.Room
	Entities []config.EntityConfig
	Bounds   geometry.Rect

	Scale      float64
	ScaleRatio float64
	Context    string // elements.ContextPlan or ContextDetail

	// House-level info box default; Room's own config overrides it.
	HouseInfoBox   *config.InfoBoxConfig
	IncludeInfoBox bool

	// Cache-scoping token for nested renders; empty at the top level.
	scope string
}

// Renderer is the coordinate-transform pipeline. It is shared across rooms
// and both view modes within one card instance, together with its caches.
type Renderer struct {
	Registry *elements.Registry
	Factory  cards.Factory
	States   entity.StateProvider
	Cards    *CardCache
	House    *HouseCache

	// Warnf receives per-element diagnostics. Defaults to log.Printf.
	Warnf func(format string, args ...any)
}

// NewRenderer wires a renderer with fresh caches.
func NewRenderer(registry *elements.Registry, factory cards.Factory, states entity.StateProvider) *Renderer {
	return &Renderer{
		Registry: registry,
		Factory:  factory,
		States:   states,
		Cards:    NewCardCache(),
		House:    NewHouseCache(),
		Warnf:    log.Printf,
	}
}

// InvalidateCaches clears the card and metadata caches wholesale. Called
// when the configuration object changes; never per entity.
func (r *Renderer) InvalidateCaches() {
	r.Cards.Clear()
	r.House.Clear()
}

// Render runs the pipeline for one room pass. Malformed per-element
// configuration degrades that single element; it never aborts siblings.
func (r *Renderer) Render(req Request) []Placement {
	out := make([]Placement, 0, len(req.Entities))

	for i := range req.Entities {
		ec := &req.Entities[i]
		if !ec.Positioned() {
			// String-shorthand entries never render spatially.
			continue
		}
		if !ec.Plan.Shown() {
			continue
		}
		p, ok := r.renderOne(&req, ec)
		if !ok {
			continue
		}
		out = append(out, p)
	}

	if req.IncludeInfoBox {
		if p, ok := r.renderInfoBox(&req); ok {
			out = append(out, p)
		}
	}

	return out
}

func (r *Renderer) renderOne(req *Request, ec *config.EntityConfig) (Placement, bool) {
	plan := ec.Plan

	overrideType := ""
	if plan.Element != nil {
		overrideType = plan.Element.Type
	}
	if ec.Entity == "" && overrideType == "" {
		r.warnf("room %q: skipping no-entity element without element type", roomName(req))
		return Placement{}, false
	}

	// Live state supplies the device-class hint and the card's state.
	var st entity.State
	var haveState bool
	if ec.Entity != "" && r.States != nil {
		st, haveState = r.States.GetState(ec.Entity)
	}

	key := UniqueKey(req.scope, ec.Entity, overrideType, plan)

	def := r.House.Definition(key, func() elements.Definition {
		resolved := elements.Definition{Type: overrideType}
		if ec.Entity != "" {
			resolved = r.Registry.Resolve(ec.Entity, st.DeviceClass(), req.Context)
		}
		return elements.Merge(resolved, plan.Element)
	})

	p := r.place(req, key, ec.Entity, def.Type, plan)

	if def.Type == elements.TypeGroup {
		p.Children = r.renderGroup(req, key, plan)
		return p, true
	}

	card, err := r.Cards.GetOrCreate(key, func() (cards.Card, error) {
		return r.Factory.Create(cards.Config{Type: def.Type, Entity: ec.Entity, Props: def.Props})
	})
	if err != nil {
		r.warnf("room %q: card factory failed for %q (%s): %v", roomName(req), key, def.Type, err)
		card, _ = r.Cards.GetOrCreate(key, func() (cards.Card, error) {
			return cards.NewErrorCard(def.Type), nil
		})
	}
	// Never recreate an existing instance; only refresh its live state.
	if haveState {
		card.SetState(st)
	}
	p.Card = card

	r.House.RecordPlacement(p)
	return p, true
}

// place computes the geometric part of a placement.
func (r *Renderer) place(req *Request, key, entityID, elementType string, plan *config.PlanConfig) Placement {
	es := ElementScale(req.Scale, req.ScaleRatio)
	hs := PositionScale(plan.HorizontalScaling(), req.Scale, es)
	vs := PositionScale(plan.VerticalScaling(), req.Scale, es)

	return Placement{
		Key:     key,
		Entity:  entityID,
		LayerID: plan.LayerID,
		Type:    elementType,

		Left:   resolveDim(plan.Left, hs, req.Bounds.Width, req.Scale),
		Right:  resolveDim(plan.Right, hs, req.Bounds.Width, req.Scale),
		Top:    resolveDim(plan.Top, vs, req.Bounds.Height, req.Scale),
		Bottom: resolveDim(plan.Bottom, vs, req.Bounds.Height, req.Scale),
		Width:  resolveDim(plan.Width, hs, req.Bounds.Width, req.Scale),
		Height: resolveDim(plan.Height, vs, req.Bounds.Height, req.Scale),

		Scale:  es,
		Origin: Origin(plan),
		Style:  plan.Style,

		DisableDynamicColor: plan.DisableDynamicColor,
		ExcludeFromInfoBox:  plan.ExcludeFromInfoBox,
	}
}

// renderGroup renders a container's children against the container's own
// coordinate space, scoped under the container key so sibling containers
// with identical child configs keep distinct cache identities.
func (r *Renderer) renderGroup(req *Request, parentKey string, plan *config.PlanConfig) []Placement {
	if plan.Element == nil || len(plan.Element.Elements) == 0 {
		return nil
	}

	w, h := plan.Element.Width, plan.Element.Height
	if w <= 0 || h <= 0 {
		r.warnf("room %q: group %q needs explicit width and height", roomName(req), parentKey)
		return nil
	}

	child := *req
	child.Entities = plan.Element.Elements
	child.Bounds = geometry.NewRect(0, 0, w, h)
	child.IncludeInfoBox = false
	child.scope = parentKey
	return r.Render(child)
}

func (r *Renderer) warnf(format string, args ...any) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
	}
}

func roomName(req *Request) string {
	if req.Room != nil {
		return req.Room.Name
	}
	return ""
}
