package room

import (
	"image/color"
	"time"

	"floorplan/internal/config"
	"floorplan/internal/entity"
	"floorplan/pkg/colorutil"
)

// ColorMode says how the room polygon is filled.
type ColorMode int

const (
	// FillNone leaves the polygon transparent (overview with room
	// backgrounds disabled).
	FillNone ColorMode = iota
	// FillStatic paints the room's configured or neutral color.
	FillStatic
	// FillLight paints the light accent over the base color.
	FillLight
	// FillMotion paints the breathing motion gradient.
	FillMotion
)

// Coloring is the computed polygon fill. For FillMotion the widget
// cross-fades between PulseLow and PulseHigh to get the breathing effect
// without recomputing state per frame.
type Coloring struct {
	Mode ColorMode
	Base color.RGBA

	PulseLow  color.RGBA
	PulseHigh color.RGBA
}

// FillAt resolves the coloring to a concrete fill at the given instant. The
// motion breathing pulse runs off the wall clock with a 2s period, so any
// widget redrawing on a tick animates it without extra state.
func (f Coloring) FillAt(now time.Time) color.RGBA {
	switch f.Mode {
	case FillMotion:
		phase := float64(now.UnixMilli()%2000) / 1000
		if phase > 1 {
			phase = 2 - phase
		}
		return lerpColor(f.PulseLow, f.PulseHigh, phase)
	case FillLight, FillStatic:
		return f.Base
	default:
		return color.RGBA{}
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// coloring computes the polygon fill by priority: active motion or
// occupancy, then any active light, then the neutral baseline. Per-room and
// per-entity opt-outs drop an entity out of the dynamic scan, not out of
// rendering.
func (b *Builder) coloring(req *Request) Coloring {
	base := colorutil.NeutralFill
	if req.Room.Color != "" {
		if c, err := colorutil.Parse(req.Room.Color); err == nil {
			base = c
		} else {
			b.errorf("room %q: bad color %q: %v", req.Room.Name, req.Room.Color, err)
		}
	}

	if req.Mode == ModeOverview && !req.ShowRoomBackgrounds {
		return Coloring{Mode: FillNone}
	}
	if req.Room.DisableDynamicColor {
		return Coloring{Mode: FillStatic, Base: base}
	}

	motion, light := b.scanActivity(req.Room)
	switch {
	case motion:
		accent := colorutil.Blend(base, colorutil.MotionAccent, 0.75)
		return Coloring{
			Mode:      FillMotion,
			Base:      base,
			PulseLow:  colorutil.WithAlpha(accent, accent.A/3),
			PulseHigh: accent,
		}
	case light:
		return Coloring{
			Mode: FillLight,
			Base: colorutil.Blend(base, colorutil.LightAccent, 0.6),
		}
	default:
		return Coloring{Mode: FillStatic, Base: base}
	}
}

func (b *Builder) scanActivity(room *config.Room) (motion, light bool) {
	states := b.Renderer.States
	if states == nil {
		return false, false
	}

	seen := make(map[string]bool, len(room.Entities))
	for i := range room.Entities {
		ec := &room.Entities[i]
		if ec.Entity == "" {
			continue
		}
		seen[ec.Entity] = true
		if ec.Plan != nil && ec.Plan.DisableDynamicColor {
			continue
		}
		m, l := classify(states, ec.Entity)
		motion = motion || m
		light = light || l
	}

	// A room with an area claims the area's whole membership, beyond the
	// entities it renders.
	if room.Area != "" && b.Areas != nil {
		for _, id := range b.Areas.EntitiesInArea(room.Area) {
			if seen[id] {
				continue
			}
			m, l := classify(states, id)
			motion = motion || m
			light = light || l
		}
	}
	return motion, light
}

func classify(states entity.StateProvider, id string) (motion, light bool) {
	st, ok := states.GetState(id)
	if !ok || !st.Active() {
		return false, false
	}
	switch {
	case st.DeviceClass() == entity.ClassMotion, st.DeviceClass() == entity.ClassOccupancy:
		return true, false
	case entity.Domain(id) == "light":
		return false, true
	}
	return false, false
}
