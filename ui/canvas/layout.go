package canvas

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"

	"floorplan/internal/render"
)

// pct parses a "N%" string into a 0..1 fraction. Anything unparsable
// resolves to 0 rather than failing the layout.
func pct(s string) (float64, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// VisiblePlacements drops placements assigned to a hidden layer. Placements
// without a layer are always shown; children follow their parent. A nil
// predicate hides nothing.
func VisiblePlacements(ps []render.Placement, visible func(layerID string) bool) []render.Placement {
	if visible == nil {
		return ps
	}
	out := make([]render.Placement, 0, len(ps))
	for _, p := range ps {
		if p.LayerID != "" && !visible(p.LayerID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PlacementOffset resolves a placement's percentage anchors against its room
// rectangle: left beats right on the horizontal axis and top beats bottom on
// the vertical one, matching the transform-origin rules; an unanchored axis
// centers the object.
func PlacementOffset(p *render.Placement, roomW, roomH, objW, objH float32) fyne.Position {
	x := (roomW - objW) / 2
	if f, ok := pct(p.Left); ok {
		x = float32(f) * roomW
	} else if f, ok := pct(p.Right); ok {
		x = roomW - float32(f)*roomW - objW
	}

	y := (roomH - objH) / 2
	if f, ok := pct(p.Top); ok {
		y = float32(f) * roomH
	} else if f, ok := pct(p.Bottom); ok {
		y = roomH - float32(f)*roomH - objH
	}

	return fyne.NewPos(x, y)
}

// PlacementSize returns the object's layout size: explicit percentage width
// and height resolve against the room, otherwise the object's minimum size
// scaled by the placement's visual scale.
func PlacementSize(p *render.Placement, obj fyne.CanvasObject, roomW, roomH float32) fyne.Size {
	min := obj.MinSize()
	w := min.Width * float32(p.Scale)
	h := min.Height * float32(p.Scale)

	if f, ok := pct(p.Width); ok {
		w = float32(f) * roomW
	}
	if f, ok := pct(p.Height); ok {
		h = float32(f) * roomH
	}
	return fyne.NewSize(w, h)
}
