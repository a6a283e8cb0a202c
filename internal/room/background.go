package room

import (
	"image"
	"image/color"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"

	"floorplan/pkg/geometry"
)

// DetailBackground cuts the room's patch out of the plan image, scales it by
// the detail-view scale, and masks everything outside the boundary polygon
// to transparent.
func DetailBackground(plan image.Image, boundary []geometry.Point2D, scale float64) *image.RGBA {
	if plan == nil || len(boundary) < 3 || scale <= 0 {
		return nil
	}

	bounds := geometry.BoundsOf(boundary)
	outW := int(math.Ceil(bounds.Width * scale))
	outH := int(math.Ceil(bounds.Height * scale))
	if outW <= 0 || outH <= 0 {
		return nil
	}

	// Scale the room's patch of the plan into the output resolution.
	srcRect := image.Rect(
		int(bounds.X), int(bounds.Y),
		int(math.Ceil(bounds.MaxX())), int(math.Ceil(bounds.MaxY())),
	).Intersect(plan.Bounds())

	scaled := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), plan, srcRect, xdraw.Src, nil)

	mask := polygonMask(boundary, bounds, scale, outW, outH)

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.DrawMask(out, out.Bounds(), scaled, image.Point{}, mask, image.Point{}, xdraw.Over)
	return out
}

// DetailSurface composes the detail background with the room's fill tint.
// With no plan image the tint renders on its own, so dynamic coloring still
// shows in the detail view.
func DetailSurface(plan image.Image, boundary []geometry.Point2D, scale float64, fill color.RGBA) *image.RGBA {
	out := DetailBackground(plan, boundary, scale)
	if fill.A == 0 {
		return out
	}
	if len(boundary) < 3 || scale <= 0 {
		return out
	}

	bounds := geometry.BoundsOf(boundary)
	if out == nil {
		w := int(math.Ceil(bounds.Width * scale))
		h := int(math.Ceil(bounds.Height * scale))
		if w <= 0 || h <= 0 {
			return nil
		}
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// FillPolygon expects origin-relative coordinates; the detail surface
	// is cropped to the boundary's bounding box.
	local := make([]geometry.Point2D, len(boundary))
	for i, p := range boundary {
		local[i] = geometry.Point2D{X: p.X - bounds.X, Y: p.Y - bounds.Y}
	}
	FillPolygon(out, local, scale, scale, fill)
	return out
}

// FillPolygon tints the polygon's interior in dst, with the boundary mapped
// from image coordinates through the given per-axis scales. Used by the
// overview canvas to paint room fills straight into its raster.
func FillPolygon(dst *image.RGBA, boundary []geometry.Point2D, scaleX, scaleY float64, c color.RGBA) {
	if dst == nil || len(boundary) < 3 || c.A == 0 {
		return
	}

	b := dst.Bounds()
	for row := b.Min.Y; row < b.Max.Y; row++ {
		y := (float64(row) + 0.5) / scaleY

		xs := rowCrossings(boundary, y)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Floor(xs[i] * scaleX))
			x1 := int(math.Ceil(xs[i+1] * scaleX))
			if x0 < b.Min.X {
				x0 = b.Min.X
			}
			if x1 > b.Max.X {
				x1 = b.Max.X
			}
			for x := x0; x < x1; x++ {
				dst.Set(x, row, blendOver(dst.RGBAAt(x, row), c))
			}
		}
	}
}

// blendOver composites src over dst with straight alpha.
func blendOver(dst color.RGBA, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255
	mix := func(d, s uint8) uint8 {
		return uint8(float64(d)*(1-a) + float64(s)*a)
	}
	return color.RGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: 255,
	}
}

// polygonMask rasterizes the boundary into an alpha mask at output
// resolution using even-odd row spans.
func polygonMask(boundary []geometry.Point2D, bounds geometry.Rect, scale float64, w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))

	for row := 0; row < h; row++ {
		// Sample at the row's center, in image coordinates.
		y := bounds.Y + (float64(row)+0.5)/scale

		xs := rowCrossings(boundary, y)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Floor((xs[i] - bounds.X) * scale))
			x1 := int(math.Ceil((xs[i+1] - bounds.X) * scale))
			if x0 < 0 {
				x0 = 0
			}
			if x1 > w {
				x1 = w
			}
			for x := x0; x < x1; x++ {
				mask.SetAlpha(x, row, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

// rowCrossings returns the sorted x coordinates where the polygon's edges
// cross the horizontal line at y.
func rowCrossings(boundary []geometry.Point2D, y float64) []float64 {
	var xs []float64
	n := len(boundary)
	for i := 0; i < n; i++ {
		a, b := boundary[i], boundary[(i+1)%n]
		if (a.Y <= y) == (b.Y <= y) {
			continue
		}
		t := (y - a.Y) / (b.Y - a.Y)
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	sort.Float64s(xs)
	return xs
}
