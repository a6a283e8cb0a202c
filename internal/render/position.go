// Package render implements the coordinate-transform pipeline that turns
// room-relative entity positions into placed, scaled, cacheable visual
// elements for both render modes.
package render

import (
	"fmt"
	"strconv"

	"floorplan/internal/config"
)

// ElementScale computes an element's visual scale from the room's plan scale
// and the scale-ratio policy. ratio=0 freezes element size regardless of room
// zoom (overview: the container is already scaled, so elements must not
// double-scale); ratio=1 makes elements follow the room exactly.
func ElementScale(planScale, ratio float64) float64 {
	return 1 + (planScale-1)*ratio
}

// PositionScale returns the factor applied to a stored pixel position on one
// axis, governed by that axis's position-scaling mode.
func PositionScale(mode string, planScale, elementScale float64) float64 {
	switch mode {
	case config.PositionScalingElement:
		return elementScale
	case config.PositionScalingFixed:
		return 1
	default: // config.PositionScalingPlan
		return planScale
	}
}

// PixelToPercent converts a scaled pixel offset into a percentage of the
// scaled room span. Placement output is percentage-based so elements keep
// tracking the room when an outer transform rescales the whole canvas.
func PixelToPercent(px, posScale, span, planScale float64) string {
	if span == 0 || planScale == 0 {
		return "0%"
	}
	pct := px * posScale / (span * planScale) * 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// resolveDim resolves one position/size value: literal percentages pass
// through verbatim, pixels convert against the scaled span.
func resolveDim(d *config.Dimension, posScale, span, planScale float64) string {
	if d == nil {
		return ""
	}
	if d.IsPercent() {
		return d.Percent
	}
	return PixelToPercent(d.Pixels, posScale, span, planScale)
}

// Origin returns the transform origin matching the anchored edges. Left wins
// over right, top over bottom, else center. Scaling from any other origin
// would drift the element away from its configured anchor.
func Origin(p *config.PlanConfig) string {
	h := "center"
	switch {
	case p.Left != nil:
		h = "left"
	case p.Right != nil:
		h = "right"
	}
	v := "center"
	switch {
	case p.Top != nil:
		v = "top"
	case p.Bottom != nil:
		v = "bottom"
	}
	return h + " " + v
}

// UniqueKey derives the stable cache identity for a positioned element: the
// entity reference when present, otherwise a deterministic string from the
// element type and position. scope namespaces keys generated inside an
// aggregate so two rooms' synthetic elements never collide.
func UniqueKey(scope, entityID, elementType string, p *config.PlanConfig) string {
	if entityID != "" {
		if scope != "" {
			return scope + "/" + entityID
		}
		return entityID
	}

	dim := func(d *config.Dimension) string {
		if d == nil {
			return "_"
		}
		return d.String()
	}
	key := fmt.Sprintf("%s@%s,%s,%s,%s", elementType, dim(p.Left), dim(p.Top), dim(p.Right), dim(p.Bottom))
	if scope != "" {
		return scope + "/" + key
	}
	return key
}
