package geometry

// Scale2D is a non-uniform scale with independent horizontal and vertical
// factors. The overview fits rooms to the viewport per axis; the detail view
// uses a plain uniform scalar instead.
type Scale2D struct {
	X float64
	Y float64
}

// Uniform returns a Scale2D with the same factor on both axes.
func Uniform(s float64) Scale2D {
	return Scale2D{X: s, Y: s}
}

// IsUniform reports whether both axes carry the same factor.
func (s Scale2D) IsUniform() bool {
	return s.X == s.Y
}

// ClampScale clamps a uniform scale to the given limits. A zero limit is a
// no-op on that side.
func ClampScale(scale, min, max float64) float64 {
	if min != 0 && scale < min {
		scale = min
	}
	if max != 0 && scale > max {
		scale = max
	}
	return scale
}

// ClampScale2D clamps each axis independently. Zero limits are no-ops.
func ClampScale2D(scale Scale2D, min, max float64) Scale2D {
	return Scale2D{
		X: ClampScale(scale.X, min, max),
		Y: ClampScale(scale.Y, min, max),
	}
}
