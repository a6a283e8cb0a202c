package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsOf(t *testing.T) {
	type tc struct {
		points []Point2D
		want   Rect
	}

	tests := map[string]tc{
		"rectangle": {
			points: []Point2D{{0, 0}, {100, 0}, {100, 50}, {0, 50}},
			want:   Rect{X: 0, Y: 0, Width: 100, Height: 50},
		},
		"offset triangle": {
			points: []Point2D{{10, 20}, {40, 20}, {25, 60}},
			want:   Rect{X: 10, Y: 20, Width: 30, Height: 40},
		},
		"empty boundary falls back": {
			points: nil,
			want:   Rect{Width: FallbackWidth, Height: FallbackHeight},
		},
		"single point": {
			points: []Point2D{{5, 5}},
			want:   Rect{X: 5, Y: 5},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, BoundsOf(tt.points))
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.True(t, PointInPolygon(Point2D{5, 5}, square))
	assert.False(t, PointInPolygon(Point2D{15, 5}, square))
	assert.False(t, PointInPolygon(Point2D{5, 5}, square[:2]))
}

func TestClampScale(t *testing.T) {
	type tc struct {
		scale, min, max float64
		want            float64
	}

	tests := map[string]tc{
		"within limits":   {scale: 2, min: 1, max: 5, want: 2},
		"below min":       {scale: 0.5, min: 1, max: 5, want: 1},
		"above max":       {scale: 7, min: 1, max: 5, want: 5},
		"no limits":       {scale: 42, want: 42},
		"only max":        {scale: 42, max: 5, want: 5},
		"only min":        {scale: 0.1, min: 0.5, want: 0.5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampScale(tt.scale, tt.min, tt.max))
		})
	}
}

func TestClampScale2DIndependentAxes(t *testing.T) {
	got := ClampScale2D(Scale2D{X: 0.2, Y: 8}, 0.5, 5)
	assert.Equal(t, Scale2D{X: 0.5, Y: 5}, got)
}

func TestRectOps(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	assert.True(t, r.Contains(Point2D{5, 5}))
	assert.False(t, r.Contains(Point2D{11, 5}))
	assert.Equal(t, Point2D{5, 5}, r.Center())
	assert.True(t, r.Intersects(NewRect(5, 5, 10, 10)))
	assert.False(t, r.Intersects(NewRect(20, 20, 5, 5)))
	assert.Equal(t, NewRect(0, 0, 15, 15), r.Union(NewRect(5, 5, 10, 10)))
}
