package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/render"
)

func TestPctParsing(t *testing.T) {
	type tc struct {
		in   string
		want float64
		ok   bool
	}

	tests := map[string]tc{
		"plain":      {in: "25%", want: 0.25, ok: true},
		"fractional": {in: "12.5%", want: 0.125, ok: true},
		"empty":      {in: "", ok: false},
		"no suffix":  {in: "25", ok: false},
		"garbage":    {in: "x%", ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := pct(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestPlacementOffsetAnchors(t *testing.T) {
	const roomW, roomH, objW, objH = 200, 100, 20, 10

	left := PlacementOffset(&render.Placement{Left: "10%", Top: "20%"}, roomW, roomH, objW, objH)
	assert.Equal(t, float32(20), left.X)
	assert.Equal(t, float32(20), left.Y)

	right := PlacementOffset(&render.Placement{Right: "10%", Bottom: "10%"}, roomW, roomH, objW, objH)
	assert.Equal(t, float32(200-20-20), right.X)
	assert.Equal(t, float32(100-10-10), right.Y)

	// Left wins over right; unanchored axes center.
	both := PlacementOffset(&render.Placement{Left: "0%", Right: "50%"}, roomW, roomH, objW, objH)
	assert.Equal(t, float32(0), both.X)
	assert.Equal(t, float32((roomH-objH)/2), both.Y)
}

func TestHiddenLayerPlacementsDropped(t *testing.T) {
	ps := []render.Placement{
		{Key: "light.kitchen", LayerID: "layer.lights"},
		{Key: "binary_sensor.hall", LayerID: "layer.sensors"},
		{Key: "switch.fan"},
	}

	got := VisiblePlacements(ps, func(id string) bool { return id != "layer.sensors" })
	require.Len(t, got, 2)
	assert.Equal(t, "light.kitchen", got[0].Key)
	assert.Equal(t, "switch.fan", got[1].Key)

	// No predicate means every layer shows.
	assert.Len(t, VisiblePlacements(ps, nil), 3)
}
