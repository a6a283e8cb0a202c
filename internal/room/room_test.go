package room

import (
	"image"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyne.io/fyne/v2/test"

	"floorplan/internal/cards"
	"floorplan/internal/config"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
	"floorplan/internal/render"
	"floorplan/pkg/geometry"
)

func TestMain(m *testing.M) {
	test.NewApp()
	os.Exit(m.Run())
}

func newTestBuilder(states entity.StateProvider) *Builder {
	r := render.NewRenderer(elements.NewRegistry(), cards.NewBuiltinFactory(), states)
	r.Warnf = func(string, ...any) {}
	b := NewBuilder(r)
	b.Errorf = func(string, ...any) {}
	return b
}

func testRoom() *config.Room {
	overviewOff := false
	return &config.Room{
		Name:     "Kitchen",
		Boundary: []geometry.Point2D{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 100}, {X: 0, Y: 100}},
		Entities: []config.EntityConfig{
			{Entity: "light.kitchen", Plan: &config.PlanConfig{Left: config.Px(10), Top: config.Px(10)}},
			{Entity: "sensor.detail_only", Plan: &config.PlanConfig{
				Left:     config.Px(20),
				Top:      config.Px(20),
				Overview: &overviewOff,
			}},
		},
	}
}

func TestOverviewFiltersDetailOnlyEntities(t *testing.T) {
	b := newTestBuilder(nil)

	v := b.Build(Request{
		Room: testRoom(),
		Mode: ModeOverview,
		Axes: &geometry.Scale2D{X: 0.5, Y: 0.75},
	})

	entities := make([]string, 0, len(v.Placements))
	for _, p := range v.Placements {
		if p.Entity != "" {
			entities = append(entities, p.Entity)
		}
	}
	assert.Equal(t, []string{"light.kitchen"}, entities)
	assert.Equal(t, 0.5, v.ScaleX)
	assert.Equal(t, 0.75, v.ScaleY)
}

func TestDetailShowsAllEntities(t *testing.T) {
	b := newTestBuilder(nil)

	v := b.Build(Request{Room: testRoom(), Mode: ModeDetail, Scale: 2})

	var entities []string
	for _, p := range v.Placements {
		if p.Entity != "" {
			entities = append(entities, p.Entity)
		}
	}
	assert.ElementsMatch(t, []string{"light.kitchen", "sensor.detail_only"}, entities)
}

func TestWrongScaleShapeRendersNothing(t *testing.T) {
	b := newTestBuilder(nil)

	var errs int
	b.Errorf = func(string, ...any) { errs++ }

	v := b.Build(Request{Room: testRoom(), Mode: ModeOverview, Scale: 2})
	assert.Empty(t, v.Placements)

	v = b.Build(Request{Room: testRoom(), Mode: ModeDetail, Axes: &geometry.Scale2D{X: 1, Y: 1}})
	assert.Empty(t, v.Placements)

	assert.Equal(t, 2, errs)
}

func TestDegenerateBoundaryRendersNothing(t *testing.T) {
	b := newTestBuilder(nil)

	v := b.Build(Request{
		Room: &config.Room{Name: "Line", Boundary: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}},
		Mode: ModeDetail, Scale: 1,
	})
	assert.Empty(t, v.Placements)
}

func TestColoringPriority(t *testing.T) {
	sim := entity.NewSimProvider()
	sim.Set("binary_sensor.motion", "on", map[string]any{entity.AttrDeviceClass: "motion"})
	sim.Set("light.kitchen", "on", nil)

	room := testRoom()
	room.Entities = append(room.Entities, config.EntityConfig{Entity: "binary_sensor.motion"})

	b := newTestBuilder(sim)

	v := b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillMotion, v.Fill.Mode, "motion outranks light")

	// Motion clears; the active light takes over.
	sim.Set("binary_sensor.motion", "off", map[string]any{entity.AttrDeviceClass: "motion"})
	v = b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillLight, v.Fill.Mode)

	// Everything idle: neutral static fill.
	sim.Set("light.kitchen", "off", nil)
	v = b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillStatic, v.Fill.Mode)
}

func TestDynamicColorOptOuts(t *testing.T) {
	sim := entity.NewSimProvider()
	sim.Set("binary_sensor.motion", "on", map[string]any{entity.AttrDeviceClass: "motion"})

	room := testRoom()
	room.Entities = append(room.Entities, config.EntityConfig{
		Entity: "binary_sensor.motion",
		Plan:   &config.PlanConfig{Left: config.Px(1), DisableDynamicColor: true},
	})

	b := newTestBuilder(sim)

	v := b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillStatic, v.Fill.Mode, "opted-out entity is invisible to the scan")

	room.Entities[len(room.Entities)-1].Plan.DisableDynamicColor = false
	v = b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	require.Equal(t, FillMotion, v.Fill.Mode)

	room.DisableDynamicColor = true
	v = b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillStatic, v.Fill.Mode, "room-level opt-out wins")
}

func TestAreaMembershipFeedsColoring(t *testing.T) {
	sim := entity.NewSimProvider()
	sim.Set("binary_sensor.hall_motion", "on", map[string]any{entity.AttrDeviceClass: "motion"})
	sim.SetArea("hall", "binary_sensor.hall_motion")

	room := testRoom()
	b := newTestBuilder(sim)
	b.Areas = sim

	// The sensor is not listed in the room config; only the area claims it.
	v := b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillStatic, v.Fill.Mode, "no area configured, nothing claimed")

	room.Area = "hall"
	v = b.Build(Request{Room: room, Mode: ModeDetail, Scale: 1})
	assert.Equal(t, FillMotion, v.Fill.Mode)
}

func TestOverviewPolygonTransparentByDefault(t *testing.T) {
	b := newTestBuilder(nil)
	axes := &geometry.Scale2D{X: 1, Y: 1}

	v := b.Build(Request{Room: testRoom(), Mode: ModeOverview, Axes: axes})
	assert.Equal(t, FillNone, v.Fill.Mode)

	v = b.Build(Request{Room: testRoom(), Mode: ModeOverview, Axes: axes, ShowRoomBackgrounds: true})
	assert.Equal(t, FillStatic, v.Fill.Mode)
}

func TestDetailBackgroundClipsToPolygon(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.White)
		}
	}

	// Right triangle covering the lower-left half of a 40x40 patch.
	tri := []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 40}, {X: 40, Y: 40}}

	out := DetailBackground(src, tri, 1)
	require.NotNil(t, out)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())

	_, _, _, inside := out.At(5, 35).RGBA()
	_, _, _, outside := out.At(35, 5).RGBA()
	assert.NotZero(t, inside, "pixel inside the polygon keeps the plan image")
	assert.Zero(t, outside, "pixel outside the polygon is transparent")
}

func TestDetailBackgroundRejectsDegenerateInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Nil(t, DetailBackground(nil, nil, 1))
	assert.Nil(t, DetailBackground(src, []geometry.Point2D{{X: 0, Y: 0}}, 1))
	assert.Nil(t, DetailBackground(src, []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, 0))
}

func TestFillAtResolvesModes(t *testing.T) {
	base := color.RGBA{R: 10, G: 20, B: 30, A: 200}

	assert.Equal(t, color.RGBA{}, Coloring{Mode: FillNone}.FillAt(time.Now()))
	assert.Equal(t, base, Coloring{Mode: FillStatic, Base: base}.FillAt(time.Now()))
	assert.Equal(t, base, Coloring{Mode: FillLight, Base: base}.FillAt(time.Now()))

	pulse := Coloring{
		Mode:      FillMotion,
		PulseLow:  color.RGBA{A: 60},
		PulseHigh: color.RGBA{A: 180},
	}
	// Phase endpoints of the 2s breathing cycle.
	assert.Equal(t, uint8(60), pulse.FillAt(time.UnixMilli(0)).A)
	assert.Equal(t, uint8(180), pulse.FillAt(time.UnixMilli(1000)).A)
}

func TestDetailSurfaceTintsInterior(t *testing.T) {
	// Offset square so surface composition must translate the boundary.
	sq := []geometry.Point2D{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}, {X: 10, Y: 50}}
	fill := color.RGBA{R: 255, A: 255}

	// No plan image: the tint still renders inside the polygon.
	out := DetailSurface(nil, sq, 1, fill)
	require.NotNil(t, out)
	assert.Equal(t, 40, out.Bounds().Dx())

	r, _, _, a := out.At(20, 20).RGBA()
	assert.NotZero(t, a, "interior carries the fill")
	assert.NotZero(t, r)

	// A transparent fill degrades to the plain background.
	assert.Nil(t, DetailSurface(nil, sq, 1, color.RGBA{}))

	// With a plan image the tint composites over the clipped patch.
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.White)
		}
	}
	over := DetailSurface(src, sq, 1, color.RGBA{R: 255, A: 128})
	require.NotNil(t, over)
	r2, g2, _, _ := over.At(20, 20).RGBA()
	assert.Greater(t, r2, g2, "red tint shifts the white background")
}
