package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/cards"
	"floorplan/internal/config"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
	"floorplan/internal/render"
	"floorplan/internal/room"
	"floorplan/pkg/geometry"
)

func newTestCanvas() *PlanCanvas {
	sim := entity.NewSimProvider()
	r := render.NewRenderer(elements.NewRegistry(), cards.NewBuiltinFactory(), sim)
	r.Warnf = func(string, ...any) {}
	b := room.NewBuilder(r)
	b.Errorf = func(string, ...any) {}
	return NewPlanCanvas(b)
}

func clickableHouse(clickable bool) *config.House {
	return &config.House{
		Rooms: []config.Room{{
			Name:                        "Kitchen",
			ElementsClickableOnOverview: clickable,
			Boundary: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
			},
			Entities: []config.EntityConfig{{
				Entity: "light.kitchen",
				Plan:   &config.PlanConfig{Left: config.Px(50), Top: config.Px(50)},
			}},
		}},
	}
}

func TestTapFocusesCanvas(t *testing.T) {
	c := NewPlanCanvas(room.NewBuilder(nil))
	w := test.NewWindow(c)
	defer w.Close()
	w.Resize(fyne.NewSize(200, 200))

	test.Tap(c)
	assert.Equal(t, fyne.Focusable(c), w.Canvas().Focused())
}

func TestOverviewElementTapDispatch(t *testing.T) {
	c := newTestCanvas()
	var tapped []string
	c.OnElementTapped = func(key string) { tapped = append(tapped, key) }

	w := test.NewWindow(c)
	defer w.Close()
	w.Resize(fyne.NewSize(200, 200))

	c.SetHouse(clickableHouse(true), nil)

	c.mu.Lock()
	hits := append([]elementHit(nil), c.hits...)
	c.mu.Unlock()
	require.NotEmpty(t, hits, "opted-in room records element hit rects")

	h := hits[0]
	c.Tapped(&fyne.PointEvent{Position: fyne.NewPos(h.pos.X+1, h.pos.Y+1)})
	require.Len(t, tapped, 1)
	assert.Contains(t, tapped[0], "light.kitchen")
}

func TestOverviewElementsInertByDefault(t *testing.T) {
	c := newTestCanvas()
	w := test.NewWindow(c)
	defer w.Close()
	w.Resize(fyne.NewSize(200, 200))

	c.SetHouse(clickableHouse(false), nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.hits)
}
