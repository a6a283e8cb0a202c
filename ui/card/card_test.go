package card

import (
	"os"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"floorplan/internal/app"
	"floorplan/internal/cards"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
	"floorplan/internal/render"
	"floorplan/internal/room"
)

func TestMain(m *testing.M) {
	test.NewApp()
	os.Exit(m.Run())
}

func newTestDetailView() *detailView {
	sim := entity.NewSimProvider()
	state := app.NewState(sim, sim)
	r := render.NewRenderer(elements.NewRegistry(), cards.NewBuiltinFactory(), sim)
	r.Warnf = func(string, ...any) {}
	b := room.NewBuilder(r)
	b.Errorf = func(string, ...any) {}
	return newDetailView(b, state, nil)
}

// Escape can only cancel a drag if the view holds keyboard focus, so a tap
// must claim it.
func TestDetailViewTapFocuses(t *testing.T) {
	d := newTestDetailView()
	w := test.NewWindow(d)
	defer w.Close()
	w.Resize(fyne.NewSize(300, 200))

	test.Tap(d)
	assert.Equal(t, fyne.Focusable(d), w.Canvas().Focused())
}
