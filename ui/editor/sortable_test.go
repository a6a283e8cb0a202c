package editor

import (
	"fmt"
	"os"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	test.NewApp()
	os.Exit(m.Run())
}

func TestCrossListDropTransfersRow(t *testing.T) {
	g := NewListGroup()
	left := NewSortableList()
	left.JoinGroup(g)
	right := NewSortableList()
	right.JoinGroup(g)

	left.SetItems([]fyne.CanvasObject{widget.NewLabel("light.kitchen")})
	right.SetItems([]fyne.CanvasObject{widget.NewLabel("light.hall")})

	var events []string
	left.OnItemRemoved = func(i int) { events = append(events, fmt.Sprintf("removed:%d", i)) }
	right.OnItemAdded = func(i int) { events = append(events, fmt.Sprintf("added:%d", i)) }

	w := test.NewWindow(container.NewGridWithColumns(2, left, right))
	defer w.Close()
	w.Resize(fyne.NewSize(400, 200))

	// Drag the row far enough right to land inside the peer list. The
	// removal must precede the insertion so the two halves pair up.
	require.True(t, left.dropToPeer(left.rows[0], 220, 0))
	assert.Equal(t, []string{"removed:0", "added:1"}, events)
	assert.Equal(t, 0, left.Len())
	assert.Equal(t, 2, right.Len())

	// A drop that lands on no peer stays an in-list reorder.
	require.False(t, right.dropToPeer(right.rows[0], 500, 0))
}

func TestDropWithoutGroupStaysLocal(t *testing.T) {
	l := NewSortableList()
	l.SetItems([]fyne.CanvasObject{widget.NewLabel("a"), widget.NewLabel("b")})

	w := test.NewWindow(l)
	defer w.Close()
	w.Resize(fyne.NewSize(200, 200))

	assert.False(t, l.dropToPeer(l.rows[0], 300, 0))
	assert.Equal(t, 2, l.Len())
}
