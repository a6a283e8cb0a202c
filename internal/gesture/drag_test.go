package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSurface records the transforms a drag applies to it.
type recordSurface struct {
	dx, dy     float64
	committed  bool
	cancelled  bool
	commitDX   float64
	commitDY   float64
	transforms int
}

func (s *recordSurface) ApplyTransform(dx, dy float64) {
	s.dx, s.dy = dx, dy
	s.transforms++
}

func (s *recordSurface) Commit(dx, dy float64, cancelled bool) {
	s.committed = true
	s.cancelled = cancelled
	s.commitDX, s.commitDY = dx, dy
}

func newTestTracker(s Surface) (*DragTracker, *[]Drop) {
	var drops []Drop
	t := &DragTracker{
		Resolve: func(key string) (Surface, bool) { return s, s != nil },
		OnDrop:  func(d Drop) { drops = append(drops, d) },
	}
	return t, &drops
}

func TestPressBelowThresholdStaysAClick(t *testing.T) {
	s := &recordSurface{}
	tr, drops := newTestTracker(s)

	require.True(t, tr.PointerDown(1, "light.a", 100, 100))
	assert.Equal(t, DragPending, tr.Phase())

	tr.PointerMove(1, 103, 102) // under 5px
	assert.Equal(t, DragPending, tr.Phase())
	assert.Zero(t, s.transforms)

	tr.PointerUp(1, 103, 102)
	assert.Equal(t, DragIdle, tr.Phase())
	assert.Empty(t, *drops)
	assert.False(t, s.committed)
}

func TestThresholdPromotesToDrag(t *testing.T) {
	s := &recordSurface{}
	tr, drops := newTestTracker(s)

	tr.PointerDown(1, "light.a", 100, 100)
	tr.PointerMove(1, 108, 100)
	assert.Equal(t, DragActive, tr.Phase())
	assert.Equal(t, 8.0, s.dx)

	tr.PointerUp(1, 110, 104)
	require.Len(t, *drops, 1)
	assert.Equal(t, Drop{Key: "light.a", DX: 10, DY: 4}, (*drops)[0])
	assert.True(t, s.committed)
	assert.False(t, s.cancelled)
}

func TestAncestorScaleCompensatesPreviewNotDrop(t *testing.T) {
	s := &recordSurface{}
	tr, drops := newTestTracker(s)
	tr.AncestorScale = func() float64 { return 2 }

	tr.PointerDown(1, "light.a", 0, 0)
	tr.PointerMove(1, 10, 0)
	// Preview divides by the ancestor scale so the element follows the
	// pointer visually.
	assert.Equal(t, 5.0, s.dx)

	tr.PointerUp(1, 10, 0)
	require.Len(t, *drops, 1)
	// The drop reports the raw screen-pixel delta.
	assert.Equal(t, 10.0, (*drops)[0].DX)
	assert.Equal(t, 5.0, s.commitDX)
}

func TestOtherPointerIDsIgnored(t *testing.T) {
	s := &recordSurface{}
	tr, drops := newTestTracker(s)

	tr.PointerDown(1, "light.a", 0, 0)
	tr.PointerMove(2, 50, 50)
	assert.Equal(t, DragPending, tr.Phase())

	tr.PointerUp(2, 50, 50)
	assert.Equal(t, DragPending, tr.Phase())

	tr.PointerUp(1, 0, 0)
	assert.Equal(t, DragIdle, tr.Phase())
	assert.Empty(t, *drops)
}

func TestNestedDraggableClaimsPress(t *testing.T) {
	s := &recordSurface{}
	tr, _ := newTestTracker(s)
	tr.ClaimedByDescendant = func(x, y float64) bool { return x > 50 }

	assert.False(t, tr.PointerDown(1, "group", 60, 10), "inner target owns this press")
	assert.Equal(t, DragIdle, tr.Phase())

	assert.True(t, tr.PointerDown(1, "group", 10, 10))
}

func TestCancelRevertsThroughReResolvedSurface(t *testing.T) {
	old := &recordSurface{}
	replacement := &recordSurface{}
	current := old

	var tr DragTracker
	tr.Resolve = func(key string) (Surface, bool) { return current, true }

	tr.PointerDown(1, "light.a", 0, 0)
	tr.PointerMove(1, 20, 0)
	assert.Equal(t, 20.0, old.dx)

	// A re-render swaps the node out mid-drag.
	current = replacement

	tr.Cancel()
	assert.Equal(t, DragIdle, tr.Phase())
	assert.True(t, replacement.committed)
	assert.True(t, replacement.cancelled)
	assert.False(t, old.committed)
}

func TestCancelBeforeThresholdIsSilent(t *testing.T) {
	s := &recordSurface{}
	tr, drops := newTestTracker(s)

	tr.PointerDown(1, "light.a", 0, 0)
	tr.Cancel()
	assert.Equal(t, DragIdle, tr.Phase())
	assert.False(t, s.committed)
	assert.Empty(t, *drops)
}

func TestSecondPressWhileLiveIsRejected(t *testing.T) {
	s := &recordSurface{}
	tr, _ := newTestTracker(s)

	require.True(t, tr.PointerDown(1, "light.a", 0, 0))
	assert.False(t, tr.PointerDown(2, "light.b", 5, 5))
	assert.Equal(t, "light.a", tr.Key())
}
