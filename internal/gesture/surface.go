// Package gesture holds the pointer state machines behind element dragging
// and pinch-zoom navigation. The widgets translate Fyne events into calls
// here; everything in this package is plain geometry and state, with no
// toolkit types.
package gesture

// Surface is the movable thing a drag manipulates. ApplyTransform previews
// the offset while the pointer is down; Commit finalizes or reverts it.
// A re-render may replace the concrete surface mid-drag, which is why
// trackers resolve surfaces by key on every call instead of holding one.
type Surface interface {
	// ApplyTransform offsets the surface visually by (dx, dy) in its own
	// coordinate space.
	ApplyTransform(dx, dy float64)

	// Commit ends the preview. cancelled reverts the surface to its
	// pre-drag position instead of keeping the offset.
	Commit(dx, dy float64, cancelled bool)
}
