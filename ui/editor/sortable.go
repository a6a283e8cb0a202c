// Package editor implements the nested configuration editor: a tree of
// sortable lists over layers, groups, and elements, where every mutation is
// re-dispatched upward as an immutable configuration delta.
package editor

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// SortableList is the generic list primitive every editor level builds on.
// Rows are reordered by dragging their handle; structural changes surface as
// index events, never as direct data mutation.
type SortableList struct {
	widget.BaseWidget

	OnItemMoved   func(oldIndex, newIndex int)
	OnItemRemoved func(index int)
	OnItemAdded   func(index int)

	box   *fyne.Container
	rows  []*sortableRow
	group *ListGroup
}

// ListGroup names a set of peer lists rows can be dragged between. Lists at
// the same nesting level share one group.
type ListGroup struct {
	lists []*SortableList
}

// NewListGroup creates an empty peer group.
func NewListGroup() *ListGroup { return &ListGroup{} }

// listAt finds the visible peer list under the absolute position.
func (g *ListGroup) listAt(pos fyne.Position, exclude *SortableList) *SortableList {
	for _, l := range g.lists {
		if l == exclude || !l.Visible() {
			continue
		}
		o, ok := absolutePosition(l)
		if !ok {
			continue
		}
		size := l.Size()
		if pos.X >= o.X && pos.X <= o.X+size.Width &&
			pos.Y >= o.Y && pos.Y <= o.Y+size.Height {
			return l
		}
	}
	return nil
}

func absolutePosition(obj fyne.CanvasObject) (fyne.Position, bool) {
	a := fyne.CurrentApp()
	if a == nil || a.Driver() == nil {
		return fyne.Position{}, false
	}
	return a.Driver().AbsolutePositionForObject(obj), true
}

// NewSortableList creates an empty list.
func NewSortableList() *SortableList {
	l := &SortableList{box: container.NewVBox()}
	l.ExtendBaseWidget(l)
	return l
}

func (l *SortableList) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(l.box)
}

// Len returns the number of rows.
func (l *SortableList) Len() int { return len(l.rows) }

// JoinGroup registers the list with a peer group, enabling cross-list row
// drops within it.
func (l *SortableList) JoinGroup(g *ListGroup) {
	l.group = g
	g.lists = append(g.lists, l)
}

// SetItems replaces all rows. No events fire; this is the declarative
// re-render path after the owner applied a delta.
func (l *SortableList) SetItems(items []fyne.CanvasObject) {
	l.rows = l.rows[:0]
	l.box.RemoveAll()
	for _, item := range items {
		row := newSortableRow(l, item)
		l.rows = append(l.rows, row)
		l.box.Add(row)
	}
	l.Refresh()
}

// Append adds a row and fires the added event with its index.
func (l *SortableList) Append(item fyne.CanvasObject) {
	row := newSortableRow(l, item)
	l.rows = append(l.rows, row)
	l.box.Add(row)
	l.Refresh()

	if l.OnItemAdded != nil {
		l.OnItemAdded(len(l.rows) - 1)
	}
}

func (l *SortableList) indexOf(row *sortableRow) int {
	for i, r := range l.rows {
		if r == row {
			return i
		}
	}
	return -1
}

// rowMoved finishes a handle drag: the vertical offset is translated into a
// row distance and reported as one move event.
func (l *SortableList) rowMoved(row *sortableRow, offsetY float32) {
	old := l.indexOf(row)
	if old < 0 {
		return
	}

	h := row.Size().Height
	if h <= 0 {
		return
	}
	delta := int(math.Round(float64(offsetY / h)))
	if delta == 0 {
		return
	}

	to := old + delta
	if to < 0 {
		to = 0
	}
	if to >= len(l.rows) {
		to = len(l.rows) - 1
	}
	if to == old {
		return
	}

	moved := l.rows[old]
	l.rows = append(l.rows[:old], l.rows[old+1:]...)
	l.rows = append(l.rows[:to], append([]*sortableRow{moved}, l.rows[to:]...)...)

	l.box.RemoveAll()
	for _, r := range l.rows {
		l.box.Add(r)
	}
	l.Refresh()

	if l.OnItemMoved != nil {
		l.OnItemMoved(old, to)
	}
}

func (l *SortableList) rowRemoved(row *sortableRow) {
	idx := l.detach(row)
	if idx < 0 {
		return
	}
	if l.OnItemRemoved != nil {
		l.OnItemRemoved(idx)
	}
}

// detach takes the row out of the list without firing events, returning its
// former index.
func (l *SortableList) detach(row *sortableRow) int {
	idx := l.indexOf(row)
	if idx < 0 {
		return -1
	}
	l.rows = append(l.rows[:idx], l.rows[idx+1:]...)
	l.box.RemoveAll()
	for _, r := range l.rows {
		l.box.Add(r)
	}
	l.Refresh()
	return idx
}

// dropToPeer hands a row dragged out of this list to the peer list under
// the drop point. The source reports the removal before the target reports
// the insertion, so a pairing coordinator sees the two halves in order.
func (l *SortableList) dropToPeer(row *sortableRow, dx, dy float32) bool {
	if l.group == nil {
		return false
	}
	origin, ok := absolutePosition(row)
	if !ok {
		return false
	}
	target := l.group.listAt(origin.AddXY(dx, dy), l)
	if target == nil {
		return false
	}

	idx := l.detach(row)
	if idx < 0 {
		return false
	}
	if l.OnItemRemoved != nil {
		l.OnItemRemoved(idx)
	}
	target.Append(row.content)
	return true
}

// sortableRow pairs a drag handle and a remove button with the caller's
// content. The handle implements Draggable so dragging a row never fights
// with interactive content inside it.
type sortableRow struct {
	widget.BaseWidget

	list    *SortableList
	content fyne.CanvasObject
}

func newSortableRow(list *SortableList, content fyne.CanvasObject) *sortableRow {
	r := &sortableRow{list: list, content: content}
	r.ExtendBaseWidget(r)
	return r
}

func (r *sortableRow) CreateRenderer() fyne.WidgetRenderer {
	handle := newDragHandle(r)
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		r.list.rowRemoved(r)
	})
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, handle, remove, r.content))
}

// dragHandle accumulates the drag offset and hands it to the list when the
// drag ends. Drops over a peer list transfer the row; anything else is an
// in-list reorder driven by the vertical component.
type dragHandle struct {
	widget.BaseWidget

	row              *sortableRow
	offsetX, offsetY float32
}

func newDragHandle(row *sortableRow) *dragHandle {
	h := &dragHandle{row: row}
	h.ExtendBaseWidget(h)
	return h
}

func (h *dragHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(widget.NewIcon(theme.MenuIcon()))
}

func (h *dragHandle) Dragged(ev *fyne.DragEvent) {
	h.offsetX += ev.Dragged.DX
	h.offsetY += ev.Dragged.DY
}

func (h *dragHandle) DragEnd() {
	dx, dy := h.offsetX, h.offsetY
	h.offsetX, h.offsetY = 0, 0

	if h.row.list.dropToPeer(h.row, dx, dy) {
		return
	}
	h.row.list.rowMoved(h.row, dy)
}
