package editor

// ExpandSet tracks which child indices of one editor list are expanded.
// It is UI state only and never persisted. Removals and reorders must
// reindex the set so the expansion keeps pointing at the same siblings.
type ExpandSet struct {
	open map[int]bool
}

// NewExpandSet creates an empty set.
func NewExpandSet() *ExpandSet {
	return &ExpandSet{open: make(map[int]bool)}
}

// Expanded reports whether the child at index is expanded.
func (e *ExpandSet) Expanded(index int) bool {
	return e.open[index]
}

// Toggle flips the child at index and returns the new state.
func (e *ExpandSet) Toggle(index int) bool {
	if e.open[index] {
		delete(e.open, index)
		return false
	}
	e.open[index] = true
	return true
}

// Collapse closes the child at index.
func (e *ExpandSet) Collapse(index int) {
	delete(e.open, index)
}

// Removed reindexes after the child at index was deleted: the removed
// index is dropped and every index above it shifts down by one.
func (e *ExpandSet) Removed(index int) {
	next := make(map[int]bool, len(e.open))
	for i := range e.open {
		switch {
		case i < index:
			next[i] = true
		case i > index:
			next[i-1] = true
		}
	}
	e.open = next
}

// Moved reindexes after the child at old moved to new: the moved index
// follows its item, and indices strictly between the two positions shift
// by one against the direction of the move.
func (e *ExpandSet) Moved(old, new int) {
	if old == new {
		return
	}
	next := make(map[int]bool, len(e.open))
	for i := range e.open {
		switch {
		case i == old:
			next[new] = true
		case old < new && i > old && i <= new:
			next[i-1] = true
		case new < old && i >= new && i < old:
			next[i+1] = true
		default:
			next[i] = true
		}
	}
	e.open = next
}

// Indices returns the expanded indices, unordered.
func (e *ExpandSet) Indices() []int {
	out := make([]int, 0, len(e.open))
	for i := range e.open {
		out = append(out, i)
	}
	return out
}
