// Package dnd pairs removals and insertions that happen in different list
// containers into single logical moves. Each editor surface owns its own
// Coordinator instance; nothing here is global.
package dnd

import (
	"sync"
	"time"
)

// DefaultPairingWindow is how long a removal stays eligible for pairing with
// a matching insertion. Separate containers emit their halves of one drag in
// separate event handlers, so the two records never arrive atomically.
const DefaultPairingWindow = 100 * time.Millisecond

// Move is a paired cross-container transfer.
type Move struct {
	Kind    string
	From    string
	To      string
	Payload any
}

// Coordinator matches RecordRemove/RecordAdd calls into Moves. Only one
// removal is pending at a time; a newer removal overwrites an older one
// because a user can only drag one item.
type Coordinator struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	onMove func(Move)

	pending *removal
}

type removal struct {
	kind    string
	from    string
	payload any
	at      time.Time
}

// NewCoordinator creates a coordinator that invokes onMove once per paired
// transfer.
func NewCoordinator(onMove func(Move)) *Coordinator {
	return &Coordinator{
		window: DefaultPairingWindow,
		now:    time.Now,
		onMove: onMove,
	}
}

// SetPairingWindow overrides the pairing window. Zero restores the default.
func (c *Coordinator) SetPairingWindow(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d <= 0 {
		d = DefaultPairingWindow
	}
	c.window = d
}

// RecordRemove notes that an item left a container and may reappear in
// another one. It reports whether the removal is likely half of a
// cross-container move, which holds whenever a move listener is registered.
// Callers use the report to defer destructive cleanup until the pairing
// window lapses.
func (c *Coordinator) RecordRemove(kind, locator string, payload any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = &removal{kind: kind, from: locator, payload: payload, at: c.now()}
	return c.onMove != nil
}

// RecordAdd attempts to pair an insertion with the pending removal of the
// same kind. On a match the move callback fires exactly once and the pending
// slot clears; an expired or mismatched removal is discarded silently.
func (c *Coordinator) RecordAdd(kind, locator string) bool {
	c.mu.Lock()
	pend := c.pending
	c.pending = nil
	fire := pend != nil && pend.kind == kind && c.now().Sub(pend.at) <= c.window
	cb := c.onMove
	c.mu.Unlock()

	if !fire {
		return false
	}
	if cb != nil {
		cb(Move{Kind: kind, From: pend.from, To: locator, Payload: pend.payload})
	}
	return true
}

// Cancel discards any pending removal, for drags that end without a drop.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}
