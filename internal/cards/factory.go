// Package cards provides the card-creation factory consumed by the element
// renderer. The renderer only depends on the narrow Factory interface; the
// built-in factory covers the default element types and a host can supply
// its own for richer cards.
package cards

import (
	"fyne.io/fyne/v2"

	"floorplan/internal/entity"
)

// Config is the small typed object handed to a factory.
type Config struct {
	Type   string
	Entity string
	Props  map[string]any
}

// Card is an opaque renderable whose live-state reference the caller must
// keep refreshed on every state push.
type Card interface {
	Object() fyne.CanvasObject
	SetState(st entity.State)
}

// SummaryCard is implemented by aggregate cards (the info box) that render
// computed summary lines instead of one entity's state.
type SummaryCard interface {
	Card
	SetSummary(lines []string)
}

// Factory creates cards. Create may fail; callers substitute an error
// placeholder rather than propagating.
type Factory interface {
	Create(cfg Config) (Card, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(cfg Config) (Card, error)

// Create implements Factory.
func (f FactoryFunc) Create(cfg Config) (Card, error) {
	return f(cfg)
}
