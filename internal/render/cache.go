package render

import (
	"sync"

	"floorplan/internal/cards"
	"floorplan/internal/elements"
)

// CardCache maps unique keys to previously created card instances. Identity
// is stable across re-renders as long as the generating (type, position)
// tuple is unchanged, which is what lets drag interactions avoid destroying
// and recreating child widgets every frame. Insert-if-absent only; cleared
// wholesale when the configuration changes.
type CardCache struct {
	mu    sync.Mutex
	cards map[string]cards.Card
}

// NewCardCache creates an empty cache.
func NewCardCache() *CardCache {
	return &CardCache{cards: make(map[string]cards.Card)}
}

// GetOrCreate returns the cached card for key, calling create only on a miss.
func (c *CardCache) GetOrCreate(key string, create func() (cards.Card, error)) (cards.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if card, ok := c.cards[key]; ok {
		return card, nil
	}
	card, err := create()
	if err != nil {
		return nil, err
	}
	c.cards[key] = card
	return card, nil
}

// Get returns the cached card for key, if any.
func (c *CardCache) Get(key string) (cards.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cards[key]
	return card, ok
}

// Clear drops every cached card.
func (c *CardCache) Clear() {
	c.mu.Lock()
	c.cards = make(map[string]cards.Card)
	c.mu.Unlock()
}

// Len returns the number of cached cards.
func (c *CardCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cards)
}

// HouseCache holds per-entity metadata shared across all rooms and both view
// modes within one card instance: resolved element definitions and the last
// computed placement. Invalidation is coarse-grained: cleared wholesale on
// config change, never per entity.
type HouseCache struct {
	mu          sync.Mutex
	definitions map[string]elements.Definition
	placements  map[string]Placement
}

// NewHouseCache creates an empty cache.
func NewHouseCache() *HouseCache {
	return &HouseCache{
		definitions: make(map[string]elements.Definition),
		placements:  make(map[string]Placement),
	}
}

// Definition returns the cached resolved definition for a unique key,
// resolving and storing it on first use.
func (c *HouseCache) Definition(key string, resolve func() elements.Definition) elements.Definition {
	c.mu.Lock()
	defer c.mu.Unlock()
	if def, ok := c.definitions[key]; ok {
		return def
	}
	def := resolve()
	c.definitions[key] = def
	return def
}

// RecordPlacement stores the last placement computed for a unique key.
func (c *HouseCache) RecordPlacement(p Placement) {
	c.mu.Lock()
	c.placements[p.Key] = p
	c.mu.Unlock()
}

// PlacementFor returns the last placement recorded for a unique key.
func (c *HouseCache) PlacementFor(key string) (Placement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.placements[key]
	return p, ok
}

// Clear drops all cached metadata.
func (c *HouseCache) Clear() {
	c.mu.Lock()
	c.definitions = make(map[string]elements.Definition)
	c.placements = make(map[string]Placement)
	c.mu.Unlock()
}
