// Package entity defines the host-facing surface for live entity state.
//
// The floor plan never manages device state itself; it consumes a
// StateProvider pushed in by the host and an AreaRegistry for area
// membership lookups.
package entity

import "strings"

// Well-known attribute keys.
const (
	AttrDeviceClass       = "device_class"
	AttrUnitOfMeasurement = "unit_of_measurement"
	AttrFriendlyName      = "friendly_name"
)

// Device classes the info box aggregates.
const (
	ClassMotion      = "motion"
	ClassOccupancy   = "occupancy"
	ClassTemperature = "temperature"
	ClassHumidity    = "humidity"
)

// State is a snapshot of one entity's live state.
type State struct {
	EntityID   string
	State      string
	Attributes map[string]any
}

// DeviceClass returns the device_class attribute, or "".
func (s State) DeviceClass() string {
	return s.stringAttr(AttrDeviceClass)
}

// Unit returns the unit_of_measurement attribute, or "".
func (s State) Unit() string {
	return s.stringAttr(AttrUnitOfMeasurement)
}

// FriendlyName returns the friendly_name attribute, falling back to the
// entity id.
func (s State) FriendlyName() string {
	if n := s.stringAttr(AttrFriendlyName); n != "" {
		return n
	}
	return s.EntityID
}

// Active reports whether the state represents an "on-like" value.
func (s State) Active() bool {
	switch strings.ToLower(s.State) {
	case "on", "open", "detected", "home", "playing", "active":
		return true
	}
	return false
}

func (s State) stringAttr(key string) string {
	if s.Attributes == nil {
		return ""
	}
	if v, ok := s.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// StateProvider is the entity-state lookup surface supplied by the host.
type StateProvider interface {
	// GetState returns the current state for an entity reference. The
	// second return is false when the entity is unknown to the host.
	GetState(entityID string) (State, bool)
}

// AreaRegistry resolves an area identifier to the entity references that
// belong to it, directly or via device membership.
type AreaRegistry interface {
	EntitiesInArea(areaID string) []string
}

// Domain returns the domain portion of an entity reference
// ("light.kitchen" -> "light"). An unqualified reference yields "".
func Domain(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return ""
}
