// Package elements maps entities to default visual element definitions and
// merges user overrides over them.
package elements

import (
	"floorplan/internal/config"
	"floorplan/internal/entity"
)

// Render contexts. Some domains want a richer default in the zoomed-in
// detail view than on the plan.
const (
	ContextPlan   = "plan"
	ContextDetail = "detail"
)

// Built-in element type names understood by the default card factory.
const (
	TypeStateIcon   = "state-icon"
	TypeStateLabel  = "state-label"
	TypeLight       = "light"
	TypeSensorBadge = "sensor-badge"
	TypeInfoBox     = "info-box"
	TypeGroup       = "group"
	TypeError       = "error"
)

// Definition is a resolved visual element type plus its default properties.
type Definition struct {
	Type  string
	Props map[string]any
}

// clone returns a copy whose Props map is safe to mutate.
func (d Definition) clone() Definition {
	out := Definition{Type: d.Type}
	if len(d.Props) > 0 {
		out.Props = make(map[string]any, len(d.Props))
		for k, v := range d.Props {
			out.Props[k] = v
		}
	}
	return out
}

// Registry resolves entity references to default element definitions.
// Lookup order is most-specific to least: domain.device_class, domain,
// wildcard. Resolution is total: unrecognized entities yield the generic
// state icon.
type Registry struct {
	base     map[string]Definition
	contexts map[string]map[string]Definition
}

// NewRegistry returns a registry preloaded with the built-in mapping table.
func NewRegistry() *Registry {
	return &Registry{
		base: map[string]Definition{
			"light":  {Type: TypeLight, Props: map[string]any{"icon": "lightbulb"}},
			"switch": {Type: TypeStateIcon, Props: map[string]any{"icon": "power"}},
			"binary_sensor.motion":    {Type: TypeStateIcon, Props: map[string]any{"icon": "motion", "pulse_on_active": true}},
			"binary_sensor.occupancy": {Type: TypeStateIcon, Props: map[string]any{"icon": "occupancy"}},
			"binary_sensor.door":      {Type: TypeStateIcon, Props: map[string]any{"icon": "door"}},
			"binary_sensor.window":    {Type: TypeStateIcon, Props: map[string]any{"icon": "window"}},
			"sensor.temperature":      {Type: TypeSensorBadge, Props: map[string]any{"precision": 1}},
			"sensor.humidity":         {Type: TypeSensorBadge, Props: map[string]any{"precision": 0}},
			"sensor":                  {Type: TypeStateLabel},
			"camera":                  {Type: TypeStateIcon, Props: map[string]any{"icon": "camera"}},
			"media_player":            {Type: TypeStateIcon, Props: map[string]any{"icon": "speaker"}},
			"climate":                 {Type: TypeSensorBadge, Props: map[string]any{"precision": 1}},
			"*":                       {Type: TypeStateIcon},
		},
		contexts: map[string]map[string]Definition{
			// The detail view has room for value labels where the plan
			// shows a bare icon.
			ContextDetail: {
				"sensor": {Type: TypeSensorBadge, Props: map[string]any{"show_name": true}},
			},
		},
	}
}

// Register adds or replaces a default definition. Key is
// "domain.device_class", "domain", or "*".
func (r *Registry) Register(key string, def Definition) {
	r.base[key] = def
}

// Resolve returns the default element definition for an entity. The device
// class hint comes from live state when available; renderContext is
// ContextPlan or ContextDetail.
func (r *Registry) Resolve(entityID, deviceClass, renderContext string) Definition {
	domain := entity.Domain(entityID)

	keys := make([]string, 0, 3)
	if domain != "" && deviceClass != "" {
		keys = append(keys, domain+"."+deviceClass)
	}
	if domain != "" {
		keys = append(keys, domain)
	}
	keys = append(keys, "*")

	for _, key := range keys {
		if ctx, ok := r.contexts[renderContext]; ok {
			if def, ok := ctx[key]; ok {
				return def.clone()
			}
		}
		if def, ok := r.base[key]; ok {
			return def.clone()
		}
	}
	// base always carries the wildcard entry
	return Definition{Type: TypeStateIcon}
}

// Merge applies a user override onto a resolved default. An override that
// names an explicit type replaces the default wholesale: retyping an element
// must not leak the old type's props. Otherwise the override props
// shallow-merge over the defaults, override winning per field.
func Merge(defaults Definition, override *config.ElementOverride) Definition {
	if override == nil {
		return defaults
	}

	if override.Type != "" && override.Type != defaults.Type {
		out := Definition{Type: override.Type}
		if len(override.Props) > 0 {
			out.Props = make(map[string]any, len(override.Props))
			for k, v := range override.Props {
				out.Props[k] = v
			}
		}
		return out
	}

	out := defaults.clone()
	if len(override.Props) > 0 && out.Props == nil {
		out.Props = make(map[string]any, len(override.Props))
	}
	for k, v := range override.Props {
		out.Props[k] = v
	}
	return out
}
