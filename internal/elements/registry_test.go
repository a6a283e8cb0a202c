package elements

import (
	"testing"

	"floorplan/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestResolveLookupOrder(t *testing.T) {
	r := NewRegistry()

	type tc struct {
		entityID    string
		deviceClass string
		context     string
		wantType    string
	}

	tests := map[string]tc{
		"domain and device class": {
			entityID:    "binary_sensor.hall",
			deviceClass: "motion",
			context:     ContextPlan,
			wantType:    TypeStateIcon,
		},
		"domain only": {
			entityID: "light.kitchen",
			context:  ContextPlan,
			wantType: TypeLight,
		},
		"device class beats domain": {
			entityID:    "sensor.outside",
			deviceClass: "temperature",
			context:     ContextPlan,
			wantType:    TypeSensorBadge,
		},
		"unknown domain falls back to wildcard": {
			entityID: "vacuum.robo",
			context:  ContextPlan,
			wantType: TypeStateIcon,
		},
		"detail context override": {
			entityID: "sensor.outside",
			context:  ContextDetail,
			wantType: TypeSensorBadge,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			def := r.Resolve(tt.entityID, tt.deviceClass, tt.context)
			assert.Equal(t, tt.wantType, def.Type)
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	r := NewRegistry()
	def := r.Resolve("", "", "nonsense-context")
	assert.NotEmpty(t, def.Type)
}

func TestResolveReturnsClone(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("light.a", "", ContextPlan)
	a.Props["icon"] = "mutated"

	b := r.Resolve("light.b", "", ContextPlan)
	assert.Equal(t, "lightbulb", b.Props["icon"])
}

func TestMergeTypeReplacement(t *testing.T) {
	defaults := Definition{Type: TypeLight, Props: map[string]any{"icon": "lightbulb", "tap": "toggle"}}

	merged := Merge(defaults, &config.ElementOverride{
		Type:  TypeStateLabel,
		Props: map[string]any{"bold": true},
	})

	// Retyping replaces wholesale; no defaults leak through.
	assert.Equal(t, TypeStateLabel, merged.Type)
	assert.Equal(t, map[string]any{"bold": true}, merged.Props)
}

func TestMergeShallowWhenSameType(t *testing.T) {
	defaults := Definition{Type: TypeLight, Props: map[string]any{"icon": "lightbulb", "tap": "toggle"}}

	merged := Merge(defaults, &config.ElementOverride{
		Props: map[string]any{"icon": "chandelier"},
	})

	assert.Equal(t, TypeLight, merged.Type)
	assert.Equal(t, "chandelier", merged.Props["icon"])
	assert.Equal(t, "toggle", merged.Props["tap"])
}

func TestMergeNilOverride(t *testing.T) {
	defaults := Definition{Type: TypeLight}
	assert.Equal(t, defaults, Merge(defaults, nil))
}
