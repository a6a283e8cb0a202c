package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYAML = `
name: Test House
image: plan.png
rooms:
  - name: Living Room
    boundary: [[0, 0], [100, 0], [100, 50], [0, 50]]
    entities:
      - sensor.living_pressure
      - entity: light.living_ceiling
        plan:
          left: 10
          top: 10
      - entity: sensor.living_temp
        plan:
          left: 25%
          top: 5
          overview: false
          position_scaling_horizontal: fixed
layers:
  - id: layer.lights
    name: Lights
    visible: true
    show_in_toggles: true
`

func TestLoadNormalizesUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	house, err := Load(path)
	require.NoError(t, err)
	require.Len(t, house.Rooms, 1)

	room := house.Rooms[0]
	require.Len(t, room.Entities, 3)

	// Bare string shorthand: present, but never positioned.
	assert.Equal(t, "sensor.living_pressure", room.Entities[0].Entity)
	assert.False(t, room.Entities[0].Positioned())

	// Object form with pixel position.
	ceiling := room.Entities[1]
	require.True(t, ceiling.Positioned())
	assert.Equal(t, 10.0, ceiling.Plan.Left.Pixels)
	assert.True(t, ceiling.Plan.OnOverview())
	assert.True(t, ceiling.Plan.Shown())
	assert.Equal(t, PositionScalingPlan, ceiling.Plan.HorizontalScaling())

	// Percentage literal passes through; overview:false is detail-only.
	temp := room.Entities[2]
	require.True(t, temp.Positioned())
	assert.True(t, temp.Plan.Left.IsPercent())
	assert.Equal(t, "25%", temp.Plan.Left.Percent)
	assert.False(t, temp.Plan.OnOverview())
	assert.Equal(t, PositionScalingFixed, temp.Plan.HorizontalScaling())
	assert.Equal(t, PositionScalingPlan, temp.Plan.VerticalScaling())
}

func TestEntityConfigRoundTrip(t *testing.T) {
	entities := []EntityConfig{
		{Entity: "sensor.bare"},
		{Entity: "light.lamp", Plan: &PlanConfig{Left: Px(5)}},
	}

	out, err := yaml.Marshal(entities)
	require.NoError(t, err)

	var back []EntityConfig
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, entities, back)

	jsonOut, err := json.Marshal(entities)
	require.NoError(t, err)
	assert.Contains(t, string(jsonOut), `"sensor.bare"`)

	var jsonBack []EntityConfig
	require.NoError(t, json.Unmarshal(jsonOut, &jsonBack))
	assert.Equal(t, entities, jsonBack)
}

func TestParseDimension(t *testing.T) {
	type tc struct {
		in      string
		pixels  float64
		percent string
		wantErr bool
	}

	tests := map[string]tc{
		"plain number": {in: "12", pixels: 12},
		"px suffix":    {in: "12.5px", pixels: 12.5},
		"percent":      {in: "25%", percent: "25%"},
		"padded":       {in: "  7 ", pixels: 7},
		"empty":        {in: "", wantErr: true},
		"garbage":      {in: "abc", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := ParseDimension(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pixels, d.Pixels)
			assert.Equal(t, tt.percent, d.Percent)
		})
	}
}

func TestDimensionRejectsBadString(t *testing.T) {
	var d Dimension
	err := yaml.Unmarshal([]byte(`"12px"`), &d)
	assert.Error(t, err)
}

func TestStyleUnionForms(t *testing.T) {
	var fromString Style
	require.NoError(t, yaml.Unmarshal([]byte(`"color: red; border: 1"`), &fromString))

	var fromMap Style
	require.NoError(t, yaml.Unmarshal([]byte("color: red\nborder: \"1\"\n"), &fromMap))

	assert.Equal(t, fromMap, fromString)
	assert.Equal(t, "border: 1; color: red", fromString.String())
}

func TestMigrateFlatGroups(t *testing.T) {
	house := &House{
		Groups: []Group{
			{GroupName: "Climate", Elements: []EntityConfig{{Entity: "sensor.temp"}}},
			{GroupName: "Lights"},
		},
	}

	Migrate(house)

	assert.Nil(t, house.Groups)
	require.Len(t, house.Layers, 1)
	layer := house.Layers[0]
	assert.Equal(t, DefaultLayerID, layer.ID)
	assert.True(t, layer.Visible)
	assert.Len(t, layer.Groups, 2)
	assert.Equal(t, CurrentVersion, house.Version)
}

func TestMigrateKeepsExistingLayers(t *testing.T) {
	house := &House{
		Layers: []Layer{{ID: "layer.custom", Name: "Custom"}},
		Groups: []Group{{GroupName: "Orphan"}},
	}

	Migrate(house)

	// The newer shape is present, so the legacy groups are not rewrapped.
	require.Len(t, house.Layers, 1)
	assert.Equal(t, "layer.custom", house.Layers[0].ID)
}

func TestNewDecorativeElement(t *testing.T) {
	_, err := NewDecorativeElement("", PlanConfig{})
	assert.Error(t, err)

	el, err := NewDecorativeElement("plan-image", PlanConfig{Left: Px(1)})
	require.NoError(t, err)
	assert.Empty(t, el.Entity)
	assert.Equal(t, "plan-image", el.Plan.Element.Type)
}

func TestDeltaHelpers(t *testing.T) {
	base := []int{1, 2, 3, 4}

	inserted := InsertAt(base, 1, 9)
	assert.Equal(t, []int{1, 9, 2, 3, 4}, inserted)
	assert.Equal(t, []int{1, 2, 3, 4}, base)

	removed := RemoveAt(base, 2)
	assert.Equal(t, []int{1, 2, 4}, removed)

	moved := Move(base, 0, 3)
	assert.Equal(t, []int{2, 3, 4, 1}, moved)

	movedBack := Move(base, 3, 0)
	assert.Equal(t, []int{4, 1, 2, 3}, movedBack)

	replaced := ReplaceAt(base, 1, 7)
	assert.Equal(t, []int{1, 7, 3, 4}, replaced)

	// Out-of-range indices degrade to copies.
	assert.Equal(t, base, RemoveAt(base, 99))
	assert.Equal(t, base, Move(base, -1, 2))
}

func TestCloneIsDeep(t *testing.T) {
	house := &House{
		Rooms: []Room{{Name: "A", Entities: []EntityConfig{{Entity: "light.a", Plan: &PlanConfig{Left: Px(3)}}}}},
	}

	clone := house.Clone()
	clone.Rooms[0].Name = "B"
	clone.Rooms[0].Entities[0].Plan.Left = Px(99)

	assert.Equal(t, "A", house.Rooms[0].Name)
	assert.Equal(t, 3.0, house.Rooms[0].Entities[0].Plan.Left.Pixels)
}
