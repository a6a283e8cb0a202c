// Package config defines the floor plan configuration schema, its
// normalization rules, and the versioned migration from the legacy shape.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"floorplan/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// Position scaling modes control how strongly an element's stored position
// follows room zoom.
const (
	PositionScalingPlan    = "plan"    // position follows full room scale
	PositionScalingElement = "element" // position follows the element's visual scale
	PositionScalingFixed   = "fixed"   // position is pixel-literal regardless of zoom
)

// House is the root configuration object.
type House struct {
	Version int    `json:"version" yaml:"version"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`

	// Background plan image (relative to the config file).
	ImagePath string `json:"image,omitempty" yaml:"image,omitempty"`

	Rooms  []Room  `json:"rooms" yaml:"rooms"`
	Layers []Layer `json:"layers,omitempty" yaml:"layers,omitempty"`

	// Legacy flat shape; migrated into Layers at load time.
	Groups []Group `json:"groups,omitempty" yaml:"groups,omitempty"`

	// Key for the layer-visibility preference store.
	PersistenceID string `json:"persistence_id,omitempty" yaml:"persistence_id,omitempty"`

	// House-wide info box default; rooms override it.
	InfoBox *InfoBoxConfig `json:"info_box,omitempty" yaml:"info_box,omitempty"`

	// Visual-scale policy knob for the detail view, 0..1. Nil means the
	// built-in default.
	ScaleRatio *float64 `json:"scale_ratio,omitempty" yaml:"scale_ratio,omitempty"`

	// Draw room polygon fills on the overview.
	ShowRoomBackgrounds bool `json:"show_room_backgrounds,omitempty" yaml:"show_room_backgrounds,omitempty"`
}

// DefaultScaleRatio is the detail-view element scaling default when the
// configuration does not set one.
const DefaultScaleRatio = 0.25

// EffectiveScaleRatio returns the configured scale ratio or the default.
func (h *House) EffectiveScaleRatio() float64 {
	if h.ScaleRatio != nil {
		return *h.ScaleRatio
	}
	return DefaultScaleRatio
}

// Room is a named polygonal region of the building plan.
type Room struct {
	Name     string             `json:"name" yaml:"name"`
	Boundary []geometry.Point2D `json:"boundary" yaml:"boundary"`
	Entities []EntityConfig     `json:"entities,omitempty" yaml:"entities,omitempty"`

	Color                       string         `json:"color,omitempty" yaml:"color,omitempty"`
	Area                        string         `json:"area,omitempty" yaml:"area,omitempty"`
	DisableDynamicColor         bool           `json:"disable_dynamic_color,omitempty" yaml:"disable_dynamic_color,omitempty"`
	ElementsClickableOnOverview bool           `json:"elements_clickable_on_overview,omitempty" yaml:"elements_clickable_on_overview,omitempty"`
	InfoBox                     *InfoBoxConfig `json:"info_box,omitempty" yaml:"info_box,omitempty"`
}

// Renderable reports whether the boundary defines a polygon.
func (r *Room) Renderable() bool {
	return len(r.Boundary) >= 3
}

// Layer is a cross-cutting visibility grouping of elements, applied via
// PlanConfig.LayerID and independent of room/group structure. Visible is the
// design-time default; runtime visibility lives in the preference store.
type Layer struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Icon          string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Visible       bool    `json:"visible" yaml:"visible"`
	ShowInToggles bool    `json:"show_in_toggles" yaml:"show_in_toggles"`
	Groups        []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Group is a purely organizational container inside a layer.
type Group struct {
	GroupName string         `json:"group_name" yaml:"group_name"`
	Elements  []EntityConfig `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// InfoBoxConfig configures the synthetic per-room aggregate widget.
type InfoBoxConfig struct {
	Enabled *bool      `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Title   string     `json:"title,omitempty" yaml:"title,omitempty"`
	Left    *Dimension `json:"left,omitempty" yaml:"left,omitempty"`
	Top     *Dimension `json:"top,omitempty" yaml:"top,omitempty"`
	Right   *Dimension `json:"right,omitempty" yaml:"right,omitempty"`
	Bottom  *Dimension `json:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// EntityConfig is the normalized form of the string-or-object union in the
// authored configuration. A bare string becomes {Entity: s, Plan: nil}: it
// appears in the entities list but never on the plan or overview.
type EntityConfig struct {
	Entity string      `json:"entity,omitempty" yaml:"entity,omitempty"`
	Plan   *PlanConfig `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// Positioned reports whether the entry participates in spatial rendering.
func (e EntityConfig) Positioned() bool {
	return e.Plan != nil
}

// NewDecorativeElement constructs a positioned no-entity element. The element
// type is mandatory; this is the one construction-time validation the editor
// is allowed to surface as an error.
func NewDecorativeElement(elementType string, plan PlanConfig) (EntityConfig, error) {
	if elementType == "" {
		return EntityConfig{}, fmt.Errorf("decorative element requires an element type")
	}
	if plan.Element == nil {
		plan.Element = &ElementOverride{}
	}
	plan.Element.Type = elementType
	return EntityConfig{Plan: &plan}, nil
}

// UnmarshalYAML accepts either a bare entity-reference string or the object
// form.
func (e *EntityConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var ref string
		if err := value.Decode(&ref); err != nil {
			return err
		}
		*e = EntityConfig{Entity: ref}
		return nil
	}

	type plain EntityConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = EntityConfig(p)
	return nil
}

// MarshalYAML writes shorthand entries back as bare strings.
func (e EntityConfig) MarshalYAML() (any, error) {
	if e.Plan == nil && e.Entity != "" {
		return e.Entity, nil
	}
	type plain EntityConfig
	return plain(e), nil
}

// UnmarshalJSON mirrors the YAML union handling.
func (e *EntityConfig) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*e = EntityConfig{Entity: ref}
		return nil
	}

	type plain EntityConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EntityConfig(p)
	return nil
}

// MarshalJSON writes shorthand entries back as bare strings.
func (e EntityConfig) MarshalJSON() ([]byte, error) {
	if e.Plan == nil && e.Entity != "" {
		return json.Marshal(e.Entity)
	}
	type plain EntityConfig
	return json.Marshal(plain(e))
}

// PlanConfig is the positioning and visual-override bag for one element.
type PlanConfig struct {
	Left   *Dimension `json:"left,omitempty" yaml:"left,omitempty"`
	Right  *Dimension `json:"right,omitempty" yaml:"right,omitempty"`
	Top    *Dimension `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom *Dimension `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Width  *Dimension `json:"width,omitempty" yaml:"width,omitempty"`
	Height *Dimension `json:"height,omitempty" yaml:"height,omitempty"`

	Show     *bool  `json:"show,omitempty" yaml:"show,omitempty"`         // default true
	Overview *bool  `json:"overview,omitempty" yaml:"overview,omitempty"` // default true; false = detail-only
	LayerID  string `json:"layer_id,omitempty" yaml:"layer_id,omitempty"`

	Style   Style            `json:"style,omitempty" yaml:"style,omitempty"`
	Element *ElementOverride `json:"element,omitempty" yaml:"element,omitempty"`

	PositionScalingHorizontal string `json:"position_scaling_horizontal,omitempty" yaml:"position_scaling_horizontal,omitempty"`
	PositionScalingVertical   string `json:"position_scaling_vertical,omitempty" yaml:"position_scaling_vertical,omitempty"`

	ExcludeFromInfoBox  bool `json:"exclude_from_info_box,omitempty" yaml:"exclude_from_info_box,omitempty"`
	DisableDynamicColor bool `json:"disable_dynamic_color,omitempty" yaml:"disable_dynamic_color,omitempty"`
}

// Shown reports whether the element renders at all (Show defaults true).
func (p *PlanConfig) Shown() bool {
	return p.Show == nil || *p.Show
}

// OnOverview reports whether the element renders in overview mode
// (Overview defaults true).
func (p *PlanConfig) OnOverview() bool {
	return p.Overview == nil || *p.Overview
}

// HorizontalScaling returns the normalized horizontal position-scaling mode.
func (p *PlanConfig) HorizontalScaling() string {
	return normalizeScaling(p.PositionScalingHorizontal)
}

// VerticalScaling returns the normalized vertical position-scaling mode.
func (p *PlanConfig) VerticalScaling() string {
	return normalizeScaling(p.PositionScalingVertical)
}

func normalizeScaling(mode string) string {
	switch mode {
	case PositionScalingElement, PositionScalingFixed:
		return mode
	default:
		return PositionScalingPlan
	}
}

// ElementOverride overrides the resolved default element definition. A
// non-empty Type replaces the default wholesale; otherwise Props shallow-merge
// over the defaults.
type ElementOverride struct {
	Type  string         `json:"type,omitempty" yaml:"type,omitempty"`
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`

	// Container dimensions for group elements; children are positioned
	// relative to the container origin, not the room.
	Width    float64        `json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64        `json:"height,omitempty" yaml:"height,omitempty"`
	Elements []EntityConfig `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Load reads a House configuration from a YAML or JSON file, normalizes it,
// and applies schema migration.
func Load(path string) (*House, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var house House
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &house)
	default:
		err = yaml.Unmarshal(data, &house)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	Migrate(&house)
	return &house, nil
}

// Save writes the configuration as YAML.
func (h *House) Save(path string) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ResolveImagePath returns the absolute path to the plan background image.
func (h *House) ResolveImagePath(configPath string) string {
	if h.ImagePath == "" || filepath.IsAbs(h.ImagePath) {
		return h.ImagePath
	}
	return filepath.Join(filepath.Dir(configPath), h.ImagePath)
}

// LayerByID looks up a layer.
func (h *House) LayerByID(id string) *Layer {
	for i := range h.Layers {
		if h.Layers[i].ID == id {
			return &h.Layers[i]
		}
	}
	return nil
}
