package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dimension is a position or size value: either room-relative pixels
// (numeric) or a literal percentage string that passes through the render
// pipeline unchanged.
type Dimension struct {
	Pixels  float64
	Percent string
}

// Px constructs a pixel dimension.
func Px(v float64) *Dimension {
	return &Dimension{Pixels: v}
}

// Pct constructs a percentage dimension from a literal like "25%".
func Pct(s string) *Dimension {
	return &Dimension{Percent: s}
}

// IsPercent reports whether the value is a literal percentage.
func (d *Dimension) IsPercent() bool {
	return d != nil && d.Percent != ""
}

func (d Dimension) String() string {
	if d.Percent != "" {
		return d.Percent
	}
	return fmt.Sprintf("%gpx", d.Pixels)
}

// ParseDimension parses user-typed input: "25%" stays a percentage literal,
// "12" or "12px" becomes pixels.
func ParseDimension(s string) (*Dimension, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty dimension")
	}
	if strings.HasSuffix(s, "%") {
		return Pct(s), nil
	}
	var px float64
	if _, err := fmt.Sscanf(strings.TrimSuffix(s, "px"), "%g", &px); err != nil {
		return nil, fmt.Errorf("bad dimension %q: %w", s, err)
	}
	return Px(px), nil
}

// UnmarshalYAML accepts a number or a "N%" string.
func (d *Dimension) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.fromAny(raw)
}

// MarshalYAML writes the value back in its authored form.
func (d Dimension) MarshalYAML() (any, error) {
	if d.Percent != "" {
		return d.Percent, nil
	}
	return d.Pixels, nil
}

// UnmarshalJSON accepts a number or a "N%" string.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.fromAny(raw)
}

// MarshalJSON writes the value back in its authored form.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.Percent != "" {
		return json.Marshal(d.Percent)
	}
	return json.Marshal(d.Pixels)
}

func (d *Dimension) fromAny(raw any) error {
	switch v := raw.(type) {
	case float64:
		*d = Dimension{Pixels: v}
	case int:
		*d = Dimension{Pixels: float64(v)}
	case string:
		if !strings.HasSuffix(v, "%") {
			return fmt.Errorf("dimension string %q must end in %%", v)
		}
		*d = Dimension{Percent: v}
	default:
		return fmt.Errorf("dimension must be a number or percentage string, got %T", raw)
	}
	return nil
}
