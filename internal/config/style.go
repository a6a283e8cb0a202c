package config

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style is a user-authored style bag. Authored either as a mapping or as a
// "key: value; key: value" string; normalized to a map at decode time so the
// pipeline never re-checks the shape.
type Style map[string]string

// UnmarshalYAML accepts a mapping or a semicolon-separated string.
func (s *Style) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*s = parseStyleString(raw)
		return nil
	}

	var m map[string]string
	if err := value.Decode(&m); err != nil {
		return err
	}
	*s = m
	return nil
}

// UnmarshalJSON mirrors the YAML handling.
func (s *Style) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = parseStyleString(raw)
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

func parseStyleString(raw string) Style {
	out := make(Style)
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// String renders the bag back to a deterministic "k: v; k: v" form.
func (s Style) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s[k])
	}
	return strings.Join(parts, "; ")
}

// Merge returns a copy of s with other's entries applied on top.
func (s Style) Merge(other Style) Style {
	if len(s) == 0 && len(other) == 0 {
		return nil
	}
	out := make(Style, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
