// Package prefs persists runtime layer visibility as JSON under the user
// config directory. Each persistence id owns one file holding a flat
// layer-id to bool map.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir = "floorplan"

	// DefaultPersistenceID is used when the configuration doesn't set one.
	DefaultPersistenceID = "default"
)

// Visibility stores the runtime layer toggles for one persistence id.
type Visibility struct {
	mu     sync.RWMutex
	values map[string]bool
	path   string
}

// Load reads the visibility map for the given persistence id. A missing or
// unreadable file yields an empty store; map values that are not booleans
// are discarded rather than treated as an error.
func Load(persistenceID string) *Visibility {
	if persistenceID == "" {
		persistenceID = DefaultPersistenceID
	}

	v := &Visibility{values: make(map[string]bool)}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	v.path = filepath.Join(configDir, appDir, "visibility-"+persistenceID+".json")

	data, err := os.ReadFile(v.path)
	if err != nil {
		return v
	}
	v.load(data)
	return v
}

func (v *Visibility) load(data []byte) {
	var raw map[string]any
	if json.Unmarshal(data, &raw) != nil {
		return
	}
	for k, val := range raw {
		if b, ok := val.(bool); ok {
			v.values[k] = b
		}
	}
}

// Visible returns a layer's runtime visibility, falling back to the
// design-time default when the layer was never toggled.
func (v *Visibility) Visible(layerID string, fallback bool) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if b, ok := v.values[layerID]; ok {
		return b
	}
	return fallback
}

// SetVisible records a toggle and writes the store through to disk.
func (v *Visibility) SetVisible(layerID string, visible bool) error {
	v.mu.Lock()
	v.values[layerID] = visible
	v.mu.Unlock()
	return v.save()
}

func (v *Visibility) save() error {
	v.mu.RLock()
	data, err := json.MarshalIndent(v.values, "", "  ")
	v.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(v.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(v.path, data, 0o644)
}
