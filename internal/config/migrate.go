package config

// CurrentVersion is the configuration schema version written by Save.
const CurrentVersion = 2

// DefaultLayerID is the id assigned to the layer synthesized when migrating
// the legacy flat-groups shape. Deterministic so repeated loads of the same
// legacy file agree.
const DefaultLayerID = "layer.default"

// Migrate upgrades a configuration in place to the current schema version.
// The legacy shape carried a flat list of groups; the current shape nests
// groups inside layers. The upgrade only applies when the newer shape is
// absent, so configs that already use layers are untouched.
func Migrate(h *House) {
	if len(h.Layers) == 0 && len(h.Groups) > 0 {
		h.Layers = []Layer{{
			ID:            DefaultLayerID,
			Name:          "Default",
			Visible:       true,
			ShowInToggles: true,
			Groups:        h.Groups,
		}}
		h.Groups = nil
	}
	h.Version = CurrentVersion
}
