package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempStore(t *testing.T) *Visibility {
	t.Helper()
	return &Visibility{
		values: make(map[string]bool),
		path:   filepath.Join(t.TempDir(), "visibility-test.json"),
	}
}

func TestToggleWritesThrough(t *testing.T) {
	v := newTempStore(t)

	require.NoError(t, v.SetVisible("layer.lights", false))

	data, err := os.ReadFile(v.path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"layer.lights": false}`, string(data))
}

func TestFallbackForUntoggledLayer(t *testing.T) {
	v := newTempStore(t)

	assert.True(t, v.Visible("layer.never_touched", true))
	assert.False(t, v.Visible("layer.never_touched", false))

	require.NoError(t, v.SetVisible("layer.never_touched", false))
	assert.False(t, v.Visible("layer.never_touched", true))
}

func TestNonBoolValuesDiscardedOnLoad(t *testing.T) {
	v := newTempStore(t)
	v.load([]byte(`{"layer.a": true, "layer.b": "yes", "layer.c": 1, "layer.d": false}`))

	assert.True(t, v.Visible("layer.a", false))
	assert.False(t, v.Visible("layer.b", false), "string value discarded")
	assert.False(t, v.Visible("layer.c", false), "number value discarded")
	assert.False(t, v.Visible("layer.d", true))
}

func TestGarbageFileYieldsEmptyStore(t *testing.T) {
	v := newTempStore(t)
	v.load([]byte(`not json at all`))
	assert.True(t, v.Visible("layer.a", true))
}
