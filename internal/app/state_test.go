package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/config"
	"floorplan/internal/entity"
)

const minimalConfig = `
name: Test House
rooms:
  - name: Kitchen
    boundary: [[0, 0], [100, 0], [100, 50], [0, 50]]
    entities:
      - light.kitchen
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "house.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigEmitsAndResetsView(t *testing.T) {
	s := NewState(entity.NewSimProvider(), nil)
	s.View = ViewDetail
	s.DetailRoom = 3

	var loaded int
	s.On(EventConfigLoaded, func(any) { loaded++ })

	require.NoError(t, s.LoadConfig(writeConfig(t, minimalConfig)))
	assert.Equal(t, 1, loaded)
	assert.Equal(t, ViewOverview, s.View)
	assert.Equal(t, -1, s.DetailRoom)
	require.NotNil(t, s.Config())
	assert.Equal(t, "Test House", s.Config().Name)
}

func TestApplyConfigMarksModified(t *testing.T) {
	s := NewState(nil, nil)

	var changed, modified int
	s.On(EventConfigChanged, func(any) { changed++ })
	s.On(EventModified, func(any) { modified++ })

	s.ApplyConfig(&config.House{Name: "Edited"})
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, modified)
	assert.True(t, s.Modified)
}

func TestSaveRoundTrip(t *testing.T) {
	s := NewState(nil, nil)
	path := writeConfig(t, minimalConfig)
	require.NoError(t, s.LoadConfig(path))

	house := s.Config().Clone()
	house.Name = "Renamed"
	s.ApplyConfig(house)
	require.NoError(t, s.SaveConfig())
	assert.False(t, s.Modified)

	reread, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reread.Name)
}

func TestSaveWithoutConfigFails(t *testing.T) {
	s := NewState(nil, nil)
	assert.Error(t, s.SaveConfig())
}

func TestOpenRoomDetailBoundsChecked(t *testing.T) {
	s := NewState(nil, nil)
	require.NoError(t, s.LoadConfig(writeConfig(t, minimalConfig)))

	var opened []any
	s.On(EventRoomDetailOpened, func(d any) { opened = append(opened, d) })

	s.OpenRoomDetail(5)
	assert.Empty(t, opened)
	assert.Equal(t, ViewOverview, s.View)

	s.OpenRoomDetail(0)
	assert.Equal(t, []any{0}, opened)
	assert.Equal(t, ViewDetail, s.View)

	s.ShowOverview()
	assert.Equal(t, ViewOverview, s.View)
}

func TestFocusElement(t *testing.T) {
	s := NewState(nil, nil)

	var focused string
	s.On(EventElementFocused, func(d any) { focused = d.(string) })

	s.FocusElement("light.kitchen")
	assert.Equal(t, "light.kitchen", focused)
	assert.Equal(t, "light.kitchen", s.SelectedKey)
}
