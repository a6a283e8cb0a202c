// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/tiff"

	"floorplan/internal/config"
	"floorplan/internal/entity"
)

// ViewState is the card's top-level view.
type ViewState int

const (
	ViewOverview ViewState = iota
	ViewDetail
	ViewEntities
)

// State holds the application state: the authoritative configuration, the
// loaded plan image, the view state, and the event bus the widgets
// communicate through.
type State struct {
	mu sync.RWMutex

	// Configuration
	ConfigPath string
	House      *config.House
	Modified   bool

	// Plan background
	PlanImage image.Image

	// View
	View        ViewState
	DetailRoom  int // index into House.Rooms, valid in ViewDetail
	SelectedKey string

	// Host surfaces
	States entity.StateProvider
	Areas  entity.AreaRegistry

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventConfigLoaded EventType = iota
	EventConfigSaved
	EventConfigChanged
	EventEntityStatesChanged
	EventModified
	EventViewChanged
	EventElementFocused
	EventRoomDetailOpened
	EventShowEntities
	EventLayerVisibilityChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState(states entity.StateProvider, areas entity.AreaRegistry) *State {
	return &State{
		States:    states,
		Areas:     areas,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the configuration as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadConfig loads a configuration file, its plan image, and resets the view.
func (s *State) LoadConfig(path string) error {
	house, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var plan image.Image
	if house.ImagePath != "" {
		plan, err = loadImage(house.ResolveImagePath(path))
		if err != nil {
			return fmt.Errorf("load plan image: %w", err)
		}
	}

	s.mu.Lock()
	s.ConfigPath = path
	s.House = house
	s.PlanImage = plan
	s.Modified = false
	s.View = ViewOverview
	s.DetailRoom = -1
	s.SelectedKey = ""
	s.mu.Unlock()

	s.Emit(EventConfigLoaded, house)
	return nil
}

// SaveConfig writes the configuration back to its file.
func (s *State) SaveConfig() error {
	s.mu.RLock()
	house, path := s.House, s.ConfigPath
	s.mu.RUnlock()

	if house == nil || path == "" {
		return fmt.Errorf("no configuration loaded")
	}
	if err := house.Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	s.SetModified(false)
	s.Emit(EventConfigSaved, path)
	return nil
}

// ApplyConfig replaces the authoritative configuration after an editor
// delta. Listeners treat this as a wholesale change and drop their caches.
func (s *State) ApplyConfig(house *config.House) {
	s.mu.Lock()
	s.House = house
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventConfigChanged, house)
	s.Emit(EventModified, true)
}

// Config returns the current configuration.
func (s *State) Config() *config.House {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.House
}

// Plan returns the loaded background image, which may be nil.
func (s *State) Plan() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PlanImage
}

// OpenRoomDetail switches to the detail view for the room at index.
func (s *State) OpenRoomDetail(index int) {
	s.mu.Lock()
	house := s.House
	if house == nil || index < 0 || index >= len(house.Rooms) {
		s.mu.Unlock()
		return
	}
	s.View = ViewDetail
	s.DetailRoom = index
	s.mu.Unlock()

	s.Emit(EventRoomDetailOpened, index)
	s.Emit(EventViewChanged, ViewDetail)
}

// ShowOverview returns to the overview.
func (s *State) ShowOverview() {
	s.mu.Lock()
	s.View = ViewOverview
	s.DetailRoom = -1
	s.mu.Unlock()
	s.Emit(EventViewChanged, ViewOverview)
}

// ShowEntities switches to the entities list view.
func (s *State) ShowEntities() {
	s.mu.Lock()
	s.View = ViewEntities
	s.mu.Unlock()

	s.Emit(EventShowEntities, nil)
	s.Emit(EventViewChanged, ViewEntities)
}

// FocusElement records the selected element and notifies listeners.
func (s *State) FocusElement(uniqueKey string) {
	s.mu.Lock()
	s.SelectedKey = uniqueKey
	s.mu.Unlock()
	s.Emit(EventElementFocused, uniqueKey)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
