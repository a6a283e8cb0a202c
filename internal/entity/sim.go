package entity

import (
	"math/rand"
	"sync"
	"time"
)

// SimProvider is an in-memory StateProvider and AreaRegistry used by the
// demo binary and the test suite. It can tick entity states on a timer to
// exercise the dynamic room coloring.
type SimProvider struct {
	mu     sync.RWMutex
	states map[string]State
	areas  map[string][]string

	stop chan struct{}
}

// NewSimProvider creates an empty simulator.
func NewSimProvider() *SimProvider {
	return &SimProvider{
		states: make(map[string]State),
		areas:  make(map[string][]string),
	}
}

// Set stores or replaces an entity state.
func (s *SimProvider) Set(entityID, state string, attrs map[string]any) {
	s.mu.Lock()
	s.states[entityID] = State{EntityID: entityID, State: state, Attributes: attrs}
	s.mu.Unlock()
}

// SetArea assigns entity ids to an area.
func (s *SimProvider) SetArea(areaID string, entityIDs ...string) {
	s.mu.Lock()
	s.areas[areaID] = append([]string(nil), entityIDs...)
	s.mu.Unlock()
}

// GetState implements StateProvider.
func (s *SimProvider) GetState(entityID string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[entityID]
	return st, ok
}

// EntitiesInArea implements AreaRegistry.
func (s *SimProvider) EntitiesInArea(areaID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.areas[areaID]...)
}

// StartTicking toggles binary-ish entities at the given interval until
// StopTicking is called. onChange is invoked after each tick.
func (s *SimProvider) StartTicking(interval time.Duration, onChange func()) {
	s.StopTicking()
	s.mu.Lock()
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick()
				if onChange != nil {
					onChange()
				}
			}
		}
	}()
}

// StopTicking stops a running ticker, if any.
func (s *SimProvider) StopTicking() {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
}

func (s *SimProvider) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.states {
		switch st.State {
		case "on":
			if rand.Intn(3) == 0 {
				st.State = "off"
			}
		case "off":
			if rand.Intn(3) == 0 {
				st.State = "on"
			}
		}
		s.states[id] = st
	}
}
