// Package main provides the entry point for the Floor Plan application.
package main

import (
	"log"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"floorplan/internal/app"
	"floorplan/internal/config"
	"floorplan/internal/entity"
	"floorplan/ui/card"
)

const (
	appTitle   = "Floor Plan"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	a := fyneapp.New()
	a.Settings().SetTheme(&app.FloorPlanTheme{})

	sim := entity.NewSimProvider()
	state := app.NewState(sim, sim)

	win := a.NewWindow(appTitle)
	win.SetContent(card.New(state))
	win.Resize(fyne.NewSize(1280, 800))

	if len(os.Args) > 1 {
		configPath := os.Args[1]
		if err := state.LoadConfig(configPath); err != nil {
			log.Printf("Failed to load config %s: %v", configPath, err)
		} else {
			seedStates(sim, state.Config())
			setupHotReload(state, configPath)
		}
	}

	sim.StartTicking(3*time.Second, func() {
		state.Emit(app.EventEntityStatesChanged, nil)
	})
	defer sim.StopTicking()

	win.ShowAndRun()
}

// setupHotReload reloads the configuration when the file changes on disk,
// so edits in an external editor show up without a restart.
func setupHotReload(state *app.State, configPath string) {
	watcher := app.NewConfigWatcher(configPath, 2*time.Second)
	if watcher == nil {
		log.Printf("Hot reload: unable to stat %s", configPath)
		return
	}

	watcher.OnChange(func() {
		log.Printf("Hot reload: %s changed, reloading", configPath)
		if err := state.LoadConfig(configPath); err != nil {
			log.Printf("Hot reload failed: %v", err)
		}
	})
	watcher.Start()
}

// seedStates gives every entity referenced by the configuration an initial
// simulated state, guessed from the entity id's domain.
func seedStates(sim *entity.SimProvider, house *config.House) {
	if house == nil {
		return
	}
	for ri := range house.Rooms {
		room := &house.Rooms[ri]
		for _, id := range roomEntityIDs(room) {
			domain, _, _ := strings.Cut(id, ".")
			switch domain {
			case "light", "switch":
				sim.Set(id, "off", nil)
			case "binary_sensor":
				sim.Set(id, "off", map[string]any{"device_class": "motion"})
			case "sensor":
				sim.Set(id, "21.5", map[string]any{
					"device_class":        "temperature",
					"unit_of_measurement": "°C",
				})
			default:
				sim.Set(id, "unknown", nil)
			}
		}
		if room.Area != "" {
			sim.SetArea(room.Area, roomEntityIDs(room)...)
		}
	}
}

func roomEntityIDs(room *config.Room) []string {
	var ids []string
	var walk func(entities []config.EntityConfig)
	walk = func(entities []config.EntityConfig) {
		for i := range entities {
			ec := &entities[i]
			if ec.Entity != "" {
				ids = append(ids, ec.Entity)
			}
			if ec.Plan != nil && ec.Plan.Element != nil {
				walk(ec.Plan.Element.Elements)
			}
		}
	}
	walk(room.Entities)
	return ids
}
