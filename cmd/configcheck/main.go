// Command configcheck validates a floor plan configuration file and
// optionally writes it back as normalized, migrated YAML.
package main

import (
	"flag"
	"fmt"
	"os"

	"floorplan/internal/config"
	"floorplan/pkg/geometry"
)

func main() {
	out := flag.String("out", "", "Write the normalized configuration as YAML to this path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: configcheck [-out normalized.yaml] <config.yaml|config.json>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	house, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %s: %d rooms, %d layers\n", path, len(house.Rooms), len(house.Layers))

	if house.ImagePath != "" {
		img := house.ResolveImagePath(path)
		if _, err := os.Stat(img); err != nil {
			warn("plan image %s: %v", img, err)
		} else {
			fmt.Printf("Plan image: %s\n", img)
		}
	}

	for ri := range house.Rooms {
		checkRoom(house, &house.Rooms[ri])
	}

	if warnings == 0 {
		fmt.Println("OK")
	} else {
		fmt.Printf("%d warning(s)\n", warnings)
	}

	if *out != "" {
		if err := house.Save(*out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote normalized config to %s\n", *out)
	}

	if warnings > 0 {
		os.Exit(2)
	}
}

var warnings int

func warn(format string, args ...any) {
	warnings++
	fmt.Printf("WARNING: "+format+"\n", args...)
}

func checkRoom(house *config.House, room *config.Room) {
	if len(room.Boundary) < 3 {
		warn("room %q: boundary has %d points, needs at least 3", room.Name, len(room.Boundary))
	} else {
		b := geometry.BoundsOf(room.Boundary)
		if b.Width <= 0 || b.Height <= 0 {
			warn("room %q: degenerate boundary (%gx%g)", room.Name, b.Width, b.Height)
		}
	}

	checkEntities(house, room, room.Entities)
}

func checkEntities(house *config.House, room *config.Room, entities []config.EntityConfig) {
	for i := range entities {
		ec := &entities[i]
		if !ec.Positioned() {
			continue
		}

		elementType := ""
		if ec.Plan.Element != nil {
			elementType = ec.Plan.Element.Type
		}
		if ec.Entity == "" && elementType == "" {
			warn("room %q: element #%d has neither an entity nor an element type", room.Name, i)
		}
		if ec.Plan.LayerID != "" && house.LayerByID(ec.Plan.LayerID) == nil {
			warn("room %q: element %q references unknown layer %q",
				room.Name, elementLabel(ec, elementType), ec.Plan.LayerID)
		}
		if ec.Plan.Element != nil && len(ec.Plan.Element.Elements) > 0 {
			if ec.Plan.Element.Width <= 0 || ec.Plan.Element.Height <= 0 {
				warn("room %q: group %q needs explicit width and height",
					room.Name, elementLabel(ec, elementType))
			}
			checkEntities(house, room, ec.Plan.Element.Elements)
		}
	}
}

func elementLabel(ec *config.EntityConfig, elementType string) string {
	if ec.Entity != "" {
		return ec.Entity
	}
	return elementType
}
