package render

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"floorplan/internal/cards"
	"floorplan/internal/config"
	"floorplan/internal/elements"
	"floorplan/internal/entity"
)

// Info box cascade: a room's config overrides the house's, which overrides
// the built-in default (enabled, anchored to the room's top-left corner).
var defaultInfoBox = config.InfoBoxConfig{
	Left: config.Px(5),
	Top:  config.Px(5),
}

func effectiveInfoBox(room, house *config.InfoBoxConfig) (config.InfoBoxConfig, bool) {
	cfg := defaultInfoBox
	enabled := true

	apply := func(c *config.InfoBoxConfig) {
		if c == nil {
			return
		}
		if c.Enabled != nil {
			enabled = *c.Enabled
		}
		if c.Title != "" {
			cfg.Title = c.Title
		}
		if c.Left != nil || c.Top != nil || c.Right != nil || c.Bottom != nil {
			cfg.Left, cfg.Top, cfg.Right, cfg.Bottom = c.Left, c.Top, c.Right, c.Bottom
		}
	}
	apply(house)
	apply(room)

	return cfg, enabled
}

// renderInfoBox synthesizes the aggregate element for one room pass and runs
// it through the same position pipeline as ordinary entities, keyed per room
// so multiple rooms' info boxes never collide in the cache.
func (r *Renderer) renderInfoBox(req *Request) (Placement, bool) {
	var roomCfg *config.InfoBoxConfig
	if req.Room != nil {
		roomCfg = req.Room.InfoBox
	}
	cfg, enabled := effectiveInfoBox(roomCfg, req.HouseInfoBox)
	if !enabled {
		return Placement{}, false
	}

	title := cfg.Title
	if title == "" {
		title = roomName(req)
	}

	plan := &config.PlanConfig{
		Left:   cfg.Left,
		Top:    cfg.Top,
		Right:  cfg.Right,
		Bottom: cfg.Bottom,
		Element: &config.ElementOverride{
			Type:  elements.TypeInfoBox,
			Props: map[string]any{"title": title},
		},
	}

	scope := "room:" + roomName(req)
	key := UniqueKey(scope, "", elements.TypeInfoBox, plan)

	card, err := r.Cards.GetOrCreate(key, func() (cards.Card, error) {
		return r.Factory.Create(cards.Config{Type: elements.TypeInfoBox, Props: plan.Element.Props})
	})
	if err != nil {
		r.warnf("room %q: info box card failed: %v", roomName(req), err)
		return Placement{}, false
	}

	if sc, ok := card.(cards.SummaryCard); ok {
		sc.SetSummary(r.summarize(req))
	}

	p := r.place(req, key, "", elements.TypeInfoBox, plan)
	p.Card = card
	return p, true
}

// summarize scans all of the room's entities for the aggregated device
// classes. Computed once per room-render pass.
func (r *Renderer) summarize(req *Request) []string {
	if r.States == nil || req.Room == nil {
		return nil
	}

	var motionActive, occupancyActive bool
	var temps, hums []float64
	var tempUnit, humUnit string

	for i := range req.Room.Entities {
		ec := &req.Room.Entities[i]
		if ec.Entity == "" {
			continue
		}
		if ec.Plan != nil && ec.Plan.ExcludeFromInfoBox {
			continue
		}
		st, ok := r.States.GetState(ec.Entity)
		if !ok {
			continue
		}
		switch st.DeviceClass() {
		case entity.ClassMotion:
			motionActive = motionActive || st.Active()
		case entity.ClassOccupancy:
			occupancyActive = occupancyActive || st.Active()
		case entity.ClassTemperature:
			if v, err := strconv.ParseFloat(st.State, 64); err == nil {
				temps = append(temps, v)
				tempUnit = st.Unit()
			}
		case entity.ClassHumidity:
			if v, err := strconv.ParseFloat(st.State, 64); err == nil {
				hums = append(hums, v)
				humUnit = st.Unit()
			}
		}
	}

	var lines []string
	if motionActive {
		lines = append(lines, "Motion")
	}
	if occupancyActive {
		lines = append(lines, "Occupied")
	}
	if len(temps) > 0 {
		lines = append(lines, formatMean(temps, tempUnit, 1))
	}
	if len(hums) > 0 {
		lines = append(lines, formatMean(hums, humUnit, 0))
	}
	return lines
}

func formatMean(values []float64, unit string, precision int) string {
	mean := stat.Mean(values, nil)
	s := strconv.FormatFloat(mean, 'f', precision, 64)
	if unit != "" {
		return fmt.Sprintf("%s %s", s, unit)
	}
	return s
}
