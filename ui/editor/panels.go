package editor

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"floorplan/internal/config"
	"floorplan/internal/dnd"
)

// Delta is one structural edit, applied to a fresh clone of the
// configuration by the owner of the authoritative copy.
type Delta func(h *config.House)

// Dispatch receives deltas from any editor level.
type Dispatch func(d Delta)

// ElementLocator identifies one group inside the layer tree for the
// cross-container coordinator.
func ElementLocator(layer, group int) string {
	return fmt.Sprintf("%d/%d", layer, group)
}

func ParseElementLocator(s string) (layer, group int, ok bool) {
	if _, err := fmt.Sscanf(s, "%d/%d", &layer, &group); err != nil {
		return 0, 0, false
	}
	return layer, group, true
}

// LayersPanel is the editor root: a sortable list of layers, each expanding
// into its groups.
type LayersPanel struct {
	widget.BaseWidget

	dispatch Dispatch
	coord    *dnd.Coordinator
	expand   *ExpandSet

	house *config.House
	list  *SortableList
	box   *fyne.Container

	// Peer groups for cross-list drops, rebuilt with each SetHouse so
	// stale lists drop out.
	groupLists   *ListGroup
	elementLists *ListGroup
}

// NewLayersPanel builds the root panel. The coordinator is injected by the
// owning card; panels never construct their own.
func NewLayersPanel(dispatch Dispatch, coord *dnd.Coordinator) *LayersPanel {
	p := &LayersPanel{
		dispatch:     dispatch,
		coord:        coord,
		expand:       NewExpandSet(),
		list:         NewSortableList(),
		groupLists:   NewListGroup(),
		elementLists: NewListGroup(),
	}

	p.list.OnItemMoved = func(old, new int) {
		p.expand.Moved(old, new)
		p.dispatch(func(h *config.House) {
			h.Layers = config.Move(h.Layers, old, new)
		})
	}
	p.list.OnItemRemoved = func(index int) {
		p.expand.Removed(index)
		p.dispatch(func(h *config.House) {
			h.Layers = config.RemoveAt(h.Layers, index)
		})
	}

	addBtn := widget.NewButtonWithIcon("Add layer", theme.ContentAddIcon(), p.addLayer)
	p.box = container.NewBorder(nil, addBtn, nil, nil, container.NewVScroll(p.list))

	p.ExtendBaseWidget(p)
	return p
}

func (p *LayersPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.box)
}

// SetHouse re-renders the panel from a fresh configuration.
func (p *LayersPanel) SetHouse(house *config.House) {
	p.house = house
	p.groupLists = NewListGroup()
	p.elementLists = NewListGroup()
	if house == nil {
		p.list.SetItems(nil)
		return
	}

	items := make([]fyne.CanvasObject, 0, len(house.Layers))
	for i := range house.Layers {
		items = append(items, p.layerRow(i))
	}
	p.list.SetItems(items)
}

func (p *LayersPanel) addLayer() {
	p.dispatch(func(h *config.House) {
		h.Layers = append(h.Layers, config.Layer{
			ID:            "layer." + uuid.NewString(),
			Name:          "New layer",
			Visible:       true,
			ShowInToggles: true,
		})
	})
}

// layerRow builds the header row plus, when expanded, the layer's groups.
func (p *LayersPanel) layerRow(index int) fyne.CanvasObject {
	layer := &p.house.Layers[index]

	name := widget.NewEntry()
	name.SetText(layer.Name)
	name.OnSubmitted = func(v string) {
		p.dispatch(func(h *config.House) {
			h.Layers[index].Name = v
		})
	}

	visible := widget.NewCheck("Visible", func(v bool) {
		p.dispatch(func(h *config.House) {
			h.Layers[index].Visible = v
		})
	})
	visible.SetChecked(layer.Visible)

	header := container.NewBorder(nil, nil, nil, visible, name)
	if !p.expand.Expanded(index) {
		toggle := widget.NewButtonWithIcon("", theme.MenuDropDownIcon(), func() {
			p.expand.Toggle(index)
			p.SetHouse(p.house)
		})
		return container.NewBorder(nil, nil, toggle, nil, header)
	}

	toggle := widget.NewButtonWithIcon("", theme.MenuDropUpIcon(), func() {
		p.expand.Toggle(index)
		p.SetHouse(p.house)
	})
	groups := NewLayerPanel(index, layer, p.dispatch, p.coord, p.groupLists, p.elementLists)
	return container.NewBorder(
		container.NewBorder(nil, nil, toggle, nil, header),
		nil, nil, nil,
		groups,
	)
}

// LayerPanel lists one layer's groups.
type LayerPanel struct {
	widget.BaseWidget

	layerIndex int
	layer      *config.Layer
	dispatch   Dispatch
	coord      *dnd.Coordinator
	expand     *ExpandSet

	elementLists *ListGroup

	list *SortableList
	box  *fyne.Container
}

// NewLayerPanel builds the group list for the layer at layerIndex. Its list
// joins peers so a group row dragged onto another layer's list moves there.
func NewLayerPanel(layerIndex int, layer *config.Layer, dispatch Dispatch, coord *dnd.Coordinator, peers, elementPeers *ListGroup) *LayerPanel {
	p := &LayerPanel{
		layerIndex:   layerIndex,
		layer:        layer,
		dispatch:     dispatch,
		coord:        coord,
		expand:       NewExpandSet(),
		elementLists: elementPeers,
		list:         NewSortableList(),
	}
	if peers != nil {
		p.list.JoinGroup(peers)
	}

	p.list.OnItemMoved = func(old, new int) {
		p.expand.Moved(old, new)
		p.dispatch(func(h *config.House) {
			h.Layers[layerIndex].Groups = config.Move(h.Layers[layerIndex].Groups, old, new)
		})
	}
	p.list.OnItemRemoved = func(index int) {
		p.expand.Removed(index)
		removed := config.Group{}
		if index < len(p.layer.Groups) {
			removed = p.layer.Groups[index]
		}
		p.coord.RecordRemove("group", fmt.Sprint(layerIndex), removed)
		p.dispatch(func(h *config.House) {
			h.Layers[layerIndex].Groups = config.RemoveAt(h.Layers[layerIndex].Groups, index)
		})
	}
	p.list.OnItemAdded = func(index int) {
		p.coord.RecordAdd("group", fmt.Sprint(layerIndex))
	}

	addBtn := widget.NewButtonWithIcon("Add group", theme.ContentAddIcon(), func() {
		p.dispatch(func(h *config.House) {
			h.Layers[layerIndex].Groups = append(h.Layers[layerIndex].Groups, config.Group{GroupName: "New group"})
		})
	})
	p.box = container.NewBorder(nil, addBtn, nil, nil, p.list)

	p.ExtendBaseWidget(p)
	p.rebuild()
	return p
}

func (p *LayerPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.box)
}

func (p *LayerPanel) rebuild() {
	items := make([]fyne.CanvasObject, 0, len(p.layer.Groups))
	for i := range p.layer.Groups {
		items = append(items, p.groupRow(i))
	}
	p.list.SetItems(items)
}

func (p *LayerPanel) groupRow(index int) fyne.CanvasObject {
	group := &p.layer.Groups[index]

	name := widget.NewEntry()
	name.SetText(group.GroupName)
	name.OnSubmitted = func(v string) {
		li := p.layerIndex
		p.dispatch(func(h *config.House) {
			h.Layers[li].Groups[index].GroupName = v
		})
	}

	if !p.expand.Expanded(index) {
		toggle := widget.NewButtonWithIcon("", theme.MenuDropDownIcon(), func() {
			p.expand.Toggle(index)
			p.rebuild()
		})
		return container.NewBorder(nil, nil, toggle, nil, name)
	}

	toggle := widget.NewButtonWithIcon("", theme.MenuDropUpIcon(), func() {
		p.expand.Toggle(index)
		p.rebuild()
	})
	elements := NewGroupPanel(p.layerIndex, index, group, p.dispatch, p.coord, p.elementLists)
	return container.NewBorder(
		container.NewBorder(nil, nil, toggle, nil, name),
		nil, nil, nil,
		elements,
	)
}

// GroupPanel lists one group's elements.
type GroupPanel struct {
	widget.BaseWidget

	layerIndex int
	groupIndex int
	group      *config.Group
	dispatch   Dispatch
	coord      *dnd.Coordinator

	list *SortableList
	box  *fyne.Container
}

// NewGroupPanel builds the element list for one group. Its list joins peers
// so an element row dragged onto another group's list moves there.
func NewGroupPanel(layerIndex, groupIndex int, group *config.Group, dispatch Dispatch, coord *dnd.Coordinator, peers *ListGroup) *GroupPanel {
	p := &GroupPanel{
		layerIndex: layerIndex,
		groupIndex: groupIndex,
		group:      group,
		dispatch:   dispatch,
		coord:      coord,
		list:       NewSortableList(),
	}
	if peers != nil {
		p.list.JoinGroup(peers)
	}
	locator := ElementLocator(layerIndex, groupIndex)

	p.list.OnItemMoved = func(old, new int) {
		p.dispatch(func(h *config.House) {
			g := &h.Layers[layerIndex].Groups[groupIndex]
			g.Elements = config.Move(g.Elements, old, new)
		})
	}
	p.list.OnItemRemoved = func(index int) {
		var removed config.EntityConfig
		if index < len(p.group.Elements) {
			removed = p.group.Elements[index]
		}
		p.coord.RecordRemove("element", locator, removed)
		p.dispatch(func(h *config.House) {
			g := &h.Layers[layerIndex].Groups[groupIndex]
			g.Elements = config.RemoveAt(g.Elements, index)
		})
	}
	p.list.OnItemAdded = func(index int) {
		p.coord.RecordAdd("element", locator)
	}

	p.box = container.NewVBox(p.list)
	p.ExtendBaseWidget(p)
	p.rebuild()
	return p
}

func (p *GroupPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.box)
}

func (p *GroupPanel) rebuild() {
	items := make([]fyne.CanvasObject, 0, len(p.group.Elements))
	for i := range p.group.Elements {
		items = append(items, p.elementRow(i))
	}
	p.list.SetItems(items)
}

func (p *GroupPanel) elementRow(index int) fyne.CanvasObject {
	ec := &p.group.Elements[index]

	label := ec.Entity
	if label == "" && ec.Plan != nil && ec.Plan.Element != nil {
		label = ec.Plan.Element.Type
	}
	if label == "" {
		label = "(element)"
	}

	li, gi := p.layerIndex, p.groupIndex
	left := positionEntry(ec.Plan, planLeft, func(d *config.Dimension) {
		p.dispatch(func(h *config.House) {
			el := &h.Layers[li].Groups[gi].Elements[index]
			ensurePlan(el)
			el.Plan.Left = d
		})
	})
	top := positionEntry(ec.Plan, planTop, func(d *config.Dimension) {
		p.dispatch(func(h *config.House) {
			el := &h.Layers[li].Groups[gi].Elements[index]
			ensurePlan(el)
			el.Plan.Top = d
		})
	})

	return container.NewBorder(nil, nil, nil,
		container.NewHBox(widget.NewLabel("left"), left, widget.NewLabel("top"), top),
		widget.NewLabel(label),
	)
}

type planAxis int

const (
	planLeft planAxis = iota
	planTop
)

func ensurePlan(ec *config.EntityConfig) {
	if ec.Plan == nil {
		ec.Plan = &config.PlanConfig{}
	}
}

// positionEntry edits one position dimension as text: a plain number is
// pixels, a trailing % keeps the literal percentage.
func positionEntry(plan *config.PlanConfig, axis planAxis, commit func(*config.Dimension)) *widget.Entry {
	e := widget.NewEntry()
	if plan != nil {
		var d *config.Dimension
		switch axis {
		case planLeft:
			d = plan.Left
		case planTop:
			d = plan.Top
		}
		if d != nil {
			e.SetText(d.String())
		}
	}
	e.OnSubmitted = func(v string) {
		d, err := config.ParseDimension(v)
		if err != nil {
			log.Printf("bad position value %q: %v", v, err)
			return
		}
		commit(d)
	}
	return e
}
