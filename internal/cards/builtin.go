package cards

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"floorplan/internal/entity"
)

// Built-in element type names. These mirror the registry defaults in
// internal/elements; kept as strings so host factories can extend the set.
const (
	TypeStateIcon   = "state-icon"
	TypeStateLabel  = "state-label"
	TypeLight       = "light"
	TypeSensorBadge = "sensor-badge"
	TypeInfoBox     = "info-box"
)

var activeColor = color.RGBA{R: 255, G: 196, B: 0, A: 255}
var inactiveColor = color.RGBA{R: 140, G: 140, B: 140, A: 255}

// NewBuiltinFactory returns the factory covering the built-in element types.
func NewBuiltinFactory() Factory {
	return FactoryFunc(func(cfg Config) (Card, error) {
		switch cfg.Type {
		case TypeStateIcon:
			return newStateIcon(cfg), nil
		case TypeStateLabel:
			return newStateLabel(cfg), nil
		case TypeLight:
			return newLightCard(cfg), nil
		case TypeSensorBadge:
			return newSensorBadge(cfg), nil
		case TypeInfoBox:
			return newInfoBox(cfg), nil
		default:
			return nil, fmt.Errorf("unknown element type %q", cfg.Type)
		}
	})
}

// iconResources maps configured icon names onto theme resources.
var iconResources = map[string]func() fyne.Resource{
	"lightbulb": theme.VisibilityIcon,
	"motion":    theme.WarningIcon,
	"occupancy": theme.AccountIcon,
	"door":      theme.LoginIcon,
	"window":    theme.ViewFullScreenIcon,
	"camera":    theme.MediaVideoIcon,
	"speaker":   theme.VolumeUpIcon,
	"power":     theme.RadioButtonCheckedIcon,
}

func iconFor(props map[string]any) fyne.Resource {
	if name, ok := props["icon"].(string); ok {
		if res, ok := iconResources[name]; ok {
			return res()
		}
	}
	return theme.RadioButtonIcon()
}

// stateIcon renders an icon on a state-colored dot.
type stateIcon struct {
	obj  *fyne.Container
	dot  *canvas.Circle
	icon *widget.Icon
}

func newStateIcon(cfg Config) *stateIcon {
	c := &stateIcon{
		dot:  canvas.NewCircle(inactiveColor),
		icon: widget.NewIcon(iconFor(cfg.Props)),
	}
	c.obj = container.NewStack(c.dot, c.icon)
	return c
}

func (c *stateIcon) Object() fyne.CanvasObject { return c.obj }

func (c *stateIcon) SetState(st entity.State) {
	if st.Active() {
		c.dot.FillColor = activeColor
	} else {
		c.dot.FillColor = inactiveColor
	}
	c.dot.Refresh()
}

// stateLabel renders the raw state string.
type stateLabel struct {
	text *canvas.Text
}

func newStateLabel(Config) *stateLabel {
	t := canvas.NewText("—", color.White)
	t.TextSize = 12
	return &stateLabel{text: t}
}

func (c *stateLabel) Object() fyne.CanvasObject { return c.text }

func (c *stateLabel) SetState(st entity.State) {
	c.text.Text = st.State
	c.text.Refresh()
}

// lightCard is a state icon that also tints with brightness.
type lightCard struct {
	*stateIcon
}

func newLightCard(cfg Config) *lightCard {
	return &lightCard{stateIcon: newStateIcon(cfg)}
}

func (c *lightCard) SetState(st entity.State) {
	c.stateIcon.SetState(st)
	if b, ok := st.Attributes["brightness"].(float64); ok && st.Active() {
		// Scale the dot alpha with brightness so a dimmed light reads dimmer.
		a := uint8(80 + b/255*175)
		c.dot.FillColor = color.RGBA{R: activeColor.R, G: activeColor.G, B: activeColor.B, A: a}
		c.dot.Refresh()
	}
}

// sensorBadge renders "value unit" with the friendly name optionally above.
type sensorBadge struct {
	obj      fyne.CanvasObject
	name     *canvas.Text
	value    *canvas.Text
	showName bool
}

func newSensorBadge(cfg Config) *sensorBadge {
	c := &sensorBadge{
		name:  canvas.NewText("", color.RGBA{R: 200, G: 200, B: 200, A: 255}),
		value: canvas.NewText("—", color.White),
	}
	c.name.TextSize = 10
	c.value.TextSize = 13
	c.showName, _ = cfg.Props["show_name"].(bool)
	if c.showName {
		c.obj = container.NewVBox(c.name, c.value)
	} else {
		c.obj = c.value
	}
	return c
}

func (c *sensorBadge) Object() fyne.CanvasObject { return c.obj }

func (c *sensorBadge) SetState(st entity.State) {
	text := st.State
	if unit := st.Unit(); unit != "" {
		text += " " + unit
	}
	c.value.Text = text
	c.value.Refresh()
	if c.showName {
		c.name.Text = st.FriendlyName()
		c.name.Refresh()
	}
}

// infoBox renders the per-room aggregate summary as stacked lines.
type infoBox struct {
	obj   *fyne.Container
	title *canvas.Text
	lines *fyne.Container
}

func newInfoBox(cfg Config) *infoBox {
	title, _ := cfg.Props["title"].(string)
	c := &infoBox{
		title: canvas.NewText(title, color.White),
		lines: container.NewVBox(),
	}
	c.title.TextSize = 12
	c.title.TextStyle = fyne.TextStyle{Bold: true}
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 140})
	bg.CornerRadius = 4
	c.obj = container.NewStack(bg, container.NewVBox(c.title, c.lines))
	return c
}

func (c *infoBox) Object() fyne.CanvasObject { return c.obj }

// SetState is a no-op; the info box has no single backing entity.
func (c *infoBox) SetState(entity.State) {}

// SetSummary implements SummaryCard.
func (c *infoBox) SetSummary(lines []string) {
	c.lines.RemoveAll()
	for _, line := range lines {
		t := canvas.NewText(line, color.White)
		t.TextSize = 11
		c.lines.Add(t)
	}
	c.lines.Refresh()
}

// ErrorCard is the placeholder substituted when a factory call fails or an
// element's configured type is unavailable. It keeps the editor usable.
type ErrorCard struct {
	obj      fyne.CanvasObject
	TypeName string
}

// NewErrorCard creates a placeholder bearing the offending type name.
func NewErrorCard(typeName string) *ErrorCard {
	label := canvas.NewText(fmt.Sprintf("?%s", strings.TrimSpace(typeName)), color.RGBA{R: 255, G: 80, B: 80, A: 255})
	label.TextSize = 10
	bg := canvas.NewRectangle(color.RGBA{R: 120, G: 0, B: 0, A: 90})
	return &ErrorCard{
		obj:      container.NewStack(bg, label),
		TypeName: typeName,
	}
}

// Object implements Card.
func (c *ErrorCard) Object() fyne.CanvasObject { return c.obj }

// SetState implements Card.
func (c *ErrorCard) SetState(entity.State) {}
