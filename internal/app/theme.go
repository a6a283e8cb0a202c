package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// FloorPlanTheme provides a custom theme for the application.
type FloorPlanTheme struct{}

var _ fyne.Theme = (*FloorPlanTheme)(nil)

func (t *FloorPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x03, G: 0x8C, B: 0xB8, A: 0xFF} // Plan-blueprint blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0x98, B: 0x00, A: 0x80} // Matches the motion accent
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *FloorPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *FloorPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *FloorPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
