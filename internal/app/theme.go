package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"venue-designer/pkg/colorutil"
)

// VenueTheme provides the editor theme: blue accents matching the selection
// overlay and a wider scrollbar for the canvas.
type VenueTheme struct{}

var _ fyne.Theme = (*VenueTheme)(nil)

func (t *VenueTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Blue
	case theme.ColorNameSelection:
		return colorutil.WithOpacity(colorutil.Blue, 0.3)
	case theme.ColorNameFocus:
		return colorutil.WithOpacity(colorutil.Blue, 0.5)
	case theme.ColorNameScrollBar:
		return colorutil.Gray
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *VenueTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *VenueTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *VenueTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	case theme.SizeNameScrollBarSmall:
		return 10
	default:
		return theme.DefaultTheme().Size(name)
	}
}
