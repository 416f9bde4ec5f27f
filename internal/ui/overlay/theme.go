package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// transparentTheme clears the surfaces fyne paints behind the clock so the
// desktop shows through where the driver supports it.
type transparentTheme struct {
	fyne.Theme
}

func (override *transparentTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameShadow:
		return color.Transparent
	default:
		return override.Theme.Color(name, variant)
	}
}
