package model

import (
	"fmt"
	"image/color"
	"strings"
)

const (
	MinVerticalOffset     = 0
	MaxVerticalOffset     = 500
	DefaultVerticalOffset = 220
)

// Preferences holds the user-editable appearance settings.
type Preferences struct {
	TextColor      color.NRGBA
	WeekendColor   color.NRGBA
	EventColor     color.NRGBA
	HolidayColor   color.NRGBA
	VerticalOffset float64
	APIKey         string
}

// DefaultPreferences returns the factory appearance.
func DefaultPreferences() Preferences {
	prefs := Preferences{VerticalOffset: DefaultVerticalOffset}
	prefs.Reset()
	return prefs
}

// Reset restores the default colors. Layout and API key are kept.
func (prefs *Preferences) Reset() {
	prefs.TextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 217}
	prefs.WeekendColor = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	prefs.EventColor = color.NRGBA{R: 255, G: 214, B: 10, A: 255}
	prefs.HolidayColor = color.NRGBA{R: 255, G: 59, B: 48, A: 255}
}

// ClampOffset keeps VerticalOffset inside the slider range.
func (prefs *Preferences) ClampOffset() {
	if prefs.VerticalOffset < MinVerticalOffset {
		prefs.VerticalOffset = MinVerticalOffset
	}
	if prefs.VerticalOffset > MaxVerticalOffset {
		prefs.VerticalOffset = MaxVerticalOffset
	}
}

// MarkerColor returns the color used for a day classification marker.
func (prefs Preferences) MarkerColor(class DayClassification) color.NRGBA {
	switch class {
	case DayWeekend:
		return prefs.WeekendColor
	case DayPlannedEvent:
		return prefs.EventColor
	case DayHoliday:
		return prefs.HolidayColor
	default:
		return prefs.TextColor
	}
}

// FormatHexColor renders c as #RRGGBBAA.
func FormatHexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHexColor accepts #RRGGBB and #RRGGBBAA.
func ParseHexColor(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	var c color.NRGBA
	switch len(hex) {
	case 6:
		c.A = 255
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("parse color %q: want #RRGGBB or #RRGGBBAA", value)
	}
	return c, nil
}
