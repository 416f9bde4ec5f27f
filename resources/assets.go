package resources

import (
	"embed"
	"fmt"
	"sync"

	"digitalclock/internal/core/relevance"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	iconDir     = "icons/"
	appIconFile = "clock.svg"
)

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+fileName, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the clock face used for the application and the tray.
func AppIcon() fyne.Resource {
	return MustIcon(appIconFile)
}

// TrayIcon adapts the application icon to the current theme variant so it
// stays visible on dark and light panels.
func TrayIcon() fyne.Resource {
	return theme.NewThemedResource(AppIcon())
}

// BatteryIcon returns the glyph for a battery bucket.
func BatteryIcon(glyph relevance.BatteryGlyph) fyne.Resource {
	resource, err := Icon(string(glyph) + ".svg")
	if err != nil {
		return MustIcon(string(relevance.BatteryEmpty) + ".svg")
	}
	return resource
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
