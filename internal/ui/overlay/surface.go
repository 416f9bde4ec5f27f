package overlay

import (
	"fmt"

	"digitalclock/internal/core/bootstrap"
	appLog "digitalclock/internal/log"

	"fyne.io/fyne/v2"
)

// Surface adapts a fyne window to the bootstrap.
type Surface struct {
	window fyne.Window
}

// ID distinguishes windows by identity.
func (surface *Surface) ID() string {
	return fmt.Sprintf("%p", surface.window)
}

// ApplyOverlay turns the window into the background widget.
func (surface *Surface) ApplyOverlay(config bootstrap.OverlayConfig) error {
	var err error
	fyne.DoAndWait(func() {
		if config.Borderless {
			surface.window.SetPadded(false)
		}
		surface.window.SetFullScreen(config.FullScreen)
		err = applyNative(surface.window, config)
	})
	if err != nil {
		return fmt.Errorf("apply overlay: %w", err)
	}
	appLog.Debug("overlay applied", "surface", surface.ID(), "fullscreen", config.FullScreen)
	return nil
}

// Locator finds the clock window among the app's windows, skipping every
// other window such as preferences.
type Locator struct {
	app   fyne.App
	clock *Window
}

// NewLocator creates a locator for clock.
func NewLocator(app fyne.App, clock *Window) *Locator {
	return &Locator{app: app, clock: clock}
}

// Find returns the clock window once the driver knows about it.
func (locator *Locator) Find() (bootstrap.Surface, bool) {
	var found fyne.Window
	fyne.DoAndWait(func() {
		for _, window := range locator.app.Driver().AllWindows() {
			if window.Title() == Title {
				found = window
				return
			}
		}
	})
	if found == nil {
		return nil, false
	}
	return &Surface{window: found}, true
}

// Create replaces the clock window with a new one.
func (locator *Locator) Create() (bootstrap.Surface, error) {
	var created fyne.Window
	fyne.DoAndWait(func() {
		created = locator.clock.Recreate()
	})
	if created == nil {
		return nil, bootstrap.ErrNoSurface
	}
	return &Surface{window: created}, nil
}
