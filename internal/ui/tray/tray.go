package tray

import (
	"fmt"

	"digitalclock/internal/core/bootstrap"

	"fyne.io/fyne/v2"
	"fyne.io/systray"
)

const menuTitle = "Digital Clock"

// setTooltip is replaced in tests; the real tray only exists under a driver.
var setTooltip = systray.SetTooltip

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnRefresh     func()
	OnQuit        func()
}

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Manager handles system tray state.
type Manager struct {
	host        MenuHost
	statusItem  *fyne.MenuItem
	callbacks   Callbacks
	calendar    string
	overlay     bootstrap.State
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(host MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		callbacks: callbacks,
		calendar:  "starting...",
		overlay:   bootstrap.StateSearching,
	}
	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.refreshStatus()
	return manager
}

// SetCalendarStatus updates the calendar part of the status line.
func (manager *Manager) SetCalendarStatus(status string) {
	manager.calendar = status
	manager.refreshStatus()
}

// SetOverlayState updates the overlay part of the status line.
func (manager *Manager) SetOverlayState(state bootstrap.State) {
	manager.overlay = state
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusLabel
}

func (manager *Manager) refreshStatus() {
	manager.statusLabel = fmt.Sprintf("Calendars: %s · Overlay: %s", manager.calendar, manager.overlay)
	manager.statusItem.Label = manager.statusLabel
	manager.refreshMenu()
	setTooltip(menuTitle + "\n" + manager.statusLabel)
}

func (manager *Manager) refreshMenu() {
	if manager.host == nil {
		return
	}
	manager.host.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Refresh calendars", func() {
			if manager.callbacks.OnRefresh != nil {
				manager.callbacks.OnRefresh()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
