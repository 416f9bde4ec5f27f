package tray

import (
	"testing"

	"digitalclock/internal/core/bootstrap"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	menus []*fyne.Menu
}

func (host *fakeHost) SetSystemTrayMenu(menu *fyne.Menu) {
	host.menus = append(host.menus, menu)
}

func (host *fakeHost) item(t *testing.T, label string) *fyne.MenuItem {
	t.Helper()
	require.NotEmpty(t, host.menus)
	for _, item := range host.menus[len(host.menus)-1].Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("menu item %q not found", label)
	return nil
}

func stubTooltip(t *testing.T) *string {
	t.Helper()
	var last string
	previous := setTooltip
	setTooltip = func(tooltip string) { last = tooltip }
	t.Cleanup(func() { setTooltip = previous })
	return &last
}

func TestStatusLine(t *testing.T) {
	tooltip := stubTooltip(t)
	host := &fakeHost{}
	manager := New(host, Callbacks{})

	assert.Equal(t, "Calendars: starting... · Overlay: searching", manager.Status())

	manager.SetCalendarStatus("3 events, 1 holiday")
	manager.SetOverlayState(bootstrap.StateConfigured)

	assert.Equal(t, "Calendars: 3 events, 1 holiday · Overlay: configured", manager.Status())
	assert.Equal(t, "Digital Clock\n"+manager.Status(), *tooltip)
	assert.Len(t, host.menus, 3)
	assert.True(t, host.menus[2].Items[0].Disabled)
}

func TestMenuCallbacks(t *testing.T) {
	stubTooltip(t)
	host := &fakeHost{}
	var calls []string
	New(host, Callbacks{
		OnPreferences: func() { calls = append(calls, "preferences") },
		OnRefresh:     func() { calls = append(calls, "refresh") },
		OnQuit:        func() { calls = append(calls, "quit") },
	})

	host.item(t, "Preferences").Action()
	host.item(t, "Refresh calendars").Action()
	host.item(t, "Quit").Action()

	assert.Equal(t, []string{"preferences", "refresh", "quit"}, calls)
}

func TestMenuWithoutCallbacks(t *testing.T) {
	stubTooltip(t)
	host := &fakeHost{}
	New(host, Callbacks{})

	assert.NotPanics(t, func() {
		host.item(t, "Refresh calendars").Action()
	})
}
