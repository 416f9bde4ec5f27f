package preferences

import (
	"image/color"
	"testing"

	"digitalclock/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCollectsForm(t *testing.T) {
	app := test.NewTempApp(t)
	prefs := model.DefaultPreferences()
	prefs.EventColor = color.NRGBA{R: 1, G: 2, B: 3, A: 255}

	var saved []model.Preferences
	window := New(app, prefs, func(updated model.Preferences) {
		saved = append(saved, updated)
	})
	assert.Equal(t, float64(model.DefaultVerticalOffset), window.offset.Value)
	assert.Equal(t, "220 px", window.offsetAt.Text)

	window.offset.SetValue(340)
	test.Type(window.apiKey, "  secret-key ")
	window.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 340.0, saved[0].VerticalOffset)
	assert.Equal(t, "secret-key", saved[0].APIKey)
	assert.Equal(t, prefs.EventColor, saved[0].EventColor)
	assert.Equal(t, "340 px", window.offsetAt.Text)
}

func TestResetRestoresColorsOnly(t *testing.T) {
	app := test.NewTempApp(t)
	prefs := model.DefaultPreferences()
	prefs.TextColor = color.NRGBA{R: 10, A: 255}
	prefs.VerticalOffset = 80
	prefs.APIKey = "key"

	var saved model.Preferences
	window := New(app, prefs, func(updated model.Preferences) { saved = updated })
	window.draft.Reset()
	window.refreshSwatches()
	window.handleSave()

	defaults := model.DefaultPreferences()
	assert.Equal(t, defaults.TextColor, saved.TextColor)
	assert.Equal(t, 80.0, saved.VerticalOffset)
	assert.Equal(t, "key", saved.APIKey)
	assert.Equal(t, defaults.TextColor, window.colors[0].swatch.FillColor)
}

func TestCancelDiscardsDraft(t *testing.T) {
	app := test.NewTempApp(t)
	prefs := model.DefaultPreferences()
	window := New(app, prefs, nil)

	window.draft.HolidayColor = color.NRGBA{G: 200, A: 255}
	window.offset.SetValue(10)
	window.UpdatePreferences(window.prefs)

	assert.Equal(t, prefs, window.draft)
	assert.Equal(t, prefs.VerticalOffset, window.offset.Value)
}
