package preferences

import (
	"fmt"
	"image/color"
	"strings"

	"digitalclock/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Title of the settings window. It must differ from the clock window title.
const Title = "Digital Clock Settings"

const swatchSize = 28

// colorField is one editable color with its swatch.
type colorField struct {
	label  string
	get    func(*model.Preferences) *color.NRGBA
	swatch *canvas.Rectangle
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	prefs    model.Preferences
	draft    model.Preferences
	onSave   func(model.Preferences)
	colors   []*colorField
	offset   *widget.Slider
	offsetAt *widget.Label
	apiKey   *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, prefs model.Preferences, onSave func(model.Preferences)) *Window {
	window := app.NewWindow(Title)

	settings := &Window{
		window: window,
		prefs:  prefs,
		draft:  prefs,
		onSave: onSave,
		colors: []*colorField{
			{label: "Text", get: func(p *model.Preferences) *color.NRGBA { return &p.TextColor }},
			{label: "Weekend", get: func(p *model.Preferences) *color.NRGBA { return &p.WeekendColor }},
			{label: "Event", get: func(p *model.Preferences) *color.NRGBA { return &p.EventColor }},
			{label: "Holiday", get: func(p *model.Preferences) *color.NRGBA { return &p.HolidayColor }},
		},
	}

	colorRows := container.NewVBox()
	for _, field := range settings.colors {
		field.swatch = canvas.NewRectangle(color.Transparent)
		field.swatch.SetMinSize(fyne.NewSize(swatchSize, swatchSize))
		field.swatch.CornerRadius = 4
		choose := widget.NewButton("Choose…", settings.pickerFor(field))
		colorRows.Add(container.NewHBox(
			container.NewGridWrap(fyne.NewSize(90, swatchSize), widget.NewLabel(field.label)),
			field.swatch,
			choose,
		))
	}

	settings.offsetAt = widget.NewLabel("")
	settings.offset = widget.NewSlider(model.MinVerticalOffset, model.MaxVerticalOffset)
	settings.offset.Step = 1
	settings.offset.OnChanged = func(value float64) {
		settings.draft.VerticalOffset = value
		settings.offsetAt.SetText(formatOffset(value))
	}

	settings.apiKey = widget.NewPasswordEntry()
	settings.apiKey.SetPlaceHolder("Google Calendar API key")

	resetButton := widget.NewButton("Reset to Defaults", func() {
		settings.draft.Reset()
		settings.refreshSwatches()
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Colors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		colorRows,
		resetButton,
		widget.NewLabelWithStyle("Layout", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Vertical offset"), settings.offsetAt, settings.offset),
		widget.NewLabelWithStyle("Calendars", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		settings.apiKey,
	)

	saveButton := widget.NewButton("Save", settings.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		settings.UpdatePreferences(settings.prefs)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(func() {
		settings.UpdatePreferences(settings.prefs)
		window.Hide()
	})

	settings.UpdatePreferences(prefs)
	return settings
}

// Show displays the preferences window.
func (settings *Window) Show() {
	settings.window.Show()
	settings.window.RequestFocus()
}

// UpdatePreferences replaces window values.
func (settings *Window) UpdatePreferences(prefs model.Preferences) {
	settings.prefs = prefs
	settings.draft = prefs
	settings.offset.SetValue(prefs.VerticalOffset)
	settings.offsetAt.SetText(formatOffset(prefs.VerticalOffset))
	settings.apiKey.SetText(prefs.APIKey)
	settings.refreshSwatches()
}

func (settings *Window) pickerFor(field *colorField) func() {
	return func() {
		picker := dialog.NewColorPicker(field.label+" color", "", func(picked color.Color) {
			*field.get(&settings.draft) = color.NRGBAModel.Convert(picked).(color.NRGBA)
			settings.refreshSwatches()
		}, settings.window)
		picker.Advanced = true
		picker.SetColor(*field.get(&settings.draft))
		picker.Show()
	}
}

func (settings *Window) refreshSwatches() {
	for _, field := range settings.colors {
		field.swatch.FillColor = *field.get(&settings.draft)
		field.swatch.Refresh()
	}
}

func (settings *Window) handleSave() {
	prefs := settings.draft
	prefs.VerticalOffset = settings.offset.Value
	prefs.APIKey = strings.TrimSpace(settings.apiKey.Text)
	prefs.ClampOffset()

	settings.prefs = prefs
	settings.draft = prefs
	if settings.onSave != nil {
		settings.onSave(prefs)
	}
	settings.window.Hide()
}

func formatOffset(value float64) string {
	return fmt.Sprintf("%.0f px", value)
}
