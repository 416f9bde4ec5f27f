package overlay

import (
	"image/color"

	"digitalclock/internal/core/model"
	"digitalclock/internal/core/relevance"
	"digitalclock/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
)

// Title identifies the clock window among the app's windows.
const Title = "Digital Clock"

const (
	clockTextSize  = 96
	dateTextSize   = 28
	dayTextSize    = 22
	markerTextSize = 16
	blockTextSize  = 14
	batteryIconPx  = 28
	panelGap       = 36
	stripGap       = 18
	bottomPadding  = 48
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

type dayCell struct {
	outline *canvas.Rectangle
	number  *canvas.Text
	marker  *canvas.Text
}

type blockCell struct {
	title *canvas.Text
	value *canvas.Text
}

// Window is the full-screen clock overlay. Methods without a fyne.Do
// wrapper must run on the fyne thread.
type Window struct {
	app         fyne.App
	window      fyne.Window
	prefs       model.Preferences
	frame       Frame
	root        fyne.CanvasObject
	layout      *clockLayout
	clockText   *canvas.Text
	dateText    *canvas.Text
	days        []*dayCell
	blocks      []*blockCell
	batteryIcon *canvas.Image
}

// New builds the clock window. The window is created hidden.
func New(app fyne.App, prefs model.Preferences) *Window {
	overlay := &Window{
		app:    app,
		prefs:  prefs,
		frame:  Frame{Clock: "--:--"},
		layout: &clockLayout{offset: float32(prefs.VerticalOffset)},
	}

	overlay.clockText = newText("", clockTextSize, true)
	overlay.dateText = newText("", dateTextSize, false)
	header := container.NewVBox(overlay.clockText, overlay.dateText)

	cells := make([]fyne.CanvasObject, 0, model.WindowSize)
	for range model.WindowSize {
		cell := &dayCell{
			outline: canvas.NewRectangle(color.Transparent),
			number:  newText("", dayTextSize, false),
			marker:  newText("", markerTextSize, false),
		}
		cell.outline.CornerRadius = 6
		overlay.days = append(overlay.days, cell)
		cells = append(cells, container.NewStack(cell.outline, container.NewVBox(cell.number, cell.marker)))
	}
	strip := container.NewGridWithColumns(model.WindowSize, cells...)

	overlay.batteryIcon = canvas.NewImageFromResource(resources.BatteryIcon(relevance.BatteryEmpty))
	overlay.batteryIcon.FillMode = canvas.ImageFillContain
	overlay.batteryIcon.SetMinSize(fyne.NewSize(batteryIconPx, batteryIconPx))

	panelItems := make([]fyne.CanvasObject, 0, 4)
	for range 3 {
		cell := &blockCell{
			title: newText("", blockTextSize, false),
			value: newText("", blockTextSize, true),
		}
		overlay.blocks = append(overlay.blocks, cell)
		panelItems = append(panelItems, container.NewVBox(cell.title, cell.value))
	}
	panelItems = append(panelItems, container.NewCenter(overlay.batteryIcon))
	panel := container.New(&rowLayout{gap: panelGap}, panelItems...)

	content := container.New(overlay.layout, header, strip, panel)
	overlay.root = container.NewThemeOverride(content, &transparentTheme{Theme: theme.DefaultTheme()})

	overlay.applyPreferencesUnsafe()
	overlay.window = overlay.newWindow()
	return overlay
}

// Window returns the current fyne window.
func (overlay *Window) Window() fyne.Window {
	return overlay.window
}

// Show displays the clock window.
func (overlay *Window) Show() {
	overlay.window.Show()
}

// Recreate replaces the fyne window with a fresh one carrying the same
// content, for when the original surface never became usable.
func (overlay *Window) Recreate() fyne.Window {
	if overlay.window != nil {
		overlay.window.Close()
	}
	overlay.window = overlay.newWindow()
	overlay.window.Show()
	return overlay.window
}

// Render draws frame.
func (overlay *Window) Render(frame Frame) {
	fyne.Do(func() {
		overlay.frame = frame
		overlay.renderUnsafe()
	})
}

// ApplyPreferences recolors the clock and moves it to the new offset.
func (overlay *Window) ApplyPreferences(prefs model.Preferences) {
	fyne.Do(func() {
		overlay.prefs = prefs
		overlay.applyPreferencesUnsafe()
	})
}

func (overlay *Window) newWindow() fyne.Window {
	window := overlay.app.NewWindow(Title)
	if driver, ok := overlay.app.Driver().(splashWindowDriver); ok {
		// Splash windows are undecorated.
		window = driver.CreateSplashWindow()
		window.SetTitle(Title)
	}
	if overlay.app.Icon() != nil {
		window.SetIcon(overlay.app.Icon())
	}
	window.SetPadded(false)
	window.SetContent(overlay.root)
	window.SetCloseIntercept(func() {})
	return window
}

func (overlay *Window) applyPreferencesUnsafe() {
	overlay.prefs.ClampOffset()
	overlay.layout.offset = float32(overlay.prefs.VerticalOffset)
	overlay.renderUnsafe()
}

func (overlay *Window) renderUnsafe() {
	text := overlay.prefs.TextColor
	frame := overlay.frame

	setText(overlay.clockText, frame.Clock, text)
	setText(overlay.dateText, frame.Date, text)

	for index, cell := range overlay.days {
		day := Day{}
		if index < len(frame.Days) {
			day = frame.Days[index]
		}
		marker := overlay.prefs.MarkerColor(day.Class)
		cell.number.TextStyle.Bold = day.Today
		setText(cell.number, day.Label, text)
		setText(cell.marker, day.Class.Glyph(), marker)

		cell.outline.StrokeColor = dim(text, 64)
		cell.outline.StrokeWidth = 1
		if day.Today {
			cell.outline.StrokeColor = text
			cell.outline.StrokeWidth = 2
		}
		if day.Label == "" {
			cell.outline.StrokeWidth = 0
		}
		cell.outline.Refresh()
	}

	for index, cell := range overlay.blocks {
		block := relevance.Block{}
		if index < len(frame.Blocks) {
			block = frame.Blocks[index]
		}
		value := text
		if block.Highlight {
			value = overlay.prefs.EventColor
		}
		setText(cell.title, block.Title, dim(text, 160))
		setText(cell.value, block.Value, value)
	}

	if frame.Battery != "" {
		overlay.batteryIcon.Resource = resources.BatteryIcon(frame.Battery)
		overlay.batteryIcon.Refresh()
	}
	if overlay.root != nil {
		overlay.root.Refresh()
	}
}

func newText(value string, size float32, bold bool) *canvas.Text {
	text := canvas.NewText(value, color.White)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = size
	text.TextStyle = fyne.TextStyle{Bold: bold}
	return text
}

func setText(text *canvas.Text, value string, c color.Color) {
	text.Text = value
	text.Color = c
	text.Refresh()
}

func dim(c color.NRGBA, alpha uint8) color.NRGBA {
	if c.A < alpha {
		alpha = c.A
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
