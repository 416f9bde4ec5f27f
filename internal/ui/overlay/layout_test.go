package overlay

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/stretchr/testify/assert"
)

func sized(width, height float32) fyne.CanvasObject {
	rect := canvas.NewRectangle(nil)
	rect.SetMinSize(fyne.NewSize(width, height))
	return rect
}

func TestClockLayoutOffset(t *testing.T) {
	header, strip, panel := sized(400, 120), sized(300, 50), sized(500, 40)
	layout := &clockLayout{offset: 220}

	layout.Layout([]fyne.CanvasObject{header, strip, panel}, fyne.NewSize(1920, 1080))

	assert.Equal(t, fyne.NewPos(0, 220), header.Position())
	assert.Equal(t, float32(1920), header.Size().Width)
	assert.Equal(t, float32(220+120+stripGap), strip.Position().Y)
	assert.Equal(t, float32(480), strip.Size().Width)
	assert.Equal(t, float32((1920-480)/2), strip.Position().X)
	assert.Equal(t, float32(1080-bottomPadding-40), panel.Position().Y)
	assert.Equal(t, float32(710), panel.Position().X)
}

func TestClockLayoutClampsHeader(t *testing.T) {
	header := sized(400, 120)
	layout := &clockLayout{offset: 500}

	layout.Layout([]fyne.CanvasObject{header, sized(10, 10), sized(10, 10)}, fyne.NewSize(800, 300))

	assert.Equal(t, float32(180), header.Position().Y)
}

func TestRowLayout(t *testing.T) {
	first, second := sized(100, 40), sized(50, 20)
	hidden := sized(70, 70)
	hidden.Hide()
	layout := &rowLayout{gap: 10}
	objects := []fyne.CanvasObject{first, hidden, second}

	assert.Equal(t, fyne.NewSize(160, 40), layout.MinSize(objects))

	layout.Layout(objects, fyne.NewSize(160, 40))
	assert.Equal(t, fyne.NewPos(0, 0), first.Position())
	assert.Equal(t, fyne.NewPos(110, 10), second.Position())
}
