package overlay

import "fyne.io/fyne/v2"

// clockLayout stacks the header, the day strip and the status panel. The
// header starts offset pixels below the top edge; the panel sits at the
// bottom.
type clockLayout struct {
	offset float32
}

func (layout *clockLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	header := objects[0]
	strip := objects[1]
	panel := objects[2]

	headerSize := header.MinSize()
	headerY := layout.offset
	if limit := size.Height - headerSize.Height; headerY > limit {
		headerY = limit
	}
	if headerY < 0 {
		headerY = 0
	}
	header.Move(fyne.NewPos(0, headerY))
	header.Resize(fyne.NewSize(size.Width, headerSize.Height))

	stripSize := strip.MinSize()
	stripWidth := stripSize.Width * 1.6
	if stripWidth > size.Width {
		stripWidth = size.Width
	}
	strip.Move(fyne.NewPos((size.Width-stripWidth)/2, headerY+headerSize.Height+stripGap))
	strip.Resize(fyne.NewSize(stripWidth, stripSize.Height))

	panelSize := panel.MinSize()
	panelY := size.Height - bottomPadding - panelSize.Height
	if panelY < 0 {
		panelY = 0
	}
	panel.Move(fyne.NewPos((size.Width-panelSize.Width)/2, panelY))
	panel.Resize(panelSize)
}

func (layout *clockLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	headerSize := objects[0].MinSize()
	stripSize := objects[1].MinSize()
	panelSize := objects[2].MinSize()

	width := headerSize.Width
	if stripSize.Width > width {
		width = stripSize.Width
	}
	if panelSize.Width > width {
		width = panelSize.Width
	}
	height := layout.offset + headerSize.Height + stripGap + stripSize.Height + panelSize.Height + bottomPadding
	return fyne.NewSize(width, height)
}

// rowLayout lines objects up horizontally at their minimum size with a
// fixed gap, vertically centered.
type rowLayout struct {
	gap float32
}

func (layout *rowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	x := float32(0)
	for _, object := range objects {
		if !object.Visible() {
			continue
		}
		objectSize := object.MinSize()
		object.Move(fyne.NewPos(x, (size.Height-objectSize.Height)/2))
		object.Resize(objectSize)
		x += objectSize.Width + layout.gap
	}
}

func (layout *rowLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	width, height := float32(0), float32(0)
	visible := 0
	for _, object := range objects {
		if !object.Visible() {
			continue
		}
		objectSize := object.MinSize()
		width += objectSize.Width
		if objectSize.Height > height {
			height = objectSize.Height
		}
		visible++
	}
	if visible > 1 {
		width += layout.gap * float32(visible-1)
	}
	return fyne.NewSize(width, height)
}
