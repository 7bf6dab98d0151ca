package canvix

import (
	"math"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
)

const (
	maxScreenX = 1366
	maxScreenY = 768
)

// Preview displays the flattened canvas in a Gio window.
type Preview struct {
	canvas *Canvas
}

// NewPreview wraps the canvas into a GUI preview.
func NewPreview(c *Canvas) *Preview {
	return &Preview{canvas: c}
}

// Show opens the preview window and blocks until it is closed, either by
// the window manager or by pressing the ESC key. The caller is responsible
// for running the Gio event loop (app.Main) on the main thread.
func (p *Preview) Show() error {
	width, height := float64(p.canvas.Width()), float64(p.canvas.Height())

	// Retain the aspect ratio in case the canvas is
	// bigger than the predefined window dimensions.
	if width > maxScreenX && height > maxScreenY {
		ratio := math.Min(maxScreenX/width, maxScreenY/height)
		width, height = width*ratio, height*ratio
	}

	w := app.NewWindow(
		app.Title("Canvas preview"),
		app.Size(unit.Dp(width), unit.Dp(height)),
	)

	var ops op.Ops
	img := p.canvas.Flatten()

	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			src := paint.NewImageOp(img)
			src.Add(gtx.Ops)

			widget.Image{
				Src:   src,
				Scale: 1 / gtx.Metric.PxPerDp,
				Fit:   widget.Contain,
			}.Layout(gtx)

			e.Frame(gtx.Ops)
		case key.Event:
			switch e.Name {
			case key.NameEscape:
				w.Perform(system.ActionClose)
			}
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}
