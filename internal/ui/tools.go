package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/board"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	OnTapped func(string)
}

func newColorSwatch(name string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(colorOf(s.Name))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

var palette = []string{"black", "red", "green", "blue", "orange"}

// commands are the toolbar buttons whose enablement follows the board.
type commands struct {
	typeset, undo, redo, clear *widget.Button
}

func (c *commands) update(b *board.Board) {
	setEnabled(c.typeset, b.CanTypeset())
	setEnabled(c.undo, b.CanUndo())
	setEnabled(c.redo, b.CanRedo())
	setEnabled(c.clear, b.Store.Len() > 0 || len(b.Surface.Elements()) > 0)
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

// --- The Main Toolbar ---
func newToolbar(a *App) (fyne.CanvasObject, *commands) {
	canvasWidget := a.canvas

	// tools with built-in tooltips
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			canvasWidget.SetTool(ToolPen)
			a.setStatus("Pen")
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			canvasWidget.SetTool(ToolEraser)
			a.setStatus("Eraser")
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), a.copySelection),
		widget.NewToolbarAction(theme.ContentCutIcon(), a.cutSelection),
		widget.NewToolbarAction(theme.ContentPasteIcon(), a.paste),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.export),
	)

	cmds := &commands{
		typeset: widget.NewButtonWithIcon("Typeset", theme.ConfirmIcon(), a.typeset),
		undo:    widget.NewButtonWithIcon("", theme.ContentUndoIcon(), a.undo),
		redo:    widget.NewButtonWithIcon("", theme.ContentRedoIcon(), a.redo),
		clear:   widget.NewButtonWithIcon("Clear all", theme.DeleteIcon(), a.clearAll),
	}

	lasso := widget.NewCheck("Lasso", func(on bool) {
		a.board.Selection.SetLassoEnabled(on)
	})
	lasso.SetChecked(a.board.Selection.Lasso.Enabled())
	a.lassoCheck = lasso

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, name := range palette {
		colorBox.Add(newColorSwatch(name, func(c string) {
			canvasWidget.SetTool(ToolPen)
			canvasWidget.SetColor(c)
		}))
	}

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 20.0)
	strokeSlider.SetValue(2.0)
	strokeSlider.OnChanged = func(val float64) {
		canvasWidget.SetStroke(float32(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), strokeSlider)

	// --- Assemble everything ---
	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		cmds.undo,
		cmds.redo,
		cmds.typeset,
		cmds.clear,
		widget.NewSeparator(),
		lasso,
		widget.NewSeparator(),
		colorBox,
		sliderContainer,
		layout.NewSpacer(),
		a.deviceToggles(),
	), cmds
}

// deviceToggles shows which devices may draw. The checks follow device
// changes made elsewhere, such as touch being turned off when a pen appears.
func (a *App) deviceToggles() fyne.CanvasObject {
	box := container.NewHBox()
	checks := map[board.DeviceKind]*widget.Check{}
	for _, kind := range []board.DeviceKind{board.DeviceMouse, board.DevicePen, board.DeviceTouch} {
		check := widget.NewCheck(kind.String(), func(on bool) {
			if err := a.board.Devices.Set(kind, on); err != nil {
				a.log.Warn("device toggle failed", "device", kind.String(), "error", err)
			}
		})
		on, _ := a.board.Devices.Enabled(kind)
		check.SetChecked(on)
		checks[kind] = check
		box.Add(check)
	}
	a.subs.Add(a.board.Devices.Changes().Subscribe(func(c board.DeviceChange) {
		if check, ok := checks[c.Kind]; ok && check.Checked != c.Enabled {
			check.SetChecked(c.Enabled)
		}
	}))
	return box
}
