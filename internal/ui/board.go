package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/event"
	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/selection"
)

var (
	overlayColor = color.NRGBA{R: 30, G: 120, B: 230, A: 255}
	lassoColor   = color.NRGBA{R: 120, G: 120, B: 120, A: 200}
)

// BoardWidget is the ink canvas. It feeds pointer input to a board and is
// the surface its typeset elements are drawn on.
type BoardWidget struct {
	widget.BaseWidget
	layer      *render.Layer
	board      *board.Board
	input      *input
	subs       event.Group
	panX, panY float32
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Tappable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)
var _ render.Surface = (*BoardWidget)(nil)

func NewBoardWidget() *BoardWidget {
	b := &BoardWidget{layer: render.NewLayer()}
	b.ExtendBaseWidget(b)
	return b
}

// Bind attaches the board whose strokes the widget shows and edits.
func (b *BoardWidget) Bind(bd *board.Board) {
	b.subs.Close()
	b.board = bd
	b.input = newInput(bd)
	refresh := func() { b.Refresh() }
	b.subs.Add(
		bd.Changes().Subscribe(func(struct{}) { refresh() }),
		bd.Selection.Overlay.Changes().Subscribe(func(geom.Rect) { refresh() }),
	)
	b.Refresh()
}

// Unbind detaches the board.
func (b *BoardWidget) Unbind() {
	b.subs.Close()
	b.board, b.input = nil, nil
}

func (b *BoardWidget) SetTool(t Tool) {
	if b.input != nil {
		b.input.setTool(t)
		b.Refresh()
	}
}

func (b *BoardWidget) SetColor(c string) {
	if b.input != nil {
		b.input.color = c
	}
}

func (b *BoardWidget) SetStroke(w float32) {
	if b.input != nil {
		b.input.width = w
	}
}

// Pointer returns the last pointer position in canvas coordinates.
func (b *BoardWidget) Pointer() geom.Point {
	if b.input == nil {
		return geom.Point{}
	}
	return b.input.last
}

func (b *BoardWidget) ResetView() {
	b.panX, b.panY = 0, 0
	b.Refresh()
}

func (b *BoardWidget) toCanvas(p fyne.Position) geom.Point {
	return geom.Pt(p.X-b.panX, p.Y-b.panY)
}

func (b *BoardWidget) toScreen(p geom.Point) fyne.Position {
	return fyne.NewPos(p.X+b.panX, p.Y+b.panY)
}

// Surface

func (b *BoardWidget) Add(elements ...render.Element) {
	b.layer.Add(elements...)
	b.Refresh()
}

func (b *BoardWidget) Remove(elements ...render.Element) {
	b.layer.Remove(elements...)
	b.Refresh()
}

func (b *BoardWidget) Clear() {
	b.layer.Clear()
	b.Refresh()
}

func (b *BoardWidget) Elements() []render.Element {
	return b.layer.Elements()
}

// Pointer input

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || b.input == nil {
		return
	}
	if b.input.press(b.toCanvas(e.Position), board.DeviceMouse) {
		b.Refresh()
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || b.input == nil {
		return
	}
	b.input.release(b.toCanvas(e.Position))
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.input == nil {
		return
	}
	if b.input.gesture == gestureNone {
		b.panX += e.Dragged.DX
		b.panY += e.Dragged.DY
	} else {
		b.input.move(b.toCanvas(e.Position))
	}
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {
	if b.board != nil {
		b.board.Devices.PointerEntered(board.DeviceMouse)
	}
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.input != nil && b.input.gesture == gestureNone {
		b.input.last = b.toCanvas(e.Position)
	}
}

func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) Tapped(e *fyne.PointEvent) {
	if b.input != nil {
		b.input.tap(b.toCanvas(e.Position))
	}
}

func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	if b.input != nil {
		b.input.doubleTap(b.toCanvas(e.Position))
	}
}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	if b.input == nil {
		return
	}
	b.board.Devices.PointerEntered(board.DeviceTouch)
	if b.input.press(b.toCanvas(e.Position), board.DeviceTouch) {
		b.Refresh()
	}
}

func (b *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	if b.input != nil {
		b.input.release(b.toCanvas(e.Position))
		b.Refresh()
	}
}

func (b *BoardWidget) TouchCancel(*mobile.TouchEvent) {
	if b.input != nil {
		b.input.cancel()
		b.Refresh()
	}
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.panX += e.Scrolled.DX
	b.panY += e.Scrolled.DY
	b.Refresh()
}

// Rendering

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	b := r.board
	objects := []fyne.CanvasObject{r.background}
	if b.board == nil {
		return objects
	}

	offset := b.input.dragOffset()
	for _, s := range b.board.Store.Strokes() {
		pts := s.Positions()
		if s.Selected && !offset.IsIdentity() {
			for i := range pts {
				pts[i] = offset.Apply(pts[i])
			}
		}
		objects = r.polyline(objects, pts, colorOf(s.Color), s.Width, false)
	}
	if pts := b.input.preview(); len(pts) > 0 {
		objects = r.polyline(objects, pts, colorOf(b.input.color), b.input.width, false)
	}

	for _, e := range b.layer.Elements() {
		switch el := e.(type) {
		case *render.Text:
			t := canvas.NewText(el.Text, colorOf(el.Color))
			t.TextSize = el.FontSize * 0.8
			t.Move(b.toScreen(el.Origin))
			objects = append(objects, t)
		case *render.Ellipse:
			objects = r.polyline(objects, el.Outline(48), colorOf(el.Color), el.Thickness, true)
		case *render.Polygon:
			objects = r.polyline(objects, el.Points, colorOf(el.Color), el.Thickness, true)
		}
	}

	sel := b.board.Selection
	if sel.Overlay.Visible() {
		rect := sel.Overlay.Rect().Inset(-4)
		frame := canvas.NewRectangle(color.Transparent)
		frame.StrokeColor = overlayColor
		frame.StrokeWidth = 1
		frame.Move(b.toScreen(rect.Min))
		frame.Resize(fyne.NewSize(rect.Width(), rect.Height()))
		objects = append(objects, frame)
	}
	if sel.Lasso.State() == selection.LassoDrawing {
		objects = r.polyline(objects, sel.Lasso.Points(), lassoColor, 1, false)
	}
	return objects
}

func (r *boardWidgetRenderer) polyline(objects []fyne.CanvasObject, pts []geom.Point, c color.Color, width float32, closed bool) []fyne.CanvasObject {
	b := r.board
	if len(pts) == 1 {
		dot := canvas.NewCircle(c)
		dot.Move(b.toScreen(pts[0]).SubtractXY(width/2, width/2))
		dot.Resize(fyne.NewSize(width, width))
		return append(objects, dot)
	}
	segment := func(p, q geom.Point) {
		line := canvas.NewLine(c)
		line.StrokeWidth = width
		line.Position1 = b.toScreen(p)
		line.Position2 = b.toScreen(q)
		objects = append(objects, line)
	}
	for i := 1; i < len(pts); i++ {
		segment(pts[i-1], pts[i])
	}
	if closed && len(pts) > 2 {
		segment(pts[len(pts)-1], pts[0])
	}
	return objects
}

func (r *boardWidgetRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

// colorOf resolves a color name, falling back to black.
func colorOf(name string) color.Color {
	if c, ok := config.ParseColor(name); ok {
		return c
	}
	return color.Black
}
