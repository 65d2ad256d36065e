package ui

import (
	"time"

	"InkBoard/internal/board"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// Tool is what the primary pointer does on the canvas.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
)

const eraserRadius = 8

type gesture int

const (
	gestureNone gesture = iota
	gestureInk
	gestureErase
	gestureDrag
	gestureLasso
)

// input turns pointer events, in canvas coordinates, into board calls. A
// press inside the selection drags it; otherwise the lasso captures the
// pointer when enabled, else the tool does.
type input struct {
	board *board.Board
	tool  Tool
	color string
	width float32
	now   func() time.Time

	gesture gesture
	start   time.Time
	points  []state.Point
	last    geom.Point
}

func newInput(b *board.Board) *input {
	return &input{board: b, tool: ToolPen, color: "black", width: 2, now: time.Now}
}

func (in *input) setTool(t Tool) {
	if in.tool != t {
		in.cancel()
		in.tool = t
	}
}

// press starts a gesture at p. It reports false when nothing started, as
// when dev is disabled for inking.
func (in *input) press(p geom.Point, dev board.DeviceKind) bool {
	in.last = p
	if in.gesture != gestureNone {
		return false
	}
	sel := in.board.Selection
	switch {
	case sel.Overlay.BeginDrag(p):
		in.gesture = gestureDrag
	case sel.Lasso.PointerPressed(p):
		in.gesture = gestureLasso
	case in.tool == ToolEraser:
		in.gesture = gestureErase
		in.erase(p)
	default:
		if ok, err := in.board.Devices.Enabled(dev); err != nil || !ok {
			return false
		}
		in.board.Store.StrokeStarted()
		in.gesture = gestureInk
		in.start = in.now()
		in.points = []state.Point{{Point: p, Pressure: 0.5}}
	}
	return true
}

func (in *input) move(p geom.Point) {
	in.last = p
	switch in.gesture {
	case gestureInk:
		in.points = append(in.points, state.Point{Point: p, Pressure: 0.5, Time: in.now().Sub(in.start)})
	case gestureErase:
		in.erase(p)
	case gestureDrag:
		in.board.Selection.Overlay.DragTo(p)
	case gestureLasso:
		in.board.Selection.Lasso.PointerMoved(p)
	}
}

func (in *input) release(p geom.Point) {
	in.last = p
	switch in.gesture {
	case gestureInk:
		if last := in.points[len(in.points)-1]; last.Point != p {
			in.points = append(in.points, state.Point{Point: p, Pressure: 0.5, Time: in.now().Sub(in.start)})
		}
		// A click without movement is a tap, not ink.
		if len(in.points) > 1 {
			in.board.Store.OnStrokesCollected(state.Stroke{
				Points: in.points,
				Color:  in.color,
				Width:  in.width,
				Time:   in.start,
			})
		} else {
			in.board.Store.StrokeCancelled()
		}
	case gestureDrag:
		in.board.Selection.Overlay.EndDrag(p)
	case gestureLasso:
		in.board.Selection.Lasso.PointerReleased(p)
	}
	in.reset()
}

// cancel abandons the gesture in progress without committing it.
func (in *input) cancel() {
	switch in.gesture {
	case gestureInk:
		in.board.Store.StrokeCancelled()
	case gestureDrag:
		in.board.Selection.ClearSelection()
	case gestureLasso:
		in.board.Selection.Lasso.Abort()
	}
	in.reset()
}

func (in *input) reset() {
	in.gesture = gestureNone
	in.points = nil
}

func (in *input) tap(p geom.Point) {
	in.last = p
	in.board.Selection.Tap.Tapped(p)
}

func (in *input) doubleTap(p geom.Point) {
	in.last = p
	in.board.Selection.Tap.DoubleTapped(p)
}

// erase removes every stroke passing within the eraser of p.
func (in *input) erase(p geom.Point) {
	var hits []state.Stroke
	for _, s := range in.board.Store.Strokes() {
		if touches(s, p, eraserRadius+float64(s.Width)/2) {
			hits = append(hits, s)
		}
	}
	if len(hits) > 0 {
		in.board.Store.OnStrokesErased(hits...)
	}
}

func touches(s state.Stroke, p geom.Point, r float64) bool {
	pts := s.Positions()
	if len(pts) == 1 {
		return p.Distance(pts[0]) <= r
	}
	for i := 1; i < len(pts); i++ {
		if p.SegmentDistance(pts[i-1], pts[i]) <= r {
			return true
		}
	}
	return false
}

// preview returns the positions of the stroke being drawn.
func (in *input) preview() []geom.Point {
	if in.gesture != gestureInk {
		return nil
	}
	out := make([]geom.Point, len(in.points))
	for i, pt := range in.points {
		out[i] = pt.Point
	}
	return out
}

// dragOffset is the translation previewed by a selection drag.
func (in *input) dragOffset() geom.Translation {
	o := in.board.Selection.Overlay
	if !o.Dragging() {
		return geom.Translation{}
	}
	return geom.TranslationBetween(in.board.Store.SelectionRect().Min, o.Rect().Min)
}
