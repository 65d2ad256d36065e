package selection

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// LassoState is the state of the lasso gesture.
type LassoState int

const (
	LassoIdle LassoState = iota
	LassoDrawing
)

// Lasso selects the strokes enclosed by a free-form polyline. It only
// captures pointers while enabled.
type Lasso struct {
	store   *state.Store
	overlay *Overlay
	enabled bool
	state   LassoState
	points  []geom.Point
}

func NewLasso(store *state.Store, overlay *Overlay) *Lasso {
	return &Lasso{store: store, overlay: overlay}
}

func (l *Lasso) Enabled() bool     { return l.enabled }
func (l *Lasso) State() LassoState { return l.state }

// Points returns the polyline drawn so far.
func (l *Lasso) Points() []geom.Point {
	out := make([]geom.Point, len(l.points))
	copy(out, l.points)
	return out
}

// SetEnabled installs or removes the lasso. Disabling abandons a polyline in
// progress.
func (l *Lasso) SetEnabled(enabled bool) {
	l.enabled = enabled
	if !enabled {
		l.reset()
	}
}

// PointerPressed starts a polyline when p is outside the overlay. It reports
// whether the lasso took the pointer.
func (l *Lasso) PointerPressed(p geom.Point) bool {
	if !l.enabled || l.overlay.Contains(p) {
		return false
	}
	l.state = LassoDrawing
	l.points = append(l.points[:0], p)
	return true
}

func (l *Lasso) PointerMoved(p geom.Point) {
	if l.state != LassoDrawing {
		return
	}
	l.points = append(l.points, p)
}

// PointerReleased closes the polyline, selects the strokes it encloses and
// returns their rect.
func (l *Lasso) PointerReleased(p geom.Point) geom.Rect {
	if l.state != LassoDrawing {
		return geom.EmptyRect
	}
	l.points = append(l.points, p)
	rect := l.store.SelectPolyline(l.points)
	l.reset()
	l.overlay.Update(rect)
	return rect
}

// Abort leaves the Drawing state without selecting.
func (l *Lasso) Abort() {
	l.reset()
}

func (l *Lasso) reset() {
	l.state = LassoIdle
	l.points = l.points[:0]
}
