// Package selection implements the selection gestures of the canvas: the
// rectangle overlay with drag-to-move, the lasso and node taps.
package selection

import (
	"InkBoard/internal/event"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// Overlay is the rectangle drawn around the selection. Dragging it moves the
// selected strokes.
type Overlay struct {
	store    *state.Store
	rect     geom.Rect
	dragging bool
	from     geom.Point
	at       geom.Point
	changes  event.Bus[geom.Rect]
}

func NewOverlay(store *state.Store) *Overlay {
	return &Overlay{store: store, rect: geom.EmptyRect}
}

// Changes publishes the displayed rect whenever it changes.
func (o *Overlay) Changes() *event.Bus[geom.Rect] {
	return &o.changes
}

// Update shows rect. An empty rect hides the overlay.
func (o *Overlay) Update(rect geom.Rect) {
	o.rect = rect
	o.changes.Publish(o.Rect())
}

// Clear hides the overlay and abandons a drag in progress.
func (o *Overlay) Clear() {
	o.dragging = false
	o.Update(geom.EmptyRect)
}

// Rect returns the displayed rect, including the offset of a drag in
// progress.
func (o *Overlay) Rect() geom.Rect {
	if o.dragging {
		return o.rect.Translate(geom.TranslationBetween(o.from, o.at))
	}
	return o.rect
}

func (o *Overlay) Visible() bool {
	return !o.rect.IsEmpty()
}

// Contains reports whether p hits the visible overlay.
func (o *Overlay) Contains(p geom.Point) bool {
	return o.Visible() && o.Rect().Contains(p)
}

func (o *Overlay) Dragging() bool {
	return o.dragging
}

// BeginDrag starts moving the selection when p hits the overlay.
func (o *Overlay) BeginDrag(p geom.Point) bool {
	if !o.Contains(p) {
		return false
	}
	o.dragging = true
	o.from, o.at = p, p
	return true
}

// DragTo previews the move. The store is not touched until EndDrag.
func (o *Overlay) DragTo(p geom.Point) {
	if !o.dragging {
		return
	}
	o.at = p
	o.changes.Publish(o.Rect())
}

// EndDrag moves the selected strokes once, by the whole drag distance.
func (o *Overlay) EndDrag(p geom.Point) {
	if !o.dragging {
		return
	}
	o.dragging = false
	o.store.Move(o.from, p)
	o.Update(o.store.SelectionRect())
}
