package selection

import (
	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// NodeFinder resolves the recognized node under a point.
type NodeFinder interface {
	FindNode(p geom.Point) *analysis.Node
}

// NodeTap selects recognized nodes by tapping. A double tap inside the
// selected node widens the selection to its parent.
type NodeTap struct {
	store    *state.Store
	overlay  *Overlay
	finder   NodeFinder
	selected *analysis.Node
}

func NewNodeTap(store *state.Store, overlay *Overlay, finder NodeFinder) *NodeTap {
	return &NodeTap{store: store, overlay: overlay, finder: finder}
}

// Selected returns the node whose strokes are selected, or nil.
func (t *NodeTap) Selected() *analysis.Node {
	return t.selected
}

// Tapped selects the node under p, or clears the selection when there is none.
func (t *NodeTap) Tapped(p geom.Point) geom.Rect {
	t.selected = t.finder.FindNode(p)
	return t.show()
}

// DoubleTapped expands the selection to the parent of the selected node. A
// double tap outside the selected node does nothing.
func (t *NodeTap) DoubleTapped(p geom.Point) bool {
	if t.selected == nil || !t.selected.Bounds.Contains(p) {
		return false
	}
	t.Expand()
	return true
}

// Expand selects the parent of the selected node. Expanding past the root
// clears the selection.
func (t *NodeTap) Expand() geom.Rect {
	if t.selected == nil {
		return geom.EmptyRect
	}
	t.selected = t.selected.Parent
	return t.show()
}

// Clear drops the node and the selection.
func (t *NodeTap) Clear() {
	t.selected = nil
	t.store.ClearSelection()
	t.overlay.Clear()
}

// Forget drops the node without touching the store.
func (t *NodeTap) Forget() {
	t.selected = nil
}

func (t *NodeTap) show() geom.Rect {
	if t.selected == nil {
		t.Clear()
		return geom.EmptyRect
	}
	rect := t.store.SelectNode(t.selected)
	if rect.IsEmpty() {
		// The node only names strokes that have since changed version.
		t.selected = nil
	}
	t.overlay.Update(rect)
	return rect
}
