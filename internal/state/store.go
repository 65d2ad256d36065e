// Package state holds the canonical stroke store of the canvas.
package state

import (
	"fmt"
	"log/slog"

	"InkBoard/internal/event"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
)

// Node is the part of a recognized node the store needs in order to select
// the strokes it covers.
type Node interface {
	// IsListParagraph reports a paragraph whose first child is a list item.
	// Such nodes can reference a list marker more than once.
	IsListParagraph() bool
	CoveredStrokes() []StrokeID
}

type slot struct {
	gen    uint32
	stroke *Stroke
}

// Store is the single source of truth for the strokes on the canvas. Strokes
// live in an arena: a slot keeps its index across the versions of a stroke
// and a generation counts them. A Store is not safe for concurrent use; all
// calls belong on the UI goroutine.
type Store struct {
	slots  []slot
	order  []int // live slot indexes in z-order
	byID   map[StrokeID]int
	clock  Clock
	clip   Clipboard
	events event.Bus[Event]
	log    *slog.Logger
}

// NewStore creates an empty store. clip may be nil, in which case copy and
// paste are no-ops.
func NewStore(clip Clipboard) *Store {
	return &Store{
		byID: make(map[StrokeID]int),
		clip: clip,
		log:  logging.For("state"),
	}
}

// Events is the bus every mutation is published on.
func (st *Store) Events() *event.Bus[Event] {
	return &st.events
}

// Len returns the number of strokes.
func (st *Store) Len() int {
	return len(st.order)
}

// Strokes returns copies of all strokes in z-order.
func (st *Store) Strokes() []Stroke {
	out := make([]Stroke, 0, len(st.order))
	for _, i := range st.order {
		out = append(out, st.slots[i].stroke.Clone())
	}
	return out
}

// Selected returns copies of the selected strokes in z-order.
func (st *Store) Selected() []Stroke {
	var out []Stroke
	for _, i := range st.order {
		if s := st.slots[i].stroke; s.Selected {
			out = append(out, s.Clone())
		}
	}
	return out
}

// SelectionRect is the union of the bounds of the selected strokes.
func (st *Store) SelectionRect() geom.Rect {
	r := geom.EmptyRect
	for _, i := range st.order {
		if s := st.slots[i].stroke; s.Selected {
			r = r.Union(s.Bounds())
		}
	}
	return r
}

// Get returns the stroke with the given version id.
func (st *Store) Get(id StrokeID) (Stroke, bool) {
	i, ok := st.byID[id]
	if !ok {
		return Stroke{}, false
	}
	return st.slots[i].stroke.Clone(), true
}

// Current returns the live version of the stroke addressed by h, whatever its
// generation. This is how holders of an older version find the current one.
func (st *Store) Current(h Handle) (Stroke, bool) {
	i := h.Slot - 1
	if h.IsZero() || i >= len(st.slots) || st.slots[i].stroke == nil {
		return Stroke{}, false
	}
	return st.slots[i].stroke.Clone(), true
}

// Stale reports whether a newer version of the stroke addressed by h exists.
func (st *Store) Stale(h Handle) bool {
	i := h.Slot - 1
	return !h.IsZero() && i < len(st.slots) && st.slots[i].gen != h.Gen
}

// Add stores a clone of each stroke and returns the clones. The caller's
// values are never stored. One AddStroke event is published per stroke.
func (st *Store) Add(strokes ...Stroke) []Stroke {
	out := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		stored := st.insert(s)
		out = append(out, stored)
		st.events.Publish(AddStroke{New: stored, Old: s})
	}
	return out
}

// Remove deletes the given stroke versions. Strokes that are not present are
// skipped.
func (st *Store) Remove(strokes ...Stroke) {
	for _, s := range strokes {
		st.RemoveID(s.ID)
	}
}

// RemoveID clears the selection and deletes the stroke with id. It reports
// false when no such stroke exists.
func (st *Store) RemoveID(id StrokeID) bool {
	i, ok := st.byID[id]
	if !ok {
		return false
	}
	st.clearFlags()
	removed := st.delete(i)
	st.log.Debug("stroke removed", "id", removed.ID)
	st.events.Publish(RemoveStroke{Removed: removed})
	return true
}

// RemoveMany removes each id and reports whether any requested id is still
// present afterwards.
func (st *Store) RemoveMany(ids []StrokeID) bool {
	for _, id := range ids {
		st.RemoveID(id)
	}
	for _, id := range ids {
		if _, ok := st.byID[id]; ok {
			return true
		}
	}
	return false
}

// Move translates every selected stroke by to-from. Each moved stroke becomes
// a new version. Nothing happens for a zero displacement or an empty selection.
func (st *Store) Move(from, to geom.Point) {
	t := geom.TranslationBetween(from, to)
	if t.IsIdentity() {
		return
	}

	var moved []Stroke
	var previous []StrokeID
	for _, i := range st.order {
		s := st.slots[i].stroke
		if !s.Selected {
			continue
		}
		next := s.Clone()
		next.Transform = s.Transform.Then(t)
		previous = append(previous, s.ID)
		moved = append(moved, st.replace(i, next))
	}
	if len(moved) == 0 {
		return
	}
	st.log.Debug("strokes moved", "count", len(moved), "dx", t.DX, "dy", t.DY)
	st.events.Publish(MoveStrokes{Strokes: moved, Previous: previous, From: from, To: to})
}

// ClearSelection unselects every stroke.
func (st *Store) ClearSelection() {
	st.clearFlags()
	st.events.Publish(SelectStrokes{Rect: geom.EmptyRect})
}

// Select makes exactly the given strokes selected and returns their union rect.
// Strokes are matched by version id; unknown ones are ignored.
func (st *Store) Select(strokes ...Stroke) geom.Rect {
	return st.SelectIDs(IDs(strokes)...)
}

// SelectIDs is Select by version id.
func (st *Store) SelectIDs(ids ...StrokeID) geom.Rect {
	st.clearFlags()
	count := 0
	for _, id := range ids {
		if i, ok := st.byID[id]; ok && !st.slots[i].stroke.Selected {
			st.slots[i].stroke.Selected = true
			count++
		}
	}
	return st.publishSelection(count)
}

// SelectNode selects the strokes covered by a recognized node.
func (st *Store) SelectNode(n Node) geom.Rect {
	ids := n.CoveredStrokes()
	if n.IsListParagraph() {
		ids = dedupe(ids)
	}
	return st.SelectIDs(ids...)
}

// SelectPolyline selects the strokes lying entirely inside the closed polygon
// described by points.
func (st *Store) SelectPolyline(points []geom.Point) geom.Rect {
	st.clearFlags()
	count := 0
	for _, i := range st.order {
		s := st.slots[i].stroke
		if enclosed(points, s.Positions()) {
			s.Selected = true
			count++
		}
	}
	return st.publishSelection(count)
}

// Copy writes the selected strokes to the clipboard and returns their rect.
// An empty selection or a missing clipboard is a no-op returning EmptyRect.
func (st *Store) Copy() (geom.Rect, error) {
	selected := st.Selected()
	if len(selected) == 0 || st.clip == nil {
		return geom.EmptyRect, nil
	}
	text, err := EncodePayload(selected)
	if err != nil {
		return geom.EmptyRect, err
	}
	if err := st.clip.WriteAll(text); err != nil {
		return geom.EmptyRect, fmt.Errorf("write clipboard: %w", err)
	}
	st.events.Publish(CopyStrokes{Strokes: selected})
	return UnionBounds(selected), nil
}

// Cut copies the selection and removes it.
func (st *Store) Cut() (geom.Rect, error) {
	selected := st.Selected()
	rect, err := st.Copy()
	if err != nil || rect.IsEmpty() {
		return rect, err
	}
	st.clearFlags()
	removed := make([]Stroke, 0, len(selected))
	for _, s := range selected {
		removed = append(removed, st.delete(st.byID[s.ID]))
	}
	st.events.Publish(CutStrokes{Strokes: removed})
	return rect, nil
}

// Paste inserts the clipboard strokes so that their bounds start at at and
// returns the rect they cover. An absent or incompatible payload is a no-op
// returning EmptyRect.
func (st *Store) Paste(at geom.Point) geom.Rect {
	if st.clip == nil {
		return geom.EmptyRect
	}
	text, err := st.clip.ReadAll()
	if err != nil || text == "" {
		return geom.EmptyRect
	}
	strokes, err := DecodePayload(text)
	if err != nil {
		st.log.Debug("paste ignored", "error", err)
		return geom.EmptyRect
	}

	t := geom.TranslationBetween(UnionBounds(strokes).Min, at)
	pasted := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		s.Handle = Handle{}
		s.Transform = s.Transform.Then(t)
		pasted = append(pasted, st.insert(s))
	}
	st.events.Publish(PasteStrokes{Strokes: pasted})
	return UnionBounds(pasted)
}

// Clear removes every stroke.
func (st *Store) Clear() {
	removed := st.Strokes()
	for _, i := range st.order {
		delete(st.byID, st.slots[i].stroke.ID)
		st.slots[i].stroke = nil
	}
	st.order = st.order[:0]
	st.log.Debug("strokes cleared", "count", len(removed))
	st.events.Publish(ClearStrokes{Removed: removed})
}

// StrokeStarted is called by the capture surface on pointer-down.
func (st *Store) StrokeStarted() {
	st.events.Publish(StrokeStarted{})
}

// StrokeCancelled is called by the capture surface when the gesture begun by
// StrokeStarted commits no stroke.
func (st *Store) StrokeCancelled() {
	st.events.Publish(StrokeCancelled{})
}

// OnStrokesCollected stores strokes committed by the capture surface and
// returns them as stored.
func (st *Store) OnStrokesCollected(strokes ...Stroke) []Stroke {
	if len(strokes) == 0 {
		return nil
	}
	stored := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		stored = append(stored, st.insert(s))
	}
	st.log.Debug("strokes collected", "count", len(stored))
	st.events.Publish(StrokesCollected{Strokes: stored})
	return stored
}

// OnStrokesErased removes strokes erased on the capture surface. Erasing a
// selected stroke drops the whole selection.
func (st *Store) OnStrokesErased(strokes ...Stroke) {
	var erased []Stroke
	touchedSelection := false
	for _, s := range strokes {
		i, ok := st.byID[s.ID]
		if !ok {
			continue
		}
		removed := st.delete(i)
		touchedSelection = touchedSelection || removed.Selected
		erased = append(erased, removed)
	}
	if len(erased) == 0 {
		return
	}
	if touchedSelection {
		st.clearFlags()
	}
	st.log.Debug("strokes erased", "count", len(erased), "selection", touchedSelection)
	st.events.Publish(StrokesErased{Strokes: erased})
}

// Helper methods

func (st *Store) insert(s Stroke) Stroke {
	c := s.Clone()
	c.ID = st.clock.Next()
	c.Selected = false

	i := s.Handle.Slot - 1
	if s.Handle.IsZero() || i >= len(st.slots) || st.slots[i].stroke != nil {
		st.slots = append(st.slots, slot{})
		i = len(st.slots) - 1
	}
	st.slots[i].gen++
	c.Handle = Handle{Slot: i + 1, Gen: st.slots[i].gen}
	st.slots[i].stroke = &c
	st.byID[c.ID] = i
	st.order = append(st.order, i)
	return c.Clone()
}

func (st *Store) replace(i int, next Stroke) Stroke {
	old := st.slots[i].stroke
	delete(st.byID, old.ID)
	next.ID = st.clock.Next()
	st.slots[i].gen++
	next.Handle = Handle{Slot: i + 1, Gen: st.slots[i].gen}
	st.slots[i].stroke = &next
	st.byID[next.ID] = i
	return next.Clone()
}

func (st *Store) delete(i int) Stroke {
	s := st.slots[i].stroke
	delete(st.byID, s.ID)
	st.slots[i].stroke = nil
	for k, j := range st.order {
		if j == i {
			st.order = append(st.order[:k], st.order[k+1:]...)
			break
		}
	}
	return *s
}

func (st *Store) clearFlags() {
	for _, i := range st.order {
		st.slots[i].stroke.Selected = false
	}
}

func (st *Store) publishSelection(count int) geom.Rect {
	rect := st.SelectionRect()
	st.events.Publish(SelectStrokes{Rect: rect, Count: count})
	return rect
}

func enclosed(polygon, points []geom.Point) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points {
		if !geom.PolygonContains(polygon, p) {
			return false
		}
	}
	return true
}

func dedupe(ids []StrokeID) []StrokeID {
	seen := make(map[StrokeID]bool, len(ids))
	out := make([]StrokeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
