package state

import "InkBoard/internal/geom"

// Event is published on Store.Events after a mutation is committed.
type Event interface {
	storeEvent()
}

// AddStroke reports that Old was stored as the clone New.
type AddStroke struct {
	New Stroke
	Old Stroke
}

// RemoveStroke reports a stroke removed through Remove, RemoveID or RemoveMany.
type RemoveStroke struct {
	Removed Stroke
}

// MoveStrokes reports translated strokes. Strokes are the new versions and
// Previous holds the ids they replaced, index for index.
type MoveStrokes struct {
	Strokes  []Stroke
	Previous []StrokeID
	From     geom.Point
	To       geom.Point
}

// SelectStrokes reports a new selection. Rect is empty when nothing is selected.
type SelectStrokes struct {
	Rect  geom.Rect
	Count int
}

type CopyStrokes struct {
	Strokes []Stroke
}

type CutStrokes struct {
	Strokes []Stroke
}

type PasteStrokes struct {
	Strokes []Stroke
}

type ClearStrokes struct {
	Removed []Stroke
}

// StrokeStarted is raised by the capture surface on pointer-down, before the
// stroke is committed.
type StrokeStarted struct{}

// StrokeCancelled is raised by the capture surface when a gesture that raised
// StrokeStarted ends without committing a stroke.
type StrokeCancelled struct{}

// StrokesCollected carries strokes committed by the capture surface, as stored.
type StrokesCollected struct {
	Strokes []Stroke
}

// StrokesErased carries the strokes erased by the capture surface as they were
// just before removal, Selected flags included.
type StrokesErased struct {
	Strokes []Stroke
}

// AnySelected reports whether the erase touched the selection.
func (e StrokesErased) AnySelected() bool {
	for _, s := range e.Strokes {
		if s.Selected {
			return true
		}
	}
	return false
}

func (AddStroke) storeEvent()        {}
func (RemoveStroke) storeEvent()     {}
func (MoveStrokes) storeEvent()      {}
func (SelectStrokes) storeEvent()    {}
func (CopyStrokes) storeEvent()      {}
func (CutStrokes) storeEvent()       {}
func (PasteStrokes) storeEvent()     {}
func (ClearStrokes) storeEvent()     {}
func (StrokeStarted) storeEvent()    {}
func (StrokeCancelled) storeEvent()  {}
func (StrokesCollected) storeEvent() {}
func (StrokesErased) storeEvent()    {}
