// Package history keeps the undo/redo stacks of the canvas.
package history

import (
	"log/slog"

	"InkBoard/internal/event"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// EventKind tags an Event.
type EventKind int

const (
	AddOperation EventKind = iota
	ExecuteUndo
	ExecuteRedo
)

// Event is published after the stacks change.
type Event struct {
	Kind EventKind
	Op   *Op
}

// Stack records user actions published by the store and replays them.
// It is not safe for concurrent use.
type Stack struct {
	store     *state.Store
	undo      []*Op
	redo      []*Op
	replaying bool
	subs      event.Group
	events    event.Bus[Event]
	log       *slog.Logger
}

// New creates a stack listening to store.
func New(store *state.Store) *Stack {
	h := &Stack{store: store, log: logging.For("history")}
	h.subs.Add(store.Events().Subscribe(h.onStoreEvent))
	return h
}

// Events is the bus AddOperation, ExecuteUndo and ExecuteRedo are published on.
func (h *Stack) Events() *event.Bus[Event] {
	return &h.events
}

func (h *Stack) CanUndo() bool { return len(h.undo) > 0 }
func (h *Stack) CanRedo() bool { return len(h.redo) > 0 }
func (h *Stack) UndoLen() int  { return len(h.undo) }
func (h *Stack) RedoLen() int  { return len(h.redo) }

// Peek returns the op Undo would revert, or nil.
func (h *Stack) Peek() *Op {
	if len(h.undo) == 0 {
		return nil
	}
	return h.undo[len(h.undo)-1]
}

// Add pushes op and discards everything that could have been redone.
func (h *Stack) Add(op *Op) {
	h.redo = h.redo[:0]
	h.undo = append(h.undo, op)
	h.log.Debug("operation added", "kind", op.Kind, "strokes", len(op.Strokes), "undo", len(h.undo))
	h.events.Publish(Event{Kind: AddOperation, Op: op})
}

// Undo reverts the most recent op. It reports false when there is nothing
// to undo.
func (h *Stack) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	op := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, op)
	h.replay(op.revert)
	h.log.Debug("undo", "kind", op.Kind)
	h.events.Publish(Event{Kind: ExecuteUndo, Op: op})
	return true
}

// Redo re-applies the most recently undone op. It reports false when there
// is nothing to redo.
func (h *Stack) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	op := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, op)
	h.replay(op.apply)
	h.log.Debug("redo", "kind", op.Kind)
	h.events.Publish(Event{Kind: ExecuteRedo, Op: op})
	return true
}

// Close detaches from the store and drops both stacks.
func (h *Stack) Close() {
	h.subs.Close()
	h.undo = nil
	h.redo = nil
}

// replay runs fn with move recording suspended. The op being replayed is
// already on its destination stack so rebind reaches it.
func (h *Stack) replay(fn func(*state.Store)) {
	h.replaying = true
	defer func() { h.replaying = false }()
	fn(h.store)
}

func (h *Stack) onStoreEvent(ev state.Event) {
	switch e := ev.(type) {
	case state.AddStroke:
		h.rebind(e)
	case state.StrokesCollected:
		h.Add(AddOp(e.Strokes))
	case state.StrokesErased:
		h.Add(RemoveOp(e.Strokes))
	case state.CutStrokes:
		h.Add(RemoveOp(e.Strokes))
	case state.PasteStrokes:
		h.Add(AddOp(e.Strokes))
	case state.MoveStrokes:
		if h.replaying {
			return
		}
		h.Add(MoveOp(e.Strokes, e.From, e.To))
	}
}

// rebind is the one place identity changes are reconciled. The store keeps a
// re-added stroke in its old slot, so ops find it through Current; only when
// the slot was taken does the clone land elsewhere, and the ops holding the
// old handle are pointed at the new one.
func (h *Stack) rebind(e state.AddStroke) {
	if e.Old.Handle.IsZero() || e.Old.Handle.Slot == e.New.Handle.Slot {
		return
	}
	for _, stack := range [][]*Op{h.undo, h.redo} {
		for _, op := range stack {
			op.rebind(e.Old.Handle, e.New.Handle)
		}
	}
}
