package selection

import (
	"log/slog"

	"InkBoard/internal/event"
	"InkBoard/internal/history"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// Manager owns the overlay and the selection strategies and keeps them in
// step with the store and the history.
type Manager struct {
	Overlay *Overlay
	Lasso   *Lasso
	Tap     *NodeTap

	store *state.Store
	subs  event.Group
	log   *slog.Logger
}

// NewManager wires the strategies to store and hist. finder resolves taps;
// it is usually the analysis scheduler.
func NewManager(store *state.Store, hist *history.Stack, finder NodeFinder) *Manager {
	overlay := NewOverlay(store)
	m := &Manager{
		Overlay: overlay,
		Lasso:   NewLasso(store, overlay),
		Tap:     NewNodeTap(store, overlay, finder),
		store:   store,
		log:     logging.For("selection"),
	}
	m.subs.Add(store.Events().Subscribe(m.onStoreEvent))
	if hist != nil {
		m.subs.Add(hist.Events().Subscribe(m.onHistoryEvent))
	}
	return m
}

// SetLassoEnabled toggles the lasso.
func (m *Manager) SetLassoEnabled(enabled bool) {
	m.Lasso.SetEnabled(enabled)
}

// ClearSelection resets every strategy and unselects all strokes.
func (m *Manager) ClearSelection() {
	m.Lasso.Abort()
	m.Tap.Forget()
	m.Overlay.Clear()
	m.store.ClearSelection()
}

// Close releases the subscriptions.
func (m *Manager) Close() {
	m.subs.Close()
}

func (m *Manager) onStoreEvent(ev state.Event) {
	switch e := ev.(type) {
	case state.SelectStrokes:
		if !m.Overlay.Dragging() {
			m.Overlay.Update(e.Rect)
		}
	case state.StrokeStarted:
		if m.Lasso.State() == LassoDrawing || m.Overlay.Visible() {
			m.log.Debug("selection dropped, stroke started")
			m.ClearSelection()
		}
	case state.StrokesErased:
		m.Lasso.Abort()
		if e.AnySelected() {
			m.log.Debug("selection dropped, selected stroke erased")
			m.ClearSelection()
		}
	case state.RemoveStroke, state.CutStrokes, state.ClearStrokes:
		m.Tap.Forget()
		m.Overlay.Update(m.store.SelectionRect())
	}
}

func (m *Manager) onHistoryEvent(ev history.Event) {
	if ev.Kind == history.ExecuteUndo || ev.Kind == history.ExecuteRedo {
		m.ClearSelection()
	}
}
