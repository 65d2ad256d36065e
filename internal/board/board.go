// Package board assembles the ink core into one canvas and exposes the
// commands of the toolbar.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"InkBoard/internal/analysis"
	"InkBoard/internal/event"
	"InkBoard/internal/geom"
	"InkBoard/internal/history"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/selection"
	"InkBoard/internal/state"
	"InkBoard/internal/transform"
)

// Options configures a Board. Engine and TypesetEngine are required and must
// be distinct instances.
type Options struct {
	Clipboard     state.Clipboard
	Engine        analysis.Engine // kept in sync by the scheduler
	TypesetEngine analysis.Engine // driven by typeset passes
	Surface       render.Surface  // defaults to an in-memory layer
	Style         render.Style
	Interval      time.Duration
	Clock         analysis.Clock
	Lasso         bool
	Devices       *Devices
}

// Board is one canvas: its strokes, history, recognition, selection and
// typeset output. All methods must be called from the UI goroutine.
type Board struct {
	Store     *state.Store
	History   *history.Stack
	Scheduler *analysis.Scheduler
	Selection *selection.Manager
	Pipeline  *transform.Pipeline
	Surface   render.Surface
	Devices   *Devices

	changes event.Bus[struct{}]
	subs    event.Group
	log     *slog.Logger
}

// New builds a board from opts.
func New(opts Options) *Board {
	if opts.Surface == nil {
		opts.Surface = render.NewLayer()
	}
	if opts.Devices == nil {
		opts.Devices = NewDevices(true, true, true)
	}
	if opts.Style == (render.Style{}) {
		opts.Style = render.DefaultStyle()
	}
	schedOpts := []analysis.Option{analysis.WithInterval(opts.Interval)}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, analysis.WithClock(opts.Clock))
	}

	b := &Board{
		Store:   state.NewStore(opts.Clipboard),
		Surface: opts.Surface,
		Devices: opts.Devices,
		log:     logging.For("board"),
	}
	b.History = history.New(b.Store)
	b.Scheduler = analysis.NewScheduler(b.Store, opts.Engine, schedOpts...)
	b.Selection = selection.NewManager(b.Store, b.History, b.Scheduler)
	b.Selection.SetLassoEnabled(opts.Lasso)
	b.Pipeline = transform.New(b.Store, opts.TypesetEngine, opts.Surface, opts.Style)

	notify := func() { b.changes.Publish(struct{}{}) }
	b.subs.Add(b.Store.Events().Subscribe(func(state.Event) { notify() }))
	b.subs.Add(b.History.Events().Subscribe(func(history.Event) { notify() }))
	b.subs.Add(b.Scheduler.Events().Subscribe(func(analysis.Result) { notify() }))
	return b
}

// Changes fires after anything that may change command enablement or what
// is drawn.
func (b *Board) Changes() *event.Bus[struct{}] {
	return &b.changes
}

func (b *Board) CanUndo() bool { return b.History.CanUndo() }
func (b *Board) CanRedo() bool { return b.History.CanRedo() }

// CanTypeset reports whether there is ink to typeset and no pass running.
func (b *Board) CanTypeset() bool {
	return b.Store.Len() > 0 && !b.Pipeline.Running()
}

func (b *Board) Undo() bool { return b.History.Undo() }
func (b *Board) Redo() bool { return b.History.Redo() }

// Typeset converts the selection, or all ink, into text and shapes. One
// history entry is pushed when the pass produced anything.
func (b *Board) Typeset(ctx context.Context, done func(transform.Result, error)) {
	b.Pipeline.Transform(ctx, func(res transform.Result, err error) {
		if err != nil {
			b.log.Warn("typeset failed", "error", err)
		} else if !res.Empty() {
			b.History.Add(history.TransformOp(res.Strokes, res.Surface, res.Elements))
		}
		if done != nil {
			done(res, err)
		}
	})
}

// ClearAll removes every stroke and typeset element as one undoable step.
// It reports false when the canvas was already empty.
func (b *Board) ClearAll() bool {
	strokes := b.Store.Strokes()
	elements := b.Surface.Elements()
	if len(strokes) == 0 && len(elements) == 0 {
		return false
	}
	b.Selection.ClearSelection()
	b.Store.Clear()
	b.Surface.Clear()
	b.History.Add(history.ClearAllOp(strokes, b.Surface, elements))
	b.log.Debug("canvas cleared", "strokes", len(strokes), "elements", len(elements))
	return true
}

func (b *Board) Copy() (geom.Rect, error) {
	rect, err := b.Store.Copy()
	if err != nil {
		return rect, fmt.Errorf("copy: %w", err)
	}
	return rect, nil
}

func (b *Board) Cut() (geom.Rect, error) {
	rect, err := b.Store.Cut()
	if err != nil {
		return rect, fmt.Errorf("cut: %w", err)
	}
	return rect, nil
}

func (b *Board) Paste(at geom.Point) geom.Rect {
	return b.Store.Paste(at)
}

// Close releases every subscription and stops recognition.
func (b *Board) Close() {
	b.subs.Close()
	b.Selection.Close()
	b.Scheduler.Close()
	b.History.Close()
}
