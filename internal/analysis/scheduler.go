package analysis

import (
	"context"
	"log/slog"
	"time"

	"InkBoard/internal/event"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// DefaultInterval is the quiet period after the last mutation before a pass
// runs.
const DefaultInterval = 400 * time.Millisecond

// Scheduler turns the mutations of a store into debounced recognition passes.
// It is not safe for concurrent use; engine callbacks and timers must be
// delivered on the store's goroutine.
type Scheduler struct {
	store    *state.Store
	engine   Engine
	clock    Clock
	interval time.Duration
	log      *slog.Logger

	timer     Timer
	seq       uint64 // invalidates timers that fire after being replaced
	pending   bool
	analyzing bool
	passes    int
	root      *Node
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	subs   event.Group
	events event.Bus[Result]
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the debounce interval. Non-positive values keep the
// default.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// NewScheduler subscribes to store and mirrors every mutation into engine.
func NewScheduler(store *state.Store, engine Engine, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		engine:   engine,
		clock:    SystemClock{},
		interval: DefaultInterval,
		log:      logging.For("analysis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.subs.Add(store.Events().Subscribe(s.onStoreEvent))
	return s
}

// Events publishes every StatusUpdated result after it becomes current.
func (s *Scheduler) Events() *event.Bus[Result] {
	return &s.events
}

// Root returns the last completed recognition tree, or nil.
func (s *Scheduler) Root() *Node { return s.root }

// Pending reports mutations not yet covered by a completed pass.
func (s *Scheduler) Pending() bool { return s.pending }

// Analyzing reports an engine call in flight.
func (s *Scheduler) Analyzing() bool { return s.analyzing }

// Passes returns the number of passes started.
func (s *Scheduler) Passes() int { return s.passes }

// FindNode returns the first word, else bullet, else drawing of the last
// result whose bounds contain p.
func (s *Scheduler) FindNode(p geom.Point) *Node {
	if s.root == nil {
		return nil
	}
	for _, kind := range []Kind{KindInkWord, KindInkBullet, KindInkDrawing} {
		for _, n := range s.root.Find(kind) {
			if n.Bounds.Contains(p) {
				return n
			}
		}
	}
	return nil
}

// Close stops the timer, detaches from the store and cancels an in-flight
// pass. Its result is dropped.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.stop()
	s.subs.Close()
	s.cancel()
}

func (s *Scheduler) onStoreEvent(ev state.Event) {
	switch e := ev.(type) {
	case state.AddStroke:
		s.engine.AddData(e.New)
		s.touch()
	case state.RemoveStroke:
		s.engine.RemoveData(e.Removed.ID)
		s.touch()
	case state.StrokesCollected:
		s.engine.AddData(e.Strokes...)
		s.touch()
	case state.StrokesErased:
		s.engine.RemoveData(state.IDs(e.Strokes)...)
		s.touch()
	case state.CutStrokes:
		s.engine.RemoveData(state.IDs(e.Strokes)...)
		s.touch()
	case state.PasteStrokes:
		s.engine.AddData(e.Strokes...)
		s.touch()
	case state.MoveStrokes:
		for i, moved := range e.Strokes {
			s.engine.ReplaceData(e.Previous[i], moved)
		}
		s.touch()
	case state.ClearStrokes:
		s.stop()
		s.pending = false
		s.root = nil
		s.engine.ClearAll()
	case state.StrokeStarted:
		s.stop()
	case state.StrokeCancelled:
		if s.pending && s.timer == nil {
			s.restart()
		}
	}
}

// touch marks the batch pending and restarts the debounce timer.
func (s *Scheduler) touch() {
	s.pending = true
	s.restart()
}

func (s *Scheduler) restart() {
	s.stop()
	seq := s.seq
	s.timer = s.clock.AfterFunc(s.interval, func() {
		if seq == s.seq && !s.closed {
			s.timer = nil
			s.fire()
		}
	})
}

func (s *Scheduler) stop() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire() {
	if !s.pending {
		return
	}
	if s.analyzing {
		// The running pass re-arms on completion.
		s.log.Debug("analysis deferred, engine busy")
		return
	}
	s.pending = false
	s.analyzing = true
	s.passes++
	s.log.Debug("analysis started", "pass", s.passes)
	s.engine.Analyze(s.ctx, s.complete)
}

func (s *Scheduler) complete(res Result, err error) {
	s.analyzing = false
	if s.closed {
		return
	}
	if err != nil {
		// Retried with the next mutation.
		s.pending = true
		s.log.Warn("analysis failed", "error", err)
		return
	}
	s.log.Debug("analysis finished", "status", res.Status, "pending", s.pending)
	if res.Status == StatusUpdated && res.Root != nil {
		s.root = res.Root
		s.events.Publish(res)
	}
	if s.pending {
		s.restart()
	}
}
