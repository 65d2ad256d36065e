// Package analysistest provides a scripted recognizer and a manual clock for
// tests of code built on package analysis.
package analysistest

import (
	"context"
	"sort"
	"time"

	"InkBoard/internal/analysis"
	"InkBoard/internal/state"
)

// Engine is a recognizer whose results are queued by the test. With Manual
// set, Analyze holds done until Complete is called.
type Engine struct {
	Manual bool
	// Err, when set, fails every pass.
	Err error

	strokes  map[state.StrokeID]state.Stroke
	results  []analysis.Result
	waiting  []func()
	Analyzes int
	Clears   int
}

func NewEngine() *Engine {
	return &Engine{strokes: make(map[state.StrokeID]state.Stroke)}
}

// Queue appends results returned by subsequent passes. An empty queue yields
// StatusUnchanged.
func (e *Engine) Queue(results ...analysis.Result) {
	e.results = append(e.results, results...)
}

// Updated queues a StatusUpdated pass with root, linking its parents.
func (e *Engine) Updated(root *analysis.Node) {
	root.Link()
	e.Queue(analysis.Result{Status: analysis.StatusUpdated, Root: root})
}

func (e *Engine) AddData(strokes ...state.Stroke) {
	for _, s := range strokes {
		e.strokes[s.ID] = s
	}
}

func (e *Engine) RemoveData(ids ...state.StrokeID) {
	for _, id := range ids {
		delete(e.strokes, id)
	}
}

func (e *Engine) ReplaceData(old state.StrokeID, s state.Stroke) {
	delete(e.strokes, old)
	e.strokes[s.ID] = s
}

func (e *Engine) ClearAll() {
	e.Clears++
	clear(e.strokes)
}

func (e *Engine) Analyze(ctx context.Context, done func(analysis.Result, error)) {
	e.Analyzes++
	finish := func() {
		if e.Err != nil {
			done(analysis.Result{}, e.Err)
			return
		}
		if err := ctx.Err(); err != nil {
			done(analysis.Result{}, err)
			return
		}
		res := analysis.Result{Status: analysis.StatusUnchanged}
		if len(e.results) > 0 {
			res, e.results = e.results[0], e.results[1:]
		}
		done(res, nil)
	}
	if e.Manual {
		e.waiting = append(e.waiting, finish)
		return
	}
	finish()
}

// InFlight returns the number of passes waiting for Complete.
func (e *Engine) InFlight() int { return len(e.waiting) }

// Complete finishes the oldest waiting pass. It reports false when none is
// waiting.
func (e *Engine) Complete() bool {
	if len(e.waiting) == 0 {
		return false
	}
	finish := e.waiting[0]
	e.waiting = e.waiting[1:]
	finish()
	return true
}

// Has reports whether the engine holds data for id.
func (e *Engine) Has(id state.StrokeID) bool {
	_, ok := e.strokes[id]
	return ok
}

// IDs returns the ids the engine holds, ascending.
func (e *Engine) IDs() []state.StrokeID {
	ids := make([]state.StrokeID, 0, len(e.strokes))
	for id := range e.strokes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clock is an analysis.Clock that only moves when Advance is called.
type Clock struct {
	now    time.Duration
	timers []*timer
}

type timer struct {
	at   time.Duration
	f    func()
	done bool
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (c *Clock) AfterFunc(d time.Duration, f func()) analysis.Timer {
	t := &timer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration { return c.now }

// Advance moves the clock forward by d, running due callbacks in order.
func (c *Clock) Advance(d time.Duration) {
	end := c.now + d
	for {
		next := c.next(end)
		if next == nil {
			break
		}
		c.now = next.at
		next.done = true
		next.f()
	}
	c.now = end
}

// Armed returns the number of timers that have neither fired nor stopped.
func (c *Clock) Armed() int {
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (c *Clock) next(end time.Duration) *timer {
	var best *timer
	live := c.timers[:0]
	for _, t := range c.timers {
		if t.done {
			continue
		}
		live = append(live, t)
		if t.at <= end && (best == nil || t.at < best.at) {
			best = t
		}
	}
	c.timers = live
	return best
}
