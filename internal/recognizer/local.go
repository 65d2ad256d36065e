package recognizer

import (
	"context"
	"slices"

	"InkBoard/internal/analysis"
	"InkBoard/internal/state"
)

// strokeSet mirrors the strokes an engine was given, in insertion order, and
// counts changes so a pass over unchanged data can be skipped.
type strokeSet struct {
	byID    map[state.StrokeID]state.Stroke
	order   []state.StrokeID
	version uint64
}

func newStrokeSet() strokeSet {
	return strokeSet{byID: make(map[state.StrokeID]state.Stroke)}
}

func (s *strokeSet) add(strokes ...state.Stroke) {
	for _, st := range strokes {
		if _, ok := s.byID[st.ID]; !ok {
			s.order = append(s.order, st.ID)
		}
		s.byID[st.ID] = st.Clone()
	}
	s.version++
}

func (s *strokeSet) remove(ids ...state.StrokeID) {
	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			continue
		}
		delete(s.byID, id)
		s.order = slices.DeleteFunc(s.order, func(x state.StrokeID) bool { return x == id })
	}
	s.version++
}

func (s *strokeSet) replace(old state.StrokeID, st state.Stroke) {
	i := slices.Index(s.order, old)
	delete(s.byID, old)
	if i < 0 {
		s.add(st)
		return
	}
	s.order[i] = st.ID
	s.byID[st.ID] = st.Clone()
	s.version++
}

func (s *strokeSet) clear() {
	clear(s.byID)
	s.order = s.order[:0]
	s.version++
}

func (s *strokeSet) snapshot() []state.Stroke {
	out := make([]state.Stroke, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Local runs Recognize in process. With a Dispatcher the pass runs on its
// own goroutine and done is posted back through it; without one the pass
// runs inline.
type Local struct {
	opts     Options
	dispatch analysis.Dispatcher
	data     strokeSet
	analyzed uint64
	fresh    bool
	busy     bool
}

func NewLocal(opts Options, dispatch analysis.Dispatcher) *Local {
	return &Local{opts: opts, dispatch: dispatch, data: newStrokeSet()}
}

func (l *Local) AddData(strokes ...state.Stroke)  { l.data.add(strokes...) }
func (l *Local) RemoveData(ids ...state.StrokeID) { l.data.remove(ids...) }
func (l *Local) ClearAll()                        { l.data.clear() }

func (l *Local) ReplaceData(old state.StrokeID, s state.Stroke) {
	l.data.replace(old, s)
}

// Analyze reports StatusUnchanged when no data changed since the last
// successful pass.
func (l *Local) Analyze(ctx context.Context, done func(analysis.Result, error)) {
	if l.busy {
		done(analysis.Result{}, analysis.ErrBusy)
		return
	}
	if l.fresh && l.data.version == l.analyzed {
		done(analysis.Result{Status: analysis.StatusUnchanged}, nil)
		return
	}
	version := l.data.version
	strokes := l.data.snapshot()
	finish := func(root *analysis.Node) {
		l.busy = false
		if err := ctx.Err(); err != nil {
			done(analysis.Result{}, err)
			return
		}
		l.analyzed, l.fresh = version, true
		done(analysis.Result{Status: analysis.StatusUpdated, Root: root}, nil)
	}

	if l.dispatch == nil {
		finish(Recognize(strokes, l.opts))
		return
	}
	l.busy = true
	go func() {
		root := Recognize(strokes, l.opts)
		l.dispatch(func() { finish(root) })
	}()
}
