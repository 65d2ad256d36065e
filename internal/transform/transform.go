// Package transform turns recognized ink into typeset text and shapes.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// ErrUnknownDrawingKind is returned when a recognizer reports a drawing kind
// the pipeline cannot account for. Nothing is changed when it is returned.
var ErrUnknownDrawingKind = errors.New("transform: unknown drawing kind")

// Result is what one typeset pass consumed and produced.
type Result struct {
	Strokes  []state.Stroke // removed from the store, as they were before removal
	Elements []render.Element
	Surface  render.Surface
}

// Empty reports a pass that changed nothing.
func (r Result) Empty() bool {
	return len(r.Strokes) == 0 && len(r.Elements) == 0
}

// Pipeline runs typeset passes with an engine of its own, separate from the
// one the scheduler keeps in sync with the store.
type Pipeline struct {
	store   *state.Store
	engine  analysis.Engine
	surface render.Surface
	style   render.Style
	running bool
	log     *slog.Logger
}

func New(store *state.Store, engine analysis.Engine, surface render.Surface, style render.Style) *Pipeline {
	return &Pipeline{
		store:   store,
		engine:  engine,
		surface: surface,
		style:   style,
		log:     logging.For("transform"),
	}
}

// SetStyle changes the style of elements produced by later passes.
func (p *Pipeline) SetStyle(style render.Style) {
	p.style = style
}

// Running reports a pass in flight.
func (p *Pipeline) Running() bool {
	return p.running
}

// Transform typesets the selected strokes, or every stroke when nothing is
// selected. done receives an empty Result when there is nothing to do or the
// recognizer found nothing new. A second call while a pass is in flight fails
// with analysis.ErrBusy.
func (p *Pipeline) Transform(ctx context.Context, done func(Result, error)) {
	if p.running {
		done(Result{Surface: p.surface}, analysis.ErrBusy)
		return
	}
	working := p.store.Selected()
	if len(working) == 0 {
		working = p.store.Strokes()
	}
	if len(working) == 0 {
		done(Result{Surface: p.surface}, nil)
		return
	}

	p.running = true
	p.engine.ClearAll()
	p.engine.AddData(working...)
	p.log.Debug("typeset started", "strokes", len(working))
	p.engine.Analyze(ctx, func(res analysis.Result, err error) {
		p.running = false
		if err != nil {
			done(Result{Surface: p.surface}, fmt.Errorf("typeset: %w", err))
			return
		}
		out, err := p.apply(res)
		if err == nil {
			p.log.Debug("typeset finished", "removed", len(out.Strokes), "elements", len(out.Elements))
		}
		done(out, err)
	})
}

func (p *Pipeline) apply(res analysis.Result) (Result, error) {
	out := Result{Surface: p.surface}
	if res.Status != analysis.StatusUpdated || res.Root == nil {
		return out, nil
	}
	drawings := res.Root.Find(analysis.KindInkDrawing)
	for _, n := range drawings {
		if !n.DrawingKind.Known() {
			return out, fmt.Errorf("%w: %v", ErrUnknownDrawingKind, n.DrawingKind)
		}
	}

	for _, n := range res.Root.Find(analysis.KindInkWord) {
		out.add(p.surface, render.NewText(n.Text, n.Bounds, p.style))
		out.Strokes = append(out.Strokes, p.remove(n.StrokeIDs)...)
		p.engine.RemoveData(n.StrokeIDs...)
	}
	for _, n := range drawings {
		switch {
		case n.DrawingKind == analysis.DrawingKindDrawing:
		case n.DrawingKind.IsEllipse():
			left, top, right, bottom := extremes(n)
			out.add(p.surface, render.NewEllipse(n.Center, left, top, right, bottom, p.style))
		case n.DrawingKind.IsPolygon():
			out.add(p.surface, render.NewPolygon(n.Points, p.style))
			out.Strokes = append(out.Strokes, p.remove(n.StrokeIDs)...)
		}
		p.engine.RemoveData(n.StrokeIDs...)
	}
	return out, nil
}

// remove deletes the strokes with the given ids and returns them as they
// were. Ids no longer in the store are skipped.
func (p *Pipeline) remove(ids []state.StrokeID) []state.Stroke {
	var removed []state.Stroke
	for _, id := range ids {
		s, ok := p.store.Get(id)
		if !ok {
			continue
		}
		if p.store.RemoveID(id) {
			removed = append(removed, s)
		}
	}
	return removed
}

func (r *Result) add(surface render.Surface, e render.Element) {
	surface.Add(e)
	r.Elements = append(r.Elements, e)
}

// extremes returns the left, top, right and bottom marks of an ellipse node,
// falling back to the midpoints of its bounds.
func extremes(n *analysis.Node) (left, top, right, bottom geom.Point) {
	if len(n.Points) >= 4 {
		return n.Points[0], n.Points[1], n.Points[2], n.Points[3]
	}
	c := n.Bounds.Center()
	return geom.Pt(n.Bounds.Min.X, c.Y), geom.Pt(c.X, n.Bounds.Min.Y),
		geom.Pt(n.Bounds.Max.X, c.Y), geom.Pt(c.X, n.Bounds.Max.Y)
}
