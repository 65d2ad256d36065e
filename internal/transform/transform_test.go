package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/analysis"
	"InkBoard/internal/analysis/analysistest"
	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

func line(x0, y0, x1, y1 float32) state.Stroke {
	return state.NewStroke([]geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y1)}, "black", 2, time.Unix(0, 0))
}

type fixture struct {
	store  *state.Store
	engine *analysistest.Engine
	layer  *render.Layer
	p      *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		store:  state.NewStore(nil),
		engine: analysistest.NewEngine(),
		layer:  render.NewLayer(),
	}
	f.p = New(f.store, f.engine, f.layer, render.DefaultStyle())
	return f
}

func (f *fixture) run(t *testing.T) (Result, error) {
	t.Helper()
	var (
		got    Result
		gotErr error
		called bool
	)
	f.p.Transform(t.Context(), func(r Result, err error) {
		got, gotErr, called = r, err, true
	})
	require.True(t, called, "engine completes synchronously")
	return got, gotErr
}

func TestTransform_EmptyCanvas(t *testing.T) {
	f := newFixture()

	res, err := f.run(t)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Zero(t, f.engine.Analyzes)
	assert.Empty(t, f.layer.Elements())
}

func TestTransform_Unchanged(t *testing.T) {
	f := newFixture()
	f.store.OnStrokesCollected(line(0, 0, 10, 10))

	res, err := f.run(t)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, f.store.Len())
}

func TestTransform_WordsAndShapes(t *testing.T) {
	f := newFixture()
	strokes := f.store.OnStrokesCollected(
		line(0, 0, 40, 20),       // word
		line(100, 100, 140, 140), // circle
		line(200, 0, 260, 60),    // square
		line(300, 0, 310, 50),    // freehand
	)
	root := analysis.NewRoot()
	word := root.AddChild(&analysis.Node{
		Kind: analysis.KindInkWord, Text: "hello",
		Bounds: strokes[0].Bounds(), StrokeIDs: []state.StrokeID{strokes[0].ID},
	})
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkDrawing, DrawingKind: analysis.DrawingKindCircle,
		Bounds: strokes[1].Bounds(), Center: geom.Pt(120, 120),
		Points:    []geom.Point{geom.Pt(100, 120), geom.Pt(120, 100), geom.Pt(140, 120), geom.Pt(120, 140)},
		StrokeIDs: []state.StrokeID{strokes[1].ID},
	})
	square := []geom.Point{geom.Pt(200, 0), geom.Pt(260, 0), geom.Pt(260, 60), geom.Pt(200, 60)}
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkDrawing, DrawingKind: analysis.DrawingKindSquare,
		Bounds: strokes[2].Bounds(), Points: square, StrokeIDs: []state.StrokeID{strokes[2].ID},
	})
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkDrawing, DrawingKind: analysis.DrawingKindDrawing,
		Bounds: strokes[3].Bounds(), StrokeIDs: []state.StrokeID{strokes[3].ID},
	})
	f.engine.Updated(root)

	res, err := f.run(t)
	require.NoError(t, err)
	require.Len(t, res.Elements, 3)
	assert.Same(t, f.layer, res.Surface)

	text := res.Elements[0].(*render.Text)
	assert.Equal(t, "hello", text.Text)
	assert.Equal(t, word.Bounds.Height(), text.FontSize)
	assert.Equal(t, word.Bounds.Min, text.Origin)

	ellipse := res.Elements[1].(*render.Ellipse)
	assert.Equal(t, geom.Pt(120, 120), ellipse.Center)
	assert.InDelta(t, 40, ellipse.Width, 1e-4)
	assert.InDelta(t, 40, ellipse.Height, 1e-4)
	assert.InDelta(t, 0, ellipse.Rotation, 1e-9)

	polygon := res.Elements[2].(*render.Polygon)
	assert.Equal(t, square, polygon.Points)

	// Words and polygons consume their strokes; the circle and the freehand
	// drawing keep theirs.
	assert.ElementsMatch(t, []state.StrokeID{strokes[0].ID, strokes[2].ID}, state.IDs(res.Strokes))
	assert.ElementsMatch(t, []state.StrokeID{strokes[1].ID, strokes[3].ID}, state.IDs(f.store.Strokes()))
	assert.Empty(t, f.engine.IDs(), "coverage is always cleared from the engine")
	assert.Len(t, f.layer.Elements(), 3)
}

func TestTransform_SelectionIsWorkingSet(t *testing.T) {
	f := newFixture()
	strokes := f.store.OnStrokesCollected(line(0, 0, 10, 10), line(50, 50, 60, 60))
	f.store.Select(strokes[1])

	_, err := f.run(t)
	require.NoError(t, err)
	assert.Equal(t, 1, f.engine.Clears)
	assert.Equal(t, []state.StrokeID{strokes[1].ID}, f.engine.IDs())
}

func TestTransform_UnknownDrawingKind(t *testing.T) {
	f := newFixture()
	strokes := f.store.OnStrokesCollected(line(0, 0, 40, 20), line(50, 50, 60, 60))
	root := analysis.NewRoot()
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkWord, Text: "a",
		Bounds: strokes[0].Bounds(), StrokeIDs: []state.StrokeID{strokes[0].ID},
	})
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkDrawing, DrawingKind: analysis.DrawingKind(77),
		Bounds: strokes[1].Bounds(), StrokeIDs: []state.StrokeID{strokes[1].ID},
	})
	f.engine.Updated(root)

	res, err := f.run(t)
	require.ErrorIs(t, err, ErrUnknownDrawingKind)
	assert.True(t, res.Empty())
	assert.Equal(t, 2, f.store.Len(), "nothing may change")
	assert.Empty(t, f.layer.Elements())
}

func TestTransform_EngineError(t *testing.T) {
	f := newFixture()
	f.store.OnStrokesCollected(line(0, 0, 10, 10))
	boom := errors.New("recognizer unreachable")
	f.engine.Err = boom

	res, err := f.run(t)
	require.ErrorIs(t, err, boom)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, f.store.Len())
	assert.False(t, f.p.Running())
}

func TestTransform_Busy(t *testing.T) {
	f := newFixture()
	f.engine.Manual = true
	f.store.OnStrokesCollected(line(0, 0, 10, 10))

	f.p.Transform(t.Context(), func(Result, error) {})
	require.True(t, f.p.Running())

	var err error
	f.p.Transform(t.Context(), func(_ Result, e error) { err = e })
	assert.ErrorIs(t, err, analysis.ErrBusy)

	require.True(t, f.engine.Complete())
	assert.False(t, f.p.Running())
}

func TestTransform_EllipseFallsBackToBounds(t *testing.T) {
	n := &analysis.Node{Bounds: geom.RectXYWH(0, 0, 40, 20)}
	left, top, right, bottom := extremes(n)
	assert.Equal(t, geom.Pt(0, 10), left)
	assert.Equal(t, geom.Pt(20, 0), top)
	assert.Equal(t, geom.Pt(40, 10), right)
	assert.Equal(t, geom.Pt(20, 20), bottom)
}
