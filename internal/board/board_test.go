package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/analysis"
	"InkBoard/internal/analysis/analysistest"
	"InkBoard/internal/clipboard"
	"InkBoard/internal/geom"
	"InkBoard/internal/history"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
	"InkBoard/internal/transform"
)

func line(x0, y0, x1, y1 float32) state.Stroke {
	return state.NewStroke([]geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y1)}, "black", 2, time.Unix(0, 0))
}

type fixture struct {
	*Board
	engine  *analysistest.Engine
	typeset *analysistest.Engine
	clock   *analysistest.Clock
	layer   *render.Layer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		engine:  analysistest.NewEngine(),
		typeset: analysistest.NewEngine(),
		clock:   &analysistest.Clock{},
		layer:   render.NewLayer(),
	}
	f.Board = New(Options{
		Clipboard:     &clipboard.Memory{},
		Engine:        f.engine,
		TypesetEngine: f.typeset,
		Surface:       f.layer,
		Clock:         f.clock,
	})
	t.Cleanup(f.Close)
	return f
}

func (f *fixture) runTypeset(t *testing.T) (transform.Result, error) {
	t.Helper()
	var (
		res    transform.Result
		err    error
		called bool
	)
	f.Typeset(t.Context(), func(r transform.Result, e error) { res, err, called = r, e, true })
	require.True(t, called)
	return res, err
}

func TestBoard_TypesetEmptyCanvas(t *testing.T) {
	f := newFixture(t)

	res, err := f.runTypeset(t)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.False(t, f.CanUndo())
	assert.Empty(t, f.layer.Elements())
	assert.False(t, f.CanTypeset())
}

func TestBoard_TypesetUndoRedo(t *testing.T) {
	f := newFixture(t)
	strokes := f.Store.OnStrokesCollected(line(0, 0, 40, 20), line(50, 0, 90, 20))
	root := analysis.NewRoot()
	root.AddChild(&analysis.Node{
		Kind: analysis.KindInkWord, Text: "ink",
		Bounds: strokes[0].Bounds(), StrokeIDs: []state.StrokeID{strokes[0].ID},
	})
	f.typeset.Updated(root)
	require.True(t, f.CanTypeset())

	res, err := f.runTypeset(t)
	require.NoError(t, err)
	require.Len(t, res.Elements, 1)
	require.Equal(t, 2, f.History.UndoLen())
	assert.Equal(t, history.KindTransform, f.History.Peek().Kind)
	assert.Equal(t, 1, f.Store.Len())

	require.True(t, f.Undo())
	assert.Equal(t, 2, f.Store.Len())
	assert.Empty(t, f.layer.Elements())

	require.True(t, f.Redo())
	assert.Equal(t, 1, f.Store.Len())
	assert.True(t, f.layer.Contains(res.Elements[0]))
}

func TestBoard_TypesetUnchangedPushesNothing(t *testing.T) {
	f := newFixture(t)
	f.Store.OnStrokesCollected(line(0, 0, 10, 10))

	res, err := f.runTypeset(t)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, f.History.UndoLen())
}

func TestBoard_ClearAll(t *testing.T) {
	f := newFixture(t)
	f.Store.OnStrokesCollected(line(0, 0, 10, 10), line(20, 20, 30, 30))
	text := render.NewText("x", geom.RectXYWH(0, 0, 10, 10), render.DefaultStyle())
	f.layer.Add(text)
	f.Store.Select(f.Store.Strokes()[0])

	require.True(t, f.ClearAll())
	assert.Zero(t, f.Store.Len())
	assert.Empty(t, f.layer.Elements())
	assert.False(t, f.Selection.Overlay.Visible())
	assert.Equal(t, history.KindClearAll, f.History.Peek().Kind)
	assert.Equal(t, 1, f.engine.Clears)

	require.True(t, f.Undo())
	assert.Equal(t, 2, f.Store.Len())
	assert.True(t, f.layer.Contains(text))
	assert.Len(t, f.engine.IDs(), 2, "restored strokes are mirrored into the engine")

	require.True(t, f.Redo())
	assert.Zero(t, f.Store.Len())
	assert.Empty(t, f.layer.Elements())

	require.True(t, f.Undo()) // ClearAll
	require.True(t, f.Undo()) // collect
	require.Zero(t, f.Store.Len())
	f.layer.Clear()
	assert.False(t, f.ClearAll(), "already empty")
}

func TestBoard_EraseScenario(t *testing.T) {
	f := newFixture(t)
	f.Store.OnStrokesCollected(line(0, 0, 10, 10))
	b := f.Store.OnStrokesCollected(line(20, 20, 30, 30))[0]
	f.Store.Select(b)
	undoBefore := f.History.UndoLen()

	f.Store.OnStrokesErased(b)

	assert.Empty(t, f.Store.Selected())
	assert.False(t, f.Selection.Overlay.Visible())
	require.Equal(t, 1, f.Store.Len())
	require.Equal(t, undoBefore+1, f.History.UndoLen())

	require.True(t, f.Undo())
	require.Equal(t, 2, f.Store.Len())
	var restored state.Stroke
	for _, s := range f.Store.Strokes() {
		if s.Handle.Slot == b.Handle.Slot {
			restored = s
		}
	}
	assert.True(t, state.SameGeometry(b, restored))
}

func TestBoard_AnalysisAfterQuietPeriod(t *testing.T) {
	f := newFixture(t)
	f.Store.OnStrokesCollected(line(0, 0, 10, 10))
	f.Store.OnStrokesCollected(line(20, 20, 30, 30))

	f.clock.Advance(analysis.DefaultInterval)
	assert.Equal(t, 1, f.engine.Analyzes)
	assert.Zero(t, f.typeset.Analyzes)
}

func TestBoard_ClickWithoutInkKeepsAnalysisScheduled(t *testing.T) {
	f := newFixture(t)
	f.Store.StrokeStarted()
	f.Store.OnStrokesCollected(line(0, 0, 10, 10))
	f.clock.Advance(100 * time.Millisecond)

	f.Store.StrokeStarted()
	f.Store.StrokeCancelled()
	f.clock.Advance(10 * time.Second)

	assert.Equal(t, 1, f.engine.Analyzes)
	assert.Equal(t, 1, f.Scheduler.Passes())
	assert.False(t, f.Scheduler.Pending())
}

func TestBoard_CopyPaste(t *testing.T) {
	f := newFixture(t)
	f.Store.Select(f.Store.OnStrokesCollected(line(0, 0, 10, 10))...)

	_, err := f.Copy()
	require.NoError(t, err)
	rect := f.Paste(geom.Pt(100, 100))
	assert.Equal(t, geom.RectXYWH(100, 100, 10, 10), rect)
	assert.Equal(t, 2, f.Store.Len())

	require.True(t, f.Undo())
	assert.Equal(t, 1, f.Store.Len())
}

func TestBoard_ChangesNotify(t *testing.T) {
	f := newFixture(t)
	n := 0
	f.Changes().Subscribe(func(struct{}) { n++ })

	f.Store.OnStrokesCollected(line(0, 0, 1, 1))
	assert.Positive(t, n)
}

func TestDevices_PenDisablesTouch(t *testing.T) {
	d := NewDevices(true, true, true)
	var changes []DeviceChange
	d.Changes().Subscribe(func(c DeviceChange) { changes = append(changes, c) })

	require.NoError(t, d.PointerEntered(DeviceMouse))
	on, err := d.Enabled(DeviceTouch)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, d.PointerEntered(DevicePen))
	on, _ = d.Enabled(DeviceTouch)
	assert.False(t, on)
	assert.Equal(t, []DeviceChange{{Kind: DeviceTouch, Enabled: false}}, changes)

	require.NoError(t, d.PointerEntered(DevicePen))
	assert.Len(t, changes, 1)
}

func TestDevices_Unknown(t *testing.T) {
	d := NewDevices(true, false, false)
	assert.ErrorIs(t, d.PointerEntered(DeviceKind(9)), ErrUnknownDevice)
	assert.ErrorIs(t, d.Set(DeviceKind(-1), true), ErrUnknownDevice)
	_, err := d.Enabled(DeviceKind(3))
	assert.ErrorIs(t, err, ErrUnknownDevice)

	_, err = ParseDeviceKind("trackball")
	assert.ErrorIs(t, err, ErrUnknownDevice)
	k, err := ParseDeviceKind(" Pen ")
	require.NoError(t, err)
	assert.Equal(t, DevicePen, k)
}
