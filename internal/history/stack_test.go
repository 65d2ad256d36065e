package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

func line(x0, y0, x1, y1 float32) state.Stroke {
	return state.NewStroke([]geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y1)}, "black", 2, time.Unix(0, 0))
}

func setup(t *testing.T) (*state.Store, *Stack) {
	t.Helper()
	st := state.NewStore(nil)
	h := New(st)
	t.Cleanup(h.Close)
	return st, h
}

func recordHistory(h *Stack) *[]EventKind {
	var got []EventKind
	h.Events().Subscribe(func(ev Event) { got = append(got, ev.Kind) })
	return &got
}

func TestStack_CollectUndoRedo(t *testing.T) {
	st, h := setup(t)
	events := recordHistory(h)

	collected := st.OnStrokesCollected(line(0, 0, 10, 10))
	require.Equal(t, 1, h.UndoLen())

	require.True(t, h.Undo())
	assert.Zero(t, st.Len())
	assert.True(t, h.CanRedo())

	require.True(t, h.Redo())
	require.Equal(t, 1, st.Len())
	assert.True(t, state.SameGeometry(collected[0], st.Strokes()[0]))
	assert.Equal(t, []EventKind{AddOperation, ExecuteUndo, ExecuteRedo}, *events)
}

func TestStack_EmptyStacks(t *testing.T) {
	_, h := setup(t)
	events := recordHistory(h)

	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Nil(t, h.Peek())
	assert.Empty(t, *events)
}

func TestStack_AddDiscardsRedo(t *testing.T) {
	st, h := setup(t)
	st.OnStrokesCollected(line(0, 0, 1, 1))
	st.OnStrokesCollected(line(2, 2, 3, 3))
	require.True(t, h.Undo())
	require.Equal(t, 1, h.RedoLen())

	st.OnStrokesCollected(line(4, 4, 5, 5))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.UndoLen())
}

func TestStack_EraseScenario(t *testing.T) {
	st, h := setup(t)
	a := st.OnStrokesCollected(line(0, 0, 10, 10))[0]
	st.OnStrokesErased(a)
	require.Zero(t, st.Len())
	require.Equal(t, 2, h.UndoLen())

	// undo erase, undo collect, redo collect, redo erase
	require.True(t, h.Undo())
	require.Equal(t, 1, st.Len())
	restored := st.Strokes()[0]
	assert.NotEqual(t, a.ID, restored.ID)
	assert.True(t, state.SameGeometry(a, restored))

	require.True(t, h.Undo())
	assert.Zero(t, st.Len())

	require.True(t, h.Redo())
	assert.Equal(t, 1, st.Len())

	require.True(t, h.Redo())
	assert.Zero(t, st.Len(), "redo must erase the re-added clone")
}

func TestStack_RebindWhenSlotTaken(t *testing.T) {
	st, h := setup(t)
	a := st.OnStrokesCollected(line(0, 0, 10, 10))[0]
	st.OnStrokesErased(a)

	// Something else puts a version of a back in its slot first.
	squatter := st.Add(a)[0]
	require.Equal(t, a.Handle.Slot, squatter.Handle.Slot)

	require.True(t, h.Undo())
	require.Equal(t, 2, st.Len())

	require.True(t, h.Redo())
	remaining := st.Strokes()
	require.Len(t, remaining, 1)
	assert.Equal(t, squatter.ID, remaining[0].ID, "redo must target the clone made by undo")
}

func TestStack_MoveIsRecordedOnce(t *testing.T) {
	st, h := setup(t)
	s := st.OnStrokesCollected(line(0, 0, 10, 10))[0]
	st.Select(s)
	st.Move(geom.Pt(0, 0), geom.Pt(20, 5))
	require.Equal(t, 2, h.UndoLen())
	assert.Equal(t, KindMove, h.Peek().Kind)

	require.True(t, h.Undo())
	assert.Equal(t, 1, h.UndoLen(), "replayed move must not be recorded")
	assert.Equal(t, s.Bounds(), st.Strokes()[0].Bounds())

	require.True(t, h.Redo())
	assert.Equal(t, 2, h.UndoLen())
	assert.Equal(t, 0, h.RedoLen())
	assert.Equal(t, geom.RectXYWH(20, 5, 10, 10), st.Strokes()[0].Bounds())
}

func TestStack_MoveAfterEraseUndo(t *testing.T) {
	st, h := setup(t)
	s := st.OnStrokesCollected(line(0, 0, 10, 10))[0]
	st.Select(s)
	st.Move(geom.Pt(0, 0), geom.Pt(5, 5))
	st.OnStrokesErased(st.Strokes()...)

	require.True(t, h.Undo()) // erase
	require.True(t, h.Undo()) // move
	require.Equal(t, 1, st.Len())
	assert.Equal(t, s.Bounds(), st.Strokes()[0].Bounds())
}

func TestStack_CutPaste(t *testing.T) {
	st := state.NewStore(&memClip{})
	h := New(st)
	defer h.Close()

	s := st.OnStrokesCollected(line(0, 0, 10, 10))[0]
	st.Select(s)
	_, err := st.Cut()
	require.NoError(t, err)
	require.Equal(t, KindRemove, h.Peek().Kind)

	st.Paste(geom.Pt(50, 50))
	require.Equal(t, KindAdd, h.Peek().Kind)
	require.Equal(t, 3, h.UndoLen())

	require.True(t, h.Undo())
	assert.Zero(t, st.Len())
	require.True(t, h.Undo())
	assert.Equal(t, 1, st.Len())
}

func TestStack_ClearAllOp(t *testing.T) {
	st, h := setup(t)
	layer := render.NewLayer()
	text := render.NewText("hi", geom.RectXYWH(0, 0, 20, 10), render.DefaultStyle())
	layer.Add(text)
	strokes := st.Add(line(0, 0, 1, 1), line(2, 2, 3, 3))

	st.Remove(strokes...)
	layer.Clear()
	h.Add(ClearAllOp(strokes, layer, []render.Element{text}))

	require.True(t, h.Undo())
	assert.Equal(t, 2, st.Len())
	assert.True(t, layer.Contains(text))

	require.True(t, h.Redo())
	assert.Zero(t, st.Len())
	assert.Empty(t, layer.Elements())
}

func TestStack_TransformOp(t *testing.T) {
	st, h := setup(t)
	layer := render.NewLayer()
	strokes := st.Add(line(0, 0, 10, 10))
	text := render.NewText("a", strokes[0].Bounds(), render.DefaultStyle())

	st.Remove(strokes...)
	layer.Add(text)
	h.Add(TransformOp(strokes, layer, []render.Element{text}))

	require.True(t, h.Undo())
	assert.Equal(t, 1, st.Len())
	assert.False(t, layer.Contains(text))

	require.True(t, h.Redo())
	assert.Zero(t, st.Len())
	assert.True(t, layer.Contains(text))
}

func TestStack_CloseStopsRecording(t *testing.T) {
	st, h := setup(t)
	h.Close()
	st.OnStrokesCollected(line(0, 0, 1, 1))
	assert.False(t, h.CanUndo())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "transform", KindTransform.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

type memClip struct{ text string }

func (c *memClip) ReadAll() (string, error) { return c.text, nil }
func (c *memClip) WriteAll(s string) error  { c.text = s; return nil }
