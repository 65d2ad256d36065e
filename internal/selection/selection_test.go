package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
	"InkBoard/internal/history"
	"InkBoard/internal/state"
)

func line(x0, y0, x1, y1 float32) state.Stroke {
	return state.NewStroke([]geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y1)}, "black", 2, time.Unix(0, 0))
}

// treeFinder hit-tests a fixed tree the way the scheduler does.
type treeFinder struct {
	root *analysis.Node
}

func (f treeFinder) FindNode(p geom.Point) *analysis.Node {
	for _, kind := range []analysis.Kind{analysis.KindInkWord, analysis.KindInkBullet, analysis.KindInkDrawing} {
		for _, n := range f.root.Find(kind) {
			if n.Bounds.Contains(p) {
				return n
			}
		}
	}
	return nil
}

type fixture struct {
	store *state.Store
	hist  *history.Stack
	m     *Manager
}

func newFixture(t *testing.T, finder NodeFinder) *fixture {
	t.Helper()
	if finder == nil {
		finder = treeFinder{root: analysis.NewRoot()}
	}
	store := state.NewStore(nil)
	hist := history.New(store)
	m := NewManager(store, hist, finder)
	t.Cleanup(func() {
		m.Close()
		hist.Close()
	})
	return &fixture{store: store, hist: hist, m: m}
}

// =============================================================================
// Lasso
// =============================================================================

func TestLasso_EnclosesTwoStrokes(t *testing.T) {
	f := newFixture(t, nil)
	a := f.store.OnStrokesCollected(line(10, 10, 20, 20))[0]
	b := f.store.OnStrokesCollected(line(30, 30, 40, 35))[0]
	far := f.store.OnStrokesCollected(line(100, 100, 120, 120))[0]
	f.m.SetLassoEnabled(true)

	require.True(t, f.m.Lasso.PointerPressed(geom.Pt(0, 0)))
	assert.Equal(t, LassoDrawing, f.m.Lasso.State())
	f.m.Lasso.PointerMoved(geom.Pt(60, 0))
	f.m.Lasso.PointerMoved(geom.Pt(60, 60))
	rect := f.m.Lasso.PointerReleased(geom.Pt(0, 60))

	assert.Equal(t, LassoIdle, f.m.Lasso.State())
	assert.Equal(t, a.Bounds().Union(b.Bounds()), rect)
	assert.Equal(t, rect, f.m.Overlay.Rect())

	selected := state.IDs(f.store.Selected())
	assert.ElementsMatch(t, []state.StrokeID{a.ID, b.ID}, selected)
	assert.NotContains(t, selected, far.ID)
}

func TestLasso_Disabled(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.m.Lasso.PointerPressed(geom.Pt(0, 0)))
	assert.True(t, f.m.Lasso.PointerReleased(geom.Pt(1, 1)).IsEmpty())

	f.m.SetLassoEnabled(true)
	require.True(t, f.m.Lasso.PointerPressed(geom.Pt(0, 0)))
	f.m.SetLassoEnabled(false)
	assert.Equal(t, LassoIdle, f.m.Lasso.State())
}

func TestLasso_PressInsideOverlayIsADrag(t *testing.T) {
	f := newFixture(t, nil)
	s := f.store.OnStrokesCollected(line(10, 10, 20, 20))[0]
	f.store.Select(s)
	f.m.SetLassoEnabled(true)

	assert.False(t, f.m.Lasso.PointerPressed(geom.Pt(15, 15)))
	assert.True(t, f.m.Lasso.PointerPressed(geom.Pt(50, 50)))
}

func TestLasso_StrokeStartedAborts(t *testing.T) {
	f := newFixture(t, nil)
	s := f.store.OnStrokesCollected(line(10, 10, 20, 20))[0]
	f.store.Select(s)
	f.m.SetLassoEnabled(true)
	require.True(t, f.m.Lasso.PointerPressed(geom.Pt(50, 50)))

	f.store.StrokeStarted()
	assert.Equal(t, LassoIdle, f.m.Lasso.State())
	assert.Empty(t, f.store.Selected())
	assert.False(t, f.m.Overlay.Visible())
}

// =============================================================================
// Overlay
// =============================================================================

func TestOverlay_DragCommitsOneMove(t *testing.T) {
	f := newFixture(t, nil)
	s := f.store.OnStrokesCollected(line(10, 10, 20, 20))[0]
	f.store.Select(s)
	var moves int
	f.store.Events().Subscribe(func(ev state.Event) {
		if _, ok := ev.(state.MoveStrokes); ok {
			moves++
		}
	})

	require.True(t, f.m.Overlay.BeginDrag(geom.Pt(15, 15)))
	f.m.Overlay.DragTo(geom.Pt(20, 15))
	f.m.Overlay.DragTo(geom.Pt(25, 25))
	assert.Zero(t, moves, "dragging previews only")
	assert.Equal(t, geom.RectXYWH(20, 20, 10, 10), f.m.Overlay.Rect())

	f.m.Overlay.EndDrag(geom.Pt(25, 25))
	assert.Equal(t, 1, moves)
	assert.Equal(t, geom.RectXYWH(20, 20, 10, 10), f.store.Selected()[0].Bounds())
	assert.Equal(t, geom.RectXYWH(20, 20, 10, 10), f.m.Overlay.Rect())
	assert.Equal(t, 2, f.hist.UndoLen())
}

func TestOverlay_BeginDragOutside(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.m.Overlay.BeginDrag(geom.Pt(0, 0)), "hidden overlay")

	f.store.Select(f.store.OnStrokesCollected(line(10, 10, 20, 20))...)
	assert.False(t, f.m.Overlay.BeginDrag(geom.Pt(50, 50)))
}

// =============================================================================
// Node taps
// =============================================================================

func tree(words []state.Stroke, bullet state.Stroke) (*analysis.Node, *analysis.Node, *analysis.Node) {
	root := analysis.NewRoot()
	para := root.AddChild(&analysis.Node{Kind: analysis.KindParagraph, Bounds: geom.RectXYWH(0, 0, 200, 50)})
	item := para.AddChild(&analysis.Node{Kind: analysis.KindListItem, Bounds: geom.RectXYWH(0, 0, 200, 50)})
	item.AddChild(&analysis.Node{
		Kind:      analysis.KindInkBullet,
		Bounds:    bullet.Bounds(),
		StrokeIDs: []state.StrokeID{bullet.ID},
	})
	ln := item.AddChild(&analysis.Node{
		Kind:      analysis.KindLine,
		Bounds:    geom.RectXYWH(0, 0, 200, 50),
		StrokeIDs: []state.StrokeID{bullet.ID},
	})
	word := ln.AddChild(&analysis.Node{
		Kind:      analysis.KindInkWord,
		Bounds:    state.UnionBounds(words),
		StrokeIDs: state.IDs(words),
	})
	return root, para, word
}

func TestNodeTap_TapAndExpand(t *testing.T) {
	store := state.NewStore(nil)
	bullet := store.OnStrokesCollected(line(0, 10, 4, 14))[0]
	words := store.OnStrokesCollected(line(20, 10, 40, 30), line(45, 10, 60, 30))
	root, para, word := tree(words, bullet)
	m := NewManager(store, nil, treeFinder{root: root})
	defer m.Close()

	rect := m.Tap.Tapped(geom.Pt(30, 20))
	assert.Same(t, word, m.Tap.Selected())
	assert.Equal(t, state.UnionBounds(words), rect)
	assert.Len(t, store.Selected(), 2)

	assert.False(t, m.Tap.DoubleTapped(geom.Pt(150, 40)), "outside the selected node")
	assert.Same(t, word, m.Tap.Selected())

	require.True(t, m.Tap.DoubleTapped(geom.Pt(30, 20)))
	require.Equal(t, analysis.KindLine, m.Tap.Selected().Kind)
	assert.Len(t, store.Selected(), 3)

	m.Tap.Expand() // list item
	m.Tap.Expand() // paragraph
	assert.Same(t, para, m.Tap.Selected())
	assert.Len(t, store.Selected(), 3)

	m.Tap.Expand() // root
	m.Tap.Expand() // past the root
	assert.Nil(t, m.Tap.Selected())
	assert.Empty(t, store.Selected())
	assert.False(t, m.Overlay.Visible())
}

func TestNodeTap_TapOutsideClears(t *testing.T) {
	store := state.NewStore(nil)
	bullet := store.OnStrokesCollected(line(0, 10, 4, 14))[0]
	words := store.OnStrokesCollected(line(20, 10, 40, 30))
	root, _, _ := tree(words, bullet)
	m := NewManager(store, nil, treeFinder{root: root})
	defer m.Close()

	m.Tap.Tapped(geom.Pt(2, 12))
	require.Equal(t, analysis.KindInkBullet, m.Tap.Selected().Kind)

	assert.True(t, m.Tap.Tapped(geom.Pt(500, 500)).IsEmpty())
	assert.Nil(t, m.Tap.Selected())
	assert.Empty(t, store.Selected())
}

func TestNodeTap_StaleNodeIsNotKept(t *testing.T) {
	store := state.NewStore(nil)
	bullet := store.OnStrokesCollected(line(0, 10, 4, 14))[0]
	words := store.OnStrokesCollected(line(20, 10, 40, 30))
	root, _, _ := tree(words, bullet)
	m := NewManager(store, nil, treeFinder{root: root})
	defer m.Close()

	store.Select(words...)
	store.Move(geom.Pt(0, 0), geom.Pt(0, 1))
	store.Move(geom.Pt(0, 1), geom.Pt(0, 0))

	assert.True(t, m.Tap.Tapped(geom.Pt(30, 20)).IsEmpty())
	assert.Nil(t, m.Tap.Selected())
	assert.False(t, m.Overlay.Visible())
	assert.False(t, m.Tap.DoubleTapped(geom.Pt(30, 20)))
	assert.Empty(t, store.Selected())
}

// =============================================================================
// Manager
// =============================================================================

func TestManager_EraseSelectedClears(t *testing.T) {
	f := newFixture(t, nil)
	strokes := f.store.OnStrokesCollected(line(0, 0, 10, 10), line(20, 20, 30, 30))
	f.store.Select(strokes...)
	require.True(t, f.m.Overlay.Visible())

	f.store.OnStrokesErased(strokes[0])
	assert.Empty(t, f.store.Selected())
	assert.False(t, f.m.Overlay.Visible())
}

func TestManager_EraseUnselectedKeepsSelection(t *testing.T) {
	f := newFixture(t, nil)
	strokes := f.store.OnStrokesCollected(line(0, 0, 10, 10), line(20, 20, 30, 30))
	f.store.Select(strokes[1])

	f.store.OnStrokesErased(strokes[0])
	assert.Len(t, f.store.Selected(), 1)
	assert.True(t, f.m.Overlay.Visible())
}

func TestManager_UndoClearsSelection(t *testing.T) {
	f := newFixture(t, nil)
	strokes := f.store.OnStrokesCollected(line(0, 0, 10, 10))
	f.store.OnStrokesCollected(line(20, 20, 30, 30))
	f.store.Select(strokes...)

	require.True(t, f.hist.Undo())
	assert.Empty(t, f.store.Selected())
	assert.False(t, f.m.Overlay.Visible())
}

func TestManager_CloseDetaches(t *testing.T) {
	f := newFixture(t, nil)
	f.m.Close()
	f.store.Select(f.store.OnStrokesCollected(line(0, 0, 10, 10))...)
	assert.False(t, f.m.Overlay.Visible())
}
