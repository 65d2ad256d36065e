package recognizer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InkBoard/internal/analysis"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

func stroke(id state.StrokeID, pts []geom.Point) state.Stroke {
	s := state.NewStroke(pts, "black", 2, time.Unix(0, 0))
	s.ID = id
	return s
}

// polyline samples the path through corners every step units.
func polyline(step float32, corners ...geom.Point) []geom.Point {
	var out []geom.Point
	for i := 0; i+1 < len(corners); i++ {
		a, b := corners[i], corners[i+1]
		n := int(math.Ceil(a.Distance(b) / float64(step)))
		for k := 0; k < n; k++ {
			t := float32(k) / float32(n)
			out = append(out, geom.Pt(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y)))
		}
	}
	return append(out, corners[len(corners)-1])
}

// oval samples a closed ellipse starting at its right extreme.
func oval(c geom.Point, rx, ry float32, n int) []geom.Point {
	out := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i%n) / float64(n)
		out = append(out, geom.Pt(c.X+rx*float32(math.Cos(a)), c.Y+ry*float32(math.Sin(a))))
	}
	return out
}

// zigzag is an open scribble standing in for a handwritten word.
func zigzag(x, y float32) []geom.Point {
	return []geom.Point{
		geom.Pt(x, y+10), geom.Pt(x+5, y), geom.Pt(x+10, y+10), geom.Pt(x+15, y), geom.Pt(x+20, y+10),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Point
		want analysis.DrawingKind
	}{
		{"square", polyline(10, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100), geom.Pt(0, 0)), analysis.DrawingKindSquare},
		{"rectangle", polyline(10, geom.Pt(0, 0), geom.Pt(200, 0), geom.Pt(200, 80), geom.Pt(0, 80), geom.Pt(0, 0)), analysis.DrawingKindRectangle},
		{"right triangle", polyline(10, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(0, 100), geom.Pt(0, 0)), analysis.DrawingKindRightTriangle},
		{"circle", oval(geom.Pt(100, 100), 50, 50, 64), analysis.DrawingKindCircle},
		{"ellipse", oval(geom.Pt(100, 100), 50, 35, 64), analysis.DrawingKindEllipse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, ok := classify(tt.pts)
			require.True(t, ok)
			assert.Equal(t, tt.want, sh.kind)
		})
	}
}

func TestClassify_Rejects(t *testing.T) {
	t.Run("open stroke", func(t *testing.T) {
		_, ok := classify(polyline(10, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100)))
		assert.False(t, ok)
	})
	t.Run("too few points", func(t *testing.T) {
		_, ok := classify(zigzag(0, 0))
		assert.False(t, ok)
	})
	t.Run("too small", func(t *testing.T) {
		_, ok := classify(oval(geom.Pt(5, 5), 4, 4, 32))
		assert.False(t, ok)
	})
}

func TestClassify_EllipseExtremes(t *testing.T) {
	sh, ok := classify(oval(geom.Pt(100, 100), 50, 50, 64))
	require.True(t, ok)
	assert.Equal(t, []geom.Point{geom.Pt(50, 100), geom.Pt(100, 50), geom.Pt(150, 100), geom.Pt(100, 150)}, sh.points)
	assert.Equal(t, geom.Pt(100, 100), sh.center)
}

func TestRecognize_Shapes(t *testing.T) {
	strokes := []state.Stroke{
		stroke(1, polyline(10, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100), geom.Pt(0, 0))),
		stroke(2, oval(geom.Pt(400, 400), 50, 50, 64)),
	}

	root := Recognize(strokes, DefaultOptions())

	drawings := root.Find(analysis.KindInkDrawing)
	require.Len(t, drawings, 2)
	assert.Equal(t, analysis.DrawingKindSquare, drawings[0].DrawingKind)
	assert.Equal(t, []state.StrokeID{1}, drawings[0].StrokeIDs)
	assert.Len(t, drawings[0].Points, 4)
	assert.Equal(t, analysis.DrawingKindCircle, drawings[1].DrawingKind)
	assert.Empty(t, root.Find(analysis.KindWritingRegion))
	assert.Equal(t, geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(450, 450)}, root.Bounds)
}

func TestRecognize_Writing(t *testing.T) {
	strokes := []state.Stroke{
		stroke(1, []geom.Point{geom.Pt(0, 17), geom.Pt(2, 13), geom.Pt(4, 17)}), // bullet
		stroke(2, zigzag(20, 10)),
		stroke(3, zigzag(60, 10)),
		stroke(4, zigzag(20, 60)),
		stroke(5, zigzag(42, 60)), // close enough to join stroke 4
	}

	root := Recognize(strokes, DefaultOptions())

	require.Len(t, root.Children, 1)
	region := root.Children[0]
	assert.Equal(t, analysis.KindWritingRegion, region.Kind)
	require.Len(t, region.Children, 2)

	list := region.Children[0]
	assert.True(t, list.IsListParagraph())
	bullets := list.Find(analysis.KindInkBullet)
	require.Len(t, bullets, 1)
	assert.Equal(t, []state.StrokeID{1}, bullets[0].StrokeIDs)
	words := list.Find(analysis.KindInkWord)
	require.Len(t, words, 2)
	assert.Equal(t, []state.StrokeID{2}, words[0].StrokeIDs)
	assert.Equal(t, []state.StrokeID{3}, words[1].StrokeIDs)
	assert.Equal(t, "ink", words[0].Text)
	assert.ElementsMatch(t, []state.StrokeID{1, 2, 3}, list.CoveredStrokes())

	plain := region.Children[1]
	assert.False(t, plain.IsListParagraph())
	words = plain.Find(analysis.KindInkWord)
	require.Len(t, words, 1)
	assert.ElementsMatch(t, []state.StrokeID{4, 5}, words[0].StrokeIDs)
	assert.Same(t, region, plain.Parent)
}

func TestRecognize_Empty(t *testing.T) {
	root := Recognize(nil, DefaultOptions())
	assert.Equal(t, analysis.KindRoot, root.Kind)
	assert.Empty(t, root.Children)
}
