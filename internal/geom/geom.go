// Package geom holds the canvas geometry shared by the ink packages.
package geom

import "math"

// Point is a position on the canvas.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// SegmentDistance returns the distance from p to the segment ab.
func (p Point) SegmentDistance(a, b Point) float64 {
	ab := b.Sub(a)
	l2 := float64(ab.X*ab.X + ab.Y*ab.Y)
	if l2 == 0 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	t := math.Max(0, math.Min(1, float64(ap.X*ab.X+ap.Y*ab.Y)/l2))
	return p.Distance(Point{X: a.X + float32(t)*ab.X, Y: a.Y + float32(t)*ab.Y})
}

// Translation is the transform applied to a stroke by move operations. It is
// kept in float64 so that sums and differences of float32 displacements stay
// exact and a move followed by its inverse restores the previous value.
type Translation struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// TranslationBetween returns the translation that maps from onto to.
func TranslationBetween(from, to Point) Translation {
	return Translation{
		DX: float64(to.X) - float64(from.X),
		DY: float64(to.Y) - float64(from.Y),
	}
}

func (t Translation) IsIdentity() bool { return t.DX == 0 && t.DY == 0 }

// Then composes t with u (t applied first).
func (t Translation) Then(u Translation) Translation {
	return Translation{DX: t.DX + u.DX, DY: t.DY + u.DY}
}

func (t Translation) Inverse() Translation { return Translation{DX: -t.DX, DY: -t.DY} }

func (t Translation) Apply(p Point) Point {
	return Point{X: float32(float64(p.X) + t.DX), Y: float32(float64(p.Y) + t.DY)}
}

// PolygonContains reports whether p lies inside the closed polygon using the
// even-odd rule. Polygons with fewer than three vertices contain nothing.
func PolygonContains(polygon []Point, p Point) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
