package geom

import "math"

// Rect is an axis-aligned rectangle. The zero-area rectangle around a single
// point is valid; use EmptyRect for "no area at all".
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

var inf = float32(math.Inf(1))

// EmptyRect is the identity of Union and contains nothing.
var EmptyRect = Rect{Min: Point{X: inf, Y: inf}, Max: Point{X: -inf, Y: -inf}}

// RectXYWH builds a rectangle from its origin and size.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// BoundsOf returns the bounding rectangle of points, or EmptyRect.
func BoundsOf(points []Point) Rect {
	r := EmptyRect
	for _, p := range points {
		r = r.Extend(p)
	}
	return r
}

func (r Rect) IsEmpty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

func (r Rect) X() float32      { return r.Min.X }
func (r Rect) Y() float32      { return r.Min.Y }
func (r Rect) Width() float32  { return r.size(r.Max.X - r.Min.X) }
func (r Rect) Height() float32 { return r.size(r.Max.Y - r.Min.Y) }

func (r Rect) size(v float32) float32 {
	if r.IsEmpty() {
		return 0
	}
	return v
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{X: min(r.Min.X, p.X), Y: min(r.Min.Y, p.Y)},
		Max: Point{X: max(r.Max.X, p.X), Y: max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return !r.IsEmpty() &&
		p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Overlaps reports whether r and o share any point.
func (r Rect) Overlaps(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return !(r.Max.X < o.Min.X || o.Max.X < r.Min.X ||
		r.Max.Y < o.Min.Y || o.Max.Y < r.Min.Y)
}

// Translate moves r by t. The empty rectangle stays empty.
func (r Rect) Translate(t Translation) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{Min: t.Apply(r.Min), Max: t.Apply(r.Max)}
}

// Inset shrinks r by d on every side (negative d grows it).
func (r Rect) Inset(d float32) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{
		Min: Point{X: r.Min.X + d, Y: r.Min.Y + d},
		Max: Point{X: r.Max.X - d, Y: r.Max.Y - d},
	}
}
