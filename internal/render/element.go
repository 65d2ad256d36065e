// Package render defines the typeset elements produced from recognized ink
// and the surface they are drawn on.
package render

import (
	"math"

	"github.com/google/uuid"

	"InkBoard/internal/geom"
)

// Element is an opaque drawable handle. The ink core creates elements and
// hands them to a Surface; it never inspects them afterwards.
type Element interface {
	ElementID() string
	Bounds() geom.Rect
}

// Style is threaded through element construction instead of living in a
// process-wide instance.
type Style struct {
	TextColor      string
	ShapeColor     string
	ShapeThickness float32
}

// DefaultStyle matches the colors of the original typeset output.
func DefaultStyle() Style {
	return Style{TextColor: "black", ShapeColor: "dimgray", ShapeThickness: 2}
}

// Text is a recognized word.
type Text struct {
	ID       string
	Text     string
	Origin   geom.Point // top-left
	Size     geom.Point // width and height of the recognized area
	FontSize float32
	Color    string
}

// NewText places text over rect with a font as tall as the rect.
func NewText(text string, rect geom.Rect, style Style) *Text {
	return &Text{
		ID:       uuid.NewString(),
		Text:     text,
		Origin:   rect.Min,
		Size:     geom.Pt(rect.Width(), rect.Height()),
		FontSize: rect.Height(),
		Color:    style.TextColor,
	}
}

func (t *Text) ElementID() string { return t.ID }
func (t *Text) Bounds() geom.Rect {
	return geom.RectXYWH(t.Origin.X, t.Origin.Y, t.Size.X, t.Size.Y)
}

// Ellipse is a recognized circle or ellipse.
type Ellipse struct {
	ID        string
	Center    geom.Point
	Width     float32
	Height    float32
	Rotation  float64 // degrees, clockwise from the x axis
	Color     string
	Thickness float32
}

// NewEllipse builds the ellipse whose axes run from left to right and from
// top to bottom, centered on center.
func NewEllipse(center, left, top, right, bottom geom.Point, style Style) *Ellipse {
	angle := math.Atan2(float64(right.Y-left.Y), float64(right.X-left.X))
	return &Ellipse{
		ID:        uuid.NewString(),
		Center:    center,
		Width:     float32(left.Distance(right)),
		Height:    float32(top.Distance(bottom)),
		Rotation:  angle * 180 / math.Pi,
		Color:     style.ShapeColor,
		Thickness: style.ShapeThickness,
	}
}

func (e *Ellipse) ElementID() string { return e.ID }
func (e *Ellipse) Bounds() geom.Rect { return geom.BoundsOf(e.Outline(64)) }

// Outline approximates the rotated ellipse with n points.
func (e *Ellipse) Outline(n int) []geom.Point {
	if n < 3 {
		n = 3
	}
	rx := float64(e.Width) / 2
	ry := float64(e.Height) / 2
	rot := e.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rot)
	out := make([]geom.Point, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := rx * math.Cos(a)
		y := ry * math.Sin(a)
		out[i] = geom.Pt(
			e.Center.X+float32(x*cos-y*sin),
			e.Center.Y+float32(x*sin+y*cos),
		)
	}
	return out
}

// Polygon is a recognized closed polygonal shape.
type Polygon struct {
	ID        string
	Points    []geom.Point
	Color     string
	Thickness float32
}

// NewPolygon copies points into a closed polygon.
func NewPolygon(points []geom.Point, style Style) *Polygon {
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	return &Polygon{
		ID:        uuid.NewString(),
		Points:    pts,
		Color:     style.ShapeColor,
		Thickness: style.ShapeThickness,
	}
}

func (p *Polygon) ElementID() string { return p.ID }
func (p *Polygon) Bounds() geom.Rect { return geom.BoundsOf(p.Points) }
